package main

import "bootcamp_backend/internal/app"

func main() {
	app.Run()
}
