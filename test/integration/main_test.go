package integration_test

import (
	"os"
	"sync"
	"testing"

	"bootcamp_backend/test/helpers"
)

var (
	globalTestServer *helpers.TestServer
	serverOnce       sync.Once
)

// GetTestServer returns the shared test server, building it on first use.
func GetTestServer(t *testing.T) *helpers.TestServer {
	serverOnce.Do(func() {
		dir, err := os.MkdirTemp("", "bootcamp-uploads-*")
		if err != nil {
			t.Fatalf("failed to create upload dir: %v", err)
		}
		globalTestServer = helpers.NewTestServer(t, dir)
	})
	return globalTestServer
}

func TestMain(m *testing.M) {
	code := m.Run()
	if globalTestServer != nil {
		globalTestServer.Close()
	}
	os.Exit(code)
}
