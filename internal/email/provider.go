package email

// Message is a single outbound email.
type Message struct {
	To       string
	Subject  string
	Body     string
	HTMLBody string
}

// Provider defines the interface for sending email
type Provider interface {
	// Send delivers a message
	Send(msg *Message) error

	// SendPasswordReset delivers the reset-password message for the
	// given plaintext token
	SendPasswordReset(to, resetURL string) error
}
