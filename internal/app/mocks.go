package app

import (
	"context"
	"sync"

	"bootcamp_backend/internal/email"
	"bootcamp_backend/internal/geocoder"
)

// MockEmailProvider records outbound messages instead of delivering
// them. Used by the integration tests.
type MockEmailProvider struct {
	mu       sync.Mutex
	Messages []email.Message
}

func (m *MockEmailProvider) Send(msg *email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, *msg)
	return nil
}

func (m *MockEmailProvider) SendPasswordReset(to, resetURL string) error {
	return m.Send(&email.Message{
		To:      to,
		Subject: "Password reset token",
		Body:    resetURL,
	})
}

// LastMessage returns the most recently recorded message, if any.
func (m *MockEmailProvider) LastMessage() (email.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Messages) == 0 {
		return email.Message{}, false
	}
	return m.Messages[len(m.Messages)-1], true
}

// MockGeocoder resolves every address to a fixed location so tests
// never reach a real provider.
type MockGeocoder struct {
	Location geocoder.Location
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (*geocoder.Location, error) {
	loc := m.Location
	if loc.Latitude == 0 && loc.Longitude == 0 {
		loc = geocoder.Location{
			Latitude:         42.3601,
			Longitude:        -71.0589,
			FormattedAddress: address,
			City:             "Boston",
			State:            "MA",
			Zipcode:          "02118",
			Country:          "US",
		}
	}
	return &loc, nil
}
