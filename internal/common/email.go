package common

// EmailSender delivers transactional mail; the order-confirmation notifier
// is currently its only producer.
type EmailSender interface {
	Send(to, subject, html string) error
}

// InMemoryEmail records messages instead of sending them, for tests.
type InMemoryEmail struct {
	Outbox []Email
}

// Email represents a single email message captured by InMemoryEmail.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Send records the email in memory.
func (m *InMemoryEmail) Send(to, subject, html string) error {
	if m == nil {
		return nil
	}
	m.Outbox = append(m.Outbox, Email{To: to, Subject: subject, HTML: html})
	return nil
}

// NopEmailSender discards mail. The default wiring until an SMTP or provider
// sender is configured.
type NopEmailSender struct{}

// Send implements EmailSender.
func (NopEmailSender) Send(string, string, string) error { return nil }
