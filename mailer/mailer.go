// Package mailer wraps outbound notification email behind a single
// injected dependency so handlers never construct their own transport.
package mailer

import (
	"gopkg.in/gomail.v2"
)

// Mailer sends a single HTML notification. Callers decide whether a send
// failure matters; payment confirmations treat it as fire-and-forget.
type Mailer interface {
	Send(to, subject, html string) error
}

// SMTPMailer delivers through a plain SMTP account (the care center uses a
// Gmail app password in production).
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, pass string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   user,
	}
}

func (m *SMTPMailer) Send(to, subject, html string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, "Ayu Arana Care")
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)
	return m.dialer.DialAndSend(msg)
}
