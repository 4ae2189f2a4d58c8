// Package mailer delivers password-reset codes over SMTP. When SMTP is
// not configured the code is written to the server log instead so the
// flow stays usable in development.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"
)

// Mailer sends plain-text mail through a single SMTP account.
type Mailer struct {
	Host     string
	Port     int
	From     string
	Password string
}

// New returns a Mailer; a nil receiver or empty host means console fallback.
func New(host string, port int, from, password string) *Mailer {
	if host == "" || from == "" {
		return nil
	}
	return &Mailer{Host: host, Port: port, From: from, Password: password}
}

// SendOTP delivers a reset code to the given address.
func (m *Mailer) SendOTP(to, code string) error {
	if m == nil {
		log.Printf("mail not configured; OTP for %s: %s", to, code)
		return nil
	}
	subject := "ClassTrack password reset code"
	body := fmt.Sprintf("Your password reset code is %s. It expires in 10 minutes.\r\n", code)
	msg := []byte("From: " + m.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body)

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)
	return smtp.SendMail(addr, auth, m.From, []string{to}, msg)
}
