package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPMailer はプレーンテキストのメールを送る。
type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
}

// DI
func NewSMTPMailer(host string, port int, user string, password string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		user:     user,
		password: password,
	}
}

func (m *SMTPMailer) Send(to string, subject string, body string) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.user, m.password, m.host)

	msg := strings.Join([]string{
		"From: " + m.user,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, m.user, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
