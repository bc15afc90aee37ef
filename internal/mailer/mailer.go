package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPMailer sends transactional mail through a plain SMTP relay.
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, user: user, pass: pass, from: from}
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	return d.DialAndSend(msg)
}

// SendPasswordChanged confirms a completed password reset. The body carries
// no token or credential material.
func (m *SMTPMailer) SendPasswordChanged(toEmail string) error {
	body := fmt.Sprintf(
		"Hello,\n\nThis is a confirmation that the password for your account %s has just been changed.\n",
		toEmail,
	)
	return m.send(toEmail, "Your password has been changed", body)
}
