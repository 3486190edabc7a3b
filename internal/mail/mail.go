// Package mail sends transactional email: password resets and training-job
// notifications.
package mail

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/legaltext/finetuner/internal/logger"
)

// Mailer delivers transactional mail
type Mailer interface {
	SendPasswordReset(toEmail, username, token string) error
	SendJobNotification(toEmail, username, jobID, status, detail string) error
}

// Options configures the SMTP mailer
type Options struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// SMTPMailer sends mail through an SMTP relay
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

var _ Mailer = &SMTPMailer{}

// NewSMTPMailer creates a mailer backed by the given SMTP relay
func NewSMTPMailer(opts Options) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(opts.Host, opts.Port, opts.User, opts.Pass),
		from:   opts.From,
	}
}

// SendPasswordReset mails a single-use password reset token
func (m *SMTPMailer) SendPasswordReset(toEmail, username, token string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Password reset request")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nUse this token to reset your password: %s\n\nThe token expires in one hour. If you did not request a reset, ignore this message.\n",
		username, token))

	return m.dialer.DialAndSend(msg)
}

// SendJobNotification mails a training-job completion or failure notice
func (m *SMTPMailer) SendJobNotification(toEmail, username, jobID, status, detail string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", fmt.Sprintf("Training job %s: %s", jobID, status))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nYour training job %s is now %s.\n\n%s\n",
		username, jobID, status, detail))

	return m.dialer.DialAndSend(msg)
}

// NopMailer logs instead of sending. Used when SMTP is not configured.
type NopMailer struct{}

var _ Mailer = NopMailer{}

// SendPasswordReset logs the reset token delivery
func (NopMailer) SendPasswordReset(toEmail, username, token string) error {
	logger.InfoWithFields("password reset mail suppressed (smtp not configured)", map[string]interface{}{
		"to":       toEmail,
		"username": username,
	})
	return nil
}

// SendJobNotification logs the notification delivery
func (NopMailer) SendJobNotification(toEmail, username, jobID, status, _ string) error {
	logger.InfoWithFields("job notification mail suppressed (smtp not configured)", map[string]interface{}{
		"to":     toEmail,
		"job_id": jobID,
		"status": status,
	})
	return nil
}
