package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jobkit/jobkit/internal/config"
	"github.com/jobkit/jobkit/pkg/logger"
)

// EmailService sends transactional mail. All sends are best-effort; callers
// dispatch through the task queue and never fail a request on mail errors.
type EmailService struct {
	cfg *config.SMTPConfig
}

func NewEmailService(cfg *config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Process is the task queue processor for MailTask.
func (s *EmailService) Process(_ context.Context, task *MailTask) error {
	return s.Send(task.To, task.Subject, task.Body)
}

// Send delivers an HTML email to the recipients. Returns nil without sending
// when SMTP is disabled.
func (s *EmailService) Send(to []string, subject, body string) error {
	if !s.cfg.Enabled || s.cfg.Host == "" {
		return nil
	}
	if len(to) == 0 {
		return nil
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	headers := map[string]string{
		"From":         from,
		"To":           strings.Join(to, ","),
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" && s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	var err error
	if s.cfg.UseTLS {
		err = s.sendTLS(addr, auth, from, to, message.String())
	} else {
		err = smtp.SendMail(addr, auth, from, to, []byte(message.String()))
	}

	if err != nil {
		logger.Infof("[Email] Failed to send email: %v", err)
		return err
	}

	logger.Infof("[Email] Sent %q to %v", subject, to)
	return nil
}

// InviteBody renders the team invitation email.
func (s *EmailService) InviteBody(companyName, role, token string) string {
	var sb strings.Builder
	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString(fmt.Sprintf("<h2>You've been invited to join %s on JobKit</h2>", companyName))
	sb.WriteString(fmt.Sprintf("<p>You have been invited as <b>%s</b>.</p>", role))
	sb.WriteString(fmt.Sprintf("<p>Use this invitation code to accept: <code>%s</code></p>", token))
	sb.WriteString("<hr><p style=\"color: #888; font-size: 12px;\">Powered by JobKit</p>")
	sb.WriteString("</body></html>")
	return sb.String()
}

// ResetBody renders the password reset email.
func (s *EmailService) ResetBody(name, token string) string {
	var sb strings.Builder
	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString(fmt.Sprintf("<h2>Password reset</h2><p>Hi %s,</p>", name))
	sb.WriteString("<p>We received a request to reset your JobKit password. The code below is valid for one hour:</p>")
	sb.WriteString(fmt.Sprintf("<pre style=\"background: #f5f5f5; padding: 12px; border-radius: 4px;\">%s</pre>", token))
	sb.WriteString("<p>If you didn't request this, you can ignore this email.</p>")
	sb.WriteString("<hr><p style=\"color: #888; font-size: 12px;\">Powered by JobKit</p>")
	sb.WriteString("</body></html>")
	return sb.String()
}

// ApplicationBody renders the new-application notice sent to a company.
func (s *EmailService) ApplicationBody(applicantName, jobTitle string) string {
	var sb strings.Builder
	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString("<h2>New application received</h2>")
	sb.WriteString(fmt.Sprintf("<p><b>%s</b> applied for <b>%s</b>.</p>", applicantName, jobTitle))
	sb.WriteString("<p>Sign in to review the application.</p>")
	sb.WriteString("<hr><p style=\"color: #888; font-size: 12px;\">Powered by JobKit</p>")
	sb.WriteString("</body></html>")
	return sb.String()
}

func (s *EmailService) sendTLS(addr string, auth smtp.Auth, from string, to []string, message string) error {
	tlsConfig := &tls.Config{
		ServerName: s.cfg.Host,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}

	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}

	if _, err = w.Write([]byte(message)); err != nil {
		return err
	}

	return w.Close()
}
