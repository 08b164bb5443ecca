// Package email renders and delivers transactional mail through an
// asynchronous job queue.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"net/url"
	"sync"

	"authgate/internal/config"
)

// Sender defines the interface for queueing transactional mail. Both methods
// accept the raw secret; hashes never leave the auth layer.
type Sender interface {
	SendVerificationEmail(to, token string) error
	SendPasswordResetOTP(to, otp string) error
}

// Service delivers mail over a pooled SMTP connection.
type Service struct {
	config config.EmailConfig
	client *smtp.Client
	mu     sync.Mutex
}

func NewService(cfg config.EmailConfig) *Service {
	return &Service{config: cfg}
}

// dialSMTP establishes an SMTP connection, reusing a live one when possible.
func (s *Service) dialSMTP() (*smtp.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		if err := s.client.Noop(); err == nil {
			return s.client, nil
		}
		s.client.Close()
		s.client = nil
	}

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	client, err := smtp.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial SMTP server: %w", err)
	}

	if err := client.Auth(smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to authenticate with SMTP server: %w", err)
	}

	s.client = client
	return client, nil
}

func (s *Service) sendMail(to string, msg []byte) error {
	client, err := s.dialSMTP()
	if err != nil {
		return err
	}

	if err := client.Mail(s.config.SMTPUsername); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to add recipient %s: %w", to, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to create message writer: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close message writer: %w", err)
	}

	return nil
}

// Close closes the SMTP connection
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		err := s.client.Quit()
		s.client = nil
		return err
	}
	return nil
}

var verificationTmpl = template.Must(template.New("verification").Parse(`
	<h2>Welcome,</h2>
	<p>Please verify your email address by clicking the link below:</p>
	<p><a href="{{.URL}}">Verify Email Address</a></p>
	<p>This link will expire in 5 minutes.</p>
	<p>If you did not create an account, no further action is required.</p>
`))

var resetTmpl = template.Must(template.New("reset").Parse(`
	<h2>Hello,</h2>
	<p>Your password reset code is:</p>
	<h1>{{.OTP}}</h1>
	<p>This code will expire in 5 minutes.</p>
	<p>If you did not request a password reset, please ignore this email.</p>
`))

func (s *Service) deliverVerification(to, token string) error {
	if err := s.checkConfig(); err != nil {
		return err
	}

	// The raw token travels only in the link, URL-encoded.
	verificationURL := fmt.Sprintf("%s/verify-email?token=%s", s.config.AppURL, url.QueryEscape(token))

	var body bytes.Buffer
	if err := verificationTmpl.Execute(&body, map[string]string{"URL": verificationURL}); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := formatMessage(to, s.config.FromAddress, "Verify Your Email Address", body.String())
	if err := s.sendMail(to, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (s *Service) deliverResetOTP(to, otp string) error {
	if err := s.checkConfig(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := resetTmpl.Execute(&body, map[string]string{"OTP": otp}); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := formatMessage(to, s.config.FromAddress, "Your Password Reset Code", body.String())
	if err := s.sendMail(to, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

func (s *Service) checkConfig() error {
	if s.config.SMTPHost == "" || s.config.SMTPPort == 0 || s.config.SMTPUsername == "" ||
		s.config.SMTPPassword == "" || s.config.FromAddress == "" || s.config.AppURL == "" {
		return fmt.Errorf("incomplete email configuration")
	}
	return nil
}

func formatMessage(to, from, subject, body string) string {
	return fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s", to, from, subject, body)
}
