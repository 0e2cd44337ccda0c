package notification

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// EmailConfig holds SMTP settings.
type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
	// AppBaseURL is the frontend base used to build links in email bodies.
	AppBaseURL string
}

// EmailService sends verification and password-reset email over SMTP.
type EmailService struct {
	config EmailConfig
	dialer *gomail.Dialer
}

// NewEmailService creates an email service.
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.User, config.Password),
	}
}

// SendVerificationEmail delivers the short verification code.
func (s *EmailService) SendVerificationEmail(to, code string) error {
	verifyURL := fmt.Sprintf("%s/verify-email?email=%s&code=%s", s.config.AppBaseURL, to, code)
	body := fmt.Sprintf(`<html><body>
		<h2>Verify Your Email Address</h2>
		<p>Your verification code is: <strong>%s</strong></p>
		<p>Or <a href="%s">click here to verify your email</a>.</p>
		<p>This code will expire in 24 hours.</p>
		<p>If you didn't request this, you can safely ignore this email.</p>
	</body></html>`, code, verifyURL)
	return s.send(to, "Verify Your Email", body)
}

// SendResetPasswordEmail delivers the password-reset link.
func (s *EmailService) SendResetPasswordEmail(to, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.config.AppBaseURL, token)
	body := fmt.Sprintf(`<html><body>
		<h2>Reset Your Password</h2>
		<p>A password reset has been requested for your account.</p>
		<p><a href="%s">Click here to set a new password</a></p>
		<p>This link will expire in 1 hour.</p>
		<p>If you didn't request this, you can safely ignore this email. Your password will remain unchanged.</p>
	</body></html>`, resetURL)
	return s.send(to, "Reset Your Password", body)
}

func (s *EmailService) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	from := s.config.From
	if s.config.FromName != "" {
		msg.SetAddressHeader("From", s.config.From, s.config.FromName)
	} else {
		msg.SetHeader("From", from)
	}
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return s.dialer.DialAndSend(msg)
}
