package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendOTP(toEmail, otp string) error
	SendResetLink(toEmail, resetLink string) error
}

type emailService struct {
	dialer     *gomail.Dialer
	sender     string
	senderName string
}

func NewEmailService(host string, port int, username, password, sender, senderName string) IEmailService {
	return &emailService{
		dialer:     gomail.NewDialer(host, port, username, password),
		sender:     sender,
		senderName: senderName,
	}
}

func (s *emailService) SendOTP(toEmail, otp string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.sender, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your Verification Code")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome to Mindful AI</h2>
			<p>Your verification code is:</p>
			<h1 style="color: #5B8C5A; letter-spacing: 5px;">%s</h1>
			<p>This code will expire in 15 minutes.</p>
			<p>If you didn't request this, please ignore this email.</p>
		</div>
	`, otp)

	m.SetBody("text/html", body)
	return s.dialer.DialAndSend(m)
}

func (s *emailService) SendResetLink(toEmail, resetLink string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.sender, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Reset Your Password")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Password Reset Request</h2>
			<p>Click the button below to choose a new password:</p>
			<a href="%s" style="background-color: #5B8C5A; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Reset Password</a>
			<p>Or copy this link:</p>
			<p>%s</p>
			<p>This link will expire in 1 hour.</p>
			<p>If you didn't request this, please ignore this email.</p>
		</div>
	`, resetLink, resetLink)

	m.SetBody("text/html", body)
	return s.dialer.DialAndSend(m)
}
