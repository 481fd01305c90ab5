package mailer

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"
)

// SendResetEmail delivers the branded password-reset message over SMTP.
// The caller decides what to do on failure; the original flow logs the
// error and still answers the API request (the reset link is also
// returned in the response for now).
func SendResetEmail(to, resetURL string) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return fmt.Errorf("SMTP_HOST not configured")
	}

	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "Tekna Support <support@tekna.local>"
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Reset your Tekna password")
	m.SetBody("text/html", resetEmailHTML(resetURL))

	d := gomail.NewDialer(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASS"))
	return d.DialAndSend(m)
}

func resetEmailHTML(resetURL string) string {
	const brandColor = "#2563eb"     // Blue-600
	const backgroundColor = "#f3f4f6" // Gray-100

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta name="viewport" content="width=device-width, initial-scale=1.0"/>
  <title>Reset Password</title>
  <style>
    body { margin: 0; padding: 0; font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: %[3]s; }
    .container { max-width: 600px; margin: 40px auto; background-color: #ffffff; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 6px rgba(0,0,0,0.05); }
    .header { background-color: #ffffff; padding: 30px 40px; text-align: center; border-bottom: 1px solid #e5e7eb; }
    .logo { font-size: 24px; font-weight: 800; color: #1e293b; letter-spacing: -0.5px; text-decoration: none; }
    .content { padding: 40px; color: #334155; line-height: 1.6; }
    .button-container { text-align: center; margin: 30px 0; }
    .button { background-color: %[2]s; color: #ffffff !important; padding: 14px 28px; border-radius: 6px; text-decoration: none; font-weight: bold; display: inline-block; font-size: 16px; }
    .footer { background-color: #f8fafc; padding: 20px 40px; text-align: center; font-size: 12px; color: #94a3b8; }
    .link-fallback { color: %[2]s; word-break: break-all; font-size: 13px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header"><a href="#" class="logo">TEKNA</a></div>
    <div class="content">
      <h2 style="margin-top: 0; color: #0f172a;">Password Reset Request</h2>
      <p>Hello,</p>
      <p>We received a request to reset the password for your <strong>Tekna</strong> account. If you made this request, please click the button below:</p>
      <div class="button-container">
        <a href="%[1]s" class="button" target="_blank">Reset Password</a>
      </div>
      <p style="font-size: 14px; color: #64748b;">This link will expire in <strong>10 minutes</strong> for security reasons.</p>
      <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 30px 0;">
      <p style="font-size: 13px; color: #64748b;">If you didn't request a password reset, you can safely ignore this email. Your password will not be changed.</p>
      <p style="margin-top: 20px; font-size: 12px; color: #94a3b8;">
        Button not working? Copy and paste this link into your browser:<br>
        <a href="%[1]s" class="link-fallback">%[1]s</a>
      </p>
    </div>
    <div class="footer">
      <p>&copy; %[4]d Tekna Window Systems. All rights reserved.</p>
      <p>This is an automated message, please do not reply.</p>
    </div>
  </div>
</body>
</html>`, resetURL, brandColor, backgroundColor, time.Now().Year())
}
