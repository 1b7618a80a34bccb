package mail

import (
	"fmt"
	"html/template"
	"strings"
)

const VerificationSubject = "Email Verification"

var verificationTmpl = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Email Verification</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<p>Click the following link to verify your email: <a href="{{.URL}}">{{.URL}}</a></p>
		<p>This link will expire in 24 hours.</p>
		<p style="color: #999; font-size: 12px;">If you didn't create an account, please ignore this email.</p>
	</div>
</body>
</html>`))

// RenderVerification renders the HTML body of the verification email.
func RenderVerification(link string) (string, error) {
	var buf strings.Builder
	if err := verificationTmpl.Execute(&buf, struct{ URL string }{URL: link}); err != nil {
		return "", fmt.Errorf("render verification email: %w", err)
	}
	return buf.String(), nil
}
