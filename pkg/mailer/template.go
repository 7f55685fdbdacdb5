package mailer

import (
	"bytes"
	"fmt"
	htmpl "html/template"
)

// TemplatePasswordOTP renders the password-reset OTP mail.
const TemplatePasswordOTP = "password_otp"

var otpHTML = htmpl.Must(htmpl.New(TemplatePasswordOTP).Parse(`<html>
<body style="font-family:Arial,sans-serif;color:#333">
  <h2>Password reset code</h2>
  <p>Hi {{.Name}},</p>
  <p>Your one-time code is:</p>
  <p style="font-size:28px;letter-spacing:4px;font-weight:bold">{{.Code}}</p>
  <p>The code expires at {{.ExpiresAt}}. If you did not request a reset, ignore this mail.</p>
</body>
</html>`))

type otpData struct {
	Name      string
	Code      string
	ExpiresAt string
}

// Render produces subject, text, and html bodies for a template job.
func Render(template string, data map[string]any) (subject, text, html string, err error) {
	switch template {
	case TemplatePasswordOTP:
		d := otpData{
			Name:      str(data, "Name"),
			Code:      str(data, "Code"),
			ExpiresAt: str(data, "ExpiresAt"),
		}
		var buf bytes.Buffer
		if err := otpHTML.Execute(&buf, d); err != nil {
			return "", "", "", err
		}
		subject = "Your password reset code"
		text = fmt.Sprintf("Your one-time code is %s. It expires at %s.", d.Code, d.ExpiresAt)
		return subject, text, buf.String(), nil
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", template)
	}
}

func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}
