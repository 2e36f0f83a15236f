package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template names used by EmailJob.Template.
const (
	Welcome         = "welcome"
	PasswordChanged = "password_changed"
)

var welcomeHTML = template.Must(template.New(Welcome).Parse(`
<html>
<body style="font-family:Arial,sans-serif;color:#222">
  <h2>Welcome to {{.AppName}}, {{.Username}}!</h2>
  <p>Your account is ready. Start a discussion, or browse what others are talking about.</p>
  <p style="color:#888;font-size:12px">You received this because an account was registered with this address.</p>
</body>
</html>`))

var passwordChangedHTML = template.Must(template.New(PasswordChanged).Parse(`
<html>
<body style="font-family:Arial,sans-serif;color:#222">
  <h2>Your {{.AppName}} password was changed</h2>
  <p>Hi {{.Username}}, the password on your account was just updated.</p>
  <p>If this wasn't you, reset your password immediately and contact support.</p>
</body>
</html>`))

// Render produces subject, text, and html bodies for the named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	var tpl *template.Template
	switch name {
	case Welcome:
		tpl = welcomeHTML
		subject = fmt.Sprintf("Welcome to %v", data["AppName"])
		text = fmt.Sprintf("Welcome to %v, %v! Your account is ready.", data["AppName"], data["Username"])
	case PasswordChanged:
		tpl = passwordChangedHTML
		subject = "Your password was changed"
		text = fmt.Sprintf("Hi %v, the password on your account was just updated.", data["Username"])
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	return subject, text, buf.String(), nil
}
