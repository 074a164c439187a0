package mailer

import "fmt"

// ConfirmationMessage builds the account confirmation email carrying the
// six digit code and its companion token.
func ConfirmationMessage(to string, code int, token string) Message {
	html := fmt.Sprintf(
		"<p>Welcome! Confirm your account with the following code:</p>"+
			"<h2>%d</h2>"+
			"<p>Confirmation token: <code>%s</code></p>"+
			"<p>The code expires in 10 minutes.</p>",
		code, token)
	return Message{
		To:      to,
		Subject: "Confirm your account",
		HTML:    html,
	}
}

// ResetMessage builds the password reset email linking to the reset form.
func ResetMessage(to, baseURL, token string) Message {
	html := fmt.Sprintf(
		"<p>A password reset was requested for your account.</p>"+
			"<p><a href=\"%s/reset/%s\">Reset your password</a></p>"+
			"<p>The link expires in 10 minutes. If you did not request this, ignore this email.</p>",
		baseURL, token)
	return Message{
		To:      to,
		Subject: "Reset your password",
		HTML:    html,
	}
}
