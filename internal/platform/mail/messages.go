package mail

import (
	"fmt"
	"net/url"
	"strings"
)

// NewConfirmationMessage composes the account confirmation email. The link
// carries the signed token; following it activates the account.
func NewConfirmationMessage(baseURL, email, token string) Message {
	link := buildLink(baseURL, "/confirm", token)
	body := fmt.Sprintf(
		"Hello,\n\n"+
			"Someone registered an account with this email address.\n"+
			"To activate it, open the link below:\n\n"+
			"%s\n\n"+
			"If that was not you, you can ignore this message.\n",
		link)
	return Message{
		To:      email,
		Subject: "Confirm your account",
		Body:    body,
	}
}

// NewPasswordResetMessage composes the password reset email. The link is
// short-lived and single-purpose.
func NewPasswordResetMessage(baseURL, email, token string) Message {
	link := buildLink(baseURL, "/reset-password", token)
	body := fmt.Sprintf(
		"Hello,\n\n"+
			"A password reset was requested for this account.\n"+
			"To choose a new password, open the link below:\n\n"+
			"%s\n\n"+
			"If you did not request a reset, you can ignore this message.\n",
		link)
	return Message{
		To:      email,
		Subject: "Reset your password",
		Body:    body,
	}
}

// buildLink joins the base URL and path and appends the token as a query
// parameter, escaping it for safe inclusion.
func buildLink(baseURL, path, token string) string {
	base := strings.TrimRight(baseURL, "/")
	return fmt.Sprintf("%s%s?token=%s", base, path, url.QueryEscape(token))
}
