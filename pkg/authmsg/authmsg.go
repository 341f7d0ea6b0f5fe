// Package authmsg maps authentication-provider error codes to messages that
// are safe to show users. Raw backend strings never reach the UI.
//
// Sign-in frontends talking to the external identity provider are the
// intended consumers; the API server itself trusts the identity headers it
// receives.
package authmsg

import (
	"regexp"
	"strings"
)

const fallbackMessage = "An unexpected error occurred. Please try again."

var messages = map[string]string{
	"auth/email-already-in-use":   "This email address is already registered. Please try signing in instead.",
	"auth/invalid-email":          "Please enter a valid email address.",
	"auth/operation-not-allowed":  "Email/password authentication is not enabled. Please contact support.",
	"auth/weak-password":          "Password should be at least 6 characters long.",
	"auth/user-disabled":          "This account has been disabled. Please contact support.",
	"auth/user-not-found":         "No account found with this email address. Please check your email or sign up.",
	"auth/wrong-password":         "Incorrect password. Please try again.",
	"auth/invalid-credential":     "Invalid email or password. Please check your credentials and try again.",
	"auth/too-many-requests":      "Too many failed attempts. Please try again later.",
	"auth/network-request-failed": "Network error. Please check your internet connection and try again.",
	"auth/expired-action-code":    "The password reset link has expired. Please request a new one.",
	"auth/invalid-action-code":    "Invalid password reset link. Please request a new one.",
	"auth/expired-custom-token":   "Your session has expired. Please sign in again.",
	"auth/invalid-custom-token":   "Invalid authentication token. Please sign in again.",
	"auth/token-expired":          "Your session has expired. Please sign in again.",
	"auth/internal-error":         "An internal error occurred. Please try again.",
	"auth/invalid-user-token":     "Your session is invalid. Please sign in again.",
	"auth/requires-recent-login":  "Please sign in again to continue.",
	"auth/timeout":                "The request timed out. Please try again.",
}

// Format resolves a provider error code (and optional raw message) to a
// user-facing string. Unknown codes fall through to pattern matching on the
// raw message, then to a generic fallback.
func Format(code, raw string) string {
	if msg, ok := messages[code]; ok {
		return msg
	}

	lower := strings.ToLower(raw)
	switch {
	case lower == "":
		return fallbackMessage
	case strings.Contains(lower, "network") || strings.Contains(lower, "fetch"):
		return "Network error. Please check your internet connection and try again."
	case strings.Contains(lower, "timeout"):
		return "The request timed out. Please try again."
	case strings.Contains(lower, "quota") || strings.Contains(lower, "limit"):
		return "Too many requests. Please try again later."
	}

	// Pass a short message through only when it carries no provider internals.
	if !strings.Contains(lower, "firebase") && !strings.Contains(lower, "auth/") && len(raw) < 200 {
		return raw
	}
	return fallbackMessage
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks presence and format; the message is empty when valid.
func ValidateEmail(email string) (bool, string) {
	if strings.TrimSpace(email) == "" {
		return false, "Email address is required."
	}
	if !emailPattern.MatchString(email) {
		return false, "Please enter a valid email address."
	}
	return true, ""
}

// ValidatePassword enforces the minimum length rule.
func ValidatePassword(password string) (bool, string) {
	if password == "" {
		return false, "Password is required."
	}
	if len(password) < 6 {
		return false, "Password must be at least 6 characters long."
	}
	return true, ""
}
