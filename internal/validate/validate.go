// Package validate checks inbound user input before it reaches the
// dispatcher. Validation failures are client errors and never have side
// effects.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxUserIDLength = 255

// Message trims the message and rejects empty, whitespace-only, or
// over-length input. Returns the trimmed message.
func Message(message string, maxLength int) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("message cannot be empty")
	}
	// Length is counted in characters, not bytes, so multibyte input is
	// not penalized.
	if utf8.RuneCountInString(message) > maxLength {
		return "", fmt.Errorf("message exceeds maximum length of %d characters", maxLength)
	}
	return message, nil
}

// UserID accepts only alphanumeric, dash, and underscore identifiers up
// to 255 characters. Returns the trimmed ID.
func UserID(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("user ID cannot be empty")
	}
	if len(userID) > maxUserIDLength {
		return "", fmt.Errorf("user ID exceeds maximum length of %d characters", maxUserIDLength)
	}
	for _, r := range userID {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return "", fmt.Errorf("user ID contains invalid characters")
		}
	}
	return userID, nil
}

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// SanitizeHTML escapes HTML-significant characters for text output.
func SanitizeHTML(text string) string {
	return htmlReplacer.Replace(text)
}
