package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.UGCPolicy()

// Sanitize cleans HTML content to prevent XSS attacks.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// SanitizeStrict strips all HTML, keeping plain text only. Used for fields
// that must never carry markup, such as coupon codes and account details.
var strictSanitizer = bluemonday.StrictPolicy()

func SanitizeStrict(input string) string {
	return strictSanitizer.Sanitize(input)
}
