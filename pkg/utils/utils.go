package utils

import (
	"fmt"
	"strings"

	"golang-stock-analyst/pkg/logger"
)

// GoSafe runs fn in a goroutine and recovers from panics so a single
// misbehaving task cannot take down the process.
func GoSafe(log *logger.Logger, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Recovered from panic", logger.StringField("panic", fmt.Sprintf("%v", r)))
			}
		}()
		fn()
	}()
}

// SanitizeFileName turns a company display name into a safe file name component.
func SanitizeFileName(name string) string {
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"/", "-",
		"\\", "-",
	)
	return replacer.Replace(strings.TrimSpace(name))
}

// SafeText strips invalid UTF-8 and NUL bytes so the text can be embedded in
// prompts and JSON payloads.
func SafeText(s string) string {
	s = strings.ToValidUTF8(s, "")
	return strings.ReplaceAll(s, "\x00", "")
}

// TruncateText limits text to max runes, appending an ellipsis marker when cut.
func TruncateText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "\n[... truncated ...]"
}
