// Package logutil keeps secrets and payment credentials out of log lines.
package logutil

// Truncate keeps the first maxLen bytes of s and marks the cut with "...".
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// MaskSignature shows only enough of a gateway signature to correlate log
// lines with backend records.
func MaskSignature(sig string) string {
	if sig == "" {
		return ""
	}
	return Truncate(sig, 8)
}
