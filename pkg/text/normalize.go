package text

import (
	"strings"
)

// suffixes mark a line that continues on the next one
var suffixes = []string{
	":",
	"–",
	"—",
	"-",
	",",
}

// Normalize merges lines that an OCR engine split at trailing punctuation.
func Normalize(s string) string {
	var result []string
	var buffer []string

	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}

		if hasSuffix(line) {
			buffer = append(buffer, line)
			continue
		}

		if len(buffer) > 0 {
			line = strings.Join(append(buffer, line), " ")
			buffer = buffer[:0]
		}

		result = append(result, line)
	}

	if len(buffer) > 0 {
		result = append(result, strings.Join(buffer, " "))
	}

	return strings.Join(result, "\n")
}

// Lines splits s into its trimmed, non-empty lines.
func Lines(s string) []string {
	var result []string

	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			result = append(result, line)
		}
	}

	return result
}

func hasSuffix(line string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(line, s) {
			return true
		}
	}

	return false
}
