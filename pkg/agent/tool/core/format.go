package core

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/edopt/chatbot/pkg/domain/model"
)

// head returns the first n characters of s
func head(s string, n int) string {
	return model.TruncateRunes(s, n)
}

// ellipsize cuts s at n characters and marks the cut with "..."
func ellipsize(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return head(s, n) + "..."
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = strings.ToUpper(string(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

var statusDescriptions = map[string]string{
	"01": "In Legislative Services (drafting)",
	"02": "In House",
	"03": "In Senate",
	"04": "Passed both chambers",
	"05": "Signed by Governor (enacted)",
	"06": "Became law without signature",
	"07": "Vetoed by Governor",
	"08": "Pocket vetoed",
	"09": "Veto overridden",
	"10": "Miscellaneous",
}

// describeStatus converts a legislative status code into a readable label
func describeStatus(code string) string {
	if code == "" {
		return "Unknown"
	}
	padded := code
	if len(padded) < 2 {
		padded = strings.Repeat("0", 2-len(padded)) + padded
	}
	if desc, ok := statusDescriptions[padded]; ok {
		return desc
	}
	return fmt.Sprintf("Status code %s", code)
}
