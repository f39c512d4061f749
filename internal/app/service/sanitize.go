package service

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// SanitizeText removes markup, unescapes entities, trims and collapses
// runs of whitespace to a single space.
func SanitizeText(raw string) string {
	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(raw))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if tokenizer.Err() != io.EOF {
				return strings.Join(strings.Fields(raw), " ")
			}
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(tokenizer.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}

func isPhoneRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r == ' ', r == '+', r == '-', r == '(', r == ')':
		return true
	}
	return false
}

// ValidPhone accepts digits, spaces and + - ( ). Empty is valid.
func ValidPhone(phone string) bool {
	for _, r := range phone {
		if !isPhoneRune(r) {
			return false
		}
	}
	return true
}
