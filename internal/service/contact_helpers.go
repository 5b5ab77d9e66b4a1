package service

import (
	"strings"
	"unicode/utf8"
)

func maskEmailAddress(email string) string {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return ""
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return "***"
	}
	first, _ := utf8.DecodeRuneInString(local)
	if utf8.RuneCountInString(local) <= 2 {
		return string(first) + "***@" + domain
	}
	last, _ := utf8.DecodeLastRuneInString(local)
	return string(first) + "***" + string(last) + "@" + domain
}

// maskPhoneNumber keeps only the last three digits.
func maskPhoneNumber(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if len(digits) <= 3 {
		return "***"
	}
	return strings.Repeat("*", len(digits)-3) + digits[len(digits)-3:]
}
