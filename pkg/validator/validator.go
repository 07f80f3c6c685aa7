package validator

import (
	"net"
	"net/url"
	"strings"
)

// ValidateURL checks if a destination URL is valid.
func ValidateURL(urlStr string) error {
	urlStr = strings.TrimSpace(urlStr)

	if urlStr == "" {
		return ErrEmptyURL
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return ErrInvalidURL
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return ErrInvalidScheme
	}

	if parsedURL.Host == "" {
		return ErrInvalidHost
	}

	return nil
}

// ValidateDecimal checks that a string holds a plain decimal number:
// optional sign, digits, at most one decimal point. Prices and balances
// are carried as strings end to end to avoid float rounding, so the
// shape is checked at the boundary instead.
func ValidateDecimal(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return ErrInvalidDecimal
	}

	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}

	digits := 0
	dots := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
			if dots > 1 {
				return ErrInvalidDecimal
			}
		default:
			return ErrInvalidDecimal
		}
	}

	if digits == 0 {
		return ErrInvalidDecimal
	}

	return nil
}

// ValidateIP checks that a string parses as an IPv4 or IPv6 address.
func ValidateIP(s string) error {
	if net.ParseIP(strings.TrimSpace(s)) == nil {
		return ErrInvalidIP
	}
	return nil
}
