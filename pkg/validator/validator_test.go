package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{"valid https", "https://example.com", nil},
		{"valid http", "http://example.com/path?q=1", nil},
		{"surrounding whitespace", "  https://example.com  ", nil},
		{"empty", "", ErrEmptyURL},
		{"whitespace only", "   ", ErrEmptyURL},
		{"ftp scheme", "ftp://example.com", ErrInvalidScheme},
		{"no scheme", "example.com", ErrInvalidScheme},
		{"no host", "https://", ErrInvalidHost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDecimal(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"integer", "10", false},
		{"fraction", "12.5", false},
		{"leading dot", ".5", false},
		{"signed positive", "+3", false},
		{"signed negative", "-0.01", false},
		{"whitespace trimmed", " 10.00 ", false},
		{"empty", "", true},
		{"sign only", "-", true},
		{"two dots", "1.2.3", true},
		{"letters", "ten", true},
		{"scientific notation", "1e5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDecimal(tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDecimal)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateIP(t *testing.T) {
	assert.NoError(t, ValidateIP("1.2.3.4"))
	assert.NoError(t, ValidateIP("::1"))
	assert.ErrorIs(t, ValidateIP("1.2.3"), ErrInvalidIP)
	assert.ErrorIs(t, ValidateIP("localhost"), ErrInvalidIP)
	assert.ErrorIs(t, ValidateIP(""), ErrInvalidIP)
}
