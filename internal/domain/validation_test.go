package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAccountName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid name", "Compte Commun", false},
		{"accented name", "Épargne", false},
		{"single character", "A", false},
		{"empty name", "", true},
		{"whitespace only", "   ", true},
		{"max length", strings.Repeat("a", MaxAccountNameLength), false},
		{"too long", strings.Repeat("a", MaxAccountNameLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAccountName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAccountName() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAccountName) {
				t.Errorf("expected ErrInvalidAccountName, got %v", err)
			}
		})
	}
}

func TestValidateCurrency(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"EUR", "EUR", false},
		{"USD", "USD", false},
		{"lowercase is not normalized here", "eur", true},
		{"invalid code", "XXX", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCurrency(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCurrency() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if got := NormalizeCurrency(" eur "); got != "EUR" {
		t.Errorf("expected EUR, got %q", got)
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr error
	}{
		{"zero", "0", nil},
		{"cents", "0.01", nil},
		{"max", MaxAmount, nil},
		{"negative", "-0.01", ErrInvalidAmount},
		{"too large", "1000000000000.01", ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(decimal.RequireFromString(tt.amount))
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	for _, c := range []string{"", "#ef4444", "#ABCDEF"} {
		if err := ValidateColor(c); err != nil {
			t.Errorf("expected %q to be valid, got %v", c, err)
		}
	}

	for _, c := range []string{"red", "#fff", "ef4444", "#gggggg"} {
		if err := ValidateColor(c); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("expected %q to be invalid, got %v", c, err)
		}
	}
}
