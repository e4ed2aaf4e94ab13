package payments

import (
	"strings"
	"time"
	"unicode"
)

// Card carries the details the cardholder types at checkout.
type Card struct {
	Number     string `json:"number" binding:"required"`
	Expiry     string `json:"expiry" binding:"required"`
	CVV        string `json:"cvv" binding:"required"`
	HolderName string `json:"holder_name" binding:"required"`
}

const (
	BrandVisa       = "Visa"
	BrandMastercard = "Mastercard"
	BrandAmex       = "American Express"
	BrandDiscover   = "Discover"
	BrandJCB        = "JCB"
	BrandUnknown    = "Unknown"
)

func normalizeNumber(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r == ' ' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ValidCardNumber checks length and the Luhn checksum. Spaces and dashes
// are ignored.
func ValidCardNumber(number string) bool {
	number = normalizeNumber(number)
	if !allDigits(number) {
		return false
	}
	if len(number) < 13 || len(number) > 19 {
		return false
	}

	sum := 0
	alternate := false
	for i := len(number) - 1; i >= 0; i-- {
		digit := int(number[i] - '0')
		if alternate {
			digit *= 2
			if digit > 9 {
				digit = digit%10 + 1
			}
		}
		sum += digit
		alternate = !alternate
	}
	return sum%10 == 0
}

// DetectBrand identifies the card network from the number prefix.
func DetectBrand(number string) string {
	number = normalizeNumber(number)
	switch {
	case number == "":
		return BrandUnknown
	case strings.HasPrefix(number, "4"):
		return BrandVisa
	case len(number) >= 2 && number[0] == '5' && number[1] >= '1' && number[1] <= '5':
		return BrandMastercard
	case strings.HasPrefix(number, "34") || strings.HasPrefix(number, "37"):
		return BrandAmex
	case strings.HasPrefix(number, "6011") || strings.HasPrefix(number, "65"):
		return BrandDiscover
	case strings.HasPrefix(number, "35"):
		return BrandJCB
	default:
		return BrandUnknown
	}
}

// ValidExpiry accepts MM/YY or MM/YYYY and rejects past months.
func ValidExpiry(expiry string) bool {
	return validExpiryAt(expiry, time.Now())
}

func validExpiryAt(expiry string, now time.Time) bool {
	parts := strings.Split(expiry, "/")
	if len(parts) != 2 {
		return false
	}
	if !allDigits(parts[0]) || !allDigits(parts[1]) {
		return false
	}

	month := 0
	for _, r := range parts[0] {
		month = month*10 + int(r-'0')
	}
	year := 0
	for _, r := range parts[1] {
		year = year*10 + int(r-'0')
	}
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 {
		return false
	}

	expires := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return !expires.Before(current)
}

// ValidCVV checks the security code length for the given brand:
// American Express uses 4 digits, everything else 3.
func ValidCVV(cvv, brand string) bool {
	if !allDigits(cvv) {
		return false
	}
	expected := 3
	if brand == BrandAmex {
		expected = 4
	}
	return len(cvv) == expected
}
