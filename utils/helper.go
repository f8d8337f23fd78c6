package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

var CountryCode = "RU"

var inn10Coefficients = []int{2, 4, 10, 3, 5, 9, 4, 6, 8}
var inn12Coefficients1 = []int{7, 2, 4, 10, 3, 5, 9, 4, 6, 8}
var inn12Coefficients2 = []int{3, 7, 2, 4, 10, 3, 5, 9, 4, 6, 8}

// ValidateINN checks the tax identifier's check digits.
// 10-digit numbers (legal entities) carry one check digit,
// 12-digit numbers (individuals) carry two.
func ValidateINN(inn string) bool {
	inn = strings.TrimSpace(inn)
	if inn == "" {
		return false
	}
	for _, r := range inn {
		if r < '0' || r > '9' {
			return false
		}
	}

	switch len(inn) {
	case 10:
		return innCheckDigit(inn, inn10Coefficients) == int(inn[9]-'0')
	case 12:
		return innCheckDigit(inn, inn12Coefficients1) == int(inn[10]-'0') &&
			innCheckDigit(inn, inn12Coefficients2) == int(inn[11]-'0')
	default:
		return false
	}
}

func innCheckDigit(inn string, coefficients []int) int {
	var sum int
	for i, c := range coefficients {
		sum += int(inn[i]-'0') * c
	}
	return (sum % 11) % 10
}

// FormatMoney renders a monetary amount in compact $ form for chat display.
func FormatMoney(amount decimal.Decimal) string {
	f, _ := amount.Float64()
	switch {
	case f >= 1_000_000_000:
		return fmt.Sprintf("$%.2fB", f/1_000_000_000)
	case f >= 1_000_000:
		return fmt.Sprintf("$%.2fM", f/1_000_000)
	case f >= 1_000:
		return fmt.Sprintf("$%.2fK", f/1_000)
	default:
		return fmt.Sprintf("$%.2f", f)
	}
}

// CalculateGrowth returns the year-over-year growth percentage as a signed
// string ("+25.0%"), or "N/A" when the baseline is zero or missing.
func CalculateGrowth(current decimal.Decimal, previous decimal.Decimal) string {
	if previous.IsZero() {
		return "N/A"
	}
	growth := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100))
	if growth.IsNegative() {
		return growth.StringFixed(1) + "%"
	}
	return "+" + growth.StringFixed(1) + "%"
}

func FormatDateTime(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format("02.01.2006 15:04")
}

func TruncateText(text string, maxLength int) string {
	const suffix = "..."
	if len(text) <= maxLength {
		return text
	}
	return text[:maxLength-len(suffix)] + suffix
}

var filenameUnsafe = regexp.MustCompile(`[<>:"/\\|?*]`)

func CleanFilename(filename string) string {
	cleaned := filenameUnsafe.ReplaceAllString(filename, "_")
	cleaned = strings.Trim(cleaned, " .")
	if len(cleaned) > 100 {
		cleaned = cleaned[:100]
	}
	return cleaned
}

func IsValidEmail(email string) bool {
	// Basic email validation regex pattern
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	regex := regexp.MustCompile(pattern)
	return regex.MatchString(email)
}

func ValidatePhoneNumber(phoneNumber, countryCode string) error {
	p, err := libphonenumber.Parse(phoneNumber, countryCode)
	if err != nil {
		return err // Phone number is invalid
	}

	if !libphonenumber.IsValidNumber(p) {
		return fmt.Errorf("phone number is not valid")
	}

	return nil // Phone number is valid for the specified country code
}

func NewFalse() *bool {
	b := false
	return &b
}

func ProcessValidationErrors(err error) map[string]string {

	validationErrors := err.(validator.ValidationErrors)

	errorResponse := make(map[string]string)

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}
