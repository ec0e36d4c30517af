package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// twoDigitTail matches a fractional part of exactly two digits, the shape
// currency subunits take on receipts.
var twoDigitTail = regexp.MustCompile(`^\d{2}$`)

// NormalizeAmount converts a numeric-looking token with ambiguous separators
// into a decimal value. When both "." and "," appear, the one occurring later
// is the decimal point and the other is a grouping mark. A single separator
// counts as the decimal point only when exactly two digits follow its last
// occurrence; otherwise it is grouping and is stripped. Everything that is not
// a digit is discarded after the separator roles are resolved. The second
// return value is false when no number could be recovered from the token.
func NormalizeAmount(token string) (decimal.Decimal, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return decimal.Decimal{}, false
	}

	lastComma := strings.LastIndex(token, ",")
	lastDot := strings.LastIndex(token, ".")

	integerPart := token
	fractionPart := ""
	switch {
	case lastComma >= 0 && lastDot >= 0:
		// The later separator wins the decimal role.
		if lastComma > lastDot {
			integerPart, fractionPart = token[:lastComma], token[lastComma+1:]
		} else {
			integerPart, fractionPart = token[:lastDot], token[lastDot+1:]
		}
	case lastComma >= 0:
		if twoDigitTail.MatchString(token[lastComma+1:]) {
			integerPart, fractionPart = token[:lastComma], token[lastComma+1:]
		}
	case lastDot >= 0:
		if twoDigitTail.MatchString(token[lastDot+1:]) {
			integerPart, fractionPart = token[:lastDot], token[lastDot+1:]
		}
	}

	digits := onlyDigits(integerPart)
	fraction := onlyDigits(fractionPart)
	if digits == "" && fraction == "" {
		return decimal.Decimal{}, false
	}
	if digits == "" {
		digits = "0"
	}
	if fraction != "" {
		digits = digits + "." + fraction
	}

	value, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return value, true
}

// onlyDigits strips every rune outside 0-9.
func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
