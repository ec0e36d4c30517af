// Package extract recovers structured fields from OCR receipt text.
package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ExtractedFields is the result of a single extraction pass. Merchant, VAT
// and total may each be absent; currency always carries a value.
type ExtractedFields struct {
	Merchant  string           `json:"merchant,omitempty"`
	VATAmount *decimal.Decimal `json:"vat_amount,omitempty"`
	Total     *decimal.Decimal `json:"total,omitempty"`
	Currency  string           `json:"currency"`
}

// plausibleCeiling bounds accepted totals; figures at a million kroner or
// more on a store receipt are OCR artifacts.
var plausibleCeiling = decimal.NewFromInt(1_000_000)

// Extractor holds the pattern tables the detection passes consult. The zero
// value is not usable; NewExtractor seeds the built-in tables.
type Extractor struct {
	stores []StorePattern
	vat    []VATPattern
	totals []TotalPattern
}

func NewExtractor() *Extractor {
	return &Extractor{
		stores: append([]StorePattern(nil), defaultStorePatterns...),
		vat:    append([]VATPattern(nil), defaultVATPatterns...),
		totals: append([]TotalPattern(nil), defaultTotalPatterns...),
	}
}

// AddStorePattern registers an extra merchant pattern, consulted before the
// built-in table.
func (e *Extractor) AddStorePattern(p StorePattern) {
	e.stores = append([]StorePattern{p}, e.stores...)
}

// AddVATPattern registers an extra tax pattern, consulted before the
// built-in table.
func (e *Extractor) AddVATPattern(p VATPattern) {
	e.vat = append([]VATPattern{p}, e.vat...)
}

// AddTotalPattern registers an extra total pattern, consulted before the
// built-in table.
func (e *Extractor) AddTotalPattern(p TotalPattern) {
	e.totals = append([]TotalPattern{p}, e.totals...)
}

var defaultExtractor = NewExtractor()

// ExtractFields runs the default extractor over text.
func ExtractFields(text string) ExtractedFields {
	return defaultExtractor.ExtractFields(text)
}

// ExtractFields pulls merchant, tax amount, grand total and currency out of
// receipt text. Detection degrades field by field: whatever cannot be
// recovered is left absent, and currency falls back to NOK.
func (e *Extractor) ExtractFields(text string) ExtractedFields {
	lines := splitLines(text)
	fields := ExtractedFields{
		Merchant: e.detectMerchant(text, lines),
		Currency: detectCurrency(text),
	}
	if v, ok := e.detectVAT(text); ok {
		fields.VATAmount = &v
	}
	if t, ok := e.detectTotal(text); ok {
		fields.Total = &t
	}
	return fields
}

// detectMerchant tries the store table first, then the line above a business
// registration number, then the first line of the receipt.
func (e *Extractor) detectMerchant(text string, lines []string) string {
	for _, store := range e.stores {
		match := store.Pattern.FindString(text)
		if match == "" {
			continue
		}
		for _, name := range store.Subsidiaries {
			sub, ok := e.storeByName(name)
			if !ok {
				continue
			}
			if m := sub.Pattern.FindString(text); m != "" {
				match = m
				break
			}
		}
		return cleanMerchant(match)
	}
	if name, ok := merchantNearOrgID(lines); ok {
		return cleanMerchant(name)
	}
	if len(lines) > 0 {
		return cleanMerchant(lines[0])
	}
	return ""
}

func (e *Extractor) storeByName(name string) (StorePattern, bool) {
	for _, s := range e.stores {
		if s.Name == name {
			return s, true
		}
	}
	return StorePattern{}, false
}

func detectCurrency(text string) string {
	if code := currencyPattern.FindString(text); code != "" {
		return strings.ToUpper(code)
	}
	return "NOK"
}

// detectVAT tries the tax patterns in order and keeps the first amount that
// normalizes to a non-zero value. A tax line that reads as zero is treated
// the same as no tax line at all.
func (e *Extractor) detectVAT(text string) (decimal.Decimal, bool) {
	for _, p := range e.vat {
		for _, match := range p.Pattern.FindAllStringSubmatch(text, -1) {
			v, ok := NormalizeAmount(match[p.Group])
			if ok && !v.IsZero() {
				return v, true
			}
		}
	}
	return decimal.Decimal{}, false
}

// detectTotal prefers keyword-anchored amounts; only when no keyword match
// normalizes does it fall back to the largest money-shaped figure anywhere
// in the text. Either way the winner must lie inside the plausible range.
func (e *Extractor) detectTotal(text string) (decimal.Decimal, bool) {
	var candidates []decimal.Decimal
	for _, p := range e.totals {
		for _, match := range p.Pattern.FindAllStringSubmatch(text, -1) {
			if v, ok := NormalizeAmount(match[p.Group]); ok {
				candidates = append(candidates, v)
			}
		}
	}
	if best, ok := largestPlausible(candidates); ok {
		return best, true
	}

	candidates = candidates[:0]
	for _, token := range moneyShapedPattern.FindAllString(text, -1) {
		if v, ok := NormalizeAmount(token); ok {
			candidates = append(candidates, v)
		}
	}
	return largestPlausible(candidates)
}

func largestPlausible(values []decimal.Decimal) (decimal.Decimal, bool) {
	var best decimal.Decimal
	found := false
	for _, v := range values {
		if !v.IsPositive() || !v.LessThan(plausibleCeiling) {
			continue
		}
		if !found || v.GreaterThan(best) {
			best = v
			found = true
		}
	}
	return best, found
}

// merchantNearOrgID looks for the legal name printed above a business
// registration line. Address lines, postal codes and phone lines do not
// qualify.
func merchantNearOrgID(lines []string) (string, bool) {
	orgLine := -1
	for i, line := range lines {
		if orgIDPattern.MatchString(line) {
			orgLine = i
			break
		}
	}
	if orgLine < 0 {
		return "", false
	}
	start := orgLine - 3
	if start < 0 {
		start = 0
	}
	for _, line := range lines[start:orgLine] {
		if qualifiesAsMerchant(line) {
			return line, true
		}
	}
	return "", false
}

func qualifiesAsMerchant(line string) bool {
	if utf8.RuneCountInString(line) <= 2 {
		return false
	}
	if line[0] >= '0' && line[0] <= '9' {
		return false
	}
	if postalCodePattern.MatchString(line) {
		return false
	}
	if phoneLinePattern.MatchString(line) {
		return false
	}
	return letterRunPattern.MatchString(line)
}

// cleanMerchant collapses whitespace runs and caps the name at 60
// characters.
func cleanMerchant(s string) string {
	s = strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
	return truncateRunes(s, 60)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}

// splitLines normalizes newlines, trims every line and drops the empty
// ones, preserving order.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
