package extract

import "regexp"

// moneyToken matches a single monetary figure: grouped digits with space,
// dot, or comma thousands marks, or a plain digit run, with an optional
// one-or-two digit decimal tail. Grouping requires full three-digit groups so
// a token like "1599.20" is read as one number, not "159" plus leftovers.
const moneyToken = `(?:\d{1,3}(?:[ .,]\d{3})+|\d+)(?:[.,]\d{1,2})?`

// StorePattern ties a merchant-name regexp to a canonical label. Subsidiaries
// names other entries in the list; when a holding-company pattern matches, a
// subsidiary brand found elsewhere in the text is preferred as the merchant,
// since receipts often print the legal parent above the shopper-facing brand.
type StorePattern struct {
	Pattern      *regexp.Regexp
	Name         string
	Subsidiaries []string
}

// VATPattern locates a tax amount. Group is the index of the submatch holding
// the amount token; breakdown lines capture several figures, and only one of
// them is the tax.
type VATPattern struct {
	Pattern *regexp.Regexp
	Group   int
}

// TotalPattern anchors a candidate grand total on a nearby keyword.
type TotalPattern struct {
	Pattern *regexp.Regexp
	Group   int
}

// defaultStorePatterns is consulted in order; the first pattern matching the
// raw text decides the merchant. Holding companies come before their brands.
var defaultStorePatterns = []StorePattern{
	{Pattern: regexp.MustCompile(`(?i)norgesgruppen(?:\s+asa)?`), Name: "NorgesGruppen", Subsidiaries: []string{"KIWI", "MENY", "SPAR", "JOKER"}},
	{Pattern: regexp.MustCompile(`(?i)coop\s+norge(?:\s+sa)?`), Name: "Coop Norge", Subsidiaries: []string{"Coop Prix", "Coop Extra", "Coop Obs", "Coop Mega", "Coop Marked"}},
	{Pattern: regexp.MustCompile(`(?i)coop\s+prix`), Name: "Coop Prix"},
	{Pattern: regexp.MustCompile(`(?i)coop\s+extra`), Name: "Coop Extra"},
	{Pattern: regexp.MustCompile(`(?i)coop\s+obs`), Name: "Coop Obs"},
	{Pattern: regexp.MustCompile(`(?i)coop\s+mega`), Name: "Coop Mega"},
	{Pattern: regexp.MustCompile(`(?i)coop\s+marked`), Name: "Coop Marked"},
	{Pattern: regexp.MustCompile(`(?i)rema\s*1000`), Name: "REMA 1000"},
	{Pattern: regexp.MustCompile(`(?i)\bkiwi\b`), Name: "KIWI"},
	{Pattern: regexp.MustCompile(`(?i)\bmeny\b`), Name: "MENY"},
	{Pattern: regexp.MustCompile(`(?i)\bspar\b`), Name: "SPAR"},
	{Pattern: regexp.MustCompile(`(?i)\bjoker\b`), Name: "JOKER"},
	{Pattern: regexp.MustCompile(`(?i)bunnpris`), Name: "Bunnpris"},
	{Pattern: regexp.MustCompile(`(?i)europris`), Name: "Europris"},
	{Pattern: regexp.MustCompile(`(?i)vinmonopolet`), Name: "Vinmonopolet"},
	{Pattern: regexp.MustCompile(`(?i)duty\s*free(?:\s*shop)?`), Name: "Duty Free"},
	{Pattern: regexp.MustCompile(`(?i)\bcoop\b`), Name: "Coop"},
}

// defaultVATPatterns is tried in order; the first candidate that normalizes
// to a non-zero amount wins. The breakdown triple comes first because its
// middle figure is the tax amount, which the keyword patterns would misread.
var defaultVATPatterns = []VATPattern{
	// base rate% vat total, as printed in VAT breakdown sections
	{Pattern: regexp.MustCompile(`(` + moneyToken + `)[ \t]+\d{1,2}(?:[.,]\d+)?[ \t]*%[ \t]+(` + moneyToken + `)[ \t]+(` + moneyToken + `)`), Group: 2},
	// "herav mva" / "hvorav mva" phrasing
	{Pattern: regexp.MustCompile(`(?i)(?:herav|hvorav)[ \t]+mva\.?(?:[ \t]*\d{1,2}(?:[.,]\d+)?[ \t]*%)?[ \t]*:?[ \t]*(?:kr\.?[ \t]*)?(` + moneyToken + `)`), Group: 1},
	// keyword before the amount, with an optional rate in between
	{Pattern: regexp.MustCompile(`(?i)\b(?:mva|vat|moms)\b\.?[ \t]*(?:\d{1,2}(?:[.,]\d+)?[ \t]*%)?[ \t]*:?[ \t]*(?:kr\.?[ \t]*)?(` + moneyToken + `)`), Group: 1},
	// amount before the keyword
	{Pattern: regexp.MustCompile(`(?i)(` + moneyToken + `)[ \t]*(?:kr\.?[ \t]*)?\b(?:mva|vat|moms)\b`), Group: 1},
}

// defaultTotalPatterns anchors total candidates on sum keywords. Every match
// of every pattern is collected; the largest plausible value wins.
var defaultTotalPatterns = []TotalPattern{
	{Pattern: regexp.MustCompile(`(?i)(?:totalt?|sum|bel[øo]p|amount[ \t]+due|to[ \t]+pay|(?:å|aa?)[ \t]+betale|bankkort|bankaxept)[ \t]*:?[ \t]*(?:(?:kr|nok|eur|usd|gbp|sek|dkk)\.?[ \t]+)?(` + moneyToken + `)`), Group: 1},
	{Pattern: regexp.MustCompile(`(?i)(` + moneyToken + `)[ \t]*(?:kr\.?[ \t]*)?(?:bankkort|bankaxept)`), Group: 1},
}

var (
	// currencyPattern recognizes the supported ISO codes as whole words.
	currencyPattern = regexp.MustCompile(`(?i)\b(?:NOK|EUR|USD|GBP|SEK|DKK)\b`)

	// orgIDPattern marks business registration number lines, near which the
	// legal merchant name is usually printed.
	orgIDPattern = regexp.MustCompile(`(?i)\borg(?:anisasjons)?[-. \t]*n(?:r|ummer)\b\.?|\bbus\.?[-. \t]*reg\.?[-. \t]*no\b`)

	// moneyShapedPattern finds free-standing amounts with a mandatory
	// two-digit decimal tail, used when no total keyword survived the scan.
	moneyShapedPattern = regexp.MustCompile(`(?:\d{1,3}(?:[ .,]\d{3})+|\d+)[.,]\d{2}\b`)

	postalCodePattern = regexp.MustCompile(`\b\d{4}\b`)
	phoneLinePattern  = regexp.MustCompile(`(?i)telefon|tlf|phone`)
	letterRunPattern  = regexp.MustCompile(`[A-Za-zÀ-ÖØ-öø-ÿ]{3,}`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
)
