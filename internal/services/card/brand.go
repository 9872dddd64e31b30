package card

import "strings"

// Brand is the card network inferred from the leading digits of a card number.
type Brand string

const (
	BrandVisa       Brand = "visa"
	BrandMastercard Brand = "mastercard"
	BrandAmex       Brand = "amex"
	BrandDiscover   Brand = "discover"
	BrandUnknown    Brand = "unknown"
)

type prefixRule struct {
	brand    Brand
	prefixes []string
}

// Checked in order; first match wins.
var brandRules = []prefixRule{
	{BrandVisa, []string{"4"}},
	{BrandMastercard, []string{"51", "52", "53", "54", "55", "22", "23", "24", "25", "26", "27"}},
	{BrandAmex, []string{"34", "37"}},
	{BrandDiscover, []string{"6011", "65"}},
}

// DetectCardType classifies a card number by its prefix. Whitespace is
// ignored; any other character is left in place and will usually produce
// BrandUnknown.
func DetectCardType(raw string) Brand {
	cleaned := stripWhitespace(raw)
	for _, rule := range brandRules {
		for _, p := range rule.prefixes {
			if strings.HasPrefix(cleaned, p) {
				return rule.brand
			}
		}
	}
	return BrandUnknown
}

// ParseBrand maps a stored brand string back to a Brand.
func ParseBrand(s string) Brand {
	switch Brand(strings.ToLower(strings.TrimSpace(s))) {
	case BrandVisa:
		return BrandVisa
	case BrandMastercard:
		return BrandMastercard
	case BrandAmex, "american express", "american_express":
		return BrandAmex
	case BrandDiscover:
		return BrandDiscover
	default:
		return BrandUnknown
	}
}

// DisplayName returns the label shown to users.
func (b Brand) DisplayName() string {
	switch b {
	case BrandVisa:
		return "Visa"
	case BrandMastercard:
		return "Mastercard"
	case BrandAmex:
		return "American Express"
	case BrandDiscover:
		return "Discover"
	default:
		return "Card"
	}
}

func (b Brand) String() string {
	return string(b)
}
