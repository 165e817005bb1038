package models

// Expense category labels form a fixed closed set. Earlier releases persisted
// English labels; those are kept readable through exact-string aliases.
const (
	CategoryFood          = "Alimentação"
	CategoryTransport     = "Transporte"
	CategoryShopping      = "Compras"
	CategoryLeisure       = "Lazer"
	CategoryAccommodation = "Hospedagem"
	CategoryFlight        = "Voo"
	CategoryOther         = "Outros"
)

// Categories lists the canonical labels in display order.
var Categories = []string{
	CategoryFood,
	CategoryTransport,
	CategoryShopping,
	CategoryLeisure,
	CategoryAccommodation,
	CategoryFlight,
	CategoryOther,
}

// LegacyCategoryAliases maps previously persisted labels to current ones.
// Matching is exact-string and case-sensitive, one alias per category.
var LegacyCategoryAliases = map[string]string{
	"Food":          CategoryFood,
	"Transport":     CategoryTransport,
	"Shopping":      CategoryShopping,
	"Activity":      CategoryLeisure,
	"Accommodation": CategoryAccommodation,
	"Flight":        CategoryFlight,
	"Other":         CategoryOther,
}

// CanonicalCategory resolves a persisted category label to its current form.
// Unknown labels pass through unchanged.
func CanonicalCategory(label string) string {
	if current, ok := LegacyCategoryAliases[label]; ok {
		return current
	}
	return label
}

// ValidCategory reports whether label is a canonical category.
func ValidCategory(label string) bool {
	for _, c := range Categories {
		if c == label {
			return true
		}
	}
	return false
}

// Expense is a settled cost entry. Amount is always the home-currency (BRL)
// value; when IsForeign is set, Amount must equal the rounded product of
// ForeignAmount and ExchangeRate.
type Expense struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`

	IsForeign      bool    `json:"isForeign,omitempty"`
	ForeignAmount  float64 `json:"foreignAmount,omitempty"`
	CurrencySymbol string  `json:"currencySymbol,omitempty"`
	ExchangeRate   float64 `json:"exchangeRate,omitempty"`
}
