package models

// SuggestionItem is one AI-suggested activity for a trip day.
type SuggestionItem struct {
	Day           int     `json:"day"`
	Activity      string  `json:"activity"`
	Location      string  `json:"location"`
	EstimatedCost float64 `json:"estimatedCost"`
}

// ExtractedExpense is the result of analyzing a receipt image: a description
// (merchant name), the total amount and one of the fixed category labels.
type ExtractedExpense struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
}
