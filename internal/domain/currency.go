package domain

// Currency is an ISO-4217-style currency. Currencies are referenced by
// accounts and transactions and are never deleted once referenced.
type Currency struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
