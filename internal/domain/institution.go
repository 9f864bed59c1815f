package domain

// Institution is a bank, broker, exchange or similar provider an account
// belongs to. Type is a free-form tag ("bank", "broker", "crypto_exchange").
type Institution struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}
