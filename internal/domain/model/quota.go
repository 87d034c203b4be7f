package model

// QuotaRecord tracks one account's quiz attempts within a single UTC
// calendar day. It is replaced, not merged, when the window date rolls over.
type QuotaRecord struct {
	AccountID    string `json:"account_id"`
	WindowDate   string `json:"window_date"` // YYYY-MM-DD, UTC
	AttemptsUsed int    `json:"attempts_used"`
}
