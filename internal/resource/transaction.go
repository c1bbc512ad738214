package resource

import "time"

// Transaction statuses.
const (
	TxStatusPending = "pending"
	TxStatusPosted  = "posted"
	TxStatusVoid    = "void"
)

// Transaction is a bank/ledger row from the books module.
type Transaction struct {
	ID          string     `json:"id" validate:"required"`
	Account     string     `json:"account" validate:"required"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	Balance     float64    `json:"balance" validate:"min=0"`
	Currency    string     `json:"currency" validate:"required,len=3"`
	Status      string     `json:"status" validate:"required,oneof=pending posted void"`
	PostedAt    time.Time  `json:"posted_at"`
	DueAt       *time.Time `json:"due_at"`
}

func (t Transaction) EntityID() string { return t.ID }

// AgingBucket is one receivables aging band.
type AgingBucket struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// AgingSummary is the derived receivables aging view: outstanding balances
// grouped by how far past due they are.
type AgingSummary struct {
	Currency    string        `json:"currency"`
	Outstanding float64       `json:"outstanding"`
	Buckets     []AgingBucket `json:"buckets"`
}

// agingBands are the day thresholds of the aging bands; the last band is
// open-ended.
var agingBands = []struct {
	label string
	days  int
}{
	{"current", 0},
	{"1-30", 30},
	{"31-60", 60},
	{"61-90", 90},
	{"90+", 1 << 30},
}

// AggregateAging buckets outstanding transaction balances by days overdue at
// the given time. Void rows and rows without a due date count as current.
func AggregateAging(transactions []Transaction, now time.Time) AgingSummary {
	summary := AgingSummary{Buckets: make([]AgingBucket, len(agingBands))}
	for i, band := range agingBands {
		summary.Buckets[i].Label = band.label
	}

	for _, tx := range transactions {
		if tx.Status == TxStatusVoid || tx.Balance <= 0 {
			continue
		}
		if summary.Currency == "" {
			summary.Currency = tx.Currency
		}

		overdue := 0
		if tx.DueAt != nil && now.After(*tx.DueAt) {
			overdue = int(now.Sub(*tx.DueAt).Hours() / 24)
		}

		for i, band := range agingBands {
			if overdue <= band.days {
				summary.Buckets[i].Count++
				summary.Buckets[i].Total += tx.Balance
				break
			}
		}
		summary.Outstanding += tx.Balance
	}
	return summary
}
