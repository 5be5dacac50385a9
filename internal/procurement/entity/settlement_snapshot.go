package entity

import "time"

// SettlementSnapshot immutable record of the rates and totals in force at
// a finalize event. One row is appended per finalize; a reversal followed
// by re-finalize appends a new row with the next sequence number. Rows are
// never updated or deleted, preserving the full audit history.
type SettlementSnapshot struct {
	ID    string `json:"id" gorm:"primaryKey;size:32"`
	GQRID string `json:"gqr_id" gorm:"size:32;not null;index"`
	Seq   int    `json:"seq" gorm:"not null"`

	PORatePerKg        float64 `json:"po_rate_per_kg" gorm:"type:decimal(12,4)"`
	PodiRatePerKg      float64 `json:"podi_rate_per_kg" gorm:"type:decimal(12,4)"`
	GapItemRatePerKg   float64 `json:"gap_item_rate_per_kg" gorm:"type:decimal(12,4)"`
	WastageKgsPerTon   float64 `json:"wastage_kgs_per_ton" gorm:"type:decimal(8,2)"`
	EstimatedValue     float64 `json:"estimated_value" gorm:"type:decimal(15,2)"`
	TotalValueReceived float64 `json:"total_value_received" gorm:"type:decimal(15,2)"`

	FinalizedBy string    `json:"finalized_by" gorm:"size:32;not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (SettlementSnapshot) TableName() string {
	return "settlement_snapshots"
}
