package entity

import "time"

// PurchaseOrder contractual commitment to buy a quantity of an item from a
// supplier at a rate. Root of the PO -> Pre-GR -> GQR consumption chain.
type PurchaseOrder struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	VoucherNumber string    `json:"voucher_number" gorm:"size:32;uniqueIndex;not null"`
	PODate        time.Time `json:"po_date" gorm:"not null"`
	SupplierID    string    `json:"supplier_id" gorm:"size:32;not null;index"`
	ItemID        string    `json:"item_id" gorm:"size:32;not null;index"`

	// Committed terms
	QuantityMT          float64  `json:"quantity_mt" gorm:"type:decimal(12,3);not null"`
	RatePerKg           float64  `json:"rate_per_kg" gorm:"type:decimal(12,4);not null"`
	PodiRatePerKg       *float64 `json:"podi_rate_per_kg" gorm:"type:decimal(12,4)"`
	CargoPercent        *float64 `json:"cargo_percent" gorm:"column:cargo;type:decimal(6,2)"` // assured export-quality yield %
	DamageAllowedKgsTon *float64 `json:"damage_allowed_kgs_ton" gorm:"type:decimal(8,2)"`

	// Admin closure
	POClosed     bool   `json:"po_closed" gorm:"default:false"`
	ClosedRemark string `json:"closed_remark" gorm:"type:text"`

	// Tally voucher posting (best-effort, never rolls back the PO write)
	TallyPosted   bool       `json:"tally_posted" gorm:"default:false"`
	TallyPostedAt *time.Time `json:"tally_posted_at"`
	TallyResponse string     `json:"tally_response" gorm:"type:text"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version" gorm:"default:1"` // optimistic concurrency token

	// Associations
	Supplier *Supplier   `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Item     *ItemMaster `json:"item,omitempty" gorm:"foreignKey:ItemID"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}
