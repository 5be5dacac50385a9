package entity

import "time"

// GQR status
const (
	GQRStatusOpen   = "open"
	GQRStatusClosed = "closed"
)

// GQREntry final quality-segregation and settlement record derived from a
// Pre-GR. One-to-one with its Pre-GR, enforced by the consumption flag and
// the unique index on PreGRID.
type GQREntry struct {
	ID      string    `json:"id" gorm:"primaryKey;size:32"`
	GQRCode string    `json:"gqr_code" gorm:"size:32;uniqueIndex;not null"`
	PreGRID string    `json:"pre_gr_id" gorm:"size:32;uniqueIndex;not null"`
	Date    time.Time `json:"date" gorm:"not null"`

	// Segregation weights (kgs)
	ExportQualityKgs  float64 `json:"export_quality_kgs" gorm:"type:decimal(12,3);default:0"`
	PodiKgs           float64 `json:"podi_kgs" gorm:"type:decimal(12,3);default:0"`
	GapItemsKgs       float64 `json:"gap_items_kgs" gorm:"type:decimal(12,3);default:0"`
	RotKgs            float64 `json:"rot_kgs" gorm:"type:decimal(12,3);default:0"`
	DoublesKgs        float64 `json:"doubles_kgs" gorm:"type:decimal(12,3);default:0"`
	SandKgs           float64 `json:"sand_kgs" gorm:"type:decimal(12,3);default:0"`
	WeightShortageKgs float64 `json:"weight_shortage_kgs" gorm:"type:decimal(12,3);default:0"` // admin-only even while open

	// Admin override rates, written only at finalize. Distinct from the
	// PO's committed rates; once the record is closed these snapshots are
	// the rates in force.
	VolatilePORate           *float64 `json:"volatile_po_rate" gorm:"type:decimal(12,4)"`
	VolatilePodiRate         *float64 `json:"volatile_podi_rate" gorm:"type:decimal(12,4)"`
	VolatileGapItemRate      *float64 `json:"volatile_gap_item_rate" gorm:"type:decimal(12,4)"`
	VolatileWastageKgsPerTon *float64 `json:"volatile_wastage_kgs_per_ton" gorm:"type:decimal(8,2)"`

	Status             string   `json:"gqr_status" gorm:"column:gqr_status;size:20;default:open"` // open/closed
	TotalValueReceived *float64 `json:"total_value_received" gorm:"type:decimal(15,2)"`
	UserRemark         string   `json:"user_remark" gorm:"type:text"` // shortage justification

	FinalizedBy *string    `json:"finalized_by" gorm:"size:32"`
	FinalizedAt *time.Time `json:"finalized_at"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version" gorm:"default:1"`

	// Associations
	PreGR     *PreGREntry          `json:"pre_gr,omitempty" gorm:"foreignKey:PreGRID"`
	Snapshots []SettlementSnapshot `json:"snapshots,omitempty" gorm:"foreignKey:GQRID"`
}

func (GQREntry) TableName() string {
	return "gqr_entry"
}

// SpoilageKgs sums the spoilage categories plus weight shortage, the
// figure the settlement calculator accounts against wastage allowance.
func (g *GQREntry) SpoilageKgs() float64 {
	return g.RotKgs + g.DoublesKgs + g.SandKgs + g.WeightShortageKgs
}
