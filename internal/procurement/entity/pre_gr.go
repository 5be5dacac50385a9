package entity

import "time"

// PreGREntry weighbridge record of an incoming shipment against a PO,
// prior to quality segregation. Net weight is always laden - empty and is
// recomputed server-side on every write.
type PreGREntry struct {
	ID     string    `json:"id" gorm:"primaryKey;size:32"`
	GRCode string    `json:"gr_code" gorm:"size:32;uniqueIndex;not null"`
	POID   string    `json:"po_id" gorm:"size:32;not null;index"`
	Date   time.Time `json:"date" gorm:"not null"`

	// Weighbridge measurements (kgs)
	VehicleNumber   string  `json:"vehicle_number" gorm:"size:20;not null"`
	WeighbridgeName string  `json:"weighbridge_name" gorm:"size:100"`
	BagCount        int     `json:"bag_count" gorm:"default:0"`
	LadenWeightKgs  float64 `json:"laden_weight_kgs" gorm:"type:decimal(12,3);not null"`
	EmptyWeightKgs  float64 `json:"empty_weight_kgs" gorm:"type:decimal(12,3);not null"`
	NetWeightKgs    float64 `json:"net_weight_kgs" gorm:"type:decimal(12,3);not null"`

	// Preliminary deductions
	PodiBagCount      int      `json:"podi_bag_count" gorm:"default:0"`
	GapItem1ID        *string  `json:"gap_item1_id" gorm:"size:32"`
	GapItem1Qty       *float64 `json:"gap_item1_qty" gorm:"type:decimal(12,3)"`
	GapItem2ID        *string  `json:"gap_item2_id" gorm:"size:32"`
	GapItem2Qty       *float64 `json:"gap_item2_qty" gorm:"type:decimal(12,3)"`
	WeightShortageKgs float64  `json:"weight_shortage_kgs" gorm:"type:decimal(12,3);default:0"`

	// Admin gate: approval is mandatory before a GQR may be created, and
	// before saving at all when podi bags were recorded.
	IsAdminApproved bool     `json:"is_admin_approved" gorm:"default:false"`
	AdminRemark     string   `json:"admin_remark" gorm:"type:text"`
	AdvanceAmount   *float64 `json:"advance_amount" gorm:"type:decimal(15,2)"`

	// Consumption flag: a Pre-GR sources at most one GQR.
	IsGQRCreated bool `json:"is_gqr_created" gorm:"default:false;index"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version" gorm:"default:1"`

	// Associations
	PurchaseOrder *PurchaseOrder `json:"purchase_order,omitempty" gorm:"foreignKey:POID"`
	GapItem1      *GapItem       `json:"gap_item1,omitempty" gorm:"foreignKey:GapItem1ID"`
	GapItem2      *GapItem       `json:"gap_item2,omitempty" gorm:"foreignKey:GapItem2ID"`
}

func (PreGREntry) TableName() string {
	return "pre_gr_entry"
}
