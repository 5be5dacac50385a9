package entity

import "time"

// Supplier master record
type Supplier struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	Code          string    `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name          string    `json:"name" gorm:"size:200;not null"`
	ContactPerson string    `json:"contact_person" gorm:"size:100"`
	Phone         string    `json:"phone" gorm:"size:30"`
	Address       string    `json:"address" gorm:"size:500"`
	GSTIN         string    `json:"gstin" gorm:"size:20"`
	Status        string    `json:"status" gorm:"size:20;default:active"` // active/inactive
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

// ItemMaster commodity master record
type ItemMaster struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	Name          string    `json:"name" gorm:"size:200;uniqueIndex;not null"`
	HSNCode       string    `json:"hsn_code" gorm:"size:20"`
	Unit          string    `json:"unit" gorm:"size:20;default:MT"`
	AlternateUnit string    `json:"alternate_unit" gorm:"size:20;default:kgs"`
	Status        string    `json:"status" gorm:"size:20;default:active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (ItemMaster) TableName() string {
	return "item_master"
}

// GapItem secondary goods category tracked alongside the primary item
type GapItem struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Name      string    `json:"name" gorm:"size:200;uniqueIndex;not null"`
	Rate      *float64  `json:"rate" gorm:"type:decimal(12,4)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (GapItem) TableName() string {
	return "gap_items"
}

// Customer master record
type Customer struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	Name          string    `json:"name" gorm:"size:200;not null"`
	ContactPerson string    `json:"contact_person" gorm:"size:100"`
	Phone         string    `json:"phone" gorm:"size:30"`
	Address       string    `json:"address" gorm:"size:500"`
	Country       string    `json:"country" gorm:"size:100"`
	Status        string    `json:"status" gorm:"size:20;default:active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}
