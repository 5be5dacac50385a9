package entity

import "gorm.io/gorm"

// AutoMigrate migrates all procurement tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Masters
		&Supplier{},
		&ItemMaster{},
		&GapItem{},
		&Customer{},
		&UserProfile{},

		// Lifecycle
		&PurchaseOrder{},
		&PreGREntry{},
		&GQREntry{},
		&SettlementSnapshot{},
	)
}
