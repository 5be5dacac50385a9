package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/entity"
	"gorm.io/gorm"
)

// PORepository purchase order store
type PORepository struct {
	db *gorm.DB
}

func NewPORepository(db *gorm.DB) *PORepository {
	return &PORepository{db: db}
}

// FindAll lists purchase orders with filters and pagination
func (r *PORepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	var items []entity.PurchaseOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{})

	if supplierID := filters["supplier_id"]; supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if itemID := filters["item_id"]; itemID != "" {
		query = query.Where("item_id = ?", itemID)
	}
	if closed := filters["closed"]; closed != "" {
		query = query.Where("po_closed = ?", closed == "true")
	}
	if startDate := filters["start_date"]; startDate != "" {
		query = query.Where("po_date >= ?", startDate)
	}
	if endDate := filters["end_date"]; endDate != "" {
		query = query.Where("po_date <= ?", endDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Supplier").
		Preload("Item").
		Order("po_date DESC, created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads a PO with its supplier and item
func (r *PORepository) FindByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Item").
		Where("id = ?", id).
		First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// Create inserts a purchase order
func (r *PORepository) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

// Update writes a PO back with a version guard; ErrConflict when another
// writer got there first.
func (r *PORepository) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	prev := po.Version
	po.Version = prev + 1
	res := r.db.WithContext(ctx).
		Model(&entity.PurchaseOrder{}).
		Where("id = ? AND version = ?", po.ID, prev).
		Select("*").
		Omit("id", "created_at").
		Updates(po)
	if res.Error != nil {
		po.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		po.Version = prev
		return ErrConflict
	}
	return nil
}

// Delete removes a PO that is not yet referenced by any Pre-GR
func (r *PORepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&entity.PreGREntry{}).Where("po_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return errors.New("purchase order has pre-gr entries and cannot be deleted")
		}
		return tx.Where("id = ?", id).Delete(&entity.PurchaseOrder{}).Error
	})
}

// GenerateVoucherNumber produces PO-YYYYMM-XXXX
func (r *PORepository) GenerateVoucherNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("PO-%s", time.Now().Format("200601"))
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.PurchaseOrder{}).
		Where("voucher_number LIKE ?", prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", prefix, count+1), nil
}

// HasGQR reports whether any GQR references this PO through a Pre-GR;
// such POs are immutable outside their own edit operation.
func (r *PORepository) HasGQR(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.GQREntry{}).
		Joins("JOIN pre_gr_entry ON pre_gr_entry.id = gqr_entry.pre_gr_id").
		Where("pre_gr_entry.po_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// RecordTallyPosting stores the posting outcome on the PO row. Deliberately
// unversioned: posting status is adapter-owned and must not conflict with
// concurrent form edits.
func (r *PORepository) RecordTallyPosting(ctx context.Context, id string, posted bool, response string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entity.PurchaseOrder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"tally_posted":    posted,
			"tally_posted_at": &now,
			"tally_response":  response,
		}).Error
}
