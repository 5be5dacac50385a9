package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/entity"
	"gorm.io/gorm"
)

// PreGRRepository weighbridge entry store
type PreGRRepository struct {
	db *gorm.DB
}

func NewPreGRRepository(db *gorm.DB) *PreGRRepository {
	return &PreGRRepository{db: db}
}

// FindAll lists Pre-GR entries with filters and pagination. The
// available=true filter keeps only approved, unconsumed entries — the
// selectable sources for a new GQR.
func (r *PreGRRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PreGREntry, int64, error) {
	var items []entity.PreGREntry
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PreGREntry{})

	if poID := filters["po_id"]; poID != "" {
		query = query.Where("po_id = ?", poID)
	}
	if approved := filters["approved"]; approved != "" {
		query = query.Where("is_admin_approved = ?", approved == "true")
	}
	if filters["available"] == "true" {
		query = query.Where("is_admin_approved = ? AND is_gqr_created = ?", true, false)
	}
	if vehicle := filters["vehicle_number"]; vehicle != "" {
		query = query.Where("vehicle_number = ?", vehicle)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("PurchaseOrder").
		Preload("PurchaseOrder.Supplier").
		Preload("GapItem1").
		Preload("GapItem2").
		Order("date DESC, created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads a Pre-GR with its PO chain
func (r *PreGRRepository) FindByID(ctx context.Context, id string) (*entity.PreGREntry, error) {
	var gr entity.PreGREntry
	err := r.db.WithContext(ctx).
		Preload("PurchaseOrder").
		Preload("PurchaseOrder.Supplier").
		Preload("PurchaseOrder.Item").
		Preload("GapItem1").
		Preload("GapItem2").
		Where("id = ?", id).
		First(&gr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &gr, nil
}

// Create inserts a Pre-GR entry
func (r *PreGRRepository) Create(ctx context.Context, gr *entity.PreGREntry) error {
	return r.db.WithContext(ctx).Create(gr).Error
}

// Update writes a Pre-GR back with a version guard
func (r *PreGRRepository) Update(ctx context.Context, gr *entity.PreGREntry) error {
	prev := gr.Version
	gr.Version = prev + 1
	res := r.db.WithContext(ctx).
		Model(&entity.PreGREntry{}).
		Where("id = ? AND version = ?", gr.ID, prev).
		Select("*").
		Omit("id", "created_at").
		Updates(gr)
	if res.Error != nil {
		gr.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		gr.Version = prev
		return ErrConflict
	}
	return nil
}

// Delete removes an unconsumed Pre-GR
func (r *PreGRRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND is_gqr_created = ?", id, false).
		Delete(&entity.PreGREntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("pre-gr not found or already consumed by a gqr")
	}
	return nil
}

// GenerateCode produces PGR-YYYYMM-XXXX
func (r *PreGRRepository) GenerateCode(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("PGR-%s", time.Now().Format("200601"))
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.PreGREntry{}).
		Where("gr_code LIKE ?", prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", prefix, count+1), nil
}
