package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/entity"
	"gorm.io/gorm"
)

// GQRRepository goods quality report store. The two compound writes
// (create-with-consumption and update-with-pre-gr) run as single
// transactions, matching the atomicity the original stored procedures gave.
type GQRRepository struct {
	db *gorm.DB
}

func NewGQRRepository(db *gorm.DB) *GQRRepository {
	return &GQRRepository{db: db}
}

// FindAll lists GQRs with filters and pagination
func (r *GQRRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.GQREntry, int64, error) {
	var items []entity.GQREntry
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.GQREntry{})

	if status := filters["status"]; status != "" {
		query = query.Where("gqr_status = ?", status)
	}
	if preGRID := filters["pre_gr_id"]; preGRID != "" {
		query = query.Where("pre_gr_id = ?", preGRID)
	}
	if startDate := filters["start_date"]; startDate != "" {
		query = query.Where("date >= ?", startDate)
	}
	if endDate := filters["end_date"]; endDate != "" {
		query = query.Where("date <= ?", endDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("PreGR").
		Preload("PreGR.PurchaseOrder").
		Preload("PreGR.PurchaseOrder.Supplier").
		Order("date DESC, created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID loads a GQR with its full Pre-GR / PO chain
func (r *GQRRepository) FindByID(ctx context.Context, id string) (*entity.GQREntry, error) {
	var g entity.GQREntry
	err := r.db.WithContext(ctx).
		Preload("PreGR").
		Preload("PreGR.PurchaseOrder").
		Preload("PreGR.PurchaseOrder.Supplier").
		Preload("PreGR.PurchaseOrder.Item").
		Where("id = ?", id).
		First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// CreateFromPreGR atomically inserts the GQR and marks the parent Pre-GR
// consumed. The UPDATE carries an is_gqr_created = false guard so a
// concurrent create against the same Pre-GR loses inside the transaction.
func (r *GQRRepository) CreateFromPreGR(ctx context.Context, g *entity.GQREntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.PreGREntry{}).
			Where("id = ? AND is_admin_approved = ? AND is_gqr_created = ?", g.PreGRID, true, false).
			Update("is_gqr_created", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyConsumed
		}
		return tx.Create(g).Error
	})
}

// Update writes a GQR back with a version guard
func (r *GQRRepository) Update(ctx context.Context, g *entity.GQREntry) error {
	return r.updateTx(r.db.WithContext(ctx), g)
}

func (r *GQRRepository) updateTx(tx *gorm.DB, g *entity.GQREntry) error {
	prev := g.Version
	g.Version = prev + 1
	res := tx.Model(&entity.GQREntry{}).
		Where("id = ? AND version = ?", g.ID, prev).
		Select("*").
		Omit("id", "created_at").
		Updates(g)
	if res.Error != nil {
		g.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		g.Version = prev
		return ErrConflict
	}
	return nil
}

// UpdateWithPreGR atomically writes the GQR segregation weights together
// with the parent Pre-GR's bag counts, both version-guarded.
func (r *GQRRepository) UpdateWithPreGR(ctx context.Context, g *entity.GQREntry, gr *entity.PreGREntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.updateTx(tx, g); err != nil {
			return err
		}

		prev := gr.Version
		gr.Version = prev + 1
		res := tx.Model(&entity.PreGREntry{}).
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
	})
}

// GenerateCode produces GQR-YYYYMM-XXXX
func (r *GQRRepository) GenerateCode(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("GQR-%s", time.Now().Format("200601"))
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.GQREntry{}).
		Where("gqr_code LIKE ?", prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", prefix, count+1), nil
}

// AppendSnapshot inserts a settlement snapshot with the next sequence
// number for the GQR. Snapshots are append-only.
func (r *GQRRepository) AppendSnapshot(ctx context.Context, snap *entity.SettlementSnapshot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxSeq int64
		if err := tx.Model(&entity.SettlementSnapshot{}).
			Where("gqr_id = ?", snap.GQRID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error; err != nil {
			return err
		}
		snap.Seq = int(maxSeq) + 1
		return tx.Create(snap).Error
	})
}

// ListSnapshots returns a GQR's finalize history, oldest first
func (r *GQRRepository) ListSnapshots(ctx context.Context, gqrID string) ([]entity.SettlementSnapshot, error) {
	var snaps []entity.SettlementSnapshot
	err := r.db.WithContext(ctx).
		Where("gqr_id = ?", gqrID).
		Order("seq ASC").
		Find(&snaps).Error
	return snaps, err
}
