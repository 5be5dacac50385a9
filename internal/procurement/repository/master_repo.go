package repository

import (
	"context"
	"errors"

	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/entity"
	"gorm.io/gorm"
)

// MasterRepository store for supplier/item/gap-item/customer masters
type MasterRepository struct {
	db *gorm.DB
}

func NewMasterRepository(db *gorm.DB) *MasterRepository {
	return &MasterRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// === Suppliers ===

func (r *MasterRepository) ListSuppliers(ctx context.Context, status string) ([]entity.Supplier, error) {
	var items []entity.Supplier
	query := r.db.WithContext(ctx).Order("name ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return items, query.Find(&items).Error
}

func (r *MasterRepository) FindSupplierByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var s entity.Supplier
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *MasterRepository) CreateSupplier(ctx context.Context, s *entity.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *MasterRepository) UpdateSupplier(ctx context.Context, s *entity.Supplier) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *MasterRepository) DeleteSupplier(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Supplier{}).Error
}

// === Items ===

func (r *MasterRepository) ListItems(ctx context.Context, status string) ([]entity.ItemMaster, error) {
	var items []entity.ItemMaster
	query := r.db.WithContext(ctx).Order("name ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return items, query.Find(&items).Error
}

func (r *MasterRepository) FindItemByID(ctx context.Context, id string) (*entity.ItemMaster, error) {
	var i entity.ItemMaster
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&i).Error; err != nil {
		return nil, notFound(err)
	}
	return &i, nil
}

func (r *MasterRepository) CreateItem(ctx context.Context, i *entity.ItemMaster) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *MasterRepository) UpdateItem(ctx context.Context, i *entity.ItemMaster) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *MasterRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.ItemMaster{}).Error
}

// === Gap items ===

func (r *MasterRepository) ListGapItems(ctx context.Context) ([]entity.GapItem, error) {
	var items []entity.GapItem
	return items, r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
}

func (r *MasterRepository) FindGapItemByID(ctx context.Context, id string) (*entity.GapItem, error) {
	var g entity.GapItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&g).Error; err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

func (r *MasterRepository) CreateGapItem(ctx context.Context, g *entity.GapItem) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *MasterRepository) UpdateGapItem(ctx context.Context, g *entity.GapItem) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *MasterRepository) DeleteGapItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.GapItem{}).Error
}

// === Customers ===

func (r *MasterRepository) ListCustomers(ctx context.Context, status string) ([]entity.Customer, error) {
	var items []entity.Customer
	query := r.db.WithContext(ctx).Order("name ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return items, query.Find(&items).Error
}

func (r *MasterRepository) FindCustomerByID(ctx context.Context, id string) (*entity.Customer, error) {
	var c entity.Customer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *MasterRepository) CreateCustomer(ctx context.Context, c *entity.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *MasterRepository) UpdateCustomer(ctx context.Context, c *entity.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *MasterRepository) DeleteCustomer(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Customer{}).Error
}
