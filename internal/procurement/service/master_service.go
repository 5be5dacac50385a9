package service

import (
	"context"

	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/entity"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/repository"
	"github.com/google/uuid"
)

// MasterService supplier/item/gap-item/customer master data
type MasterService struct {
	masterRepo *repository.MasterRepository
}

func NewMasterService(masterRepo *repository.MasterRepository) *MasterService {
	return &MasterService{masterRepo: masterRepo}
}

// SupplierRequest create/update supplier request
type SupplierRequest struct {
	Code          string `json:"code"` // generated when empty
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	GSTIN         string `json:"gstin"`
	Status        string `json:"status"`
}

// ItemRequest create/update item request
type ItemRequest struct {
	Name          string `json:"name" binding:"required"`
	HSNCode       string `json:"hsn_code"`
	Unit          string `json:"unit"`
	AlternateUnit string `json:"alternate_unit"`
	Status        string `json:"status"`
}

// GapItemRequest create/update gap item request
type GapItemRequest struct {
	Name string   `json:"name" binding:"required"`
	Rate *float64 `json:"rate"`
}

// CustomerRequest create/update customer request
type CustomerRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Country       string `json:"country"`
	Status        string `json:"status"`
}

func (s *MasterService) ListSuppliers(ctx context.Context, status string) ([]entity.Supplier, error) {
	return s.masterRepo.ListSuppliers(ctx, status)
}

func (s *MasterService) GetSupplier(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.masterRepo.FindSupplierByID(ctx, id)
}

func (s *MasterService) CreateSupplier(ctx context.Context, req *SupplierRequest) (*entity.Supplier, error) {
	code := req.Code
	if code == "" {
		code = "SUP-" + uuid.New().String()[:8]
	}
	sup := &entity.Supplier{
		ID:            uuid.New().String()[:32],
		Code:          code,
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Address:       req.Address,
		GSTIN:         req.GSTIN,
		Status:        defaultStatus(req.Status),
	}
	if err := s.masterRepo.CreateSupplier(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *MasterService) UpdateSupplier(ctx context.Context, id string, req *SupplierRequest) (*entity.Supplier, error) {
	sup, err := s.masterRepo.FindSupplierByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Code != "" {
		sup.Code = req.Code
	}
	sup.Name = req.Name
	sup.ContactPerson = req.ContactPerson
	sup.Phone = req.Phone
	sup.Address = req.Address
	sup.GSTIN = req.GSTIN
	if req.Status != "" {
		sup.Status = req.Status
	}
	if err := s.masterRepo.UpdateSupplier(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *MasterService) DeleteSupplier(ctx context.Context, id string) error {
	if _, err := s.masterRepo.FindSupplierByID(ctx, id); err != nil {
		return err
	}
	return s.masterRepo.DeleteSupplier(ctx, id)
}

func (s *MasterService) ListItems(ctx context.Context, status string) ([]entity.ItemMaster, error) {
	return s.masterRepo.ListItems(ctx, status)
}

func (s *MasterService) GetItem(ctx context.Context, id string) (*entity.ItemMaster, error) {
	return s.masterRepo.FindItemByID(ctx, id)
}

func (s *MasterService) CreateItem(ctx context.Context, req *ItemRequest) (*entity.ItemMaster, error) {
	item := &entity.ItemMaster{
		ID:            uuid.New().String()[:32],
		Name:          req.Name,
		HSNCode:       req.HSNCode,
		Unit:          req.Unit,
		AlternateUnit: req.AlternateUnit,
		Status:        defaultStatus(req.Status),
	}
	if item.Unit == "" {
		item.Unit = "MT"
	}
	if item.AlternateUnit == "" {
		item.AlternateUnit = "kgs"
	}
	if err := s.masterRepo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MasterService) UpdateItem(ctx context.Context, id string, req *ItemRequest) (*entity.ItemMaster, error) {
	item, err := s.masterRepo.FindItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Name = req.Name
	item.HSNCode = req.HSNCode
	if req.Unit != "" {
		item.Unit = req.Unit
	}
	if req.AlternateUnit != "" {
		item.AlternateUnit = req.AlternateUnit
	}
	if req.Status != "" {
		item.Status = req.Status
	}
	if err := s.masterRepo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MasterService) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.masterRepo.FindItemByID(ctx, id); err != nil {
		return err
	}
	return s.masterRepo.DeleteItem(ctx, id)
}

func (s *MasterService) ListGapItems(ctx context.Context) ([]entity.GapItem, error) {
	return s.masterRepo.ListGapItems(ctx)
}

func (s *MasterService) CreateGapItem(ctx context.Context, req *GapItemRequest) (*entity.GapItem, error) {
	g := &entity.GapItem{
		ID:   uuid.New().String()[:32],
		Name: req.Name,
		Rate: req.Rate,
	}
	if err := s.masterRepo.CreateGapItem(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *MasterService) UpdateGapItem(ctx context.Context, id string, req *GapItemRequest) (*entity.GapItem, error) {
	g, err := s.masterRepo.FindGapItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	g.Name = req.Name
	g.Rate = req.Rate
	if err := s.masterRepo.UpdateGapItem(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *MasterService) DeleteGapItem(ctx context.Context, id string) error {
	if _, err := s.masterRepo.FindGapItemByID(ctx, id); err != nil {
		return err
	}
	return s.masterRepo.DeleteGapItem(ctx, id)
}

func (s *MasterService) ListCustomers(ctx context.Context, status string) ([]entity.Customer, error) {
	return s.masterRepo.ListCustomers(ctx, status)
}

func (s *MasterService) CreateCustomer(ctx context.Context, req *CustomerRequest) (*entity.Customer, error) {
	c := &entity.Customer{
		ID:            uuid.New().String()[:32],
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Address:       req.Address,
		Country:       req.Country,
		Status:        defaultStatus(req.Status),
	}
	if err := s.masterRepo.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *MasterService) UpdateCustomer(ctx context.Context, id string, req *CustomerRequest) (*entity.Customer, error) {
	c, err := s.masterRepo.FindCustomerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = req.Name
	c.ContactPerson = req.ContactPerson
	c.Phone = req.Phone
	c.Address = req.Address
	c.Country = req.Country
	if req.Status != "" {
		c.Status = req.Status
	}
	if err := s.masterRepo.UpdateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *MasterService) DeleteCustomer(ctx context.Context, id string) error {
	if _, err := s.masterRepo.FindCustomerByID(ctx, id); err != nil {
		return err
	}
	return s.masterRepo.DeleteCustomer(ctx, id)
}

func defaultStatus(status string) string {
	if status == "" {
		return "active"
	}
	if status != "active" && status != "inactive" {
		return "active"
	}
	return status
}
