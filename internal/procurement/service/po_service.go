package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/entity"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/repository"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/settlement"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/shared/tally"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// POService purchase order workflow
type POService struct {
	poRepo      *repository.PORepository
	masterRepo  *repository.MasterRepository
	tallyClient *tally.Client
}

func NewPOService(poRepo *repository.PORepository, masterRepo *repository.MasterRepository, tallyClient *tally.Client) *POService {
	return &POService{
		poRepo:      poRepo,
		masterRepo:  masterRepo,
		tallyClient: tallyClient,
	}
}

// CreatePORequest create purchase order request
type CreatePORequest struct {
	VoucherNumber       string   `json:"voucher_number"` // generated when empty
	PODate              string   `json:"po_date" binding:"required"`
	SupplierID          string   `json:"supplier_id" binding:"required"`
	ItemID              string   `json:"item_id" binding:"required"`
	QuantityMT          float64  `json:"quantity_mt" binding:"required"`
	RatePerKg           float64  `json:"rate_per_kg" binding:"required"`
	PodiRatePerKg       *float64 `json:"podi_rate_per_kg"`
	CargoPercent        *float64 `json:"cargo_percent"`
	DamageAllowedKgsTon *float64 `json:"damage_allowed_kgs_ton"`
}

// UpdatePORequest update purchase order request
type UpdatePORequest struct {
	PODate              *string  `json:"po_date"`
	SupplierID          *string  `json:"supplier_id"`
	ItemID              *string  `json:"item_id"`
	QuantityMT          *float64 `json:"quantity_mt"`
	RatePerKg           *float64 `json:"rate_per_kg"`
	PodiRatePerKg       *float64 `json:"podi_rate_per_kg"`
	CargoPercent        *float64 `json:"cargo_percent"`
	DamageAllowedKgsTon *float64 `json:"damage_allowed_kgs_ton"`
	Version             int      `json:"version" binding:"required"`
}

// List purchase orders
func (s *POService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	return s.poRepo.FindAll(ctx, page, pageSize, filters)
}

// Get purchase order detail
func (s *POService) Get(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return s.poRepo.FindByID(ctx, id)
}

// Create purchase order
func (s *POService) Create(ctx context.Context, userID string, req *CreatePORequest) (*entity.PurchaseOrder, error) {
	date, err := time.Parse("2006-01-02", req.PODate)
	if err != nil {
		return nil, errors.New("invalid po date, expected YYYY-MM-DD")
	}
	if req.QuantityMT <= 0 || req.RatePerKg <= 0 {
		return nil, errors.New("quantity and rate must be positive")
	}
	if _, err := s.masterRepo.FindSupplierByID(ctx, req.SupplierID); err != nil {
		return nil, fmt.Errorf("supplier: %w", err)
	}
	if _, err := s.masterRepo.FindItemByID(ctx, req.ItemID); err != nil {
		return nil, fmt.Errorf("item: %w", err)
	}

	voucherNo := req.VoucherNumber
	if voucherNo == "" {
		voucherNo, err = s.poRepo.GenerateVoucherNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("generate voucher number: %w", err)
		}
	}

	po := &entity.PurchaseOrder{
		ID:                  uuid.New().String()[:32],
		VoucherNumber:       voucherNo,
		PODate:              date,
		SupplierID:          req.SupplierID,
		ItemID:              req.ItemID,
		QuantityMT:          req.QuantityMT,
		RatePerKg:           req.RatePerKg,
		PodiRatePerKg:       req.PodiRatePerKg,
		CargoPercent:        req.CargoPercent,
		DamageAllowedKgsTon: req.DamageAllowedKgsTon,
		CreatedBy:           userID,
		Version:             1,
	}

	if err := s.poRepo.Create(ctx, po); err != nil {
		return nil, err
	}
	return s.poRepo.FindByID(ctx, po.ID)
}

// Update purchase order. Terms stay editable through this operation only;
// closed POs are frozen.
func (s *POService) Update(ctx context.Context, id string, req *UpdatePORequest) (*entity.PurchaseOrder, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.POClosed {
		return nil, errors.New("purchase order is closed")
	}
	if req.Version != po.Version {
		return nil, repository.ErrConflict
	}

	if req.PODate != nil {
		date, err := time.Parse("2006-01-02", *req.PODate)
		if err != nil {
			return nil, errors.New("invalid po date, expected YYYY-MM-DD")
		}
		po.PODate = date
	}
	if req.SupplierID != nil {
		if _, err := s.masterRepo.FindSupplierByID(ctx, *req.SupplierID); err != nil {
			return nil, fmt.Errorf("supplier: %w", err)
		}
		po.SupplierID = *req.SupplierID
	}
	if req.ItemID != nil {
		if _, err := s.masterRepo.FindItemByID(ctx, *req.ItemID); err != nil {
			return nil, fmt.Errorf("item: %w", err)
		}
		po.ItemID = *req.ItemID
	}
	if req.QuantityMT != nil {
		po.QuantityMT = *req.QuantityMT
	}
	if req.RatePerKg != nil {
		po.RatePerKg = *req.RatePerKg
	}
	if req.PodiRatePerKg != nil {
		po.PodiRatePerKg = req.PodiRatePerKg
	}
	if req.CargoPercent != nil {
		po.CargoPercent = req.CargoPercent
	}
	if req.DamageAllowedKgsTon != nil {
		po.DamageAllowedKgsTon = req.DamageAllowedKgsTon
	}

	if err := s.poRepo.Update(ctx, po); err != nil {
		return nil, err
	}
	return s.poRepo.FindByID(ctx, id)
}

// Close marks a PO administratively closed with a remark
func (s *POService) Close(ctx context.Context, id, remark string) (*entity.PurchaseOrder, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.POClosed {
		return nil, errors.New("purchase order already closed")
	}

	po.POClosed = true
	po.ClosedRemark = remark
	if err := s.poRepo.Update(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// Delete removes an unreferenced PO. A PO that already sourced a GQR is
// part of a settled chain and is never deletable.
func (s *POService) Delete(ctx context.Context, id string) error {
	has, err := s.poRepo.HasGQR(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return errors.New("purchase order is referenced by a gqr and cannot be deleted")
	}
	return s.poRepo.Delete(ctx, id)
}

// PostVoucher posts the PO to the accounting endpoint and records the
// outcome on the PO row. The PO row itself is already committed; a posting
// failure is reported but never rolls it back.
func (s *POService) PostVoucher(ctx context.Context, id string) (*tally.PostResult, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Supplier == nil || po.Item == nil {
		return nil, errors.New("purchase order is missing supplier or item master data")
	}

	quantityKgs := po.QuantityMT * 1000
	voucher := &tally.Voucher{
		Date:          po.PODate,
		GUID:          uuid.New().String(),
		VoucherNumber: po.VoucherNumber,
		SupplierName:  po.Supplier.Name,
		ItemName:      po.Item.Name,
		HSNCode:       po.Item.HSNCode,
		Unit:          po.Item.Unit,
		AlternateUnit: po.Item.AlternateUnit,
		QuantityMT:    po.QuantityMT,
		QuantityKgs:   quantityKgs,
		Amount:        settlement.Round2(quantityKgs * po.RatePerKg),
	}

	result, err := s.tallyClient.PostVoucher(ctx, voucher)
	if err != nil {
		// Record the failed attempt, then surface the transport error.
		_ = s.poRepo.RecordTallyPosting(ctx, id, false, err.Error())
		return nil, fmt.Errorf("voucher posting failed: %w", err)
	}

	if recErr := s.poRepo.RecordTallyPosting(ctx, id, result.Success, result.RawResponse); recErr != nil {
		return result, fmt.Errorf("voucher posted but recording the outcome failed: %w", recErr)
	}
	if !result.Success {
		return result, fmt.Errorf("accounting system rejected the voucher: %s", result.RawResponse)
	}
	return result, nil
}

var poExportHeaders = []string{
	"Voucher No", "Date", "Supplier", "Item", "Quantity (MT)", "Rate/kg",
	"Podi Rate/kg", "Cargo %", "Damage kgs/MT", "Closed", "Tally Posted",
}

// Export renders the filtered PO list as an xlsx workbook
func (s *POService) Export(ctx context.Context, filters map[string]string) (*excelize.File, string, error) {
	pos, _, err := s.poRepo.FindAll(ctx, 1, 10000, filters)
	if err != nil {
		return nil, "", fmt.Errorf("list purchase orders: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Purchase Orders"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	for i, h := range poExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, po := range pos {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), po.VoucherNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), po.PODate.Format("2006-01-02"))
		if po.Supplier != nil {
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), po.Supplier.Name)
		}
		if po.Item != nil {
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), po.Item.Name)
		}
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), po.QuantityMT)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), po.RatePerKg)
		if po.PodiRatePerKg != nil {
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), *po.PodiRatePerKg)
		}
		if po.CargoPercent != nil {
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), *po.CargoPercent)
		}
		if po.DamageAllowedKgsTon != nil {
			f.SetCellValue(sheet, fmt.Sprintf("I%d", row), *po.DamageAllowedKgsTon)
		}
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), po.POClosed)
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), po.TallyPosted)
	}

	filename := fmt.Sprintf("purchase_orders_%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}
