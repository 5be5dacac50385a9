package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/entity"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/repository"
	"github.com/google/uuid"
)

// PreGRService weighbridge entry workflow
type PreGRService struct {
	preGRRepo *repository.PreGRRepository
	poRepo    *repository.PORepository
}

func NewPreGRService(preGRRepo *repository.PreGRRepository, poRepo *repository.PORepository) *PreGRService {
	return &PreGRService{preGRRepo: preGRRepo, poRepo: poRepo}
}

// CreatePreGRRequest create weighbridge entry request
type CreatePreGRRequest struct {
	POID            string   `json:"po_id" binding:"required"`
	Date            string   `json:"date" binding:"required"`
	VehicleNumber   string   `json:"vehicle_number" binding:"required"`
	WeighbridgeName string   `json:"weighbridge_name"`
	BagCount        int      `json:"bag_count"`
	LadenWeightKgs  float64  `json:"laden_weight_kgs" binding:"required"`
	EmptyWeightKgs  float64  `json:"empty_weight_kgs" binding:"required"`
	PodiBagCount    int      `json:"podi_bag_count"`
	GapItem1ID      *string  `json:"gap_item1_id"`
	GapItem1Qty     *float64 `json:"gap_item1_qty"`
	GapItem2ID      *string  `json:"gap_item2_id"`
	GapItem2Qty     *float64 `json:"gap_item2_qty"`
	AdvanceAmount   *float64 `json:"advance_amount"`
}

// UpdatePreGRRequest update weighbridge entry request
type UpdatePreGRRequest struct {
	Date            *string  `json:"date"`
	VehicleNumber   *string  `json:"vehicle_number"`
	WeighbridgeName *string  `json:"weighbridge_name"`
	BagCount        *int     `json:"bag_count"`
	LadenWeightKgs  *float64 `json:"laden_weight_kgs"`
	EmptyWeightKgs  *float64 `json:"empty_weight_kgs"`
	PodiBagCount    *int     `json:"podi_bag_count"`
	GapItem1ID      *string  `json:"gap_item1_id"`
	GapItem1Qty     *float64 `json:"gap_item1_qty"`
	GapItem2ID      *string  `json:"gap_item2_id"`
	GapItem2Qty     *float64 `json:"gap_item2_qty"`
	AdvanceAmount   *float64 `json:"advance_amount"`
	Version         int      `json:"version" binding:"required"`
}

// List Pre-GR entries
func (s *PreGRService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PreGREntry, int64, error) {
	return s.preGRRepo.FindAll(ctx, page, pageSize, filters)
}

// Get Pre-GR detail
func (s *PreGRService) Get(ctx context.Context, id string) (*entity.PreGREntry, error) {
	return s.preGRRepo.FindByID(ctx, id)
}

// Create records a weighbridge entry. Net weight is computed server-side;
// client-supplied values are never trusted. Entries that record podi bags
// need an admin at the keyboard, since podi bags pre-commit a deduction.
func (s *PreGRService) Create(ctx context.Context, userID string, isAdmin bool, req *CreatePreGRRequest) (*entity.PreGREntry, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, errors.New("invalid date, expected YYYY-MM-DD")
	}

	po, err := s.poRepo.FindByID(ctx, req.POID)
	if err != nil {
		return nil, fmt.Errorf("purchase order: %w", err)
	}
	if po.POClosed {
		return nil, errors.New("purchase order is closed")
	}

	net, err := computeNetWeight(req.LadenWeightKgs, req.EmptyWeightKgs)
	if err != nil {
		return nil, err
	}
	if req.PodiBagCount > 0 && !isAdmin {
		return nil, errors.New("entries with podi bags can only be saved by an admin")
	}

	code, err := s.preGRRepo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate gr code: %w", err)
	}

	gr := &entity.PreGREntry{
		ID:              uuid.New().String()[:32],
		GRCode:          code,
		POID:            req.POID,
		Date:            date,
		VehicleNumber:   req.VehicleNumber,
		WeighbridgeName: req.WeighbridgeName,
		BagCount:        req.BagCount,
		LadenWeightKgs:  req.LadenWeightKgs,
		EmptyWeightKgs:  req.EmptyWeightKgs,
		NetWeightKgs:    net,
		PodiBagCount:    req.PodiBagCount,
		GapItem1ID:      req.GapItem1ID,
		GapItem1Qty:     req.GapItem1Qty,
		GapItem2ID:      req.GapItem2ID,
		GapItem2Qty:     req.GapItem2Qty,
		AdvanceAmount:   req.AdvanceAmount,
		CreatedBy:       userID,
		Version:         1,
	}

	if err := s.preGRRepo.Create(ctx, gr); err != nil {
		return nil, err
	}
	return s.preGRRepo.FindByID(ctx, gr.ID)
}

// Update rewrites an unconsumed Pre-GR. Once a GQR exists against the
// entry it is frozen.
func (s *PreGRService) Update(ctx context.Context, id string, isAdmin bool, req *UpdatePreGRRequest) (*entity.PreGREntry, error) {
	gr, err := s.preGRRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gr.IsGQRCreated {
		return nil, errors.New("pre-gr already consumed by a gqr")
	}
	if req.Version != gr.Version {
		return nil, repository.ErrConflict
	}

	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, errors.New("invalid date, expected YYYY-MM-DD")
		}
		gr.Date = date
	}
	if req.VehicleNumber != nil {
		gr.VehicleNumber = *req.VehicleNumber
	}
	if req.WeighbridgeName != nil {
		gr.WeighbridgeName = *req.WeighbridgeName
	}
	if req.BagCount != nil {
		gr.BagCount = *req.BagCount
	}
	if req.LadenWeightKgs != nil {
		gr.LadenWeightKgs = *req.LadenWeightKgs
	}
	if req.EmptyWeightKgs != nil {
		gr.EmptyWeightKgs = *req.EmptyWeightKgs
	}
	net, err := computeNetWeight(gr.LadenWeightKgs, gr.EmptyWeightKgs)
	if err != nil {
		return nil, err
	}
	gr.NetWeightKgs = net

	if req.PodiBagCount != nil {
		gr.PodiBagCount = *req.PodiBagCount
	}
	if req.GapItem1ID != nil {
		gr.GapItem1ID = req.GapItem1ID
	}
	if req.GapItem1Qty != nil {
		gr.GapItem1Qty = req.GapItem1Qty
	}
	if req.GapItem2ID != nil {
		gr.GapItem2ID = req.GapItem2ID
	}
	if req.GapItem2Qty != nil {
		gr.GapItem2Qty = req.GapItem2Qty
	}
	if req.AdvanceAmount != nil {
		gr.AdvanceAmount = req.AdvanceAmount
	}

	// The gate applies to the resulting state, not just the edited field:
	// an entry holding podi bags stays admin-only however it is touched.
	if gr.PodiBagCount > 0 && !isAdmin {
		return nil, errors.New("entries with podi bags can only be saved by an admin")
	}

	if err := s.preGRRepo.Update(ctx, gr); err != nil {
		return nil, err
	}
	return s.preGRRepo.FindByID(ctx, id)
}

// Approve marks a Pre-GR admin-approved with an optional remark. Only
// approved entries are selectable when creating a GQR.
func (s *PreGRService) Approve(ctx context.Context, id, remark string) (*entity.PreGREntry, error) {
	gr, err := s.preGRRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gr.IsAdminApproved {
		return nil, errors.New("pre-gr already approved")
	}

	gr.IsAdminApproved = true
	gr.AdminRemark = remark
	if err := s.preGRRepo.Update(ctx, gr); err != nil {
		return nil, err
	}
	return gr, nil
}

// Delete removes an unconsumed Pre-GR
func (s *PreGRService) Delete(ctx context.Context, id string) error {
	return s.preGRRepo.Delete(ctx, id)
}

func computeNetWeight(laden, empty float64) (float64, error) {
	if laden < 0 || empty < 0 {
		return 0, errors.New("weights must be non-negative")
	}
	if laden < empty {
		return 0, errors.New("laden weight must not be below empty weight")
	}
	return laden - empty, nil
}
