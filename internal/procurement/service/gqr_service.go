package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/entity"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/repository"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/settlement"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	gqrCreateLockTTL   = 10 * time.Second
	reverseTokenTTL    = 5 * time.Minute
	gqrCreateLockKey   = "gqr:create:%s"
	gqrReverseTokenKey = "gqr:reverse:%s"
)

// GQRService goods quality report workflow: creation against an approved
// Pre-GR, segregation edits, settlement, finalization and reversal.
type GQRService struct {
	gqrRepo   *repository.GQRRepository
	preGRRepo *repository.PreGRRepository
	rdb       *redis.Client
	logger    *zap.Logger

	// Fallback reversal token store for deployments without redis.
	mu     sync.Mutex
	tokens map[string]reverseToken
}

type reverseToken struct {
	token     string
	expiresAt time.Time
}

func NewGQRService(gqrRepo *repository.GQRRepository, preGRRepo *repository.PreGRRepository, rdb *redis.Client, logger *zap.Logger) *GQRService {
	return &GQRService{
		gqrRepo:   gqrRepo,
		preGRRepo: preGRRepo,
		rdb:       rdb,
		logger:    logger,
		tokens:    make(map[string]reverseToken),
	}
}

// CreateGQRRequest create GQR request
type CreateGQRRequest struct {
	PreGRID string `json:"pre_gr_id" binding:"required"`
	Date    string `json:"date" binding:"required"`
}

// UpdateGQRRequest edits segregation weights and the related fields. Every
// field is optional; absent fields are left untouched.
type UpdateGQRRequest struct {
	ExportQualityKgs  *float64 `json:"export_quality_kgs"`
	PodiKgs           *float64 `json:"podi_kgs"`
	GapItemsKgs       *float64 `json:"gap_items_kgs"`
	RotKgs            *float64 `json:"rot_kgs"`
	DoublesKgs        *float64 `json:"doubles_kgs"`
	SandKgs           *float64 `json:"sand_kgs"`
	WeightShortageKgs *float64 `json:"weight_shortage_kgs"`
	UserRemark        *string  `json:"user_remark"`

	// Optional Pre-GR bag corrections, written in the same transaction.
	BagCount     *int `json:"bag_count"`
	PodiBagCount *int `json:"podi_bag_count"`

	Version      int  `json:"version" binding:"required"`
	PreGRVersion *int `json:"pre_gr_version"`
}

// FinalizeGQRRequest locks the settlement. The volatile rates become the
// rates in force for the closed record.
type FinalizeGQRRequest struct {
	VolatilePORate           *float64 `json:"volatile_po_rate"`
	VolatilePodiRate         *float64 `json:"volatile_podi_rate"`
	VolatileGapItemRate      *float64 `json:"volatile_gap_item_rate"`
	VolatileWastageKgsPerTon *float64 `json:"volatile_wastage_kgs_per_ton"`
	// Pointer so a settlement at exactly zero received value still binds.
	TotalValueReceived *float64 `json:"total_value_received" binding:"required"`
	Version            int      `json:"version" binding:"required"`
}

// GQRDetail is a GQR together with the caller's capabilities and the
// computed settlement, so the client never derives either locally.
type GQRDetail struct {
	GQR         *entity.GQREntry   `json:"gqr"`
	Permissions EditPermissions    `json:"permissions"`
	Settlement  *settlement.Result `json:"settlement"`
}

// List GQRs
func (s *GQRService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.GQREntry, int64, error) {
	return s.gqrRepo.FindAll(ctx, page, pageSize, filters)
}

// Get returns the GQR, the caller's edit capabilities and the settlement.
func (s *GQRService) Get(ctx context.Context, id string, isAdmin bool) (*GQRDetail, error) {
	g, err := s.gqrRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := s.Settlement(g)
	return &GQRDetail{
		GQR:         g,
		Permissions: ResolveEditPermissions(isAdmin, g.Status),
		Settlement:  result,
	}, nil
}

// ListAvailablePreGRs returns approved, unconsumed Pre-GRs, the only valid
// sources for a new GQR.
func (s *GQRService) ListAvailablePreGRs(ctx context.Context, page, pageSize int) ([]entity.PreGREntry, int64, error) {
	return s.preGRRepo.FindAll(ctx, page, pageSize, map[string]string{"available": "true"})
}

// Create opens a GQR against an approved Pre-GR and consumes it. A short
// redis lock serializes concurrent attempts against the same Pre-GR; the
// transactional consumption guard in the repository backstops deployments
// without redis.
func (s *GQRService) Create(ctx context.Context, userID string, req *CreateGQRRequest) (*entity.GQREntry, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, errors.New("invalid date, expected YYYY-MM-DD")
	}

	gr, err := s.preGRRepo.FindByID(ctx, req.PreGRID)
	if err != nil {
		return nil, fmt.Errorf("pre-gr: %w", err)
	}
	if !gr.IsAdminApproved {
		return nil, errors.New("pre-gr is not admin approved")
	}
	if gr.IsGQRCreated {
		return nil, repository.ErrAlreadyConsumed
	}

	if s.rdb != nil {
		lockKey := fmt.Sprintf(gqrCreateLockKey, req.PreGRID)
		ok, err := s.rdb.SetNX(ctx, lockKey, userID, gqrCreateLockTTL).Result()
		if err != nil {
			s.logger.Warn("gqr create lock unavailable, relying on db guard", zap.Error(err))
		} else if !ok {
			return nil, repository.ErrAlreadyConsumed
		} else {
			defer s.rdb.Del(context.WithoutCancel(ctx), lockKey)
		}
	}

	code, err := s.gqrRepo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate gqr code: %w", err)
	}

	g := &entity.GQREntry{
		ID:      uuid.New().String()[:32],
		GQRCode: code,
		PreGRID: req.PreGRID,
		Date:    date,
		Status:  entity.GQRStatusOpen,
		// Weight shortage carries over from the weighbridge record.
		WeightShortageKgs: gr.WeightShortageKgs,
		CreatedBy:         userID,
		Version:           1,
	}

	if err := s.gqrRepo.CreateFromPreGR(ctx, g); err != nil {
		return nil, err
	}
	return s.gqrRepo.FindByID(ctx, g.ID)
}

// Update applies segregation edits under the caller's capabilities. A
// shortage value from a non-admin is dropped, not an error: the rest of the
// submission still lands and the stored shortage stays untouched.
func (s *GQRService) Update(ctx context.Context, id string, isAdmin bool, req *UpdateGQRRequest) (*GQRDetail, error) {
	g, err := s.gqrRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	perms := ResolveEditPermissions(isAdmin, g.Status)
	if !perms.SegregationWeights {
		return nil, errors.New("gqr is finalized and cannot be edited")
	}
	if req.Version != g.Version {
		return nil, repository.ErrConflict
	}

	if req.ExportQualityKgs != nil {
		g.ExportQualityKgs = *req.ExportQualityKgs
	}
	if req.PodiKgs != nil {
		g.PodiKgs = *req.PodiKgs
	}
	if req.GapItemsKgs != nil {
		g.GapItemsKgs = *req.GapItemsKgs
	}
	if req.RotKgs != nil {
		g.RotKgs = *req.RotKgs
	}
	if req.DoublesKgs != nil {
		g.DoublesKgs = *req.DoublesKgs
	}
	if req.SandKgs != nil {
		g.SandKgs = *req.SandKgs
	}
	if req.WeightShortageKgs != nil && perms.WeightShortage {
		g.WeightShortageKgs = *req.WeightShortageKgs
	}
	if req.UserRemark != nil && perms.UserRemark {
		g.UserRemark = *req.UserRemark
	}

	if req.BagCount != nil || req.PodiBagCount != nil {
		gr, err := s.preGRRepo.FindByID(ctx, g.PreGRID)
		if err != nil {
			return nil, fmt.Errorf("pre-gr: %w", err)
		}
		if req.PreGRVersion != nil && *req.PreGRVersion != gr.Version {
			return nil, repository.ErrConflict
		}
		if req.BagCount != nil {
			gr.BagCount = *req.BagCount
		}
		if req.PodiBagCount != nil {
			gr.PodiBagCount = *req.PodiBagCount
		}
		if err := s.gqrRepo.UpdateWithPreGR(ctx, g, gr); err != nil {
			return nil, err
		}
	} else if err := s.gqrRepo.Update(ctx, g); err != nil {
		return nil, err
	}

	return s.Get(ctx, id, isAdmin)
}

// Finalize closes the GQR: the volatile rates and received value are
// written, the record moves to closed, and a settlement snapshot is
// appended. Finalization never overwrites an earlier snapshot.
func (s *GQRService) Finalize(ctx context.Context, id, adminID string, req *FinalizeGQRRequest) (*GQRDetail, error) {
	g, err := s.gqrRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.Status != entity.GQRStatusOpen {
		return nil, errors.New("gqr is already finalized")
	}
	if req.Version != g.Version {
		return nil, repository.ErrConflict
	}

	g.VolatilePORate = req.VolatilePORate
	g.VolatilePodiRate = req.VolatilePodiRate
	g.VolatileGapItemRate = req.VolatileGapItemRate
	g.VolatileWastageKgsPerTon = req.VolatileWastageKgsPerTon
	g.TotalValueReceived = req.TotalValueReceived
	g.Status = entity.GQRStatusClosed
	now := time.Now()
	g.FinalizedBy = &adminID
	g.FinalizedAt = &now

	if err := s.gqrRepo.Update(ctx, g); err != nil {
		return nil, err
	}

	result := s.Settlement(g)
	snap := &entity.SettlementSnapshot{
		ID:                 uuid.New().String()[:32],
		GQRID:              g.ID,
		PORatePerKg:        derefOr(req.VolatilePORate, 0),
		PodiRatePerKg:      derefOr(req.VolatilePodiRate, 0),
		GapItemRatePerKg:   derefOr(req.VolatileGapItemRate, 0),
		WastageKgsPerTon:   derefOr(req.VolatileWastageKgsPerTon, 0),
		EstimatedValue:     result.Estimated.TotalValue,
		TotalValueReceived: *req.TotalValueReceived,
		FinalizedBy:        adminID,
	}
	if err := s.gqrRepo.AppendSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("append settlement snapshot: %w", err)
	}

	return s.Get(ctx, id, true)
}

// RequestReverse issues a short-lived one-time token that a second,
// explicit confirmation must echo back. Reopening a settled record is rare
// enough to warrant the two-step.
func (s *GQRService) RequestReverse(ctx context.Context, id string) (string, error) {
	g, err := s.gqrRepo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if g.Status != entity.GQRStatusClosed {
		return "", errors.New("gqr is not finalized")
	}

	token := uuid.New().String()
	if s.rdb != nil {
		key := fmt.Sprintf(gqrReverseTokenKey, id)
		if err := s.rdb.Set(ctx, key, token, reverseTokenTTL).Err(); err != nil {
			return "", fmt.Errorf("store reversal token: %w", err)
		}
		return token, nil
	}

	s.mu.Lock()
	s.tokens[id] = reverseToken{token: token, expiresAt: time.Now().Add(reverseTokenTTL)}
	s.mu.Unlock()
	return token, nil
}

// ConfirmReverse consumes the token and reopens the GQR. The volatile rates
// and snapshots stay in place as history; a later finalize overwrites the
// volatiles and appends a fresh snapshot.
func (s *GQRService) ConfirmReverse(ctx context.Context, id, token string) (*GQRDetail, error) {
	if token == "" {
		return nil, errors.New("reversal token is required")
	}
	if !s.consumeToken(ctx, id, token) {
		return nil, errors.New("reversal token is invalid or expired")
	}

	g, err := s.gqrRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.Status != entity.GQRStatusClosed {
		return nil, errors.New("gqr is not finalized")
	}

	g.Status = entity.GQRStatusOpen
	g.FinalizedBy = nil
	g.FinalizedAt = nil
	if err := s.gqrRepo.Update(ctx, g); err != nil {
		return nil, err
	}
	return s.Get(ctx, id, true)
}

// consumeToken validates and deletes the token in one step so it can never
// be replayed.
func (s *GQRService) consumeToken(ctx context.Context, id, token string) bool {
	if s.rdb != nil {
		key := fmt.Sprintf(gqrReverseTokenKey, id)
		stored, err := s.rdb.GetDel(ctx, key).Result()
		return err == nil && stored == token
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tokens[id]
	if !ok || entry.token != token || time.Now().After(entry.expiresAt) {
		return false
	}
	delete(s.tokens, id)
	return true
}

// Settlement computes the three-view settlement for a GQR using the rates
// in force: the volatile overrides once closed, the PO's committed terms
// while open.
func (s *GQRService) Settlement(g *entity.GQREntry) *settlement.Result {
	in := settlement.Inputs{
		ExportQualityKgs: g.ExportQualityKgs,
		PodiKgs:          g.PodiKgs,
		GapItemsKgs:      g.GapItemsKgs,
		SpoilageKgs:      g.SpoilageKgs(),
	}
	if g.PreGR != nil {
		in.NetWeightKgs = g.PreGR.NetWeightKgs
	}

	var po *entity.PurchaseOrder
	if g.PreGR != nil {
		po = g.PreGR.PurchaseOrder
	}
	if po != nil {
		in.RatePerKg = po.RatePerKg
		if po.PodiRatePerKg != nil {
			in.PodiRatePerKg = *po.PodiRatePerKg
		}
		if po.CargoPercent != nil {
			in.AssuredCargoPercent = *po.CargoPercent
		}
		if po.DamageAllowedKgsTon != nil {
			in.WastageKgsPerTon = *po.DamageAllowedKgsTon
		}
	}

	if g.Status == entity.GQRStatusClosed {
		if g.VolatilePORate != nil {
			in.RatePerKg = *g.VolatilePORate
		}
		if g.VolatilePodiRate != nil {
			in.PodiRatePerKg = *g.VolatilePodiRate
		}
		if g.VolatileWastageKgsPerTon != nil {
			in.WastageKgsPerTon = *g.VolatileWastageKgsPerTon
		}
	}

	result := settlement.Calculate(in)
	return &result
}

// Snapshots returns the GQR's finalize history, oldest first
func (s *GQRService) Snapshots(ctx context.Context, gqrID string) ([]entity.SettlementSnapshot, error) {
	if _, err := s.gqrRepo.FindByID(ctx, gqrID); err != nil {
		return nil, err
	}
	return s.gqrRepo.ListSnapshots(ctx, gqrID)
}

var gqrExportHeaders = []string{
	"GQR Code", "Date", "Supplier", "Voucher No", "Net Weight (kgs)",
	"Export Quality (kgs)", "Podi (kgs)", "Gap Items (kgs)", "Spoilage (kgs)",
	"Estimated Value", "Value Received", "Total Payment", "Finalized At",
}

// Export renders finalized GQRs as an xlsx workbook. Open records are not
// exportable; their settlement is still in motion.
func (s *GQRService) Export(ctx context.Context, filters map[string]string) (*excelize.File, string, error) {
	if filters == nil {
		filters = map[string]string{}
	}
	filters["status"] = entity.GQRStatusClosed

	gqrs, _, err := s.gqrRepo.FindAll(ctx, 1, 10000, filters)
	if err != nil {
		return nil, "", fmt.Errorf("list gqrs: %w", err)
	}

	f := excelize.NewFile()
	sheet := "GQR Settlements"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	for i, h := range gqrExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx := range gqrs {
		g := &gqrs[rowIdx]
		row := rowIdx + 2
		result := s.Settlement(g)

		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), g.GQRCode)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), g.Date.Format("2006-01-02"))
		if g.PreGR != nil && g.PreGR.PurchaseOrder != nil {
			if g.PreGR.PurchaseOrder.Supplier != nil {
				f.SetCellValue(sheet, fmt.Sprintf("C%d", row), g.PreGR.PurchaseOrder.Supplier.Name)
			}
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), g.PreGR.PurchaseOrder.VoucherNumber)
		}
		if g.PreGR != nil {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), g.PreGR.NetWeightKgs)
		}
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), g.ExportQualityKgs)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), g.PodiKgs)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), g.GapItemsKgs)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), g.SpoilageKgs())
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), result.Estimated.TotalValue)
		if g.TotalValueReceived != nil {
			f.SetCellValue(sheet, fmt.Sprintf("K%d", row), *g.TotalValueReceived)
		}
		f.SetCellValue(sheet, fmt.Sprintf("L%d", row), result.Comparison.TotalPayment)
		if g.FinalizedAt != nil {
			f.SetCellValue(sheet, fmt.Sprintf("M%d", row), g.FinalizedAt.Format("2006-01-02 15:04"))
		}
	}

	filename := fmt.Sprintf("gqr_settlements_%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}

func derefOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
