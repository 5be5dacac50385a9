package service

import "github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/entity"

// EditPermissions is the single capability-resolution result for a GQR:
// which fields the caller may write and which operations it may invoke,
// computed once per record load and enforced uniformly by the service
// layer. The same value is returned to clients so UI gating cannot drift
// from server enforcement.
type EditPermissions struct {
	SegregationWeights bool `json:"segregation_weights"`
	WeightShortage     bool `json:"weight_shortage"` // admin-only even while open
	UserRemark         bool `json:"user_remark"`
	Finalize           bool `json:"finalize"`
	Reverse            bool `json:"reverse"`
	Export             bool `json:"export"` // print / Tally URL / Excel, closed only
}

// ResolveEditPermissions computes field writability from the caller's role
// and the GQR's lifecycle state.
func ResolveEditPermissions(isAdmin bool, status string) EditPermissions {
	open := status == entity.GQRStatusOpen
	return EditPermissions{
		SegregationWeights: open,
		WeightShortage:     open && isAdmin,
		UserRemark:         open,
		Finalize:           open && isAdmin,
		Reverse:            !open && isAdmin,
		Export:             !open,
	}
}
