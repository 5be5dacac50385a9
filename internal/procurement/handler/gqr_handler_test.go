package handler

import (
	"net/http"
	"testing"

	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/middleware"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/entity"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/repository"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/service"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/testutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupGQRTest(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	gqrSvc := service.NewGQRService(repos.GQR, repos.PreGR, nil, zap.NewNop())
	h := NewGQRHandler(gqrSvc)

	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/gqr", h.List)
	api.POST("/gqr", h.Create)
	api.GET("/gqr/available-pre-grs", h.ListAvailablePreGRs)
	api.GET("/gqr/:id", h.Get)
	api.PUT("/gqr/:id", h.Update)
	api.GET("/gqr/:id/settlement", h.Settlement)
	api.GET("/gqr/:id/snapshots", h.Snapshots)
	api.POST("/gqr/:id/finalize", middleware.RequireAdmin(), h.Finalize)
	api.POST("/gqr/:id/reverse-request", middleware.RequireAdmin(), h.RequestReverse)
	api.POST("/gqr/:id/reverse-confirm", middleware.RequireAdmin(), h.ConfirmReverse)

	return db, router
}

func seedGQRChain(t *testing.T, db *gorm.DB, suffix string) *entity.PreGREntry {
	t.Helper()
	testutil.SeedSupplier(t, db, "sup-"+suffix, "Green Valley Traders")
	testutil.SeedItem(t, db, "item-"+suffix, "Onion Export Grade "+suffix)
	testutil.SeedPO(t, db, "po-"+suffix, "sup-"+suffix, "item-"+suffix)
	return testutil.SeedPreGR(t, db, "pgr-"+suffix, "po-"+suffix)
}

func createGQR(t *testing.T, router *gin.Engine, preGRID string) string {
	t.Helper()
	w := testutil.DoRequest(router, "POST", "/api/v1/gqr", map[string]interface{}{
		"pre_gr_id": preGRID,
		"date":      "2025-06-01",
	}, testutil.StaffToken())
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	return data["id"].(string)
}

func TestGQRCreateConsumesPreGR(t *testing.T) {
	db, router := setupGQRTest(t)
	gr := seedGQRChain(t, db, "001")

	// Before: the Pre-GR is offered as a GQR source.
	w := testutil.DoRequest(router, "GET", "/api/v1/gqr/available-pre-grs", nil, testutil.StaffToken())
	resp := testutil.ParseResponse(w)
	items := resp["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("Expected 1 available pre-gr, got %d", len(items))
	}

	createGQR(t, router, gr.ID)

	// After: consumed, no longer offered.
	w2 := testutil.DoRequest(router, "GET", "/api/v1/gqr/available-pre-grs", nil, testutil.StaffToken())
	resp2 := testutil.ParseResponse(w2)
	items2 := resp2["data"].(map[string]interface{})["items"].([]interface{})
	if len(items2) != 0 {
		t.Errorf("Expected consumed pre-gr to be excluded, got %d items", len(items2))
	}

	// A second create against the same Pre-GR must conflict.
	w3 := testutil.DoRequest(router, "POST", "/api/v1/gqr", map[string]interface{}{
		"pre_gr_id": gr.ID,
		"date":      "2025-06-02",
	}, testutil.StaffToken())
	if w3.Code != http.StatusConflict {
		t.Errorf("Expected 409 for double consumption, got %d: %s", w3.Code, w3.Body.String())
	}
}

func TestGQRCreateRequiresApproval(t *testing.T) {
	db, router := setupGQRTest(t)
	gr := seedGQRChain(t, db, "002")
	db.Model(&entity.PreGREntry{}).Where("id = ?", gr.ID).Update("is_admin_approved", false)

	w := testutil.DoRequest(router, "POST", "/api/v1/gqr", map[string]interface{}{
		"pre_gr_id": gr.ID,
		"date":      "2025-06-01",
	}, testutil.StaffToken())
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unapproved pre-gr, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGQRFinalizeAdminOnly(t *testing.T) {
	db, router := setupGQRTest(t)
	gr := seedGQRChain(t, db, "003")
	id := createGQR(t, router, gr.ID)

	body := map[string]interface{}{
		"volatile_po_rate":     11.5,
		"total_value_received": 200000.0,
		"version":              1,
	}

	// Staff must be rejected before any write happens.
	w := testutil.DoRequest(router, "POST", "/api/v1/gqr/"+id+"/finalize", body, testutil.StaffToken())
	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for staff finalize, got %d: %s", w.Code, w.Body.String())
	}
	var g entity.GQREntry
	db.Where("id = ?", id).First(&g)
	if g.Status != entity.GQRStatusOpen || g.VolatilePORate != nil {
		t.Errorf("Rejected finalize must not write: status=%s volatile=%v", g.Status, g.VolatilePORate)
	}

	// Admin finalize closes the record and appends a snapshot.
	w2 := testutil.DoRequest(router, "POST", "/api/v1/gqr/"+id+"/finalize", body, testutil.AdminToken())
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200 for admin finalize, got %d: %s", w2.Code, w2.Body.String())
	}
	db.Where("id = ?", id).First(&g)
	if g.Status != entity.GQRStatusClosed {
		t.Errorf("Expected closed status, got %s", g.Status)
	}
	if g.VolatilePORate == nil || *g.VolatilePORate != 11.5 {
		t.Errorf("Expected volatile po rate 11.5, got %v", g.VolatilePORate)
	}

	w3 := testutil.DoRequest(router, "GET", "/api/v1/gqr/"+id+"/snapshots", nil, testutil.StaffToken())
	resp := testutil.ParseResponse(w3)
	snaps := resp["data"].(map[string]interface{})["items"].([]interface{})
	if len(snaps) != 1 {
		t.Fatalf("Expected 1 settlement snapshot, got %d", len(snaps))
	}
	snap := snaps[0].(map[string]interface{})
	if snap["seq"].(float64) != 1 {
		t.Errorf("Expected snapshot seq 1, got %v", snap["seq"])
	}
}

func TestGQRFinalizeAtZeroValueReceived(t *testing.T) {
	db, router := setupGQRTest(t)
	gr := seedGQRChain(t, db, "009")
	id := createGQR(t, router, gr.ID)

	// A total-loss settlement legitimately receives exactly zero.
	w := testutil.DoRequest(router, "POST", "/api/v1/gqr/"+id+"/finalize", map[string]interface{}{
		"total_value_received": 0.0,
		"version":              1,
	}, testutil.AdminToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 finalizing at zero, got %d: %s", w.Code, w.Body.String())
	}

	var g entity.GQREntry
	db.Where("id = ?", id).First(&g)
	if g.Status != entity.GQRStatusClosed {
		t.Errorf("Expected closed status, got %s", g.Status)
	}
	if g.TotalValueReceived == nil || *g.TotalValueReceived != 0 {
		t.Errorf("Expected total value received 0, got %v", g.TotalValueReceived)
	}
}

func TestGQRClosedRecordRejectsEdits(t *testing.T) {
	db, router := setupGQRTest(t)
	gr := seedGQRChain(t, db, "004")
	id := createGQR(t, router, gr.ID)

	testutil.DoRequest(router, "POST", "/api/v1/gqr/"+id+"/finalize", map[string]interface{}{
		"total_value_received": 100000.0,
		"version":              1,
	}, testutil.AdminToken())

	for _, token := range []string{testutil.StaffToken(), testutil.AdminToken()} {
		w := testutil.DoRequest(router, "PUT", "/api/v1/gqr/"+id, map[string]interface{}{
			"export_quality_kgs": 15000.0,
			"version":            2,
		}, token)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 editing closed gqr, got %d: %s", w.Code, w.Body.String())
		}
	}
}

func TestGQRShortagePreservedForStaff(t *testing.T) {
	db, router := setupGQRTest(t)
	gr := seedGQRChain(t, db, "005")
	id := createGQR(t, router, gr.ID)

	// Admin records a shortage.
	w := testutil.DoRequest(router, "PUT", "/api/v1/gqr/"+id, map[string]interface{}{
		"weight_shortage_kgs": 250.0,
		"version":             1,
	}, testutil.AdminToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for admin shortage edit, got %d: %s", w.Code, w.Body.String())
	}

	// A staff submission carrying a shortage value still lands, but the
	// stored shortage is untouched.
	w2 := testutil.DoRequest(router, "PUT", "/api/v1/gqr/"+id, map[string]interface{}{
		"export_quality_kgs":  15000.0,
		"weight_shortage_kgs": 0.0,
		"version":             2,
	}, testutil.StaffToken())
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200 for staff edit, got %d: %s", w2.Code, w2.Body.String())
	}

	var g entity.GQREntry
	db.Where("id = ?", id).First(&g)
	if g.WeightShortageKgs != 250 {
		t.Errorf("Staff edit must not change shortage: got %v", g.WeightShortageKgs)
	}
	if g.ExportQualityKgs != 15000 {
		t.Errorf("Staff edit of weights must land: got %v", g.ExportQualityKgs)
	}
}

func TestGQRStaleVersionConflicts(t *testing.T) {
	db, router := setupGQRTest(t)
	gr := seedGQRChain(t, db, "006")
	id := createGQR(t, router, gr.ID)

	w := testutil.DoRequest(router, "PUT", "/api/v1/gqr/"+id, map[string]interface{}{
		"podi_kgs": 2000.0,
		"version":  1,
	}, testutil.StaffToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Replaying the old version must conflict.
	w2 := testutil.DoRequest(router, "PUT", "/api/v1/gqr/"+id, map[string]interface{}{
		"podi_kgs": 3000.0,
		"version":  1,
	}, testutil.StaffToken())
	if w2.Code != http.StatusConflict {
		t.Errorf("Expected 409 for stale version, got %d: %s", w2.Code, w2.Body.String())
	}

	var g entity.GQREntry
	db.Where("id = ?", id).First(&g)
	if g.PodiKgs != 2000 {
		t.Errorf("Stale write must not land: got %v", g.PodiKgs)
	}
}

func TestGQRReverseFlow(t *testing.T) {
	db, router := setupGQRTest(t)
	gr := seedGQRChain(t, db, "007")
	id := createGQR(t, router, gr.ID)

	testutil.DoRequest(router, "POST", "/api/v1/gqr/"+id+"/finalize", map[string]interface{}{
		"volatile_po_rate":     12.0,
		"total_value_received": 150000.0,
		"version":              1,
	}, testutil.AdminToken())

	// Confirm without a token from the request step must fail.
	w := testutil.DoRequest(router, "POST", "/api/v1/gqr/"+id+"/reverse-confirm", map[string]interface{}{
		"confirmation_token": "made-up",
	}, testutil.AdminToken())
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bogus token, got %d: %s", w.Code, w.Body.String())
	}

	w2 := testutil.DoRequest(router, "POST", "/api/v1/gqr/"+id+"/reverse-request", nil, testutil.AdminToken())
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200 for reverse request, got %d: %s", w2.Code, w2.Body.String())
	}
	resp := testutil.ParseResponse(w2)
	token := resp["data"].(map[string]interface{})["confirmation_token"].(string)

	w3 := testutil.DoRequest(router, "POST", "/api/v1/gqr/"+id+"/reverse-confirm", map[string]interface{}{
		"confirmation_token": token,
	}, testutil.AdminToken())
	if w3.Code != http.StatusOK {
		t.Fatalf("Expected 200 for reverse confirm, got %d: %s", w3.Code, w3.Body.String())
	}

	var g entity.GQREntry
	db.Where("id = ?", id).First(&g)
	if g.Status != entity.GQRStatusOpen {
		t.Errorf("Expected reopened gqr, got %s", g.Status)
	}
	if g.FinalizedBy != nil {
		t.Errorf("Expected finalized_by cleared on reversal")
	}

	// The token is one-time: replay must fail.
	w4 := testutil.DoRequest(router, "POST", "/api/v1/gqr/"+id+"/reverse-confirm", map[string]interface{}{
		"confirmation_token": token,
	}, testutil.AdminToken())
	if w4.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 replaying token, got %d: %s", w4.Code, w4.Body.String())
	}
}

func TestGQRSettlementUsesVolatileRatesWhenClosed(t *testing.T) {
	db, router := setupGQRTest(t)
	gr := seedGQRChain(t, db, "008")
	id := createGQR(t, router, gr.ID)

	// While open the settlement runs on the PO's committed rate (11/kg).
	w := testutil.DoRequest(router, "GET", "/api/v1/gqr/"+id+"/settlement", nil, testutil.StaffToken())
	resp := testutil.ParseResponse(w)
	est := resp["data"].(map[string]interface{})["estimated"].(map[string]interface{})
	if est["total_cargo_value"].(float64) != 220000 {
		t.Errorf("Expected open settlement on PO rate (220000), got %v", est["total_cargo_value"])
	}

	testutil.DoRequest(router, "POST", "/api/v1/gqr/"+id+"/finalize", map[string]interface{}{
		"volatile_po_rate":     12.0,
		"total_value_received": 230000.0,
		"version":              1,
	}, testutil.AdminToken())

	// Closed: the volatile override is the rate in force (12/kg).
	w2 := testutil.DoRequest(router, "GET", "/api/v1/gqr/"+id+"/settlement", nil, testutil.StaffToken())
	resp2 := testutil.ParseResponse(w2)
	est2 := resp2["data"].(map[string]interface{})["estimated"].(map[string]interface{})
	if est2["total_cargo_value"].(float64) != 240000 {
		t.Errorf("Expected closed settlement on volatile rate (240000), got %v", est2["total_cargo_value"])
	}
}
