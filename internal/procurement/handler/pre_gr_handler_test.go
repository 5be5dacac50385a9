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
	"gorm.io/gorm"
)

func setupPreGRTest(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	svc := service.NewPreGRService(repos.PreGR, repos.PO)
	h := NewPreGRHandler(svc)

	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/pre-gr", h.List)
	api.POST("/pre-gr", h.Create)
	api.GET("/pre-gr/:id", h.Get)
	api.PUT("/pre-gr/:id", h.Update)
	api.DELETE("/pre-gr/:id", middleware.RequireAdmin(), h.Delete)
	api.POST("/pre-gr/:id/approve", middleware.RequireAdmin(), h.Approve)

	return db, router
}

func seedPreGRBase(t *testing.T, db *gorm.DB, suffix string) {
	t.Helper()
	testutil.SeedSupplier(t, db, "sup-"+suffix, "Coastal Agro Exports")
	testutil.SeedItem(t, db, "item-"+suffix, "Onion Export Grade "+suffix)
	testutil.SeedPO(t, db, "po-"+suffix, "sup-"+suffix, "item-"+suffix)
}

func TestPreGRCreateComputesNetWeight(t *testing.T) {
	db, router := setupPreGRTest(t)
	seedPreGRBase(t, db, "101")

	w := testutil.DoRequest(router, "POST", "/api/v1/pre-gr", map[string]interface{}{
		"po_id":            "po-101",
		"date":             "2025-05-20",
		"vehicle_number":   "TN09CF4521",
		"laden_weight_kgs": 28500.0,
		"empty_weight_kgs": 9300.0,
	}, testutil.StaffToken())
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["net_weight_kgs"].(float64) != 19200 {
		t.Errorf("Expected server-computed net weight 19200, got %v", data["net_weight_kgs"])
	}
	if data["is_admin_approved"].(bool) {
		t.Errorf("New entry must start unapproved")
	}
}

func TestPreGRCreateRejectsBadWeights(t *testing.T) {
	db, router := setupPreGRTest(t)
	seedPreGRBase(t, db, "102")

	// Laden below empty cannot produce a valid net weight.
	w := testutil.DoRequest(router, "POST", "/api/v1/pre-gr", map[string]interface{}{
		"po_id":            "po-102",
		"date":             "2025-05-20",
		"vehicle_number":   "TN09CF4521",
		"laden_weight_kgs": 8000.0,
		"empty_weight_kgs": 9300.0,
	}, testutil.StaffToken())
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for laden < empty, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPreGRPodiBagsRequireAdmin(t *testing.T) {
	db, router := setupPreGRTest(t)
	seedPreGRBase(t, db, "103")

	body := map[string]interface{}{
		"po_id":            "po-103",
		"date":             "2025-05-21",
		"vehicle_number":   "TN09CF4522",
		"laden_weight_kgs": 28500.0,
		"empty_weight_kgs": 9300.0,
		"podi_bag_count":   4,
	}

	w := testutil.DoRequest(router, "POST", "/api/v1/pre-gr", body, testutil.StaffToken())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for staff podi bag entry, got %d: %s", w.Code, w.Body.String())
	}

	w2 := testutil.DoRequest(router, "POST", "/api/v1/pre-gr", body, testutil.AdminToken())
	if w2.Code != http.StatusCreated {
		t.Fatalf("Expected 201 for admin podi bag entry, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestPreGRPodiBagEntryStaysAdminOnly(t *testing.T) {
	db, router := setupPreGRTest(t)
	seedPreGRBase(t, db, "108")
	gr := testutil.SeedPreGR(t, db, "pgr-108", "po-108")
	db.Model(&entity.PreGREntry{}).Where("id = ?", gr.ID).
		Updates(map[string]interface{}{"podi_bag_count": 5, "is_admin_approved": false})

	// A staff edit of an unrelated field still saves the podi-bag entry,
	// so the gate must hold regardless of which field the request touches.
	w := testutil.DoRequest(router, "PUT", "/api/v1/pre-gr/"+gr.ID, map[string]interface{}{
		"vehicle_number": "TN09XX9999",
		"version":        1,
	}, testutil.StaffToken())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for staff edit of podi bag entry, got %d: %s", w.Code, w.Body.String())
	}

	var stored entity.PreGREntry
	db.Where("id = ?", gr.ID).First(&stored)
	if stored.VehicleNumber != "TN01AB1234" {
		t.Errorf("Rejected staff edit must not land, got vehicle %q", stored.VehicleNumber)
	}

	w2 := testutil.DoRequest(router, "PUT", "/api/v1/pre-gr/"+gr.ID, map[string]interface{}{
		"vehicle_number": "TN09XX9999",
		"version":        1,
	}, testutil.AdminToken())
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200 for admin edit of podi bag entry, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestPreGRApproveAdminOnly(t *testing.T) {
	db, router := setupPreGRTest(t)
	seedPreGRBase(t, db, "104")
	gr := testutil.SeedPreGR(t, db, "pgr-104", "po-104")
	db.Model(&entity.PreGREntry{}).Where("id = ?", gr.ID).Update("is_admin_approved", false)

	w := testutil.DoRequest(router, "POST", "/api/v1/pre-gr/"+gr.ID+"/approve", map[string]interface{}{
		"remark": "weights verified",
	}, testutil.StaffToken())
	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for staff approve, got %d: %s", w.Code, w.Body.String())
	}

	w2 := testutil.DoRequest(router, "POST", "/api/v1/pre-gr/"+gr.ID+"/approve", map[string]interface{}{
		"remark": "weights verified",
	}, testutil.AdminToken())
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200 for admin approve, got %d: %s", w2.Code, w2.Body.String())
	}

	var stored entity.PreGREntry
	db.Where("id = ?", gr.ID).First(&stored)
	if !stored.IsAdminApproved || stored.AdminRemark != "weights verified" {
		t.Errorf("Expected approval with remark, got approved=%v remark=%q", stored.IsAdminApproved, stored.AdminRemark)
	}

	// Re-approving is a no-op rejected outright.
	w3 := testutil.DoRequest(router, "POST", "/api/v1/pre-gr/"+gr.ID+"/approve", nil, testutil.AdminToken())
	if w3.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for double approve, got %d: %s", w3.Code, w3.Body.String())
	}
}

func TestPreGRConsumedEntryIsFrozen(t *testing.T) {
	db, router := setupPreGRTest(t)
	seedPreGRBase(t, db, "105")
	gr := testutil.SeedPreGR(t, db, "pgr-105", "po-105")
	db.Model(&entity.PreGREntry{}).Where("id = ?", gr.ID).Update("is_gqr_created", true)

	w := testutil.DoRequest(router, "PUT", "/api/v1/pre-gr/"+gr.ID, map[string]interface{}{
		"vehicle_number": "TN09XX0000",
		"version":        1,
	}, testutil.AdminToken())
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 editing consumed pre-gr, got %d: %s", w.Code, w.Body.String())
	}

	var stored entity.PreGREntry
	db.Where("id = ?", gr.ID).First(&stored)
	if stored.VehicleNumber != "TN01AB1234" {
		t.Errorf("Consumed entry must stay untouched, got vehicle %q", stored.VehicleNumber)
	}
}

func TestPreGRStaleVersionConflicts(t *testing.T) {
	db, router := setupPreGRTest(t)
	seedPreGRBase(t, db, "106")
	gr := testutil.SeedPreGR(t, db, "pgr-106", "po-106")

	w := testutil.DoRequest(router, "PUT", "/api/v1/pre-gr/"+gr.ID, map[string]interface{}{
		"weighbridge_name": "Sree Murugan Weighbridge",
		"version":          1,
	}, testutil.StaffToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w2 := testutil.DoRequest(router, "PUT", "/api/v1/pre-gr/"+gr.ID, map[string]interface{}{
		"weighbridge_name": "Another Weighbridge",
		"version":          1,
	}, testutil.StaffToken())
	if w2.Code != http.StatusConflict {
		t.Errorf("Expected 409 for stale version, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestPreGRCreateRejectsClosedPO(t *testing.T) {
	db, router := setupPreGRTest(t)
	seedPreGRBase(t, db, "107")
	db.Model(&entity.PurchaseOrder{}).Where("id = ?", "po-107").Update("po_closed", true)

	w := testutil.DoRequest(router, "POST", "/api/v1/pre-gr", map[string]interface{}{
		"po_id":            "po-107",
		"date":             "2025-05-22",
		"vehicle_number":   "TN09CF4523",
		"laden_weight_kgs": 28500.0,
		"empty_weight_kgs": 9300.0,
	}, testutil.StaffToken())
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 against closed PO, got %d: %s", w.Code, w.Body.String())
	}
}
