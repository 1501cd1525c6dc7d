package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/bitfantasy/procure/internal/procurement/entity"
	"github.com/bitfantasy/procure/internal/procurement/repository"
	"github.com/bitfantasy/procure/internal/procurement/service"
	"github.com/bitfantasy/procure/internal/procurement/testutil"
)

func setupApprovalTest(t *testing.T) (*testutil.TestEnv, *service.ApprovalService) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	svc := service.NewApprovalService(repos.Approval, repos.Package, repos.Quote)
	h := NewApprovalHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/procurement")
	api.PUT("/packages/:id/approvals/:supplierId", h.Submit)
	api.GET("/packages/:id/approvals/:supplierId", h.Status)
	api.GET("/packages/:id/approvals", h.List)
	api.GET("/packages/:id/approval-status", h.PackageStatus)

	return &testutil.TestEnv{DB: db, Router: router, T: t}, svc
}

func seedApprovalPackage(t *testing.T, env *testutil.TestEnv) string {
	t.Helper()
	pkg := &entity.Package{
		ID:        "pkg-appr-001",
		Code:      "PKG-2026-T001",
		Name:      "结构件询价包",
		Status:    entity.PackageStatusInProgress,
		CreatedBy: "test-user",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := env.DB.Create(pkg).Error; err != nil {
		t.Fatalf("Failed to seed package: %v", err)
	}
	return pkg.ID
}

// TestApprovalSubmitAndStatus tests submitting a decision and reading it back;
// suppliers with no record must read as pending.
func TestApprovalSubmitAndStatus(t *testing.T) {
	env, _ := setupApprovalTest(t)
	token := testutil.DefaultTestToken()
	pkgID := seedApprovalPackage(t, env)
	testutil.SeedSupplier(t, env.DB, "sup-acme", "Acme Industries")

	// Unknown supplier reads as pending
	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/procurement/packages/"+pkgID+"/approvals/sup-acme", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["data"].(map[string]interface{})["decision"] != "pending" {
		t.Fatalf("expected pending before any submit, got %v", resp["data"])
	}

	// Submit approved
	body := map[string]interface{}{
		"decision": "approved",
		"comments": "price and lead time acceptable",
	}
	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/procurement/packages/"+pkgID+"/approvals/sup-acme", body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/procurement/packages/"+pkgID+"/approvals/sup-acme", nil, token)
	resp = testutil.ParseResponse(w)
	if resp["data"].(map[string]interface{})["decision"] != "approved" {
		t.Fatalf("expected approved, got %v", resp["data"])
	}
}

// TestApprovalResubmitOverwrites tests that resubmitting for the same
// (package, supplier) key overwrites the record instead of duplicating it.
func TestApprovalResubmitOverwrites(t *testing.T) {
	env, _ := setupApprovalTest(t)
	token := testutil.DefaultTestToken()
	pkgID := seedApprovalPackage(t, env)
	testutil.SeedSupplier(t, env.DB, "sup-acme", "Acme Industries")

	for _, comments := range []string{"first pass", "second pass with revised risk notes"} {
		body := map[string]interface{}{"decision": "approved", "comments": comments}
		w := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/procurement/packages/"+pkgID+"/approvals/sup-acme", body, token)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	}

	var count int64
	env.DB.Model(&entity.Approval{}).Where("package_id = ? AND supplier_id = ?", pkgID, "sup-acme").Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly 1 approval record, got %d", count)
	}

	var a entity.Approval
	env.DB.Where("package_id = ? AND supplier_id = ?", pkgID, "sup-acme").First(&a)
	if a.Comments != "second pass with revised risk notes" {
		t.Errorf("resubmit should overwrite comments, got %q", a.Comments)
	}
}

// TestApprovalApprovedToRejectedRefused tests the one forbidden transition.
func TestApprovalApprovedToRejectedRefused(t *testing.T) {
	env, _ := setupApprovalTest(t)
	token := testutil.DefaultTestToken()
	pkgID := seedApprovalPackage(t, env)
	testutil.SeedSupplier(t, env.DB, "sup-acme", "Acme Industries")

	body := map[string]interface{}{"decision": "approved", "comments": "ok"}
	w := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/procurement/packages/"+pkgID+"/approvals/sup-acme", body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("approve failed: %d %s", w.Code, w.Body.String())
	}

	body = map[string]interface{}{"decision": "rejected", "comments": "changed my mind"}
	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/procurement/packages/"+pkgID+"/approvals/sup-acme", body, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("approved→rejected must be refused with 400, got %d: %s", w.Code, w.Body.String())
	}

	// Rejected supplier may be re-approved later
	testutil.SeedSupplier(t, env.DB, "sup-beta", "Beta Corp")
	body = map[string]interface{}{"decision": "rejected", "comments": "quality concerns"}
	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/procurement/packages/"+pkgID+"/approvals/sup-beta", body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("reject failed: %d %s", w.Code, w.Body.String())
	}
	body = map[string]interface{}{"decision": "approved", "comments": "concerns resolved"}
	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/procurement/packages/"+pkgID+"/approvals/sup-beta", body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("rejected→approved should be allowed, got %d: %s", w.Code, w.Body.String())
	}
}

// TestApprovalSubmitValidation tests that decision and comments are mandatory.
func TestApprovalSubmitValidation(t *testing.T) {
	env, _ := setupApprovalTest(t)
	token := testutil.DefaultTestToken()
	pkgID := seedApprovalPackage(t, env)

	cases := []map[string]interface{}{
		{"decision": "approved"},                       // missing comments
		{"comments": "no decision"},                    // missing decision
		{"decision": "maybe", "comments": "undecided"}, // invalid decision value
	}
	for _, body := range cases {
		w := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/procurement/packages/"+pkgID+"/approvals/sup-x", body, token)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for %v, got %d: %s", body, w.Code, w.Body.String())
		}
	}
}

// TestPackageApprovalStatus tests the per-package rollup across quoting suppliers.
func TestPackageApprovalStatus(t *testing.T) {
	env, svc := setupApprovalTest(t)
	token := testutil.DefaultTestToken()
	pkgID := seedApprovalPackage(t, env)
	testutil.SeedSupplier(t, env.DB, "sup-acme", "Acme Industries")
	testutil.SeedSupplier(t, env.DB, "sup-beta", "Beta Corp")

	item := &entity.Item{
		ID: "item-appr-001", PackageID: pkgID, Name: "外壳", Quantity: 10,
		Unit: "pcs", CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := env.DB.Create(item).Error; err != nil {
		t.Fatalf("Failed to seed item: %v", err)
	}
	for i, sup := range []string{"sup-acme", "sup-beta"} {
		q := &entity.Quote{
			ID: fmt.Sprintf("quote-appr-%03d", i+1), ItemID: item.ID, SupplierID: sup,
			Price: 100, Currency: "USD", DeliveryDays: 10,
			TechnicalCompliance: true, CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}
		if err := env.DB.Create(q).Error; err != nil {
			t.Fatalf("Failed to seed quote: %v", err)
		}
	}

	// Only one of two suppliers approved → not all approved
	body := map[string]interface{}{"decision": "approved", "comments": "ok"}
	testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/procurement/packages/"+pkgID+"/approvals/sup-acme", body, token)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/procurement/packages/"+pkgID+"/approval-status", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["all_approved"].(bool) {
		t.Error("all_approved must be false with a pending supplier")
	}
	suppliers := data["suppliers"].(map[string]interface{})
	if suppliers["sup-acme"] != "approved" || suppliers["sup-beta"] != "pending" {
		t.Errorf("unexpected rollup: %v", suppliers)
	}

	// Approve the second supplier → all approved
	testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/procurement/packages/"+pkgID+"/approvals/sup-beta", body, token)
	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/procurement/packages/"+pkgID+"/approval-status", nil, token)
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if !data["all_approved"].(bool) {
		t.Error("all_approved must be true once every quoting supplier is approved")
	}

	ok, err := svc.AllSuppliersApproved(context.Background(), pkgID, []string{"sup-acme", "sup-beta"})
	if err != nil || !ok {
		t.Errorf("AllSuppliersApproved = %v, %v; want true", ok, err)
	}
	ok, err = svc.AllSuppliersApproved(context.Background(), pkgID, []string{"sup-acme", "sup-gamma"})
	if err != nil || ok {
		t.Errorf("AllSuppliersApproved with a pending supplier = %v, %v; want false", ok, err)
	}
}
