package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/bitfantasy/procure/internal/procurement/entity"
	"github.com/bitfantasy/procure/internal/procurement/repository"
	"github.com/bitfantasy/procure/internal/procurement/service"
	"github.com/bitfantasy/procure/internal/procurement/testutil"
)

func setupPOTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	svc := service.NewPOService(repos.PO, repos.Package, repos.Item, repos.Quote)
	h := NewPOHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/procurement")
	api.GET("/purchase-orders", h.List)
	api.GET("/purchase-orders/:id", h.Get)
	api.POST("/purchase-orders", h.Create)
	api.POST("/purchase-orders/preview", h.Preview)
	api.POST("/purchase-orders/:id/status", h.ChangeStatus)
	api.GET("/packages/:id/eligible-suppliers", h.EligibleSuppliers)
	api.GET("/packages/:id/eligible-items", h.EligibleItems)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

// seedPOFixtures seeds a package with two items. "item-shell" carries a fully
// approved compliant quote from sup-acme, "item-cable" only a noncompliant one.
func seedPOFixtures(t *testing.T, env *testutil.TestEnv) {
	t.Helper()
	now := time.Now()

	pkg := &entity.Package{
		ID: "pkg-po-001", Code: "PKG-2026-T010", Name: "机电采购包",
		Status: entity.PackageStatusInProgress, CreatedBy: "test-user",
		CreatedAt: now, UpdatedAt: now,
	}
	if err := env.DB.Create(pkg).Error; err != nil {
		t.Fatalf("Failed to seed package: %v", err)
	}
	testutil.SeedSupplier(t, env.DB, "sup-acme", "Acme Industries")

	items := []entity.Item{
		{ID: "item-shell", PackageID: pkg.ID, Name: "外壳", Quantity: 10, Unit: "pcs", CreatedAt: now, UpdatedAt: now},
		{ID: "item-cable", PackageID: pkg.ID, Name: "线缆", Quantity: 50, Unit: "m", CreatedAt: now, UpdatedAt: now},
	}
	for i := range items {
		if err := env.DB.Create(&items[i]).Error; err != nil {
			t.Fatalf("Failed to seed item: %v", err)
		}
	}

	quotes := []entity.Quote{
		{
			ID: "quote-po-001", ItemID: "item-shell", SupplierID: "sup-acme",
			Price: 100, Currency: "USD", DeliveryDays: 15,
			TechnicalCompliance: true, BODApproved: true,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "quote-po-002", ItemID: "item-cable", SupplierID: "sup-acme",
			Price: 8, Currency: "USD", DeliveryDays: 7,
			TechnicalCompliance: false, BODApproved: true,
			CreatedAt: now, UpdatedAt: now,
		},
	}
	for i := range quotes {
		if err := env.DB.Create(&quotes[i]).Error; err != nil {
			t.Fatalf("Failed to seed quote: %v", err)
		}
	}
}

// TestEligibleSuppliersAndItems tests BOD approval plus technical compliance
// as the joint gate for purchase orders.
func TestEligibleSuppliersAndItems(t *testing.T) {
	env := setupPOTest(t)
	token := testutil.DefaultTestToken()
	seedPOFixtures(t, env)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/procurement/packages/pkg-po-001/eligible-suppliers", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	suppliers := testutil.ParseResponse(w)["data"].([]interface{})
	if len(suppliers) != 1 || suppliers[0] != "sup-acme" {
		t.Fatalf("expected [sup-acme], got %v", suppliers)
	}

	// Only the compliant item is eligible
	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/procurement/packages/pkg-po-001/eligible-items?supplier_id=sup-acme", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	items := testutil.ParseResponse(w)["data"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 eligible item, got %d", len(items))
	}
	if items[0].(map[string]interface{})["id"] != "item-shell" {
		t.Errorf("expected item-shell, got %v", items[0])
	}

	// supplier_id is mandatory
	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/procurement/packages/pkg-po-001/eligible-items", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without supplier_id, got %d", w.Code)
	}
}

// TestCreatePurchaseOrder tests assembling and persisting a PO from an
// eligible quote.
func TestCreatePurchaseOrder(t *testing.T) {
	env := setupPOTest(t)
	token := testutil.DefaultTestToken()
	seedPOFixtures(t, env)

	body := map[string]interface{}{
		"package_id":    "pkg-po-001",
		"supplier_id":   "sup-acme",
		"item_ids":      []string{"item-shell"},
		"delivery_term": "FOB",
		"payment_terms": "30% advance, 70% on delivery",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/purchase-orders", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != "draft" {
		t.Errorf("new PO should be draft, got %v", data["status"])
	}
	if data["currency"] != "USD" {
		t.Errorf("expected USD, got %v", data["currency"])
	}
	if data["total_value"].(float64) != 1000 {
		t.Errorf("expected total 1000 (100 x 10), got %v", data["total_value"])
	}
	code, _ := data["po_code"].(string)
	if len(code) < 3 || code[:3] != "PO-" {
		t.Errorf("unexpected po_code %q", code)
	}
	lines := data["lines"].([]interface{})
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	line := lines[0].(map[string]interface{})
	if line["line_total"].(float64) != 1000 || line["unit_price"].(float64) != 100 {
		t.Errorf("unexpected line amounts: %v", line)
	}
}

// TestCreatePurchaseOrderIneligibleItem tests rejection of items whose quote
// is missing either half of the gate.
func TestCreatePurchaseOrderIneligibleItem(t *testing.T) {
	env := setupPOTest(t)
	token := testutil.DefaultTestToken()
	seedPOFixtures(t, env)

	body := map[string]interface{}{
		"package_id":  "pkg-po-001",
		"supplier_id": "sup-acme",
		"item_ids":    []string{"item-shell", "item-cable"},
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/purchase-orders", body, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for ineligible item, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	env.DB.Model(&entity.PurchaseOrder{}).Count(&count)
	if count != 0 {
		t.Errorf("no PO must be persisted on failure, found %d", count)
	}
}

// TestPreviewDoesNotPersist tests the preview endpoint assembles without
// writing anything.
func TestPreviewDoesNotPersist(t *testing.T) {
	env := setupPOTest(t)
	token := testutil.DefaultTestToken()
	seedPOFixtures(t, env)

	body := map[string]interface{}{
		"package_id":  "pkg-po-001",
		"supplier_id": "sup-acme",
		"item_ids":    []string{"item-shell"},
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/purchase-orders/preview", body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["total_value"].(float64) != 1000 {
		t.Errorf("expected total 1000, got %v", data["total_value"])
	}

	var count int64
	env.DB.Model(&entity.PurchaseOrder{}).Count(&count)
	if count != 0 {
		t.Errorf("preview must not persist, found %d POs", count)
	}
}

// TestPOStatusTransitions tests draft→issued→signed and refusal of skips.
func TestPOStatusTransitions(t *testing.T) {
	env := setupPOTest(t)
	token := testutil.DefaultTestToken()
	seedPOFixtures(t, env)

	body := map[string]interface{}{
		"package_id":  "pkg-po-001",
		"supplier_id": "sup-acme",
		"item_ids":    []string{"item-shell"},
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/purchase-orders", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create failed: %d %s", w.Code, w.Body.String())
	}
	poID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	// draft → signed is not allowed
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/purchase-orders/"+poID+"/status", map[string]interface{}{"status": "signed"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("draft→signed must be refused with 400, got %d: %s", w.Code, w.Body.String())
	}

	// Unknown order id is 404, not a validation failure
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/purchase-orders/no-such-po/status", map[string]interface{}{"status": "issued"}, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown PO must return 404, got %d: %s", w.Code, w.Body.String())
	}

	// draft → issued stamps the issue date
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/purchase-orders/"+poID+"/status", map[string]interface{}{"status": "issued"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("draft→issued failed: %d %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["issue_date"] == nil {
		t.Error("issue_date must be stamped on issue")
	}

	// issued → signed
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/purchase-orders/"+poID+"/status", map[string]interface{}{"status": "signed"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("issued→signed failed: %d %s", w.Code, w.Body.String())
	}
	if testutil.ParseResponse(w)["data"].(map[string]interface{})["status"] != "signed" {
		t.Error("expected signed status")
	}
}
