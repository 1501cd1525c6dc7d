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

func setupPackageTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	svc := service.NewPackageService(repos.Package, repos.Item, repos.Quote, repos.Engineer)
	exportSvc := service.NewExportService(repos.Package, repos.Item, repos.Quote)
	h := NewPackageHandler(svc, exportSvc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/procurement")
	api.GET("/packages/:id", h.Get)
	api.POST("/packages/:id/status", h.ChangeStatus)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

// TestPackageStatusTransitions tests the one-way status machine and the
// 404/400 split on failures.
func TestPackageStatusTransitions(t *testing.T) {
	env := setupPackageTest(t)
	token := testutil.DefaultTestToken()

	pkg := &entity.Package{
		ID:        "pkg-st-001",
		Code:      "PKG-2026-T030",
		Name:      "阀门采购包",
		Status:    entity.PackageStatusOpen,
		CreatedBy: "test-user",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := env.DB.Create(pkg).Error; err != nil {
		t.Fatalf("Failed to seed package: %v", err)
	}

	// Unknown package id is 404, not a validation failure
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/packages/no-such-pkg/status", map[string]interface{}{"status": "in_progress"}, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown package must return 404, got %d: %s", w.Code, w.Body.String())
	}

	// open → completed skips in_progress
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/packages/"+pkg.ID+"/status", map[string]interface{}{"status": "completed"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("open→completed must be refused with 400, got %d: %s", w.Code, w.Body.String())
	}

	for _, status := range []string{"in_progress", "completed"} {
		w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/packages/"+pkg.ID+"/status", map[string]interface{}{"status": status}, token)
		if w.Code != http.StatusOK {
			t.Fatalf("transition to %s failed: %d %s", status, w.Code, w.Body.String())
		}
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != "completed" {
		t.Errorf("expected completed, got %v", data["status"])
	}

	// completed is terminal
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/procurement/packages/"+pkg.ID+"/status", map[string]interface{}{"status": "cancelled"}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("completed→cancelled must be refused with 400, got %d", w.Code)
	}
}
