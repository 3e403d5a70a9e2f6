package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/catalog"
)

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/healthcheck", HealthCheck)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Errorf("body = %q, want ok", w.Body.String())
	}
}

func TestCatalogEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	router := gin.New()
	router.GET("/catalog", NewCatalogHandler(cat).Get)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Pillars []struct {
			Pillar   string            `json:"pillar"`
			Criteria []json.RawMessage `json:"criteria"`
		} `json:"pillars"`
		AssuranceControls []json.RawMessage `json:"assurance_controls"`
		MaturityLevels    []json.RawMessage `json:"maturity_levels"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if len(body.Pillars) != 4 {
		t.Errorf("pillars = %d, want 4", len(body.Pillars))
	}
	total := 0
	for _, pg := range body.Pillars {
		total += len(pg.Criteria)
	}
	if total != len(cat.Criteria()) {
		t.Errorf("criteria across pillars = %d, want %d", total, len(cat.Criteria()))
	}
	if len(body.AssuranceControls) != len(cat.Controls()) {
		t.Errorf("controls = %d, want %d", len(body.AssuranceControls), len(cat.Controls()))
	}
	if len(body.MaturityLevels) != 6 {
		t.Errorf("maturity levels = %d, want 6", len(body.MaturityLevels))
	}
}

func TestRespondErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/boom", func(c *gin.Context) {
		RespondError(c, http.StatusBadRequest, "invalid_body", nil)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var envelope ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if envelope.Error.Code != "invalid_body" {
		t.Errorf("code = %q", envelope.Error.Code)
	}
	if envelope.Error.Message != "unknown error" {
		t.Errorf("message = %q", envelope.Error.Message)
	}
}
