package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"verse-server/services/chat-api/internal/domain/llm"
	"verse-server/services/chat-api/internal/interfaces/httpserver/handlers"
)

func newAdminRouter(t *testing.T) (*gin.Engine, *llm.ConfigStore) {
	t.Helper()
	store, err := llm.NewConfigStore(llm.Config{
		ModelID:         "gemini-2.0-flash",
		Temperature:     0.7,
		TopK:            40,
		TopP:            0.95,
		MaxOutputTokens: 2048,
		Timeout:         30 * time.Second,
		MaxRetries:      2,
		RetryBaseDelay:  500 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("seed config store: %v", err)
	}

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handler := handlers.NewAdminHandler(store, zerolog.Nop())
	engine.GET("/v1/admin/provider-config", handler.GetProviderConfig)
	engine.PUT("/v1/admin/provider-config", handler.UpdateProviderConfig)
	return engine, store
}

func TestGetProviderConfig(t *testing.T) {
	router, _ := newAdminRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/provider-config", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		ModelID   string `json:"model_id"`
		TimeoutMS int64  `json:"timeout_ms"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.ModelID != "gemini-2.0-flash" || payload.TimeoutMS != 30000 {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestUpdateProviderConfig(t *testing.T) {
	router, store := newAdminRouter(t)

	body := bytes.NewBufferString(`{
		"model_id": "gemini-2.0-pro",
		"temperature": 0.2,
		"top_k": 20,
		"top_p": 0.9,
		"max_output_tokens": 1024,
		"timeout_ms": 10000,
		"max_retries": 1,
		"retry_base_delay_ms": 250
	}`)
	req := httptest.NewRequest(http.MethodPut, "/v1/admin/provider-config", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	got := store.Snapshot()
	if got.ModelID != "gemini-2.0-pro" || got.Timeout != 10*time.Second || got.MaxRetries != 1 {
		t.Errorf("store not updated: %+v", got)
	}
}

func TestUpdateProviderConfigRejectsInvalid(t *testing.T) {
	router, store := newAdminRouter(t)

	body := bytes.NewBufferString(`{
		"model_id": "gemini-2.0-pro",
		"temperature": 9.5,
		"max_output_tokens": 1024,
		"timeout_ms": 10000
	}`)
	req := httptest.NewRequest(http.MethodPut, "/v1/admin/provider-config", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := store.Snapshot(); got.ModelID != "gemini-2.0-flash" {
		t.Errorf("rejected update must not change the store: %+v", got)
	}
}
