package httpserver

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	mpassid "agora/contexts/identity-access/mpassid-verification"
)

func newTestServer() *Server {
	return New(
		mpassid.NewInMemoryModule(slog.Default()),
		slog.Default(),
		":0",
	)
}

func TestGrantRequiresAuthorizationHeader(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"organization_id":"org-1","user_id":"user-1","subject_uid":"uid-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/mpassid/v1/authorizations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", "req-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGrantRequiresRequestIDHeader(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"organization_id":"org-1","user_id":"user-1","subject_uid":"uid-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/mpassid/v1/authorizations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGrantRejectsMalformedJSON(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/mpassid/v1/authorizations", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("X-Request-Id", "req-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGrantAndAuthorizeFlow(t *testing.T) {
	server := newTestServer()

	grantBody := []byte(`{
		"organization_id": "org-1",
		"user_id": "user-1",
		"subject_uid": "uid-1",
		"attributes": {
			"school_info": ["00000;Keskustan ala-aste"],
			"class_level": ["5"]
		}
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/mpassid/v1/authorizations", bytes.NewReader(grantBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("X-Request-Id", "req-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("grant expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	authorizeBody := []byte(`{"options":{"minimum_class_level":6,"maximum_class_level":10}}`)
	req = httptest.NewRequest(http.MethodPost, "/api/mpassid/v1/users/user-1/authorize", bytes.NewReader(authorizeBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("X-Request-Id", "req-2")

	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("authorize expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var verdict struct {
		Status           string `json:"status"`
		ExtraExplanation *struct {
			Key string `json:"key"`
		} `json:"extra_explanation"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &verdict); err != nil {
		t.Fatalf("decode verdict failed: %v", err)
	}
	if verdict.Status != "unauthorized" || verdict.ExtraExplanation == nil || verdict.ExtraExplanation.Key != "class_level_not_allowed" {
		t.Fatalf("unexpected verdict %s", rr.Body.String())
	}
}

func TestGetAuthorizationMissingUserReturns404(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/mpassid/v1/users/user-404/authorization", nil)
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("X-Request-Id", "req-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGrantIdentityConflictReturns409(t *testing.T) {
	server := newTestServer()

	for index, userID := range []string{"user-1", "user-2"} {
		body := []byte(`{"organization_id":"org-1","user_id":"` + userID + `","subject_uid":"uid-shared"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/mpassid/v1/authorizations", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer token")
		req.Header.Set("X-Request-Id", "req-1")

		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)

		if index == 0 && rr.Code != http.StatusOK {
			t.Fatalf("first grant expected 200, got %d body=%s", rr.Code, rr.Body.String())
		}
		if index == 1 && rr.Code != http.StatusConflict {
			t.Fatalf("second grant expected 409, got %d body=%s", rr.Code, rr.Body.String())
		}
	}
}

func TestGrantFromAssertionRejectsBadEncoding(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"organization_id":"org-1","user_id":"user-1","assertion":"not-base64!!"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/mpassid/v1/assertions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("X-Request-Id", "req-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}
