package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	mpassid "agora/contexts/identity-access/mpassid-verification"
	httpadapter "agora/contexts/identity-access/mpassid-verification/adapters/http"
	mpassiderrors "agora/contexts/identity-access/mpassid-verification/domain/errors"
	mpassidhttp "agora/contexts/identity-access/mpassid-verification/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "agora/internal/platform/httpserver/docs"
)

type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	addr    string
	mpassid mpassid.Module
}

func New(
	mpassidModule mpassid.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		mpassid: mpassidModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/mpassid/v1/authorizations", s.handleGrantAuthorization)
	s.mux.HandleFunc("POST /api/mpassid/v1/assertions", s.handleGrantFromAssertion)
	s.mux.HandleFunc("GET /api/mpassid/v1/users/{user_id}/authorization", s.handleGetAuthorization)
	s.mux.HandleFunc("POST /api/mpassid/v1/users/{user_id}/authorize", s.handleAuthorizeAction)
}

func requireRequestID(w http.ResponseWriter, r *http.Request) bool {
	if strings.TrimSpace(r.Header.Get("X-Request-Id")) == "" {
		writeMpassidError(w, http.StatusBadRequest, "request_id_required", "X-Request-Id header is required")
		return false
	}
	return true
}

func requireAuthorization(w http.ResponseWriter, r *http.Request) bool {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		writeMpassidError(w, http.StatusUnauthorized, "unauthorized", "Authorization bearer token is required")
		return false
	}
	return true
}

func (s *Server) handleGrantAuthorization(w http.ResponseWriter, r *http.Request) {
	if !requireAuthorization(w, r) || !requireRequestID(w, r) {
		return
	}
	var req mpassidhttp.GrantAuthorizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMpassidError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.mpassid.Handler.GrantAuthorizationHandler(r.Context(), req)
	if err != nil {
		writeMpassidDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGrantFromAssertion(w http.ResponseWriter, r *http.Request) {
	if !requireAuthorization(w, r) || !requireRequestID(w, r) {
		return
	}
	var req mpassidhttp.GrantFromAssertionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMpassidError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.mpassid.Handler.GrantFromAssertionHandler(r.Context(), req)
	if err != nil {
		writeMpassidDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAuthorization(w http.ResponseWriter, r *http.Request) {
	if !requireAuthorization(w, r) || !requireRequestID(w, r) {
		return
	}
	userID := r.PathValue("user_id")
	resp, err := s.mpassid.Handler.GetAuthorizationHandler(r.Context(), userID)
	if err != nil {
		writeMpassidDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuthorizeAction(w http.ResponseWriter, r *http.Request) {
	if !requireAuthorization(w, r) || !requireRequestID(w, r) {
		return
	}
	userID := r.PathValue("user_id")

	var req mpassidhttp.AuthorizeActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMpassidError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.mpassid.Handler.AuthorizeActionHandler(r.Context(), userID, req)
	if err != nil {
		writeMpassidDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeMpassidDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, httpadapter.ErrMalformedAssertion):
		writeMpassidError(w, http.StatusBadRequest, "malformed_assertion", err.Error())
	case errors.Is(err, mpassiderrors.ErrInvalidOrganizationID),
		errors.Is(err, mpassiderrors.ErrInvalidUserID),
		errors.Is(err, mpassiderrors.ErrInvalidSubjectUID):
		writeMpassidError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, mpassiderrors.ErrIdentityBoundToOtherUser):
		writeMpassidError(w, http.StatusConflict, "identity_conflict", err.Error())
	case errors.Is(err, mpassiderrors.ErrAuthorizationTaken):
		writeMpassidError(w, http.StatusConflict, "authorization_taken", err.Error())
	case errors.Is(err, mpassiderrors.ErrAuthorizationNotFound):
		writeMpassidError(w, http.StatusNotFound, "authorization_not_found", err.Error())
	case errors.Is(err, mpassiderrors.ErrAuthorizationExpired):
		writeMpassidError(w, http.StatusForbidden, "authorization_expired", err.Error())
	default:
		writeMpassidError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeMpassidError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, mpassidhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
