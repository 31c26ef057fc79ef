package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rpgo/retirement-planner/internal/domain"
	"github.com/rpgo/retirement-planner/internal/service"
	"github.com/rpgo/retirement-planner/internal/store"
)

// IdentityHeader names the request header that identifies the caller.
const IdentityHeader = "X-User-Email"

const maxRequestBody = 1 << 20

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"detail": message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		jsonError(w, http.StatusUnprocessableEntity, "invalid request body")
		return false
	}
	return true
}

// serviceError maps a service error to a status code and message.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrMissingIdentity):
		jsonError(w, http.StatusForbidden, "could not identify the user; set the "+IdentityHeader+" header")
	case errors.Is(err, service.ErrUserNotFound):
		jsonError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrAssumptionsNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAgeNotSet):
		jsonError(w, http.StatusBadRequest, "user age is not set; update the user profile")
	case errors.Is(err, service.ErrInvalidInput):
		jsonError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, store.ErrConflict):
		jsonError(w, http.StatusConflict, "user already exists")
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", RequestIDFromContext(r.Context()))
		jsonError(w, http.StatusInternalServerError, "internal server error")
	}
}

func identity(r *http.Request) string {
	return r.Header.Get(IdentityHeader)
}

// pageParams reads skip and limit query parameters.
func pageParams(r *http.Request) (skip, limit int, ok bool) {
	skip, limit = 0, 100
	if v := r.URL.Query().Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, false
		}
		skip = n
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return 0, 0, false
		}
		limit = min(n, service.ProjectionRecordLimit)
	}
	return skip, limit, true
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Welcome to the Financial Retirement Planner API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.svc.Ping(ctx); err != nil {
		s.logger.Warn("health check failed", "error", err)
		jsonError(w, http.StatusServiceUnavailable, "store not ready")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterUserInput
	if !decodeBody(w, r, &in) {
		return
	}

	u, created, err := s.svc.RegisterUser(r.Context(), in)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	jsonResponse(w, status, u)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.CurrentUser(r.Context(), identity(r))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, u)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateProfileInput
	if !decodeBody(w, r, &in) {
		return
	}
	u, err := s.svc.UpdateProfile(r.Context(), identity(r), in)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, u)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var in service.ItemInput
	if !decodeBody(w, r, &in) {
		return
	}
	e, err := s.svc.AddExpense(r.Context(), identity(r), in)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, e)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := pageParams(r)
	if !ok {
		jsonError(w, http.StatusUnprocessableEntity, "skip and limit must be non-negative integers")
		return
	}
	expenses, err := s.svc.ListExpenses(r.Context(), identity(r), skip, limit)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, expenses)
}

func (s *Server) handleCreateSaving(w http.ResponseWriter, r *http.Request) {
	var in service.ItemInput
	if !decodeBody(w, r, &in) {
		return
	}
	sv, err := s.svc.AddSaving(r.Context(), identity(r), in)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, sv)
}

func (s *Server) handleListSavings(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := pageParams(r)
	if !ok {
		jsonError(w, http.StatusUnprocessableEntity, "skip and limit must be non-negative integers")
		return
	}
	savings, err := s.svc.ListSavings(r.Context(), identity(r), skip, limit)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, savings)
}

func (s *Server) handleGetAssumptions(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.GetAssumptions(r.Context(), identity(r))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, a)
}

func (s *Server) handlePutAssumptions(w http.ResponseWriter, r *http.Request) {
	// omitted fields fall back to the defaults
	in := domain.DefaultAssumptions()
	if !decodeBody(w, r, &in) {
		return
	}
	a, err := s.svc.SaveAssumptions(r.Context(), identity(r), in)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, a)
}

func (s *Server) handleProjections(w http.ResponseWriter, r *http.Request) {
	resp, err := s.svc.Projections(r.Context(), identity(r))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleProjectionReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Report(r.Context(), identity(r))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, report)
}
