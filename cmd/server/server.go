package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/partnerdesk/internal/catalog"
	"github.com/Simplici0/partnerdesk/internal/material"
	"github.com/Simplici0/partnerdesk/internal/partner"
	"github.com/Simplici0/partnerdesk/internal/requests"
)

type server struct {
	auth     *authService
	db       *sql.DB
	partners *partner.Store
	catalog  *catalog.Store
	requests *requests.Store
	calc     *material.Calculator
}

func newServer(database *sql.DB, auth *authService) *server {
	return &server{
		auth:     auth,
		db:       database,
		partners: partner.NewStore(database),
		catalog:  catalog.NewStore(database),
		requests: requests.NewStore(database),
		calc:     material.NewCalculator(catalog.NewLookup(database)),
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(s.authMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Get("/partner-types", s.handlePartnerTypesList)
	r.Get("/partners", s.handlePartnersList)
	r.Post("/partners", s.handlePartnersCreate)
	r.Get("/partners/{id}", s.handlePartnersGet)
	r.Put("/partners/{id}", s.handlePartnersUpdate)

	r.Get("/product-types", s.handleProductTypesList)
	r.Post("/product-types", s.handleProductTypesCreate)
	r.Get("/material-types", s.handleMaterialTypesList)
	r.Post("/material-types", s.handleMaterialTypesCreate)
	r.Get("/products", s.handleProductsList)
	r.Post("/products", s.handleProductsCreate)
	r.Get("/products/article-exists", s.handleProductsArticleExists)

	r.Get("/requests", s.handleRequestsList)
	r.Post("/requests", s.handleRequestsCreate)
	r.Get("/requests/{id}", s.handleRequestsGet)
	r.Put("/requests/{id}/partner", s.handleRequestsUpdatePartner)
	r.Post("/requests/{id}/recalculate", s.handleRequestsRecalculate)
	r.Get("/requests/{id}/products", s.handleRequestLinesList)
	r.Post("/requests/{id}/products", s.handleRequestLinesAdd)
	r.Delete("/requests/{id}/products/{productID}", s.handleRequestLinesRemove)
	r.Get("/requests/{id}/export.xlsx", s.handleRequestsExport)

	r.Post("/materials/calculate", s.handleMaterialsCalculate)

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" || r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		if !isAuthenticated(r, s.auth) {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isAuthenticated(r *http.Request, auth *authService) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}

	_, ok := auth.verifySessionValue(cookie.Value)
	return ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[http] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps store errors to responses; anything unrecognised is logged
// and reported as a failure to perform action.
func writeStoreError(w http.ResponseWriter, err error, action string) {
	var verr *partner.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "invalid partner", "problems": verr.Problems})
	case errors.Is(err, partner.ErrNotFound), errors.Is(err, requests.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrDuplicateArticle):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, catalog.ErrInvalid),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, requests.ErrInvalidQuantity),
		errors.Is(err, requests.ErrPartnerNotFound),
		errors.Is(err, requests.ErrProductNotFound):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("[http] %s: %v", action, err)
		writeError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func urlID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, ok := parseID(chi.URLParam(r, param))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid "+param)
	}
	return id, ok
}
