package main

import (
	"net/http"

	"github.com/Simplici0/partnerdesk/internal/partner"
)

func (s *server) handlePartnerTypesList(w http.ResponseWriter, r *http.Request) {
	types, err := s.partners.ListTypes(r.Context())
	if err != nil {
		writeStoreError(w, err, "load partner types")
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (s *server) handlePartnersList(w http.ResponseWriter, r *http.Request) {
	partners, err := s.partners.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "load partners")
		return
	}
	writeJSON(w, http.StatusOK, partners)
}

func (s *server) handlePartnersGet(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	p, err := s.partners.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "load partner")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *server) handlePartnersCreate(w http.ResponseWriter, r *http.Request) {
	var p partner.Partner
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid partner body")
		return
	}

	id, err := s.partners.Create(r.Context(), p)
	if err != nil {
		writeStoreError(w, err, "create partner")
		return
	}

	created, err := s.partners.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "load partner")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handlePartnersUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var p partner.Partner
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid partner body")
		return
	}
	p.ID = id

	if err := s.partners.Update(r.Context(), p); err != nil {
		writeStoreError(w, err, "update partner")
		return
	}

	updated, err := s.partners.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "load partner")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
