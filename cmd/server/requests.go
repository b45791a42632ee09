package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/Simplici0/partnerdesk/internal/export"
	"github.com/Simplici0/partnerdesk/internal/requests"
)

type requestDetail struct {
	requests.Request
	Lines []requests.Line `json:"lines"`
}

type partnerBody struct {
	PartnerID int64 `json:"partner_id"`
}

func (s *server) handleRequestsList(w http.ResponseWriter, r *http.Request) {
	list, err := s.requests.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "load requests")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *server) handleRequestsCreate(w http.ResponseWriter, r *http.Request) {
	var body partnerBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := s.requests.Create(r.Context(), body.PartnerID)
	if err != nil {
		writeStoreError(w, err, "create request")
		return
	}
	s.writeRequestDetail(w, r, id, http.StatusCreated)
}

func (s *server) handleRequestsGet(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	s.writeRequestDetail(w, r, id, http.StatusOK)
}

func (s *server) handleRequestsUpdatePartner(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var body partnerBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.requests.UpdatePartner(r.Context(), id, body.PartnerID); err != nil {
		writeStoreError(w, err, "update request")
		return
	}
	s.writeRequestDetail(w, r, id, http.StatusOK)
}

func (s *server) handleRequestsRecalculate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if _, err := s.requests.RecalculateTotal(r.Context(), id); err != nil {
		writeStoreError(w, err, "recalculate request")
		return
	}
	s.writeRequestDetail(w, r, id, http.StatusOK)
}

func (s *server) handleRequestLinesList(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if _, err := s.requests.Get(r.Context(), id); err != nil {
		writeStoreError(w, err, "load request")
		return
	}
	lines, err := s.requests.Lines(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "load request lines")
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

func (s *server) handleRequestLinesAdd(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var body struct {
		ProductID int64 `json:"product_id"`
		Quantity  int64 `json:"quantity"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid line body")
		return
	}

	if err := s.requests.AddProduct(r.Context(), id, body.ProductID, body.Quantity); err != nil {
		writeStoreError(w, err, "add product")
		return
	}
	s.writeRequestDetail(w, r, id, http.StatusOK)
}

func (s *server) handleRequestLinesRemove(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	productID, ok := urlID(w, r, "productID")
	if !ok {
		return
	}

	if err := s.requests.RemoveProduct(r.Context(), id, productID); err != nil {
		writeStoreError(w, err, "remove product")
		return
	}
	s.writeRequestDetail(w, r, id, http.StatusOK)
}

func (s *server) handleRequestsExport(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	detail, err := s.loadRequestDetail(r, id)
	if err != nil {
		writeStoreError(w, err, "load request")
		return
	}

	f, err := export.RequestWorkbook(detail.Request, detail.Lines)
	if err != nil {
		writeStoreError(w, err, "export request")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="request-%d.xlsx"`, id))
	if err := f.Write(w); err != nil {
		log.Printf("[export] write request %d: %v", id, err)
	}
}

func (s *server) loadRequestDetail(r *http.Request, id int64) (requestDetail, error) {
	req, err := s.requests.Get(r.Context(), id)
	if err != nil {
		return requestDetail{}, err
	}
	lines, err := s.requests.Lines(r.Context(), id)
	if err != nil {
		return requestDetail{}, err
	}
	if lines == nil {
		lines = []requests.Line{}
	}
	return requestDetail{Request: req, Lines: lines}, nil
}

func (s *server) writeRequestDetail(w http.ResponseWriter, r *http.Request, id int64, status int) {
	detail, err := s.loadRequestDetail(r, id)
	if err != nil {
		writeStoreError(w, err, "load request")
		return
	}
	writeJSON(w, status, detail)
}
