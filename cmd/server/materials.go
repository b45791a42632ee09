package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"

	"github.com/Simplici0/partnerdesk/internal/material"
)

type calculateResponse struct {
	Amount    int64 `json:"amount"`
	Shortfall int64 `json:"shortfall"`
}

func (s *server) handleMaterialsCalculate(w http.ResponseWriter, r *http.Request) {
	resp, err := s.calculate(r)
	if err == nil {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	switch {
	case material.IsValidation(err):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": err.Error(),
			"kind":  material.Kind(err),
		})
	case errors.Is(err, material.ErrLookupUnavailable):
		log.Printf("[materials] calculate: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "reference data unavailable",
			"kind":  material.Kind(err),
		})
	default:
		log.Printf("[materials] calculate: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to calculate")
	}
}

func (s *server) calculate(r *http.Request) (calculateResponse, error) {
	raw, err := readRawCalculation(r)
	if err != nil {
		return calculateResponse{}, err
	}
	req, err := material.ParseRequest(raw)
	if err != nil {
		return calculateResponse{}, err
	}
	amount, err := s.calc.Calculate(r.Context(), req)
	if err != nil {
		return calculateResponse{}, err
	}
	return calculateResponse{Amount: amount, Shortfall: req.Shortfall()}, nil
}

var calculationFields = []string{
	"product_type_id", "material_type_id", "required_quantity", "stock_quantity", "param1", "param2",
}

// readRawCalculation accepts a JSON object whose values are numbers or strings,
// or an urlencoded form with the same field names.
func readRawCalculation(r *http.Request) (material.RawRequest, error) {
	values := make(map[string]string, len(calculationFields))

	var mediaType string
	if ct := r.Header.Get("Content-Type"); ct != "" {
		var err error
		mediaType, _, err = mime.ParseMediaType(ct)
		if err != nil {
			return material.RawRequest{}, fmt.Errorf("%w: malformed Content-Type %q", material.ErrInvalidInput, ct)
		}
	}
	if mediaType == "application/json" {
		var body map[string]any
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&body); err != nil {
			return material.RawRequest{}, fmt.Errorf("%w: malformed JSON body", material.ErrInvalidInput)
		}
		for _, field := range calculationFields {
			v, ok := body[field]
			if !ok || v == nil {
				continue
			}
			switch v := v.(type) {
			case json.Number:
				values[field] = v.String()
			case string:
				values[field] = v
			default:
				return material.RawRequest{}, fmt.Errorf("%w: %s must be a number", material.ErrInvalidInput, field)
			}
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return material.RawRequest{}, fmt.Errorf("%w: malformed form", material.ErrInvalidInput)
		}
		for _, field := range calculationFields {
			values[field] = r.FormValue(field)
		}
	}

	return material.RawRequest{
		ProductTypeID:    values["product_type_id"],
		MaterialTypeID:   values["material_type_id"],
		RequiredQuantity: values["required_quantity"],
		StockQuantity:    values["stock_quantity"],
		Param1:           values["param1"],
		Param2:           values["param2"],
	}, nil
}
