package main

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/partnerdesk/internal/catalog"
)

func (s *server) handleProductTypesList(w http.ResponseWriter, r *http.Request) {
	types, err := s.catalog.ListProductTypes(r.Context())
	if err != nil {
		writeStoreError(w, err, "load product types")
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (s *server) handleProductTypesCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string          `json:"name"`
		Coefficient decimal.Decimal `json:"coefficient"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid product type body")
		return
	}

	id, err := s.catalog.CreateProductType(r.Context(), body.Name, body.Coefficient)
	if err != nil {
		writeStoreError(w, err, "create product type")
		return
	}
	writeJSON(w, http.StatusCreated, catalog.ProductType{ID: id, Name: body.Name, Coefficient: body.Coefficient})
}

func (s *server) handleMaterialTypesList(w http.ResponseWriter, r *http.Request) {
	types, err := s.catalog.ListMaterialTypes(r.Context())
	if err != nil {
		writeStoreError(w, err, "load material types")
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (s *server) handleMaterialTypesCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name       string          `json:"name"`
		DefectRate decimal.Decimal `json:"defect_rate"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid material type body")
		return
	}

	id, err := s.catalog.CreateMaterialType(r.Context(), body.Name, body.DefectRate)
	if err != nil {
		writeStoreError(w, err, "create material type")
		return
	}
	writeJSON(w, http.StatusCreated, catalog.MaterialType{ID: id, Name: body.Name, DefectRate: body.DefectRate})
}

func (s *server) handleProductsList(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.ListProducts(r.Context())
	if err != nil {
		writeStoreError(w, err, "load products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *server) handleProductsCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductTypeID     int64           `json:"product_type_id"`
		Name              string          `json:"name"`
		Article           string          `json:"article"`
		MinCostForPartner decimal.Decimal `json:"min_cost_for_partner"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid product body")
		return
	}

	id, err := s.catalog.CreateProduct(r.Context(), catalog.Product{
		ProductTypeID:     body.ProductTypeID,
		Name:              body.Name,
		Article:           body.Article,
		MinCostForPartner: body.MinCostForPartner,
	})
	if err != nil {
		writeStoreError(w, err, "create product")
		return
	}

	created, err := s.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "load product")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleProductsArticleExists(w http.ResponseWriter, r *http.Request) {
	article := strings.TrimSpace(r.URL.Query().Get("article"))
	if article == "" {
		writeError(w, http.StatusBadRequest, "article is required")
		return
	}

	exists, err := s.catalog.ArticleExists(r.Context(), article)
	if err != nil {
		writeStoreError(w, err, "check article")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"article": article, "exists": exists})
}
