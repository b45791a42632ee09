package main

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/partnerdesk/internal/export"
	"github.com/Simplici0/partnerdesk/internal/partner"
)

func createTestPartner(t *testing.T, ts *testServer) partner.Partner {
	t.Helper()

	rec := ts.do(http.MethodGet, "/partner-types", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var types []partner.Type
	decodeBody(t, rec, &types)
	require.NotEmpty(t, types)

	body := fmt.Sprintf(`{
		"partner_type_id": %d,
		"company_name": "База Строитель",
		"director_name": "Иванова Александра Ивановна",
		"email": "aleksandraivanova@ml.ru",
		"phone": "493 123 45 67",
		"legal_address": "652050, Кемеровская область, город Юрга, ул. Лесная, 15",
		"inn": "2222455179",
		"rating": 7
	}`, types[0].ID)
	rec = ts.doJSON(http.MethodPost, "/partners", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var p partner.Partner
	decodeBody(t, rec, &p)
	require.NotZero(t, p.ID)
	return p
}

func TestPartnerCreateRejectsInvalidFields(t *testing.T) {
	ts := newTestServer(t)
	ts.login()

	rec := ts.doJSON(http.MethodPost, "/partners", `{"partner_type_id": 1, "company_name": "", "email": "nope", "inn": "12"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	var resp struct {
		Problems []string `json:"problems"`
	}
	decodeBody(t, rec, &resp)
	assert.NotEmpty(t, resp.Problems)
}

func TestPartnerGetMissingReturns404(t *testing.T) {
	ts := newTestServer(t)
	ts.login()

	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/partners/404", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodGet, "/partners/abc", "", "").Code)
}

func TestRequestLifecycle(t *testing.T) {
	ts := newTestServer(t)
	ts.login()

	p := createTestPartner(t, ts)

	rec := ts.doJSON(http.MethodPost, "/products", `{
		"product_type_id": 1,
		"name": "Паркетная доска Ясень темный однополосная 14 мм",
		"article": "8758385",
		"min_cost_for_partner": "4456.90"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var product struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &product)

	rec = ts.doJSON(http.MethodPost, "/products", `{"product_type_id": 1, "name": "Дубль", "article": "8758385", "min_cost_for_partner": 1}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.doJSON(http.MethodPost, "/requests", fmt.Sprintf(`{"partner_id": %d}`, p.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var detail requestDetail
	decodeBody(t, rec, &detail)
	assert.Equal(t, "new", detail.Status)
	assert.Empty(t, detail.Lines)

	linesURL := fmt.Sprintf("/requests/%d/products", detail.ID)
	rec = ts.doJSON(http.MethodPost, linesURL, fmt.Sprintf(`{"product_id": %d, "quantity": 2}`, product.ID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, &detail)
	require.Len(t, detail.Lines, 1)
	assert.Equal(t, "8913.8", detail.TotalCost.String())

	rec = ts.doJSON(http.MethodPost, linesURL, fmt.Sprintf(`{"product_id": %d, "quantity": 0}`, product.ID))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do(http.MethodGet, fmt.Sprintf("/requests/%d/export.xlsx", detail.ID), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	company, err := f.GetCellValue(export.SheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, p.CompanyName, company)

	rec = ts.do(http.MethodDelete, fmt.Sprintf("%s/%d", linesURL, product.ID), "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, &detail)
	assert.Empty(t, detail.Lines)
	assert.True(t, detail.TotalCost.IsZero())

	rec = ts.do(http.MethodGet, "/requests", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	decodeBody(t, rec, &list)
	assert.Len(t, list, 1)
}

func TestRequestCreateUnknownPartner(t *testing.T) {
	ts := newTestServer(t)
	ts.login()

	rec := ts.doJSON(http.MethodPost, "/requests", `{"partner_id": 999}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/requests/999", "", "").Code)
}

func TestProductsArticleExists(t *testing.T) {
	ts := newTestServer(t)
	ts.login()

	rec := ts.doJSON(http.MethodPost, "/products", `{"product_type_id": 1, "name": "Ламинат Дуб", "article": "7750282", "min_cost_for_partner": "1799.33"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Exists bool `json:"exists"`
	}
	rec = ts.do(http.MethodGet, "/products/article-exists?article=7750282", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Exists)

	rec = ts.do(http.MethodGet, "/products/article-exists?article=0000000", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &resp)
	assert.False(t, resp.Exists)

	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodGet, "/products/article-exists", "", "").Code)
}

func TestRequestRecalculateRestoresTotal(t *testing.T) {
	ts := newTestServer(t)
	ts.login()

	p := createTestPartner(t, ts)
	rec := ts.doJSON(http.MethodPost, "/products", `{"product_type_id": 1, "name": "Ламинат Дуб", "article": "7750282", "min_cost_for_partner": "1799.33"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var product struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &product)

	rec = ts.doJSON(http.MethodPost, "/requests", fmt.Sprintf(`{"partner_id": %d}`, p.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	var detail requestDetail
	decodeBody(t, rec, &detail)

	rec = ts.doJSON(http.MethodPost, fmt.Sprintf("/requests/%d/products", detail.ID), fmt.Sprintf(`{"product_id": %d, "quantity": 3}`, product.ID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	_, err := ts.db.Exec(`UPDATE partner_requests SET total_cost = '0' WHERE id = ?`, detail.ID)
	require.NoError(t, err)

	rec = ts.do(http.MethodPost, fmt.Sprintf("/requests/%d/recalculate", detail.ID), "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, &detail)
	assert.Equal(t, "5397.99", detail.TotalCost.String())

	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodPost, "/requests/999/recalculate", "", "").Code)
}
