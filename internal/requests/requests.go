// Package requests manages partner purchase requests and their product lines.
package requests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/partnerdesk/internal/pricing"
)

// StatusNew is the status of a freshly created request.
const StatusNew = "new"

var (
	ErrNotFound        = errors.New("request not found")
	ErrProductNotFound = errors.New("product not found")
	ErrPartnerNotFound = errors.New("partner not found")
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
)

// Summary is a request as shown in the request list.
type Summary struct {
	ID           int64           `json:"id"`
	PartnerID    int64           `json:"partner_id"`
	PartnerType  string          `json:"partner_type"`
	CompanyName  string          `json:"company_name"`
	LegalAddress string          `json:"legal_address"`
	Phone        string          `json:"phone"`
	Rating       int             `json:"rating"`
	Status       string          `json:"status"`
	CreatedAt    string          `json:"created_at"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

// Request is a single request with the partner details needed to edit it.
type Request struct {
	Summary
	PartnerTypeID int64  `json:"partner_type_id"`
	DirectorName  string `json:"director_name"`
	Email         string `json:"email"`
	INN           string `json:"inn"`
}

// Line is a product position of a request.
type Line struct {
	ID                int64           `json:"id"`
	ProductID         int64           `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Article           string          `json:"article"`
	MinCostForPartner decimal.Decimal `json:"min_cost_for_partner"`
	Quantity          int64           `json:"quantity"`
	CostPerUnit       decimal.Decimal `json:"cost_per_unit"`
	Total             decimal.Decimal `json:"total"`
}

// Store reads and writes partner requests and their lines.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// List returns every request with its partner, newest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			pr.id, pr.partner_id, pt.type_name, p.company_name, p.legal_address,
			p.phone, p.rating, pr.status, pr.created_at, pr.total_cost
		FROM partner_requests pr
		JOIN partners p ON pr.partner_id = p.id
		JOIN partner_types pt ON p.partner_type_id = pt.id
		ORDER BY pr.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()

	list := make([]Summary, 0)
	for rows.Next() {
		var r Summary
		if err := rows.Scan(&r.ID, &r.PartnerID, &r.PartnerType, &r.CompanyName, &r.LegalAddress,
			&r.Phone, &r.Rating, &r.Status, &r.CreatedAt, &r.TotalCost); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}
	return list, nil
}

// Get returns a request with its partner details, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (Request, error) {
	var r Request
	err := s.db.QueryRowContext(ctx, `
		SELECT
			pr.id, pr.partner_id, pt.type_name, p.company_name, p.legal_address,
			p.phone, p.rating, pr.status, pr.created_at, pr.total_cost,
			pt.id, p.director_name, p.email, p.inn
		FROM partner_requests pr
		JOIN partners p ON pr.partner_id = p.id
		JOIN partner_types pt ON p.partner_type_id = pt.id
		WHERE pr.id = ?
	`, id).Scan(&r.ID, &r.PartnerID, &r.PartnerType, &r.CompanyName, &r.LegalAddress,
		&r.Phone, &r.Rating, &r.Status, &r.CreatedAt, &r.TotalCost,
		&r.PartnerTypeID, &r.DirectorName, &r.Email, &r.INN)
	if errors.Is(err, sql.ErrNoRows) {
		return Request{}, fmt.Errorf("request %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Request{}, fmt.Errorf("query request: %w", err)
	}
	return r, nil
}

// Create opens an empty request for partnerID.
func (s *Store) Create(ctx context.Context, partnerID int64) (int64, error) {
	if err := partnerExists(ctx, s.db, partnerID); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO partner_requests (partner_id, status, total_cost)
		VALUES (?, ?, ?)
	`, partnerID, StatusNew, decimal.Zero)
	if err != nil {
		return 0, fmt.Errorf("insert request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read request id: %w", err)
	}
	return id, nil
}

// UpdatePartner moves a request to another partner.
func (s *Store) UpdatePartner(ctx context.Context, requestID, partnerID int64) error {
	if err := partnerExists(ctx, s.db, partnerID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE partner_requests SET partner_id = ? WHERE id = ?`, partnerID, requestID)
	if err != nil {
		return fmt.Errorf("update request partner: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update request partner: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("request %d: %w", requestID, ErrNotFound)
	}
	return nil
}

// Lines returns the product lines of a request ordered by product name.
func (s *Store) Lines(ctx context.Context, requestID int64) ([]Line, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rp.id, rp.product_id, prod.product_name, prod.article, prod.min_cost_for_partner,
			rp.quantity, rp.cost_per_unit
		FROM request_products rp
		JOIN products prod ON rp.product_id = prod.id
		WHERE rp.request_id = ?
		ORDER BY prod.product_name
	`, requestID)
	if err != nil {
		return nil, fmt.Errorf("query request lines: %w", err)
	}
	defer rows.Close()

	lines := make([]Line, 0)
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.ProductID, &l.ProductName, &l.Article, &l.MinCostForPartner,
			&l.Quantity, &l.CostPerUnit); err != nil {
			return nil, fmt.Errorf("scan request line: %w", err)
		}
		l.Total = pricing.LineTotal(l.Quantity, l.CostPerUnit)
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate request lines: %w", err)
	}
	return lines, nil
}

// AddProduct sets the quantity of a product on a request at the product's current
// partner price and recomputes the request total. Adding a product that is
// already on the request replaces its line.
func (s *Store) AddProduct(ctx context.Context, requestID, productID, quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := requestExists(ctx, tx, requestID); err != nil {
			return err
		}

		var cost decimal.Decimal
		err := tx.QueryRowContext(ctx, `SELECT min_cost_for_partner FROM products WHERE id = ?`, productID).Scan(&cost)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
		}
		if err != nil {
			return fmt.Errorf("query product cost: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO request_products (request_id, product_id, quantity, cost_per_unit)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (request_id, product_id)
			DO UPDATE SET quantity = excluded.quantity, cost_per_unit = excluded.cost_per_unit
		`, requestID, productID, quantity, cost); err != nil {
			return fmt.Errorf("upsert request line: %w", err)
		}

		return updateTotal(ctx, tx, requestID)
	})
}

// RemoveProduct deletes a product line and recomputes the request total.
func (s *Store) RemoveProduct(ctx context.Context, requestID, productID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM request_products WHERE request_id = ? AND product_id = ?`, requestID, productID)
		if err != nil {
			return fmt.Errorf("delete request line: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete request line: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("request %d product %d: %w", requestID, productID, ErrNotFound)
		}

		return updateTotal(ctx, tx, requestID)
	})
}

// RecalculateTotal recomputes and stores the total of a request.
func (s *Store) RecalculateTotal(ctx context.Context, requestID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := requestExists(ctx, tx, requestID); err != nil {
			return err
		}
		if err := updateTotal(ctx, tx, requestID); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `SELECT total_cost FROM partner_requests WHERE id = ?`, requestID).Scan(&total)
	})
	return total, err
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func updateTotal(ctx context.Context, tx *sql.Tx, requestID int64) error {
	rows, err := tx.QueryContext(ctx, `SELECT quantity, cost_per_unit FROM request_products WHERE request_id = ?`, requestID)
	if err != nil {
		return fmt.Errorf("query request lines for total: %w", err)
	}
	defer rows.Close()

	lines := make([]pricing.Line, 0)
	for rows.Next() {
		var l pricing.Line
		if err := rows.Scan(&l.Quantity, &l.UnitCost); err != nil {
			return fmt.Errorf("scan request line for total: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate request lines for total: %w", err)
	}
	rows.Close()

	if _, err := tx.ExecContext(ctx, `UPDATE partner_requests SET total_cost = ? WHERE id = ?`, pricing.OrderTotal(lines).StringFixed(2), requestID); err != nil {
		return fmt.Errorf("update request total: %w", err)
	}
	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func requestExists(ctx context.Context, q queryRower, id int64) error {
	var exists bool
	if err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM partner_requests WHERE id = ?)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check request existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("request %d: %w", id, ErrNotFound)
	}
	return nil
}

func partnerExists(ctx context.Context, q queryRower, id int64) error {
	var exists bool
	if err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM partners WHERE id = ?)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check partner existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("partner %d: %w", id, ErrPartnerNotFound)
	}
	return nil
}
