// Package catalog stores product and material reference data.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/partnerdesk/internal/material"
)

var (
	ErrNotFound         = errors.New("catalog entry not found")
	ErrInvalid          = errors.New("invalid catalog entry")
	ErrDuplicateArticle = errors.New("article already exists")
)

type ProductType struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Coefficient decimal.Decimal `json:"coefficient"`
}

type MaterialType struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	DefectRate decimal.Decimal `json:"defect_rate"`
}

// Product is a sellable item with its partner price.
type Product struct {
	ID                int64           `json:"id"`
	ProductTypeID     int64           `json:"product_type_id"`
	ProductType       string          `json:"product_type"`
	Name              string          `json:"name"`
	Article           string          `json:"article"`
	MinCostForPartner decimal.Decimal `json:"min_cost_for_partner"`
}

// Store reads and writes catalog tables.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListProductTypes(ctx context.Context) ([]ProductType, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type_name, coefficient
		FROM product_types
		ORDER BY type_name
	`)
	if err != nil {
		return nil, fmt.Errorf("query product types: %w", err)
	}
	defer rows.Close()

	types := make([]ProductType, 0)
	for rows.Next() {
		var pt ProductType
		if err := rows.Scan(&pt.ID, &pt.Name, &pt.Coefficient); err != nil {
			return nil, fmt.Errorf("scan product type: %w", err)
		}
		types = append(types, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product types: %w", err)
	}
	return types, nil
}

// CreateProductType inserts a product type; the coefficient must be positive.
func (s *Store) CreateProductType(ctx context.Context, name string, coefficient decimal.Decimal) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: type name is required", ErrInvalid)
	}
	if !material.ValidCoefficient(coefficient) {
		return 0, fmt.Errorf("%w: coefficient must be greater than 0", ErrInvalid)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO product_types (type_name, coefficient)
		VALUES (?, ?)
	`, name, coefficient)
	if err != nil {
		return 0, fmt.Errorf("insert product type: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) ListMaterialTypes(ctx context.Context) ([]MaterialType, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type_name, defect_rate
		FROM material_types
		ORDER BY type_name
	`)
	if err != nil {
		return nil, fmt.Errorf("query material types: %w", err)
	}
	defer rows.Close()

	types := make([]MaterialType, 0)
	for rows.Next() {
		var mt MaterialType
		if err := rows.Scan(&mt.ID, &mt.Name, &mt.DefectRate); err != nil {
			return nil, fmt.Errorf("scan material type: %w", err)
		}
		types = append(types, mt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate material types: %w", err)
	}
	return types, nil
}

// CreateMaterialType inserts a material type; the defect rate must lie in [0, 1).
func (s *Store) CreateMaterialType(ctx context.Context, name string, defectRate decimal.Decimal) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: type name is required", ErrInvalid)
	}
	if !material.ValidDefectRate(defectRate) {
		return 0, fmt.Errorf("%w: defect rate must be in [0, 1)", ErrInvalid)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO material_types (type_name, defect_rate)
		VALUES (?, ?)
	`, name, defectRate)
	if err != nil {
		return 0, fmt.Errorf("insert material type: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.product_type_id, pt.type_name, p.product_name, p.article, p.min_cost_for_partner
		FROM products p
		JOIN product_types pt ON p.product_type_id = pt.id
		ORDER BY p.product_name
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.ProductTypeID, &p.ProductType, &p.Name, &p.Article, &p.MinCostForPartner); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// GetProduct returns the product with id, or ErrNotFound.
func (s *Store) GetProduct(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.product_type_id, pt.type_name, p.product_name, p.article, p.min_cost_for_partner
		FROM products p
		JOIN product_types pt ON p.product_type_id = pt.id
		WHERE p.id = ?
	`, id).Scan(&p.ID, &p.ProductTypeID, &p.ProductType, &p.Name, &p.Article, &p.MinCostForPartner)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Product{}, fmt.Errorf("query product: %w", err)
	}
	return p, nil
}

// ArticleExists reports whether a product already uses article.
func (s *Store) ArticleExists(ctx context.Context, article string) (bool, error) {
	return articleExists(ctx, s.db, strings.TrimSpace(article))
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func articleExists(ctx context.Context, q queryRower, article string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE article = ?)`, article).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check article existence: %w", err)
	}
	return exists, nil
}

// CreateProduct inserts a product of an existing product type with a unique article.
func (s *Store) CreateProduct(ctx context.Context, p Product) (int64, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Article = strings.TrimSpace(p.Article)
	switch {
	case p.Name == "":
		return 0, fmt.Errorf("%w: product name is required", ErrInvalid)
	case p.Article == "":
		return 0, fmt.Errorf("%w: article is required", ErrInvalid)
	case p.MinCostForPartner.IsNegative():
		return 0, fmt.Errorf("%w: min cost for partner must be greater than or equal to 0", ErrInvalid)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create product: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var typeExists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM product_types WHERE id = ?)`, p.ProductTypeID).Scan(&typeExists); err != nil {
		return 0, fmt.Errorf("check product type existence: %w", err)
	}
	if !typeExists {
		return 0, fmt.Errorf("product type %d: %w", p.ProductTypeID, ErrNotFound)
	}
	taken, err := articleExists(ctx, tx, p.Article)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateArticle, p.Article)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO products (product_type_id, product_name, article, min_cost_for_partner)
		VALUES (?, ?, ?, ?)
	`, p.ProductTypeID, p.Name, p.Article, p.MinCostForPartner)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read product id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create product: %w", err)
	}
	return id, nil
}
