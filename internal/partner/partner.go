// Package partner manages partner companies and their types.
package partner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("partner not found")

// ValidationError lists every field problem of a rejected partner.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid partner: " + strings.Join(e.Problems, "; ")
}

type Type struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Partner struct {
	ID            int64  `json:"id"`
	PartnerTypeID int64  `json:"partner_type_id"`
	PartnerType   string `json:"partner_type,omitempty"`
	CompanyName   string `json:"company_name"`
	DirectorName  string `json:"director_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	LegalAddress  string `json:"legal_address"`
	INN           string `json:"inn"`
	Rating        int    `json:"rating"`
}

func (p Partner) normalized() Partner {
	p.CompanyName = strings.TrimSpace(p.CompanyName)
	p.DirectorName = strings.TrimSpace(p.DirectorName)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.LegalAddress = strings.TrimSpace(p.LegalAddress)
	p.INN = strings.TrimSpace(p.INN)
	return p
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListTypes(ctx context.Context) ([]Type, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, type_name FROM partner_types ORDER BY type_name`)
	if err != nil {
		return nil, fmt.Errorf("query partner types: %w", err)
	}
	defer rows.Close()

	types := make([]Type, 0)
	for rows.Next() {
		var pt Type
		if err := rows.Scan(&pt.ID, &pt.Name); err != nil {
			return nil, fmt.Errorf("scan partner type: %w", err)
		}
		types = append(types, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate partner types: %w", err)
	}
	return types, nil
}

func (s *Store) List(ctx context.Context) ([]Partner, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.partner_type_id, pt.type_name, p.company_name, p.director_name,
			p.email, p.phone, p.legal_address, p.inn, p.rating
		FROM partners p
		JOIN partner_types pt ON p.partner_type_id = pt.id
		ORDER BY p.company_name
	`)
	if err != nil {
		return nil, fmt.Errorf("query partners: %w", err)
	}
	defer rows.Close()

	partners := make([]Partner, 0)
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate partners: %w", err)
	}
	return partners, nil
}

func (s *Store) Get(ctx context.Context, id int64) (Partner, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.partner_type_id, pt.type_name, p.company_name, p.director_name,
			p.email, p.phone, p.legal_address, p.inn, p.rating
		FROM partners p
		JOIN partner_types pt ON p.partner_type_id = pt.id
		WHERE p.id = ?
	`, id)
	p, err := scanPartner(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Partner{}, fmt.Errorf("partner %d: %w", id, ErrNotFound)
	}
	return p, err
}

// Create validates and inserts p, returning its id.
func (s *Store) Create(ctx context.Context, p Partner) (int64, error) {
	p = p.normalized()
	if problems := Validate(p); len(problems) > 0 {
		return 0, &ValidationError{Problems: problems}
	}
	if err := s.checkType(ctx, p.PartnerTypeID); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO partners (partner_type_id, company_name, director_name, email, phone, legal_address, inn, rating)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.PartnerTypeID, p.CompanyName, p.DirectorName, p.Email, p.Phone, p.LegalAddress, p.INN, p.Rating)
	if err != nil {
		return 0, fmt.Errorf("insert partner: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read partner id: %w", err)
	}
	return id, nil
}

// Update validates p and overwrites the stored partner with the same id.
func (s *Store) Update(ctx context.Context, p Partner) error {
	p = p.normalized()
	if problems := Validate(p); len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	if err := s.checkType(ctx, p.PartnerTypeID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE partners
		SET
			partner_type_id = ?,
			company_name = ?,
			director_name = ?,
			email = ?,
			phone = ?,
			legal_address = ?,
			inn = ?,
			rating = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.PartnerTypeID, p.CompanyName, p.DirectorName, p.Email, p.Phone, p.LegalAddress, p.INN, p.Rating, p.ID)
	if err != nil {
		return fmt.Errorf("update partner: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update partner: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("partner %d: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (s *Store) checkType(ctx context.Context, typeID int64) error {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM partner_types WHERE id = ?)`, typeID).Scan(&exists); err != nil {
		return fmt.Errorf("check partner type existence: %w", err)
	}
	if !exists {
		return &ValidationError{Problems: []string{fmt.Sprintf("partner type %d does not exist", typeID)}}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPartner(row rowScanner) (Partner, error) {
	var p Partner
	err := row.Scan(&p.ID, &p.PartnerTypeID, &p.PartnerType, &p.CompanyName, &p.DirectorName,
		&p.Email, &p.Phone, &p.LegalAddress, &p.INN, &p.Rating)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Partner{}, err
		}
		return Partner{}, fmt.Errorf("scan partner: %w", err)
	}
	return p, nil
}
