package repository

import (
	"context"
	"database/sql"
	"errors"

	"instacampus/internal/entity"
)

type VendorCodeRepository struct {
	db *sql.DB
}

func NewVendorCodeRepository(db *sql.DB) *VendorCodeRepository {
	return &VendorCodeRepository{db}
}

func (r *VendorCodeRepository) CreateCode(ctx context.Context, code *entity.VendorCode) (*entity.VendorCode, error) {
	query := `INSERT INTO vendor_codes (code, vendor_type, created_by, expires_at) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, code.Code, code.VendorType, code.CreatedBy, code.ExpiresAt)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	code.ID = int(id)
	code.IsActive = true
	return code, nil
}

func (r *VendorCodeRepository) GetCode(ctx context.Context, code string) (*entity.VendorCode, error) {
	vc := &entity.VendorCode{}
	query := `SELECT id, code, vendor_type, created_by, used, used_by, used_at, expires_at, is_active
		FROM vendor_codes WHERE code = ?`
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&vc.ID, &vc.Code, &vc.VendorType, &vc.CreatedBy, &vc.Used, &vc.UsedBy, &vc.UsedAt, &vc.ExpiresAt, &vc.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return vc, nil
}
