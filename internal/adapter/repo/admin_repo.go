package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
	"github.com/ojuansoares/dolse-vitta/internal/usecase"
)

var adminColumns = map[string]string{
	"name":       "a_name",
	"phone":      "a_phone",
	"avatar_url": "a_avatar_url",
}

type SQLAdminRepo struct {
	db  *DB
	now func() time.Time
}

func NewSQLAdminRepo(db *DB) *SQLAdminRepo {
	return &SQLAdminRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *SQLAdminRepo) GetAdmin(ctx context.Context, id string) (*domain.Admin, error) {
	var a domain.Admin
	err := r.db.queryRow(ctx, `
SELECT id, a_email, COALESCE(a_name,''), COALESCE(a_phone,''), COALESCE(a_avatar_url,''), a_is_active, a_created_at
FROM admin WHERE id = ?`, id).Scan(&a.ID, &a.Email, &a.Name, &a.Phone, &a.AvatarURL, &a.IsActive, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usecase.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SQLAdminRepo) InsertAdmin(ctx context.Context, a domain.Admin) error {
	_, err := r.db.exec(ctx, r.db, `
INSERT INTO admin (id,a_email,a_name,a_phone,a_avatar_url,a_is_active,a_created_at,a_last_update)
VALUES (?,?,?,?,?,?,?,?)`, a.ID, a.Email, a.Name, a.Phone, a.AvatarURL, a.IsActive, a.CreatedAt, a.CreatedAt)
	return err
}

func (r *SQLAdminRepo) UpdateAdmin(ctx context.Context, id string, patch usecase.Patch) error {
	return r.db.updateRow(ctx, "admin", "a_last_update", id, r.now(), patch, adminColumns)
}

func (r *SQLAdminRepo) DeleteAdmin(ctx context.Context, id string) error {
	res, err := r.db.exec(ctx, r.db, `DELETE FROM admin WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

var _ usecase.AdminStore = (*SQLAdminRepo)(nil)
