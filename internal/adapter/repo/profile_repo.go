package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
	"github.com/ojuansoares/dolse-vitta/internal/usecase"
)

var aboutColumns = map[string]string{
	"name":             "ab_name",
	"photo_url":        "ab_photo_url",
	"title":            "ab_title",
	"story":            "ab_story",
	"specialty":        "ab_specialty",
	"experience_years": "ab_experience_years",
	"quote":            "ab_quote",
	"instagram":        "ab_instagram",
	"whatsapp":         "ab_whatsapp",
	"email":            "ab_email",
	"city":             "ab_city",
	"accepts_orders":   "ab_accepts_orders",
	"delivery_areas":   "ab_delivery_areas",
}

// SQLSiteProfileRepo stores the singleton "about" row.
type SQLSiteProfileRepo struct {
	db  *DB
	now func() time.Time
}

func NewSQLSiteProfileRepo(db *DB) *SQLSiteProfileRepo {
	return &SQLSiteProfileRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *SQLSiteProfileRepo) GetSiteProfile(ctx context.Context) (*domain.SiteProfile, error) {
	var p domain.SiteProfile
	err := r.db.queryRow(ctx, `
SELECT id, COALESCE(ab_name,''), COALESCE(ab_photo_url,''), COALESCE(ab_title,''), COALESCE(ab_story,''),
       COALESCE(ab_specialty,''), COALESCE(ab_experience_years,0), COALESCE(ab_quote,''), COALESCE(ab_instagram,''),
       COALESCE(ab_whatsapp,''), COALESCE(ab_email,''), COALESCE(ab_city,''), ab_accepts_orders,
       COALESCE(ab_delivery_areas,''), ab_updated_at
FROM about ORDER BY ab_created_at LIMIT 1`).Scan(
		&p.ID, &p.Name, &p.PhotoURL, &p.Title, &p.Story,
		&p.Specialty, &p.ExperienceYears, &p.Quote, &p.Instagram,
		&p.WhatsApp, &p.Email, &p.City, &p.AcceptsOrders,
		&p.DeliveryAreas, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usecase.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLSiteProfileRepo) NotificationDestination(ctx context.Context) (string, bool, error) {
	var ws sql.NullString
	err := r.db.queryRow(ctx, `SELECT ab_whatsapp FROM about ORDER BY ab_created_at LIMIT 1`).Scan(&ws)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if !ws.Valid || ws.String == "" {
		return "", false, nil
	}
	return ws.String, true, nil
}

// UpsertSiteProfile updates the existing row or inserts the first one.
func (r *SQLSiteProfileRepo) UpsertSiteProfile(ctx context.Context, patch usecase.Patch) error {
	now := r.now()

	var id string
	err := r.db.queryRow(ctx, `SELECT id FROM about ORDER BY ab_created_at LIMIT 1`).Scan(&id)
	switch {
	case err == nil:
		return r.db.updateRow(ctx, "about", "ab_updated_at", id, now, patch, aboutColumns)
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	cols := "id, ab_accepts_orders, ab_created_at, ab_updated_at"
	marks := "?,?,?,?"
	accepts, _ := patch.Get("accepts_orders")
	if accepts == nil {
		accepts = true
	}
	args := []any{uuid.NewString(), accepts, now, now}
	for _, f := range patch.Fields() {
		col, ok := aboutColumns[f]
		if !ok || f == "accepts_orders" {
			continue
		}
		v, _ := patch.Get(f)
		cols += ", " + col
		marks += ",?"
		args = append(args, sqlValue(v))
	}
	if _, err := r.db.exec(ctx, r.db, `INSERT INTO about (`+cols+`) VALUES (`+marks+`)`, args...); err != nil {
		return fmt.Errorf("insert about: %w", err)
	}
	return nil
}

var _ usecase.SiteProfileStore = (*SQLSiteProfileRepo)(nil)
