package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
	"github.com/ojuansoares/dolse-vitta/internal/usecase"
)

var productColumns = map[string]string{
	"name":         "p_name",
	"description":  "p_description",
	"price":        "p_price",
	"category_id":  "p_category_id",
	"image_url":    "p_image_url",
	"is_available": "p_is_available",
	"is_featured":  "p_is_featured",
	"sort_order":   "p_sort_order",
}

var categoryColumns = map[string]string{
	"name":        "c_name",
	"description": "c_description",
	"image_url":   "c_image_url",
	"is_active":   "c_is_active",
	"sort_order":  "c_sort_order",
}

const productSelect = `
SELECT id, p_name, COALESCE(p_description,''), p_price, p_category_id, COALESCE(p_image_url,''),
       p_is_available, p_is_featured, p_sort_order, p_last_update
FROM product`

const categorySelect = `
SELECT id, c_name, COALESCE(c_description,''), COALESCE(c_image_url,''), c_is_active, c_sort_order, c_last_update
FROM category`

type SQLCatalogRepo struct {
	db  *DB
	now func() time.Time
}

func NewSQLCatalogRepo(db *DB) *SQLCatalogRepo {
	return &SQLCatalogRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(s rowScanner) (domain.Product, error) {
	var (
		p   domain.Product
		cat sql.NullString
	)
	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &cat, &p.ImageURL,
		&p.IsAvailable, &p.IsFeatured, &p.SortOrder, &p.UpdatedAt)
	p.CategoryID = stringPtr(cat)
	return p, err
}

func scanCategory(s rowScanner) (domain.Category, error) {
	var c domain.Category
	err := s.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.IsActive, &c.SortOrder, &c.UpdatedAt)
	return c, err
}

func (r *SQLCatalogRepo) listProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLCatalogRepo) FetchProducts(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	in, args := inList(ids)
	return r.listProducts(ctx, productSelect+` WHERE id IN (`+in+`)`, args...)
}

func (r *SQLCatalogRepo) ListProducts(ctx context.Context, onlyAvailable bool) ([]domain.Product, error) {
	if onlyAvailable {
		return r.listProducts(ctx, productSelect+` WHERE p_is_available = ? ORDER BY p_sort_order, p_name`, true)
	}
	return r.listProducts(ctx, productSelect+` ORDER BY p_sort_order, p_name`)
}

func (r *SQLCatalogRepo) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := scanProduct(r.db.queryRow(ctx, productSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usecase.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLCatalogRepo) CreateProduct(ctx context.Context, p *domain.Product) error {
	_, err := r.db.exec(ctx, r.db, `
INSERT INTO product (id,p_name,p_description,p_price,p_category_id,p_image_url,p_is_available,p_is_featured,p_sort_order,p_last_update)
VALUES (?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.Name, p.Description, p.Price.String(), nullString(p.CategoryID), p.ImageURL,
		p.IsAvailable, p.IsFeatured, p.SortOrder, p.UpdatedAt)
	return err
}

func (r *SQLCatalogRepo) UpdateProduct(ctx context.Context, id string, patch usecase.Patch) error {
	return r.db.updateRow(ctx, "product", "p_last_update", id, r.now(), patch, productColumns)
}

func (r *SQLCatalogRepo) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.db.exec(ctx, r.db, `DELETE FROM product WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *SQLCatalogRepo) DeleteProductsByCategory(ctx context.Context, categoryID string) (int64, error) {
	res, err := r.db.exec(ctx, r.db, `DELETE FROM product WHERE p_category_id = ?`, categoryID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SQLCatalogRepo) SetProductSortOrder(ctx context.Context, id string, sortOrder int) error {
	res, err := r.db.exec(ctx, r.db, `UPDATE product SET p_sort_order = ?, p_last_update = ? WHERE id = ?`,
		sortOrder, r.now(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *SQLCatalogRepo) ListCategories(ctx context.Context, onlyActive bool) ([]domain.Category, error) {
	q, args := categorySelect+` ORDER BY c_sort_order, c_name`, []any(nil)
	if onlyActive {
		q, args = categorySelect+` WHERE c_is_active = ? ORDER BY c_sort_order, c_name`, []any{true}
	}
	rows, err := r.db.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLCatalogRepo) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	c, err := scanCategory(r.db.queryRow(ctx, categorySelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usecase.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *SQLCatalogRepo) CreateCategory(ctx context.Context, c *domain.Category) error {
	_, err := r.db.exec(ctx, r.db, `
INSERT INTO category (id,c_name,c_description,c_image_url,c_is_active,c_sort_order,c_last_update)
VALUES (?,?,?,?,?,?,?)`,
		c.ID, c.Name, c.Description, c.ImageURL, c.IsActive, c.SortOrder, c.UpdatedAt)
	return err
}

func (r *SQLCatalogRepo) UpdateCategory(ctx context.Context, id string, patch usecase.Patch) error {
	return r.db.updateRow(ctx, "category", "c_last_update", id, r.now(), patch, categoryColumns)
}

func (r *SQLCatalogRepo) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.exec(ctx, r.db, `DELETE FROM category WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *SQLCatalogRepo) SetCategorySortOrder(ctx context.Context, id string, sortOrder int) error {
	res, err := r.db.exec(ctx, r.db, `UPDATE category SET c_sort_order = ?, c_last_update = ? WHERE id = ?`,
		sortOrder, r.now(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

var _ usecase.CatalogStore = (*SQLCatalogRepo)(nil)
