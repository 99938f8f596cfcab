package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rishiiiiitaaaaa/Ecommerce-Backend-System/pkg/apperr"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

const productColumns = `id, name, description, price, stock, category, image_url, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.Category, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (c *Conf) InsertProduct(ctx context.Context, np NewProduct) (Product, error) {
	row := c.db.QueryRowContext(ctx, `
		INSERT INTO products (id, name, description, price, stock, category, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+productColumns,
		uuid.NewString(), np.Name, np.Description, np.Price, np.Stock, np.Category, np.ImageURL)
	p, err := scanProduct(row)
	if err != nil {
		return Product{}, apperr.Wrap(apperr.CodeInternal, "failed to create product", err)
	}
	return p, nil
}

func (c *Conf) GetProductByID(ctx context.Context, productID string) (Product, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, productID)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, apperr.New(apperr.CodeNotFound, "product not found")
		}
		return Product{}, apperr.Wrap(apperr.CodeInternal, "failed to fetch product", err)
	}
	return p, nil
}

func (c *Conf) UpdateProduct(ctx context.Context, productID string, np NewProduct) (Product, error) {
	row := c.db.QueryRowContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4, stock = $5, category = $6, image_url = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns,
		productID, np.Name, np.Description, np.Price, np.Stock, np.Category, np.ImageURL)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, apperr.New(apperr.CodeNotFound, "product not found")
		}
		return Product{}, apperr.Wrap(apperr.CodeInternal, "failed to update product", err)
	}
	return p, nil
}

// DeleteProduct removes a product unless it is referenced by a past
// order; purchase history stays intact regardless of catalog edits.
func (c *Conf) DeleteProduct(ctx context.Context, productID string) error {
	var referenced bool
	err := c.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM order_items WHERE product_id = $1)`, productID).Scan(&referenced)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "failed to delete product", err)
	}
	if referenced {
		return apperr.New(apperr.CodeConflict, "cannot delete product that is part of an existing order")
	}

	res, err := c.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "failed to delete product", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "failed to delete product", err)
	}
	if n == 0 {
		return apperr.New(apperr.CodeNotFound, "product not found")
	}
	return nil
}

func (c *Conf) ListProducts(ctx context.Context, filter ListFilter) ([]Product, error) {
	query, args := buildListQuery(filter)
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to list products", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// SearchProducts does a case-insensitive substring match across name,
// description and category.
func (c *Conf) SearchProducts(ctx context.Context, keyword string, page, pageSize int) ([]Product, error) {
	page, pageSize = normalizePage(page, pageSize)
	pattern := "%" + keyword + "%"
	rows, err := c.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE name ILIKE $1 OR description ILIKE $1 OR category ILIKE $1
		ORDER BY id ASC
		LIMIT $2 OFFSET $3
	`, pattern, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to search products", err)
	}
	defer rows.Close()

	out, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, apperr.New(apperr.CodeNotFound, "no products found matching the keyword")
	}
	return out, nil
}

func collectProducts(rows *sql.Rows) ([]Product, error) {
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeInternal, "failed to scan product", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "failed to iterate products", err)
	}
	return out, nil
}

// sortableColumns is the whitelist for caller-supplied sort columns;
// anything else falls back to id.
var sortableColumns = map[string]bool{
	"id":         true,
	"name":       true,
	"price":      true,
	"stock":      true,
	"category":   true,
	"created_at": true,
}

func sortColumn(name string) string {
	if sortableColumns[name] {
		return name
	}
	return "id"
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func buildListQuery(f ListFilter) (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + productColumns + ` FROM products`)

	var conds []string
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		conds = append(conds, fmt.Sprintf("price >= $%d", len(args)))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		conds = append(conds, fmt.Sprintf("price <= $%d", len(args)))
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	sb.WriteString(" ORDER BY " + sortColumn(f.SortBy) + " ASC")

	page, pageSize := normalizePage(f.Page, f.PageSize)
	args = append(args, pageSize)
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	args = append(args, (page-1)*pageSize)
	sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))

	return sb.String(), args
}
