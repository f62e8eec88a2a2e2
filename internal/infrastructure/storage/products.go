package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"

	"ContentWriter/internal/domain"
	"ContentWriter/internal/ports"
)

var productColumns = []string{
	"id", "name", "description", "short_description", "sku", "price", "regular_price", "sale_price",
	"categories", "tags", "attributes", "url", "image", "in_stock", "featured", "total_sales",
	"meta_title", "meta_description",
}

// ProductStore is a read-mostly catalog snapshot kept in SQLite.
type ProductStore struct {
	db *sql.DB
}

var _ ports.ProductCatalog = (*ProductStore)(nil)

// NewProductStore wires a sql.DB implementation.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

// Upsert replaces catalog rows by id. It is used by importers and tests.
func (s *ProductStore) Upsert(ctx context.Context, products ...domain.ProductRecord) error {
	for _, p := range products {
		attrs, err := json.Marshal(p.Attributes)
		if err != nil {
			return fmt.Errorf("encode attributes for %d: %w", p.ID, err)
		}
		query, args, err := sqlb.Insert("products").Columns(productColumns...).
			Values(p.ID, p.Name, p.Description, p.ShortDescription, p.SKU, p.Price, p.RegularPrice, p.SalePrice,
				encodeList(p.Categories), encodeList(p.Tags), string(attrs), p.URL, p.Image,
				boolInt(p.InStock), boolInt(p.Featured), p.TotalSales, p.MetaTitle, p.MetaDescription).
			Options("OR REPLACE").
			ToSql()
		if err != nil {
			return fmt.Errorf("build product upsert: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("save product %d: %w", p.ID, err)
		}
	}
	return nil
}

// Products returns every catalog item ordered by id.
func (s *ProductStore) Products(ctx context.Context) ([]domain.ProductRecord, error) {
	return s.query(ctx, sqlb.Select(productColumns...).From("products").OrderBy("id"))
}

// Featured returns up to n featured products.
func (s *ProductStore) Featured(ctx context.Context, n int) ([]domain.ProductRecord, error) {
	return s.query(ctx, sqlb.Select(productColumns...).From("products").
		Where(sq.Eq{"featured": 1}).OrderBy("id").Limit(uint64(max(n, 0))))
}

// Popular returns up to n products with the highest sales.
func (s *ProductStore) Popular(ctx context.Context, n int) ([]domain.ProductRecord, error) {
	return s.query(ctx, sqlb.Select(productColumns...).From("products").
		OrderBy("total_sales DESC", "id").Limit(uint64(max(n, 0))))
}

// TopCategories counts products per category and returns the n largest.
func (s *ProductStore) TopCategories(ctx context.Context, n int) ([]domain.CategoryCount, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, p := range products {
		for _, c := range p.Categories {
			counts[c]++
		}
	}
	out := make([]domain.CategoryCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, domain.CategoryCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *ProductStore) query(ctx context.Context, builder sq.SelectBuilder) ([]domain.ProductRecord, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build product query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.ProductRecord
	for rows.Next() {
		var (
			p                 domain.ProductRecord
			cats, tags, attrs string
			inStock, featured int
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.ShortDescription, &p.SKU, &p.Price,
			&p.RegularPrice, &p.SalePrice, &cats, &tags, &attrs, &p.URL, &p.Image, &inStock, &featured,
			&p.TotalSales, &p.MetaTitle, &p.MetaDescription); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Categories = decodeList(cats)
		p.Tags = decodeList(tags)
		p.InStock = inStock == 1
		p.Featured = featured == 1
		if attrs != "" && attrs != "null" {
			if err := json.Unmarshal([]byte(attrs), &p.Attributes); err != nil {
				return nil, fmt.Errorf("decode attributes for %d: %w", p.ID, err)
			}
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return products, nil
}
