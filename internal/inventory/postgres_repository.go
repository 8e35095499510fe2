package inventory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository keeps the catalog in the inventory_products table.
// Amounts travel as text so NUMERIC precision survives the round trip.
type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Save(ctx context.Context, products []Product) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := replaceProducts(ctx, tx, products); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func replaceProducts(ctx context.Context, tx pgx.Tx, products []Product) error {
	if _, err := tx.Exec(ctx, `DELETE FROM inventory_products`); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}
	for i, p := range products {
		_, err := tx.Exec(ctx, `
			INSERT INTO inventory_products (position, product_key, name, price, stock)
			VALUES ($1, $2, $3, $4::numeric, $5::numeric)
		`, i, Key(p.Name), p.Name, p.Price.String(), p.Stock.String())
		if err != nil {
			return fmt.Errorf("insert product %q: %w", p.Name, err)
		}
	}
	return nil
}

func (r *PostgresRepository) Load(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, price::text, stock::text
		FROM inventory_products
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var name, price, stock string
		if err := rows.Scan(&name, &price, &stock); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p, err := productFromText(name, price, stock)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func productFromText(name, price, stock string) (Product, error) {
	pr, err := decimal.NewFromString(price)
	if err != nil {
		return Product{}, fmt.Errorf("product %q: invalid price %q: %w", name, price, err)
	}
	st, err := decimal.NewFromString(stock)
	if err != nil {
		return Product{}, fmt.Errorf("product %q: invalid stock %q: %w", name, stock, err)
	}
	return Product{Name: name, Price: pr, Stock: st}, nil
}
