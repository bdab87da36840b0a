package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"oventreats/internal/models"
	"oventreats/internal/store"
)

// PostgresBackend keeps products and orders in relational tables with
// snake_case columns; order items are stored as a JSONB snapshot column.
// All naming translation between the wire schema and the domain model
// happens in this file.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

func NewPostgresBackend(ctx context.Context, databaseURL string) (*PostgresBackend, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	b := &PostgresBackend{pool: pool}
	if err := b.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return b, nil
}

func (b *PostgresBackend) Close() {
	b.pool.Close()
}

func (b *PostgresBackend) ensureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS products (
			id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price       NUMERIC(10,2) NOT NULL,
			category    TEXT NOT NULL,
			image       TEXT NOT NULL DEFAULT '',
			available   BOOLEAN NOT NULL DEFAULT TRUE,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS orders (
			id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			items          JSONB NOT NULL,
			total          NUMERIC(10,2) NOT NULL,
			status         TEXT NOT NULL,
			customer_name  TEXT NOT NULL,
			customer_phone TEXT NOT NULL DEFAULT '',
			customer_email TEXT NOT NULL,
			order_date     TIMESTAMPTZ NOT NULL,
			delivery_date  TIMESTAMPTZ NOT NULL,
			estimated_time TEXT,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		);`
	if _, err := b.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

func (b *PostgresBackend) GetProducts(ctx context.Context) ([]models.Product, error) {
	const query = `
		SELECT id, name, description, price, category, image, available
		FROM products
		ORDER BY created_at DESC`

	rows, err := b.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Image, &p.Available); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (b *PostgresBackend) AddProduct(ctx context.Context, p models.Product) (models.Product, error) {
	const query = `
		INSERT INTO products (name, description, price, category, image, available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := b.pool.QueryRow(ctx, query,
		p.Name, p.Description, p.Price, p.Category, p.Image, p.Available,
	).Scan(&p.ID)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return p, nil
}

func (b *PostgresBackend) UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) error {
	const query = `
		UPDATE products
		SET name        = COALESCE($2, name),
		    description = COALESCE($3, description),
		    price       = COALESCE($4, price),
		    category    = COALESCE($5, category),
		    image       = COALESCE($6, image),
		    available   = COALESCE($7, available),
		    updated_at  = now()
		WHERE id = $1`

	_, err := b.pool.Exec(ctx, query, id,
		upd.Name, upd.Description, upd.Price, upd.Category, upd.Image, upd.Available)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (b *PostgresBackend) DeleteProduct(ctx context.Context, id string) error {
	if _, err := b.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (b *PostgresBackend) GetOrders(ctx context.Context) ([]models.Order, error) {
	const query = `
		SELECT id, items, total, status, customer_name, customer_phone,
		       customer_email, order_date, delivery_date, estimated_time
		FROM orders
		ORDER BY created_at DESC`

	rows, err := b.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var (
			o             models.Order
			itemsJSON     []byte
			estimatedTime *string
		)
		err := rows.Scan(&o.ID, &itemsJSON, &o.Total, &o.Status, &o.CustomerName,
			&o.CustomerPhone, &o.CustomerEmail, &o.OrderDate, &o.DeliveryDate, &estimatedTime)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("failed to decode order items: %w", err)
		}
		if estimatedTime != nil {
			o.EstimatedTime = *estimatedTime
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (b *PostgresBackend) AddOrder(ctx context.Context, n models.NewOrder) (models.Order, error) {
	itemsJSON, err := json.Marshal(n.Items)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to encode order items: %w", err)
	}

	order := models.Order{
		Items:         n.Items,
		Total:         n.Total,
		Status:        models.StatusPending,
		CustomerName:  n.CustomerName,
		CustomerPhone: n.CustomerPhone,
		CustomerEmail: n.CustomerEmail,
		OrderDate:     time.Now(),
		DeliveryDate:  n.DeliveryDate,
		EstimatedTime: n.EstimatedTime,
	}

	var estimatedTime *string
	if n.EstimatedTime != "" {
		estimatedTime = &n.EstimatedTime
	}

	const query = `
		INSERT INTO orders (items, total, status, customer_name, customer_phone,
		                    customer_email, order_date, delivery_date, estimated_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, order_date`

	err = b.pool.QueryRow(ctx, query,
		itemsJSON, order.Total, order.Status, order.CustomerName, order.CustomerPhone,
		order.CustomerEmail, order.OrderDate, order.DeliveryDate, estimatedTime,
	).Scan(&order.ID, &order.OrderDate)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}
	return order, nil
}

func (b *PostgresBackend) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	_, err := b.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, orderID, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}

func (b *PostgresBackend) GetCustomers(ctx context.Context) ([]models.Customer, error) {
	orders, err := b.GetOrders(ctx)
	if err != nil {
		return nil, err
	}
	return store.ProjectCustomers(orders), nil
}
