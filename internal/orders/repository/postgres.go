package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/tastybites/ordering/internal/orders/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "orders_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

// InsertOrder writes the order row and returns the generated id. The
// submission token is stored for traceability only; the store does not
// deduplicate on it.
func (r *Repository) InsertOrder(ctx context.Context, order *domain.Order) (int64, error) {
	query := `INSERT INTO orders (owner, status, total_amount, address, phone, payment_method, submission_token, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	          RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		order.Owner,
		order.Status,
		order.TotalAmount,
		order.Address,
		order.Phone,
		order.PaymentMethod,
		order.SubmissionToken,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	return order.ID, nil
}

// InsertOrderLines writes all lines in one transaction so a failure leaves
// no partial line set behind.
func (r *Repository) InsertOrderLines(ctx context.Context, lines []domain.OrderLine) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price, note)
	          VALUES ($1, $2, $3, $4, $5)`

	for _, line := range lines {
		if _, err := tx.ExecContext(ctx, query,
			line.OrderID,
			line.ItemID,
			line.Quantity,
			line.UnitPrice,
			line.Note,
		); err != nil {
			return fmt.Errorf("insert order line for item %d: %w", line.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order lines: %w", err)
	}
	return nil
}

func (r *Repository) ListOrdersByOwner(ctx context.Context, owner string) ([]*domain.Order, error) {
	query := `SELECT id, owner, status, total_amount, address, phone, payment_method, submission_token, created_at
	          FROM orders WHERE owner = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("query orders by owner: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.Owner,
			&order.Status,
			&order.TotalAmount,
			&order.Address,
			&order.Phone,
			&order.PaymentMethod,
			&order.SubmissionToken,
			&order.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, &order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}

// GetOrderWithLines returns the order joined with its lines, each carrying
// the menu item's current display name and image. Orders belonging to a
// different owner read as not found.
func (r *Repository) GetOrderWithLines(ctx context.Context, id int64, owner string) (*domain.OrderDetail, error) {
	orderQuery := `SELECT id, owner, status, total_amount, address, phone, payment_method, submission_token, created_at
	               FROM orders WHERE id = $1 AND owner = $2`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, orderQuery, id, owner).Scan(
		&order.ID,
		&order.Owner,
		&order.Status,
		&order.TotalAmount,
		&order.Address,
		&order.Phone,
		&order.PaymentMethod,
		&order.SubmissionToken,
		&order.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	linesQuery := `SELECT oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.unit_price, oi.note,
	                      COALESCE(mi.name, ''), COALESCE(mi.image_url, '')
	               FROM order_items oi
	               LEFT JOIN menu_items mi ON mi.id = oi.menu_item_id
	               WHERE oi.order_id = $1
	               ORDER BY oi.id`

	rows, err := r.db.QueryContext(ctx, linesQuery, id)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.ItemID,
			&line.Quantity,
			&line.UnitPrice,
			&line.Note,
			&line.ItemName,
			&line.ItemImageURL,
		); err != nil {
			return nil, fmt.Errorf("scan order line row: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return &domain.OrderDetail{Order: order, Lines: lines}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
