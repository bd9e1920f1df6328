package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/posdesk/fulfillment/internal/domain/errors"
	"github.com/posdesk/fulfillment/internal/domain/model"
	"github.com/posdesk/fulfillment/internal/domain/repository"
)

// DB is the subset of pgxpool.Pool used by the storage. Declared as an
// interface so storage tests can swap in a pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   DB
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

type ticketRepository struct {
	storage *Storage
}

type queueRepository struct {
	storage *Storage
}

type loyaltyRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

type customerRepository struct {
	storage *Storage
}

type branchRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Tickets() repository.TicketRepository {
	return &ticketRepository{storage: s}
}

func (s *Storage) Queue() repository.QueueRepository {
	return &queueRepository{storage: s}
}

func (s *Storage) Loyalty() repository.LoyaltyRepository {
	return &loyaltyRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Customers() repository.CustomerRepository {
	return &customerRepository{storage: s}
}

func (s *Storage) Branches() repository.BranchRepository {
	return &branchRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS branches (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            timezone TEXT NOT NULL DEFAULT 'UTC'
        )`,
		`CREATE TABLE IF NOT EXISTS customers (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            loyalty_points BIGINT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            price DOUBLE PRECISION NOT NULL,
            prep_minutes INT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            number TEXT UNIQUE NOT NULL,
            branch_id BIGINT NOT NULL,
            type TEXT NOT NULL,
            table_number TEXT,
            customer_id BIGINT,
            status TEXT NOT NULL,
            subtotal DOUBLE PRECISION NOT NULL,
            tax_amount DOUBLE PRECISION NOT NULL,
            discount_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
            total_amount DOUBLE PRECISION NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            completed_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS order_lines (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            product_id BIGINT NOT NULL,
            product_name TEXT NOT NULL,
            quantity INT NOT NULL,
            unit_price DOUBLE PRECISION NOT NULL,
            total_price DOUBLE PRECISION NOT NULL,
            notes TEXT NOT NULL DEFAULT '',
            prep_minutes INT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS kitchen_tickets (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            line_id BIGINT NOT NULL,
            product_name TEXT NOT NULL,
            quantity INT NOT NULL,
            notes TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            prep_minutes INT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            started_at TIMESTAMPTZ,
            completed_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS queue_entries (
            id SERIAL PRIMARY KEY,
            branch_id BIGINT NOT NULL,
            day TEXT NOT NULL,
            number INT NOT NULL,
            customer_name TEXT NOT NULL,
            customer_phone TEXT,
            party_size INT NOT NULL,
            service_type TEXT NOT NULL,
            status TEXT NOT NULL,
            order_id BIGINT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            called_at TIMESTAMPTZ,
            served_at TIMESTAMPTZ,
            UNIQUE (branch_id, day, number)
        )`,
		`CREATE TABLE IF NOT EXISTS loyalty_accruals (
            id SERIAL PRIMARY KEY,
            order_id BIGINT UNIQUE NOT NULL,
            customer_id BIGINT NOT NULL,
            points BIGINT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS daily_counters (
            scope TEXT NOT NULL,
            day TEXT NOT NULL,
            value BIGINT NOT NULL,
            PRIMARY KEY (scope, day)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_order ON kitchen_tickets(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_status ON kitchen_tickets(status, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_queue_branch ON queue_entries(branch_id, status)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// nextCounter increments and returns the serialized per-scope-per-day counter.
// The upsert makes allocation atomic: concurrent callers never observe the
// same value and gaps never regress.
func nextCounter(ctx context.Context, tx pgx.Tx, scope, day string) (int64, error) {
	const query = `INSERT INTO daily_counters (scope, day, value) VALUES ($1, $2, 1)
                   ON CONFLICT (scope, day) DO UPDATE SET value = daily_counters.value + 1
                   RETURNING value`
	var value int64
	if err := tx.QueryRow(ctx, query, scope, day).Scan(&value); err != nil {
		return 0, fmt.Errorf("allocate counter %s/%s: %w", scope, day, err)
	}
	return value, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order, day string) (*model.Order, error) {
	created := *order
	created.Lines = make([]model.OrderLine, len(order.Lines))
	copy(created.Lines, order.Lines)

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		seq, err := nextCounter(ctx, tx, fmt.Sprintf("order:%d", order.BranchID), day)
		if err != nil {
			return err
		}
		created.Number = fmt.Sprintf("ORD-%s-%04d", strings.ReplaceAll(day, "-", ""), seq)

		const insertOrder = `INSERT INTO orders
            (number, branch_id, type, table_number, customer_id, status, subtotal, tax_amount, discount_amount, total_amount)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
            RETURNING id, created_at`
		if err := tx.QueryRow(ctx, insertOrder,
			created.Number, created.BranchID, created.Type, created.TableNumber, created.CustomerID,
			created.Status, created.Subtotal, created.TaxAmount, created.DiscountAmount, created.TotalAmount,
		).Scan(&created.ID, &created.CreatedAt); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		const insertLine = `INSERT INTO order_lines
            (order_id, product_id, product_name, quantity, unit_price, total_price, notes, prep_minutes)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
            RETURNING id`
		for i := range created.Lines {
			line := &created.Lines[i]
			line.OrderID = created.ID
			if err := tx.QueryRow(ctx, insertLine,
				created.ID, line.ProductID, line.ProductName, line.Quantity,
				line.UnitPrice, line.TotalPrice, line.Notes, line.PrepMinutes,
			).Scan(&line.ID); err != nil {
				return fmt.Errorf("insert order line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

const orderColumns = `id, number, branch_id, type, table_number, customer_id, status,
                      subtotal, tax_amount, discount_amount, total_amount, created_at, completed_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.Number, &o.BranchID, &o.Type, &o.TableNumber, &o.CustomerID, &o.Status,
		&o.Subtotal, &o.TaxAmount, &o.DiscountAmount, &o.TotalAmount, &o.CreatedAt, &o.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	order, err := scanOrder(r.storage.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}

	const linesQuery = `SELECT id, order_id, product_id, product_name, quantity, unit_price, total_price, notes, prep_minutes
                        FROM order_lines WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, linesQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l model.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity,
			&l.UnitPrice, &l.TotalPrice, &l.Notes, &l.PrepMinutes); err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByStatus(ctx context.Context, statuses []model.OrderStatus) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	args := []any{}
	if len(statuses) > 0 {
		query = `SELECT ` + orderColumns + ` FROM orders WHERE status = ANY($1) ORDER BY created_at DESC`
		filter := make([]string, len(statuses))
		for i, s := range statuses {
			filter[i] = string(s)
		}
		args = append(args, filter)
	}

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.Number, &o.BranchID, &o.Type, &o.TableNumber, &o.CustomerID, &o.Status,
			&o.Subtotal, &o.TaxAmount, &o.DiscountAmount, &o.TotalAmount, &o.CreatedAt, &o.CompletedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) UpdateStatusIf(ctx context.Context, orderID int64, from []model.OrderStatus, to model.OrderStatus) (bool, error) {
	expected := make([]string, len(from))
	for i, s := range from {
		expected[i] = string(s)
	}

	query := `UPDATE orders SET status=$1 WHERE id=$2 AND status = ANY($3)`
	if to == model.OrderStatusCompleted || to == model.OrderStatusDelivered {
		query = `UPDATE orders SET status=$1, completed_at=NOW() WHERE id=$2 AND status = ANY($3)`
	}

	tag, err := r.storage.pool.Exec(ctx, query, to, orderID, expected)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *orderRepository) SetDiscount(ctx context.Context, orderID int64, discount, total float64) (bool, error) {
	const query = `UPDATE orders SET discount_amount=$1, total_amount=$2
                   WHERE id=$3 AND status NOT IN ('completed', 'delivered', 'cancelled')`
	tag, err := r.storage.pool.Exec(ctx, query, discount, total, orderID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// --- TicketRepository implementation ---

const ticketColumns = `id, order_id, line_id, product_name, quantity, notes, status, prep_minutes, created_at, started_at, completed_at`

func (r *ticketRepository) CreateForOrder(ctx context.Context, orderID int64, tickets []model.KitchenTicket) ([]model.KitchenTicket, error) {
	created := make([]model.KitchenTicket, len(tickets))
	copy(created, tickets)

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insert = `INSERT INTO kitchen_tickets (order_id, line_id, product_name, quantity, notes, status, prep_minutes)
                        VALUES ($1, $2, $3, $4, $5, $6, $7)
                        RETURNING id, created_at`
		for i := range created {
			t := &created[i]
			t.OrderID = orderID
			if err := tx.QueryRow(ctx, insert,
				orderID, t.LineID, t.ProductName, t.Quantity, t.Notes, t.Status, t.PrepMinutes,
			).Scan(&t.ID, &t.CreatedAt); err != nil {
				return fmt.Errorf("insert ticket: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func scanTicket(row pgx.Row) (*model.KitchenTicket, error) {
	var t model.KitchenTicket
	err := row.Scan(&t.ID, &t.OrderID, &t.LineID, &t.ProductName, &t.Quantity, &t.Notes,
		&t.Status, &t.PrepMinutes, &t.CreatedAt, &t.StartedAt, &t.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*model.KitchenTicket, error) {
	return scanTicket(r.storage.pool.QueryRow(ctx,
		`SELECT `+ticketColumns+` FROM kitchen_tickets WHERE id=$1`, id))
}

func (r *ticketRepository) listTickets(ctx context.Context, query string, args ...any) ([]model.KitchenTicket, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.KitchenTicket
	for rows.Next() {
		var t model.KitchenTicket
		if err := rows.Scan(&t.ID, &t.OrderID, &t.LineID, &t.ProductName, &t.Quantity, &t.Notes,
			&t.Status, &t.PrepMinutes, &t.CreatedAt, &t.StartedAt, &t.CompletedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *ticketRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.KitchenTicket, error) {
	return r.listTickets(ctx,
		`SELECT `+ticketColumns+` FROM kitchen_tickets WHERE order_id=$1 ORDER BY id`, orderID)
}

func (r *ticketRepository) ListByStatus(ctx context.Context, status model.TicketStatus, limit int) ([]model.KitchenTicket, error) {
	return r.listTickets(ctx,
		`SELECT `+ticketColumns+` FROM kitchen_tickets WHERE status=$1 ORDER BY created_at LIMIT $2`,
		status, limit)
}

func (r *ticketRepository) UpdateStatusIf(ctx context.Context, ticketID int64, from, to model.TicketStatus, at time.Time) (bool, error) {
	query := `UPDATE kitchen_tickets SET status=$1 WHERE id=$2 AND status=$3`
	args := []any{to, ticketID, from}

	switch to {
	case model.TicketStatusPreparing:
		query = `UPDATE kitchen_tickets SET status=$1, started_at=$4 WHERE id=$2 AND status=$3`
		args = append(args, at)
	case model.TicketStatusCompleted:
		query = `UPDATE kitchen_tickets SET status=$1, completed_at=$4 WHERE id=$2 AND status=$3`
		args = append(args, at)
	}

	tag, err := r.storage.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ticketRepository) CancelActiveByOrder(ctx context.Context, orderID int64) error {
	const query = `UPDATE kitchen_tickets SET status='cancelled'
                   WHERE order_id=$1 AND status IN ('pending', 'preparing')`
	_, err := r.storage.pool.Exec(ctx, query, orderID)
	return err
}

// --- QueueRepository implementation ---

const queueColumns = `id, branch_id, number, customer_name, customer_phone, party_size,
                      service_type, status, order_id, created_at, called_at, served_at`

func (r *queueRepository) Join(ctx context.Context, entry *model.QueueEntry, day string) (*model.QueueEntry, error) {
	created := *entry

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		seq, err := nextCounter(ctx, tx, fmt.Sprintf("queue:%d", entry.BranchID), day)
		if err != nil {
			return err
		}
		created.Number = int(seq)

		const insert = `INSERT INTO queue_entries
            (branch_id, day, number, customer_name, customer_phone, party_size, service_type, status, order_id)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
            RETURNING id, created_at`
		if err := tx.QueryRow(ctx, insert,
			created.BranchID, day, created.Number, created.CustomerName, created.CustomerPhone,
			created.PartySize, created.ServiceType, created.Status, created.OrderID,
		).Scan(&created.ID, &created.CreatedAt); err != nil {
			return fmt.Errorf("insert queue entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *queueRepository) GetByID(ctx context.Context, id int64) (*model.QueueEntry, error) {
	var e model.QueueEntry
	err := r.storage.pool.QueryRow(ctx,
		`SELECT `+queueColumns+` FROM queue_entries WHERE id=$1`, id,
	).Scan(&e.ID, &e.BranchID, &e.Number, &e.CustomerName, &e.CustomerPhone, &e.PartySize,
		&e.ServiceType, &e.Status, &e.OrderID, &e.CreatedAt, &e.CalledAt, &e.ServedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *queueRepository) UpdateStatusIf(ctx context.Context, entryID int64, from []model.QueueStatus, to model.QueueStatus, at time.Time) (bool, error) {
	expected := make([]string, len(from))
	for i, s := range from {
		expected[i] = string(s)
	}

	query := `UPDATE queue_entries SET status=$1 WHERE id=$2 AND status = ANY($3)`
	args := []any{to, entryID, expected}

	switch to {
	case model.QueueStatusCalled:
		query = `UPDATE queue_entries SET status=$1, called_at=$4 WHERE id=$2 AND status = ANY($3)`
		args = append(args, at)
	case model.QueueStatusServed:
		query = `UPDATE queue_entries SET status=$1, served_at=$4 WHERE id=$2 AND status = ANY($3)`
		args = append(args, at)
	}

	tag, err := r.storage.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *queueRepository) ListActive(ctx context.Context, branchID int64) ([]model.QueueEntry, error) {
	const query = `SELECT ` + queueColumns + ` FROM queue_entries
                   WHERE branch_id=$1 AND status IN ('waiting', 'called')
                   ORDER BY number`
	rows, err := r.storage.pool.Query(ctx, query, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.QueueEntry
	for rows.Next() {
		var e model.QueueEntry
		if err := rows.Scan(&e.ID, &e.BranchID, &e.Number, &e.CustomerName, &e.CustomerPhone, &e.PartySize,
			&e.ServiceType, &e.Status, &e.OrderID, &e.CreatedAt, &e.CalledAt, &e.ServedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *queueRepository) Stats(ctx context.Context, branchID int64, dayStart time.Time) (*model.QueueStats, error) {
	const query = `SELECT
            COUNT(*) FILTER (WHERE status = 'waiting'),
            COUNT(*) FILTER (WHERE status = 'called'),
            COUNT(*) FILTER (WHERE status = 'served' AND served_at >= $2),
            COALESCE(AVG(EXTRACT(EPOCH FROM (served_at - created_at)) / 60.0)
                FILTER (WHERE status = 'served' AND served_at >= $2), 0)
        FROM queue_entries WHERE branch_id=$1`
	var stats model.QueueStats
	err := r.storage.pool.QueryRow(ctx, query, branchID, dayStart).Scan(
		&stats.WaitingCount, &stats.CalledCount, &stats.ServedToday, &stats.AvgWaitMinutes)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *queueRepository) CancelByOrder(ctx context.Context, orderID int64) error {
	const query = `UPDATE queue_entries SET status='cancelled'
                   WHERE order_id=$1 AND status IN ('waiting', 'called')`
	_, err := r.storage.pool.Exec(ctx, query, orderID)
	return err
}

// --- LoyaltyRepository implementation ---

func (r *loyaltyRepository) AccrueOnce(ctx context.Context, orderID, customerID, points int64) (bool, error) {
	created := false
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insert = `INSERT INTO loyalty_accruals (order_id, customer_id, points)
                        VALUES ($1, $2, $3)
                        ON CONFLICT (order_id) DO NOTHING
                        RETURNING id`
		var id int64
		err := tx.QueryRow(ctx, insert, orderID, customerID, points).Scan(&id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// Already accrued; keep the balance untouched.
				return nil
			}
			return fmt.Errorf("insert accrual: %w", err)
		}

		const credit = `UPDATE customers SET loyalty_points = loyalty_points + $1 WHERE id=$2`
		if _, err := tx.Exec(ctx, credit, points, customerID); err != nil {
			return fmt.Errorf("credit customer: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *loyaltyRepository) GetByOrder(ctx context.Context, orderID int64) (*model.LoyaltyAccrual, error) {
	const query = `SELECT id, order_id, customer_id, points, created_at FROM loyalty_accruals WHERE order_id=$1`
	var a model.LoyaltyAccrual
	err := r.storage.pool.QueryRow(ctx, query, orderID).Scan(&a.ID, &a.OrderID, &a.CustomerID, &a.Points, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// --- Collaborator repositories ---

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	const query = `SELECT id, name, price, prep_minutes FROM products WHERE id=$1`
	var p model.Product
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.PrepMinutes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	const query = `SELECT id, name, price, prep_minutes FROM products WHERE id = ANY($1)`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64]model.Product, len(ids))
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.PrepMinutes); err != nil {
			return nil, err
		}
		result[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	const query = `SELECT id, name, loyalty_points FROM customers WHERE id=$1`
	var c model.Customer
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.LoyaltyPoints)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) IncrementLoyaltyPoints(ctx context.Context, id int64, delta int64) error {
	const query = `UPDATE customers SET loyalty_points = loyalty_points + $1 WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, delta, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *branchRepository) GetByID(ctx context.Context, id int64) (*model.Branch, error) {
	const query = `SELECT id, name, timezone FROM branches WHERE id=$1`
	var b model.Branch
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&b.ID, &b.Name, &b.Timezone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
