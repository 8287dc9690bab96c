package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/prajwaldhage/Test-Inventory/internal/domain"
	"github.com/prajwaldhage/Test-Inventory/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ensureSchema creates the three tables on first run. Idempotent.
func (s *Store) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			customer_id BIGSERIAL PRIMARY KEY,
			customer_name TEXT NOT NULL,
			mobile_no TEXT NOT NULL UNIQUE,
			customer_type TEXT NOT NULL CHECK (customer_type IN ('WHOLESALE','RETAIL','HOTEL-LINE'))
		)`,
		`CREATE TABLE IF NOT EXISTS inventory (
			id BIGSERIAL PRIMARY KEY,
			brand TEXT NOT NULL,
			product TEXT NOT NULL,
			category TEXT NOT NULL,
			stock INTEGER NOT NULL,
			mrp BIGINT NOT NULL,
			purchase_rate BIGINT NOT NULL,
			wholesale_rate BIGINT NOT NULL,
			retail_rate BIGINT NOT NULL,
			hotel_rate BIGINT NOT NULL,
			UNIQUE (brand, product)
		)`,
		`CREATE TABLE IF NOT EXISTS bills (
			bill_id BIGSERIAL PRIMARY KEY,
			customer_id BIGINT NOT NULL REFERENCES customers(customer_id),
			item_count INTEGER NOT NULL,
			subtotal DOUBLE PRECISION NOT NULL,
			tax DOUBLE PRECISION NOT NULL,
			discount DOUBLE PRECISION NOT NULL DEFAULT 0,
			total DOUBLE PRECISION NOT NULL,
			profit BIGINT NOT NULL,
			payment_method TEXT NOT NULL CHECK (payment_method IN ('Online','Cash','Credit','Card')),
			payment_date DATE NOT NULL,
			status TEXT NOT NULL DEFAULT 'Successful' CHECK (status IN ('Successful','Pending','Failed'))
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO customers (customer_name, mobile_no, customer_type)
		VALUES ($1,$2,$3)
		RETURNING customer_id
	`, customer.Name, customer.Phone, customer.Type).Scan(&customer.ID)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost a race on the phone number; the first writer wins.
			return s.FindCustomerByPhone(ctx, customer.Phone)
		}
		return nil, err
	}
	created := customer
	return &created, nil
}

func (s *Store) GetCustomerByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var customer domain.Customer
	err := s.db.QueryRowContext(ctx, `
		SELECT customer_id, customer_name, mobile_no, customer_type
		FROM customers
		WHERE customer_id = $1
	`, id).Scan(&customer.ID, &customer.Name, &customer.Phone, &customer.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (s *Store) FindCustomerByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	var customer domain.Customer
	err := s.db.QueryRowContext(ctx, `
		SELECT customer_id, customer_name, mobile_no, customer_type
		FROM customers
		WHERE mobile_no = $1
	`, phone).Scan(&customer.ID, &customer.Name, &customer.Phone, &customer.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (s *Store) SearchCustomersByNamePrefix(ctx context.Context, prefix string) ([]domain.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT customer_id, customer_name, mobile_no, customer_type
		FROM customers
		WHERE TRIM(customer_name) LIKE $1 || '%'
		ORDER BY customer_id
	`, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var customer domain.Customer
		if err := rows.Scan(&customer.ID, &customer.Name, &customer.Phone, &customer.Type); err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *Store) SearchProducts(ctx context.Context, term string) ([]domain.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, brand, product, category, stock, mrp, purchase_rate, wholesale_rate, retail_rate, hotel_rate
		FROM inventory
		WHERE UPPER(TRIM(brand) || ' ' || TRIM(product)) LIKE '%' || UPPER(TRIM($1)) || '%'
		ORDER BY brand, product
	`, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.InventoryItem{}
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(&item.ID, &item.Brand, &item.Product, &item.Category, &item.Stock,
			&item.MRP, &item.PurchaseRate, &item.WholesaleRate, &item.RetailRate, &item.HotelRate); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) LookupBrandRate(ctx context.Context, brand string) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := s.db.QueryRowContext(ctx, `
		SELECT id, brand, product, category, stock, mrp, purchase_rate, wholesale_rate, retail_rate, hotel_rate
		FROM inventory
		WHERE UPPER(brand) = UPPER(TRIM($1))
		LIMIT 1
	`, brand).Scan(&item.ID, &item.Brand, &item.Product, &item.Category, &item.Stock,
		&item.MRP, &item.PurchaseRate, &item.WholesaleRate, &item.RetailRate, &item.HotelRate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *Store) CreateBill(ctx context.Context, draft domain.BillDraft) (*domain.Bill, error) {
	pgTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = pgTx.Rollback() }()

	var customerExists bool
	if err := pgTx.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM customers WHERE customer_id = $1)
	`, draft.CustomerID).Scan(&customerExists); err != nil {
		return nil, err
	}
	if !customerExists {
		return nil, store.ErrNotFound
	}

	var profit int64
	for _, line := range draft.Items {
		var purchase, selling int64
		err := pgTx.QueryRowContext(ctx, `
			SELECT purchase_rate,
			       CASE $2
			           WHEN 'WHOLESALE' THEN wholesale_rate
			           WHEN 'HOTEL-LINE' THEN hotel_rate
			           ELSE retail_rate
			       END
			FROM inventory
			WHERE UPPER(TRIM(brand) || ' ' || TRIM(product)) = $1
			FOR UPDATE
		`, line.NameKey, draft.CustomerType).Scan(&purchase, &selling)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Unrecognized line: no profit, no stock change.
				continue
			}
			return nil, err
		}

		profit += (selling - purchase) * int64(line.Quantity)

		// No stock floor; oversells drive the count negative.
		if _, err := pgTx.ExecContext(ctx, `
			UPDATE inventory
			SET stock = stock - $2
			WHERE UPPER(TRIM(brand) || ' ' || TRIM(product)) = $1
		`, line.NameKey, line.Quantity); err != nil {
			return nil, err
		}
	}

	bill := domain.Bill{
		CustomerID:    draft.CustomerID,
		ItemCount:     len(draft.Items),
		Subtotal:      draft.Subtotal,
		Tax:           draft.Tax,
		Discount:      draft.Discount,
		Total:         draft.Total,
		Profit:        profit,
		PaymentMethod: draft.PaymentMethod,
		PaymentDate:   time.Now().UTC().Format("2006-01-02"),
		Status:        domain.StatusSuccessful,
	}
	err = pgTx.QueryRowContext(ctx, `
		INSERT INTO bills (customer_id, item_count, subtotal, tax, discount, total, profit, payment_method, payment_date, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING bill_id
	`, bill.CustomerID, bill.ItemCount, bill.Subtotal, bill.Tax, bill.Discount, bill.Total,
		bill.Profit, bill.PaymentMethod, bill.PaymentDate, bill.Status).Scan(&bill.ID)
	if err != nil {
		return nil, err
	}

	if err := pgTx.Commit(); err != nil {
		return nil, err
	}
	return &bill, nil
}

func (s *Store) ListBills(ctx context.Context) ([]domain.BillRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.bill_id, b.customer_id, c.customer_name, b.item_count, b.subtotal, b.tax, b.discount,
		       b.total, b.profit, b.payment_method, to_char(b.payment_date, 'YYYY-MM-DD'), b.status
		FROM bills b
		JOIN customers c ON c.customer_id = b.customer_id
		ORDER BY b.bill_id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.BillRecord{}
	for rows.Next() {
		var record domain.BillRecord
		if err := rows.Scan(&record.ID, &record.CustomerID, &record.CustomerName, &record.ItemCount,
			&record.Subtotal, &record.Tax, &record.Discount, &record.Total, &record.Profit,
			&record.PaymentMethod, &record.PaymentDate, &record.Status); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
