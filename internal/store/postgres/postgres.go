package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"cukuraja/backend/internal/domain"
	"cukuraja/backend/internal/store"
	"cukuraja/backend/internal/xid"
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
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListOutlets(ctx context.Context) ([]domain.Outlet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, name, COALESCE(address,''), COALESCE(phone,''), active, created_at
		FROM outlets
		ORDER BY code ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	outlets := make([]domain.Outlet, 0, 8)
	for rows.Next() {
		var o domain.Outlet
		if err := rows.Scan(&o.ID, &o.Code, &o.Name, &o.Address, &o.Phone, &o.Active, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.CreatedAt = o.CreatedAt.UTC()
		outlets = append(outlets, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return outlets, nil
}

func (s *Store) GetOutletByID(ctx context.Context, outletID string) (*domain.Outlet, error) {
	var outlet domain.Outlet
	err := s.db.QueryRowContext(ctx, `
		SELECT id, code, name, COALESCE(address,''), COALESCE(phone,''), active, created_at
		FROM outlets
		WHERE id = $1
	`, outletID).Scan(&outlet.ID, &outlet.Code, &outlet.Name, &outlet.Address, &outlet.Phone, &outlet.Active, &outlet.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	outlet.CreatedAt = outlet.CreatedAt.UTC()
	return &outlet, nil
}

func (s *Store) CreateOutlet(ctx context.Context, outlet domain.Outlet) (*domain.Outlet, error) {
	if outlet.Code == "" || outlet.Name == "" {
		return nil, store.ErrInvalidSale
	}
	if outlet.ID == "" {
		outlet.ID = xid.New("outlet")
	}
	if outlet.CreatedAt.IsZero() {
		outlet.CreatedAt = time.Now().UTC()
	}
	outlet.Active = true

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO outlets (id, code, name, address, phone, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,now())
	`, outlet.ID, outlet.Code, outlet.Name, nullIfEmpty(outlet.Address), nullIfEmpty(outlet.Phone), outlet.Active, outlet.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	created := outlet
	return &created, nil
}

func (s *Store) UpdateOutlet(ctx context.Context, outlet domain.Outlet) (*domain.Outlet, error) {
	if outlet.ID == "" || outlet.Code == "" || outlet.Name == "" {
		return nil, store.ErrInvalidSale
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE outlets
		SET name = $2, address = $3, phone = $4, active = $5, updated_at = now()
		WHERE id = $1
	`, outlet.ID, outlet.Name, nullIfEmpty(outlet.Address), nullIfEmpty(outlet.Phone), outlet.Active)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := outlet
	return &updated, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sku, name, category, cost_price, sale_price, active
		FROM products
		WHERE active = true
		ORDER BY category, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 128)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.SKU, &p.Name, &p.Category, &p.CostPrice, &p.SalePrice, &p.Active); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.SKU == "" || product.Name == "" || product.Category == "" {
		return nil, store.ErrInvalidSale
	}
	if product.CostPrice < 0 || product.SalePrice < 1 {
		return nil, store.ErrInvalidSale
	}

	product.Active = true
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (sku, name, category, cost_price, sale_price, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,now(),now())
	`, product.SKU, product.Name, product.Category, product.CostPrice, product.SalePrice, product.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := product
	return &created, nil
}

func (s *Store) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	var product domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT sku, name, category, cost_price, sale_price, active
		FROM products
		WHERE sku = $1
	`, sku).Scan(&product.SKU, &product.Name, &product.Category, &product.CostPrice, &product.SalePrice, &product.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.SKU == "" || product.Name == "" || product.Category == "" {
		return nil, store.ErrInvalidSale
	}
	if product.CostPrice < 0 || product.SalePrice < 1 {
		return nil, store.ErrInvalidSale
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, category = $3, cost_price = $4, sale_price = $5, active = $6, updated_at = now()
		WHERE sku = $1
	`, product.SKU, product.Name, product.Category, product.CostPrice, product.SalePrice, product.Active)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := product
	return &updated, nil
}

func (s *Store) GetProductsBySKUs(ctx context.Context, skus []string) (map[string]domain.Product, error) {
	result := make(map[string]domain.Product, len(skus))
	if len(skus) == 0 {
		return result, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT sku, name, category, cost_price, sale_price, active
		FROM products
		WHERE active = true AND sku = ANY($1)
	`, skus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.SKU, &p.Name, &p.Category, &p.CostPrice, &p.SalePrice, &p.Active); err != nil {
			return nil, err
		}
		result[p.SKU] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Store) GetStockMap(ctx context.Context, outletID string, skus []string) (map[string]int, error) {
	stockMap := make(map[string]int, len(skus))
	if len(skus) == 0 {
		return stockMap, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT sku, qty
		FROM outlet_stocks
		WHERE outlet_id = $1 AND sku = ANY($2)
	`, outletID, skus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var sku string
		var qty int
		if err := rows.Scan(&sku, &qty); err != nil {
			return nil, err
		}
		stockMap[sku] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, sku := range skus {
		if _, ok := stockMap[sku]; !ok {
			stockMap[sku] = 0
		}
	}

	return stockMap, nil
}

func (s *Store) SetStock(ctx context.Context, outletID string, sku string, qty int) error {
	if sku == "" || qty < 0 {
		return store.ErrInvalidSale
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO outlet_stocks (outlet_id, sku, qty, updated_at)
		VALUES ($1,$2,$3,now())
		ON CONFLICT (outlet_id, sku)
		DO UPDATE SET qty = EXCLUDED.qty, updated_at = now()
	`, outletID, sku, qty)
	return err
}

func (s *Store) AdjustStock(ctx context.Context, outletID string, sku string, delta int) (int, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM outlets WHERE id = $1)`, outletID).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, store.ErrNotFound
	}
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE sku = $1)`, sku).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, store.ErrNotFound
	}

	var current int
	err = tx.QueryRowContext(ctx, `
		SELECT qty
		FROM outlet_stocks
		WHERE outlet_id = $1 AND sku = $2
		FOR UPDATE
	`, outletID, sku).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	next := current + delta
	if next < 0 {
		return 0, store.ErrInsufficientStock
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO outlet_stocks (outlet_id, sku, qty, updated_at)
		VALUES ($1,$2,$3,now())
		ON CONFLICT (outlet_id, sku)
		DO UPDATE SET qty = EXCLUDED.qty, updated_at = now()
	`, outletID, sku, next)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return next, nil
}

func (s *Store) ListServices(ctx context.Context) ([]domain.ServiceItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, duration_minutes, price, active
		FROM services
		WHERE active = true
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := make([]domain.ServiceItem, 0, 32)
	for rows.Next() {
		var svc domain.ServiceItem
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.DurationMinutes, &svc.Price, &svc.Active); err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return services, nil
}

func (s *Store) CreateService(ctx context.Context, svc domain.ServiceItem) (*domain.ServiceItem, error) {
	if svc.Name == "" || svc.Price < 1 || svc.DurationMinutes < 1 {
		return nil, store.ErrInvalidSale
	}
	if svc.ID == "" {
		svc.ID = xid.New("svc")
	}
	svc.Active = true

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO services (id, name, duration_minutes, price, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,now(),now())
	`, svc.ID, svc.Name, svc.DurationMinutes, svc.Price, svc.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	created := svc
	return &created, nil
}

func (s *Store) GetServiceByID(ctx context.Context, serviceID string) (*domain.ServiceItem, error) {
	var svc domain.ServiceItem
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, duration_minutes, price, active
		FROM services
		WHERE id = $1
	`, serviceID).Scan(&svc.ID, &svc.Name, &svc.DurationMinutes, &svc.Price, &svc.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &svc, nil
}

func (s *Store) UpdateService(ctx context.Context, svc domain.ServiceItem) (*domain.ServiceItem, error) {
	if svc.Name == "" || svc.Price < 1 || svc.DurationMinutes < 1 {
		return nil, store.ErrInvalidSale
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE services
		SET name = $2, duration_minutes = $3, price = $4, active = $5, updated_at = now()
		WHERE id = $1
	`, svc.ID, svc.Name, svc.DurationMinutes, svc.Price, svc.Active)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := svc
	return &updated, nil
}

// CreateSale runs the whole sale inside one serializable transaction: stock
// rows and the per-outlet per-day receipt counter are locked, every price,
// cost and commission percentage is snapshotted, and stock is decremented.
// Any failure rolls the whole thing back.
func (s *Store) CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error) {
	if len(sale.Products) == 0 && len(sale.Services) == 0 {
		return nil, store.ErrInvalidSale
	}

	pgTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = pgTx.Rollback() }()

	var outletCode string
	var outletActive bool
	err = pgTx.QueryRowContext(ctx, `
		SELECT code, active
		FROM outlets
		WHERE id = $1
		FOR UPDATE
	`, sale.OutletID).Scan(&outletCode, &outletActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if !outletActive {
		return nil, store.ErrNotFound
	}

	subtotal := int64(0)
	productLines := make([]domain.SaleProductLine, 0, len(sale.Products))
	if len(sale.Products) > 0 {
		skus := uniqueSKUs(sale.Products)
		if len(skus) == 0 {
			return nil, store.ErrInvalidSale
		}

		productRows, err := pgTx.QueryContext(ctx, `
			SELECT sku, name, cost_price, sale_price
			FROM products
			WHERE active = true AND sku = ANY($1)
		`, skus)
		if err != nil {
			return nil, err
		}
		productMap := make(map[string]domain.Product, len(skus))
		for productRows.Next() {
			var p domain.Product
			if err := productRows.Scan(&p.SKU, &p.Name, &p.CostPrice, &p.SalePrice); err != nil {
				_ = productRows.Close()
				return nil, err
			}
			productMap[p.SKU] = p
		}
		if err := productRows.Err(); err != nil {
			_ = productRows.Close()
			return nil, err
		}
		_ = productRows.Close()

		stockRows, err := pgTx.QueryContext(ctx, `
			SELECT sku, qty
			FROM outlet_stocks
			WHERE outlet_id = $1 AND sku = ANY($2)
			FOR UPDATE
		`, sale.OutletID, skus)
		if err != nil {
			return nil, err
		}
		stockMap := make(map[string]int, len(skus))
		for stockRows.Next() {
			var sku string
			var qty int
			if err := stockRows.Scan(&sku, &qty); err != nil {
				_ = stockRows.Close()
				return nil, err
			}
			stockMap[sku] = qty
		}
		if err := stockRows.Err(); err != nil {
			_ = stockRows.Close()
			return nil, err
		}
		_ = stockRows.Close()

		for _, line := range sale.Products {
			if line.Qty < 1 {
				return nil, store.ErrInvalidSale
			}
			product, exists := productMap[line.SKU]
			if !exists {
				return nil, fmt.Errorf("sku %s unavailable", line.SKU)
			}
			stockQty, exists := stockMap[line.SKU]
			if !exists || stockQty < line.Qty {
				return nil, store.ErrInsufficientStock
			}
			stockMap[line.SKU] = stockQty - line.Qty

			unitPrice := product.SalePrice
			if line.UnitPrice > 0 {
				unitPrice = line.UnitPrice
			}
			lineTotal := int64(line.Qty) * unitPrice

			_, err = pgTx.ExecContext(ctx, `
				UPDATE outlet_stocks
				SET qty = qty - $1, updated_at = now()
				WHERE outlet_id = $2 AND sku = $3
			`, line.Qty, sale.OutletID, line.SKU)
			if err != nil {
				return nil, err
			}

			productLines = append(productLines, domain.SaleProductLine{
				SKU:       line.SKU,
				Name:      product.Name,
				Qty:       line.Qty,
				UnitCost:  product.CostPrice,
				UnitPrice: unitPrice,
				LineTotal: lineTotal,
				Profit:    (unitPrice - product.CostPrice) * int64(line.Qty),
			})
			subtotal += lineTotal
		}
	}

	serviceLines := make([]domain.SaleServiceLine, 0, len(sale.Services))
	for _, line := range sale.Services {
		var svc domain.ServiceItem
		err := pgTx.QueryRowContext(ctx, `
			SELECT id, name, price
			FROM services
			WHERE id = $1 AND active = true
		`, line.ServiceID).Scan(&svc.ID, &svc.Name, &svc.Price)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("service %s unavailable", line.ServiceID)
			}
			return nil, err
		}

		pct := float64(0)
		err = pgTx.QueryRowContext(ctx, `
			SELECT percent
			FROM commission_settings
			WHERE username = $1
		`, line.CapsterUsername).Scan(&pct)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		serviceLines = append(serviceLines, domain.SaleServiceLine{
			ServiceID:         svc.ID,
			Name:              svc.Name,
			Price:             svc.Price,
			CapsterUsername:   line.CapsterUsername,
			CommissionPercent: pct,
			CommissionAmount:  int64(math.Round(float64(svc.Price) * pct / 100)),
		})
		subtotal += svc.Price
	}

	if sale.PaymentMethod == domain.PaymentCash {
		if sale.AmountPaid < subtotal {
			return nil, store.ErrInvalidSale
		}
		sale.ChangeAmount = sale.AmountPaid - subtotal
	} else {
		sale.AmountPaid = subtotal
		sale.ChangeAmount = 0
	}

	if sale.ID == "" {
		sale.ID = xid.New("sale")
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}
	if sale.Status == "" {
		sale.Status = domain.SaleStatusPaid
	}

	// The counter upsert takes a row lock, so concurrent sales on the same
	// outlet serialize here and each one sees a distinct sequence.
	saleDate := nowDateUTC(sale.CreatedAt)
	var seq int
	err = pgTx.QueryRowContext(ctx, `
		INSERT INTO receipt_counters (outlet_id, sale_date, last_seq)
		VALUES ($1,$2,1)
		ON CONFLICT (outlet_id, sale_date)
		DO UPDATE SET last_seq = receipt_counters.last_seq + 1
		RETURNING last_seq
	`, sale.OutletID, saleDate).Scan(&seq)
	if err != nil {
		return nil, err
	}
	sale.ReceiptNumber = fmt.Sprintf("%s/%s/%04d", outletCode, sale.CreatedAt.UTC().Format("060102"), seq)

	sale.Products = productLines
	sale.Services = serviceLines
	sale.Subtotal = subtotal

	_, err = pgTx.ExecContext(ctx, `
		INSERT INTO sales (
			id, outlet_id, cashier_username, type, payment_method, receipt_number,
			subtotal, amount_paid, change_amount, status, note,
			void_reason, voided_at, payment_proof_path, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`, sale.ID, sale.OutletID, sale.CashierUsername, sale.Type, sale.PaymentMethod, sale.ReceiptNumber,
		sale.Subtotal, sale.AmountPaid, sale.ChangeAmount, sale.Status, nullIfEmpty(sale.Note),
		nullIfEmpty(sale.VoidReason), nullTime(sale.VoidedAt), nullIfEmpty(sale.PaymentProofPath), sale.CreatedAt)
	if err != nil {
		return nil, err
	}

	for _, line := range sale.Products {
		_, err := pgTx.ExecContext(ctx, `
			INSERT INTO sale_products (sale_id, sku, name, qty, unit_cost, unit_price, line_total, profit)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`, sale.ID, line.SKU, line.Name, line.Qty, line.UnitCost, line.UnitPrice, line.LineTotal, line.Profit)
		if err != nil {
			return nil, err
		}
	}
	for _, line := range sale.Services {
		_, err := pgTx.ExecContext(ctx, `
			INSERT INTO sale_services (sale_id, service_id, name, price, capster_username, commission_percent, commission_amount)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, sale.ID, line.ServiceID, line.Name, line.Price, line.CapsterUsername, line.CommissionPercent, line.CommissionAmount)
		if err != nil {
			return nil, err
		}
	}

	if err := pgTx.Commit(); err != nil {
		return nil, err
	}

	return &sale, nil
}

func (s *Store) FindSaleByID(ctx context.Context, id string) (*domain.Sale, error) {
	var sale domain.Sale
	var note sql.NullString
	var voidReason sql.NullString
	var voidedAt sql.NullTime
	var proofPath sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT id, outlet_id, cashier_username, type, payment_method, receipt_number,
			subtotal, amount_paid, change_amount, status, note,
			void_reason, voided_at, payment_proof_path, created_at
		FROM sales
		WHERE id = $1
	`, id).Scan(
		&sale.ID,
		&sale.OutletID,
		&sale.CashierUsername,
		&sale.Type,
		&sale.PaymentMethod,
		&sale.ReceiptNumber,
		&sale.Subtotal,
		&sale.AmountPaid,
		&sale.ChangeAmount,
		&sale.Status,
		&note,
		&voidReason,
		&voidedAt,
		&proofPath,
		&sale.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if note.Valid {
		sale.Note = note.String
	}
	if voidReason.Valid {
		sale.VoidReason = voidReason.String
	}
	if voidedAt.Valid {
		at := voidedAt.Time.UTC()
		sale.VoidedAt = &at
	}
	if proofPath.Valid {
		sale.PaymentProofPath = proofPath.String
	}
	sale.CreatedAt = sale.CreatedAt.UTC()

	products, services, err := s.loadSaleLines(ctx, []string{sale.ID})
	if err != nil {
		return nil, err
	}
	sale.Products = products[sale.ID]
	sale.Services = services[sale.ID]

	return &sale, nil
}

func (s *Store) ListSales(ctx context.Context, outletID string, from time.Time, to time.Time, limit int) ([]domain.Sale, error) {
	if limit < 1 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, outlet_id, cashier_username, type, payment_method, receipt_number,
			subtotal, amount_paid, change_amount, status, note,
			void_reason, voided_at, payment_proof_path, created_at
		FROM sales
		WHERE ($1 = '' OR outlet_id = $1)
			AND created_at >= $2
			AND created_at < $3
		ORDER BY created_at DESC
		LIMIT $4
	`, outletID, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0, limit)
	ids := make([]string, 0, limit)
	for rows.Next() {
		var sale domain.Sale
		var note sql.NullString
		var voidReason sql.NullString
		var voidedAt sql.NullTime
		var proofPath sql.NullString
		if err := rows.Scan(
			&sale.ID,
			&sale.OutletID,
			&sale.CashierUsername,
			&sale.Type,
			&sale.PaymentMethod,
			&sale.ReceiptNumber,
			&sale.Subtotal,
			&sale.AmountPaid,
			&sale.ChangeAmount,
			&sale.Status,
			&note,
			&voidReason,
			&voidedAt,
			&proofPath,
			&sale.CreatedAt,
		); err != nil {
			return nil, err
		}
		if note.Valid {
			sale.Note = note.String
		}
		if voidReason.Valid {
			sale.VoidReason = voidReason.String
		}
		if voidedAt.Valid {
			at := voidedAt.Time.UTC()
			sale.VoidedAt = &at
		}
		if proofPath.Valid {
			sale.PaymentProofPath = proofPath.String
		}
		sale.CreatedAt = sale.CreatedAt.UTC()
		sales = append(sales, sale)
		ids = append(ids, sale.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return sales, nil
	}

	products, services, err := s.loadSaleLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range sales {
		sales[i].Products = products[sales[i].ID]
		sales[i].Services = services[sales[i].ID]
	}
	return sales, nil
}

func (s *Store) loadSaleLines(ctx context.Context, saleIDs []string) (map[string][]domain.SaleProductLine, map[string][]domain.SaleServiceLine, error) {
	products := make(map[string][]domain.SaleProductLine, len(saleIDs))
	services := make(map[string][]domain.SaleServiceLine, len(saleIDs))

	productRows, err := s.db.QueryContext(ctx, `
		SELECT sale_id, sku, name, qty, unit_cost, unit_price, line_total, profit
		FROM sale_products
		WHERE sale_id = ANY($1)
		ORDER BY id ASC
	`, saleIDs)
	if err != nil {
		return nil, nil, err
	}
	for productRows.Next() {
		var saleID string
		var line domain.SaleProductLine
		if err := productRows.Scan(&saleID, &line.SKU, &line.Name, &line.Qty, &line.UnitCost, &line.UnitPrice, &line.LineTotal, &line.Profit); err != nil {
			_ = productRows.Close()
			return nil, nil, err
		}
		products[saleID] = append(products[saleID], line)
	}
	if err := productRows.Err(); err != nil {
		_ = productRows.Close()
		return nil, nil, err
	}
	_ = productRows.Close()

	serviceRows, err := s.db.QueryContext(ctx, `
		SELECT sale_id, service_id, name, price, capster_username, commission_percent, commission_amount
		FROM sale_services
		WHERE sale_id = ANY($1)
		ORDER BY id ASC
	`, saleIDs)
	if err != nil {
		return nil, nil, err
	}
	for serviceRows.Next() {
		var saleID string
		var line domain.SaleServiceLine
		if err := serviceRows.Scan(&saleID, &line.ServiceID, &line.Name, &line.Price, &line.CapsterUsername, &line.CommissionPercent, &line.CommissionAmount); err != nil {
			_ = serviceRows.Close()
			return nil, nil, err
		}
		services[saleID] = append(services[saleID], line)
	}
	if err := serviceRows.Err(); err != nil {
		_ = serviceRows.Close()
		return nil, nil, err
	}
	_ = serviceRows.Close()

	return products, services, nil
}

func (s *Store) VoidSale(ctx context.Context, id string, reason string, at time.Time) (*domain.Sale, error) {
	pgTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = pgTx.Rollback() }()

	var sale domain.Sale
	err = pgTx.QueryRowContext(ctx, `
		SELECT id, outlet_id, status
		FROM sales
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&sale.ID, &sale.OutletID, &sale.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if sale.Status != domain.SaleStatusPaid {
		return nil, store.ErrInvalidSale
	}

	lineRows, err := pgTx.QueryContext(ctx, `
		SELECT sku, qty
		FROM sale_products
		WHERE sale_id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	lines := make([]domain.SaleProductLine, 0, 8)
	for lineRows.Next() {
		var line domain.SaleProductLine
		if err := lineRows.Scan(&line.SKU, &line.Qty); err != nil {
			_ = lineRows.Close()
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := lineRows.Err(); err != nil {
		_ = lineRows.Close()
		return nil, err
	}
	_ = lineRows.Close()

	_, err = pgTx.ExecContext(ctx, `
		UPDATE sales
		SET status = $2, void_reason = $3, voided_at = $4
		WHERE id = $1 AND status = $5
	`, id, domain.SaleStatusVoided, reason, at, domain.SaleStatusPaid)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		_, err := pgTx.ExecContext(ctx, `
			INSERT INTO outlet_stocks (outlet_id, sku, qty, updated_at)
			VALUES ($1,$2,$3,now())
			ON CONFLICT (outlet_id, sku)
			DO UPDATE SET qty = outlet_stocks.qty + EXCLUDED.qty, updated_at = now()
		`, sale.OutletID, line.SKU, line.Qty)
		if err != nil {
			return nil, err
		}
	}

	if err := pgTx.Commit(); err != nil {
		return nil, err
	}

	sale.Status = domain.SaleStatusVoided
	sale.VoidReason = reason
	sale.VoidedAt = &at
	return &sale, nil
}

func (s *Store) AttachPaymentProof(ctx context.Context, id string, path string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sales
		SET payment_proof_path = $2
		WHERE id = $1
	`, id, path)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) GetCommissionSetting(ctx context.Context, username string) (*domain.CommissionSetting, error) {
	var setting domain.CommissionSetting
	err := s.db.QueryRowContext(ctx, `
		SELECT username, percent, updated_at
		FROM commission_settings
		WHERE username = $1
	`, username).Scan(&setting.Username, &setting.Percent, &setting.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	setting.UpdatedAt = setting.UpdatedAt.UTC()
	return &setting, nil
}

func (s *Store) UpsertCommissionSetting(ctx context.Context, setting domain.CommissionSetting) error {
	if setting.Username == "" || setting.Percent < 0 || setting.Percent > 100 {
		return store.ErrInvalidSale
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO commission_settings (username, percent, updated_at)
		VALUES ($1,$2,now())
		ON CONFLICT (username)
		DO UPDATE SET percent = EXCLUDED.percent, updated_at = now()
	`, setting.Username, setting.Percent)
	return err
}

func (s *Store) ListCommissionSettings(ctx context.Context) ([]domain.CommissionSetting, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, percent, updated_at
		FROM commission_settings
		ORDER BY username ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make([]domain.CommissionSetting, 0, 16)
	for rows.Next() {
		var setting domain.CommissionSetting
		if err := rows.Scan(&setting.Username, &setting.Percent, &setting.UpdatedAt); err != nil {
			return nil, err
		}
		setting.UpdatedAt = setting.UpdatedAt.UTC()
		settings = append(settings, setting)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Store) GetSalarySetting(ctx context.Context, username string) (*domain.SalarySetting, error) {
	var setting domain.SalarySetting
	err := s.db.QueryRowContext(ctx, `
		SELECT username, base_monthly, daily_allowance, updated_at
		FROM salary_settings
		WHERE username = $1
	`, username).Scan(&setting.Username, &setting.BaseMonthly, &setting.DailyAllowance, &setting.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	setting.UpdatedAt = setting.UpdatedAt.UTC()
	return &setting, nil
}

func (s *Store) UpsertSalarySetting(ctx context.Context, setting domain.SalarySetting) error {
	if setting.Username == "" || setting.BaseMonthly < 0 || setting.DailyAllowance < 0 {
		return store.ErrInvalidSale
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO salary_settings (username, base_monthly, daily_allowance, updated_at)
		VALUES ($1,$2,$3,now())
		ON CONFLICT (username)
		DO UPDATE SET base_monthly = EXCLUDED.base_monthly, daily_allowance = EXCLUDED.daily_allowance, updated_at = now()
	`, setting.Username, setting.BaseMonthly, setting.DailyAllowance)
	return err
}

func (s *Store) CreateBonus(ctx context.Context, bonus domain.Bonus) (*domain.Bonus, error) {
	if bonus.Username == "" || bonus.Amount < 1 {
		return nil, store.ErrInvalidSale
	}
	if bonus.ID == "" {
		bonus.ID = xid.New("bonus")
	}
	if bonus.GivenAt.IsZero() {
		bonus.GivenAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bonuses (id, username, amount, note, given_at, created_by)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, bonus.ID, bonus.Username, bonus.Amount, bonus.Note, bonus.GivenAt, bonus.CreatedBy)
	if err != nil {
		return nil, err
	}
	created := bonus
	return &created, nil
}

func (s *Store) ListBonuses(ctx context.Context, username string, from time.Time, to time.Time) ([]domain.Bonus, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, amount, note, given_at, created_by
		FROM bonuses
		WHERE ($1 = '' OR username = $1)
			AND given_at >= $2
			AND given_at < $3
		ORDER BY given_at DESC
	`, username, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bonuses := make([]domain.Bonus, 0, 16)
	for rows.Next() {
		var bonus domain.Bonus
		if err := rows.Scan(&bonus.ID, &bonus.Username, &bonus.Amount, &bonus.Note, &bonus.GivenAt, &bonus.CreatedBy); err != nil {
			return nil, err
		}
		bonus.GivenAt = bonus.GivenAt.UTC()
		bonuses = append(bonuses, bonus)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bonuses, nil
}

func (s *Store) CreateDeduction(ctx context.Context, deduction domain.Deduction) (*domain.Deduction, error) {
	if deduction.Username == "" || deduction.Amount < 1 || deduction.Period == "" {
		return nil, store.ErrInvalidSale
	}
	if deduction.ID == "" {
		deduction.ID = xid.New("potongan")
	}
	if deduction.Kind == "" {
		deduction.Kind = domain.DeductionKindGeneral
	}
	if deduction.CreatedAt.IsZero() {
		deduction.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO deductions (id, username, amount, kind, period, note, advance_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, deduction.ID, deduction.Username, deduction.Amount, deduction.Kind, deduction.Period, deduction.Note, nullIfEmpty(deduction.AdvanceID), deduction.CreatedAt)
	if err != nil {
		return nil, err
	}
	created := deduction
	return &created, nil
}

func (s *Store) ListDeductions(ctx context.Context, username string, period string) ([]domain.Deduction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, amount, kind, period, note, advance_id, created_at
		FROM deductions
		WHERE ($1 = '' OR username = $1)
			AND ($2 = '' OR period = $2)
		ORDER BY created_at DESC
	`, username, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deductions := make([]domain.Deduction, 0, 16)
	for rows.Next() {
		var deduction domain.Deduction
		var advanceID sql.NullString
		if err := rows.Scan(&deduction.ID, &deduction.Username, &deduction.Amount, &deduction.Kind, &deduction.Period, &deduction.Note, &advanceID, &deduction.CreatedAt); err != nil {
			return nil, err
		}
		if advanceID.Valid {
			deduction.AdvanceID = advanceID.String
		}
		deduction.CreatedAt = deduction.CreatedAt.UTC()
		deductions = append(deductions, deduction)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return deductions, nil
}

func (s *Store) CreateCashAdvance(ctx context.Context, advance domain.CashAdvance) (*domain.CashAdvance, error) {
	if advance.Username == "" || advance.Amount < 1 || advance.TenorMonths < 1 {
		return nil, store.ErrInvalidSale
	}
	if advance.ID == "" {
		advance.ID = xid.New("kasbon")
	}
	if advance.CreatedAt.IsZero() {
		advance.CreatedAt = time.Now().UTC()
	}
	if advance.Status == "" {
		advance.Status = domain.AdvanceStatusActive
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cash_advances (
			id, username, amount, tenor_months, monthly_installment, repaid_amount,
			status, note, due_date, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,now())
	`, advance.ID, advance.Username, advance.Amount, advance.TenorMonths, advance.MonthlyInstallment,
		advance.RepaidAmount, advance.Status, advance.Note, advance.DueDate, advance.CreatedAt)
	if err != nil {
		return nil, err
	}
	created := advance
	return &created, nil
}

func (s *Store) GetCashAdvanceByID(ctx context.Context, id string) (*domain.CashAdvance, error) {
	var advance domain.CashAdvance
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, amount, tenor_months, monthly_installment, repaid_amount,
			status, note, due_date, created_at
		FROM cash_advances
		WHERE id = $1
	`, id).Scan(
		&advance.ID,
		&advance.Username,
		&advance.Amount,
		&advance.TenorMonths,
		&advance.MonthlyInstallment,
		&advance.RepaidAmount,
		&advance.Status,
		&advance.Note,
		&advance.DueDate,
		&advance.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	advance.DueDate = advance.DueDate.UTC()
	advance.CreatedAt = advance.CreatedAt.UTC()
	return &advance, nil
}

func (s *Store) ListCashAdvances(ctx context.Context, username string) ([]domain.CashAdvance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, amount, tenor_months, monthly_installment, repaid_amount,
			status, note, due_date, created_at
		FROM cash_advances
		WHERE ($1 = '' OR username = $1)
		ORDER BY created_at DESC
	`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	advances := make([]domain.CashAdvance, 0, 16)
	for rows.Next() {
		var advance domain.CashAdvance
		if err := rows.Scan(
			&advance.ID,
			&advance.Username,
			&advance.Amount,
			&advance.TenorMonths,
			&advance.MonthlyInstallment,
			&advance.RepaidAmount,
			&advance.Status,
			&advance.Note,
			&advance.DueDate,
			&advance.CreatedAt,
		); err != nil {
			return nil, err
		}
		advance.DueDate = advance.DueDate.UTC()
		advance.CreatedAt = advance.CreatedAt.UTC()
		advances = append(advances, advance)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return advances, nil
}

func (s *Store) UpdateCashAdvance(ctx context.Context, advance domain.CashAdvance) (*domain.CashAdvance, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE cash_advances
		SET repaid_amount = $2, status = $3, updated_at = now()
		WHERE id = $1
	`, advance.ID, advance.RepaidAmount, advance.Status)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := advance
	return &updated, nil
}

func (s *Store) CreateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	if expense.OutletID == "" || expense.Category == "" || expense.Amount < 1 {
		return nil, store.ErrInvalidSale
	}
	if expense.ID == "" {
		expense.ID = xid.New("exp")
	}
	if expense.SpentAt.IsZero() {
		expense.SpentAt = time.Now().UTC()
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, outlet_id, category, amount, note, proof_path, spent_at, created_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, expense.ID, expense.OutletID, expense.Category, expense.Amount, expense.Note,
		nullIfEmpty(expense.ProofPath), expense.SpentAt, expense.CreatedBy, expense.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	created := expense
	return &created, nil
}

func (s *Store) ListExpenses(ctx context.Context, outletID string, from time.Time, to time.Time, limit int) ([]domain.Expense, error) {
	if limit < 1 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, outlet_id, category, amount, note, proof_path, spent_at, created_by, created_at
		FROM expenses
		WHERE ($1 = '' OR outlet_id = $1)
			AND spent_at >= $2
			AND spent_at < $3
		ORDER BY spent_at DESC
		LIMIT $4
	`, outletID, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]domain.Expense, 0, limit)
	for rows.Next() {
		var expense domain.Expense
		var proofPath sql.NullString
		if err := rows.Scan(&expense.ID, &expense.OutletID, &expense.Category, &expense.Amount, &expense.Note, &proofPath, &expense.SpentAt, &expense.CreatedBy, &expense.CreatedAt); err != nil {
			return nil, err
		}
		if proofPath.Valid {
			expense.ProofPath = proofPath.String
		}
		expense.SpentAt = expense.SpentAt.UTC()
		expense.CreatedAt = expense.CreatedAt.UTC()
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) GetSalesReport(ctx context.Context, outletID string, from time.Time, to time.Time) (domain.SalesReport, error) {
	report := domain.SalesReport{
		OutletID:  outletID,
		ByPayment: make([]domain.SalesReportPayment, 0, 4),
		ByType:    make([]domain.SalesReportType, 0, 3),
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)::bigint, COALESCE(SUM(subtotal),0)::bigint
		FROM sales
		WHERE ($1 = '' OR outlet_id = $1)
			AND created_at >= $2
			AND created_at < $3
			AND status <> $4
	`, outletID, from, to, domain.SaleStatusVoided).Scan(&report.Transactions, &report.GrossSales)
	if err != nil {
		return report, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(sp.line_total),0)::bigint, COALESCE(SUM(sp.profit),0)::bigint
		FROM sale_products sp
		JOIN sales s ON s.id = sp.sale_id
		WHERE ($1 = '' OR s.outlet_id = $1)
			AND s.created_at >= $2
			AND s.created_at < $3
			AND s.status <> $4
	`, outletID, from, to, domain.SaleStatusVoided).Scan(&report.ProductRevenue, &report.ProductProfit)
	if err != nil {
		return report, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(ss.price),0)::bigint, COALESCE(SUM(ss.commission_amount),0)::bigint
		FROM sale_services ss
		JOIN sales s ON s.id = ss.sale_id
		WHERE ($1 = '' OR s.outlet_id = $1)
			AND s.created_at >= $2
			AND s.created_at < $3
			AND s.status <> $4
	`, outletID, from, to, domain.SaleStatusVoided).Scan(&report.ServiceRevenue, &report.CommissionTotal)
	if err != nil {
		return report, err
	}

	paymentRows, err := s.db.QueryContext(ctx, `
		SELECT payment_method, COUNT(*)::bigint, COALESCE(SUM(subtotal),0)::bigint
		FROM sales
		WHERE ($1 = '' OR outlet_id = $1)
			AND created_at >= $2
			AND created_at < $3
			AND status <> $4
		GROUP BY payment_method
		ORDER BY payment_method
	`, outletID, from, to, domain.SaleStatusVoided)
	if err != nil {
		return report, err
	}
	for paymentRows.Next() {
		var row domain.SalesReportPayment
		if err := paymentRows.Scan(&row.PaymentMethod, &row.Transactions, &row.Total); err != nil {
			_ = paymentRows.Close()
			return report, err
		}
		report.ByPayment = append(report.ByPayment, row)
	}
	if err := paymentRows.Err(); err != nil {
		_ = paymentRows.Close()
		return report, err
	}
	_ = paymentRows.Close()

	typeRows, err := s.db.QueryContext(ctx, `
		SELECT type, COUNT(*)::bigint, COALESCE(SUM(subtotal),0)::bigint
		FROM sales
		WHERE ($1 = '' OR outlet_id = $1)
			AND created_at >= $2
			AND created_at < $3
			AND status <> $4
		GROUP BY type
		ORDER BY type
	`, outletID, from, to, domain.SaleStatusVoided)
	if err != nil {
		return report, err
	}
	for typeRows.Next() {
		var row domain.SalesReportType
		if err := typeRows.Scan(&row.Type, &row.Transactions, &row.Total); err != nil {
			_ = typeRows.Close()
			return report, err
		}
		report.ByType = append(report.ByType, row)
	}
	if err := typeRows.Err(); err != nil {
		_ = typeRows.Close()
		return report, err
	}
	_ = typeRows.Close()

	return report, nil
}

func (s *Store) GetCommissionReport(ctx context.Context, from time.Time, to time.Time) (domain.CommissionReport, error) {
	report := domain.CommissionReport{Rows: make([]domain.CommissionReportRow, 0, 8)}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ss.capster_username, COUNT(*)::bigint, COALESCE(SUM(ss.commission_amount),0)::bigint
		FROM sale_services ss
		JOIN sales s ON s.id = ss.sale_id
		WHERE s.created_at >= $1
			AND s.created_at < $2
			AND s.status <> $3
		GROUP BY ss.capster_username
		ORDER BY ss.capster_username
	`, from, to, domain.SaleStatusVoided)
	if err != nil {
		return report, err
	}
	defer rows.Close()

	for rows.Next() {
		var row domain.CommissionReportRow
		if err := rows.Scan(&row.CapsterUsername, &row.Services, &row.CommissionTotal); err != nil {
			return report, err
		}
		report.Total += row.CommissionTotal
		report.Rows = append(report.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (s *Store) GetCommissionTotal(ctx context.Context, username string, from time.Time, to time.Time) (int64, int, error) {
	var total int64
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(ss.commission_amount),0)::bigint, COUNT(*)::int
		FROM sale_services ss
		JOIN sales s ON s.id = ss.sale_id
		WHERE ss.capster_username = $1
			AND s.created_at >= $2
			AND s.created_at < $3
			AND s.status <> $4
	`, username, from, to, domain.SaleStatusVoided).Scan(&total, &count)
	if err != nil {
		return 0, 0, err
	}
	return total, count, nil
}

func (s *Store) GetExpenseReport(ctx context.Context, outletID string, from time.Time, to time.Time) (domain.ExpenseReport, error) {
	report := domain.ExpenseReport{OutletID: outletID, Rows: make([]domain.ExpenseReportRow, 0, 8)}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(*)::bigint, COALESCE(SUM(amount),0)::bigint
		FROM expenses
		WHERE ($1 = '' OR outlet_id = $1)
			AND spent_at >= $2
			AND spent_at < $3
		GROUP BY category
		ORDER BY category
	`, outletID, from, to)
	if err != nil {
		return report, err
	}
	defer rows.Close()

	for rows.Next() {
		var row domain.ExpenseReportRow
		if err := rows.Scan(&row.Category, &row.Entries, &row.Total); err != nil {
			return report, err
		}
		report.Total += row.Total
		report.Rows = append(report.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (s *Store) GetBusinessProfile(ctx context.Context) (*domain.BusinessProfile, error) {
	var profile domain.BusinessProfile
	var logoPath sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT name, COALESCE(address,''), COALESCE(phone,''), COALESCE(receipt_footer,''), logo_path, updated_at
		FROM business_profile
		WHERE id = 1
	`).Scan(&profile.Name, &profile.Address, &profile.Phone, &profile.ReceiptFooter, &logoPath, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if logoPath.Valid {
		profile.LogoPath = logoPath.String
	}
	profile.UpdatedAt = profile.UpdatedAt.UTC()
	return &profile, nil
}

func (s *Store) UpdateBusinessProfile(ctx context.Context, profile domain.BusinessProfile) (*domain.BusinessProfile, error) {
	if profile.Name == "" {
		return nil, store.ErrInvalidSale
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO business_profile (id, name, address, phone, receipt_footer, logo_path, updated_at)
		VALUES (1,$1,$2,$3,$4,$5,$6)
		ON CONFLICT (id)
		DO UPDATE SET name = EXCLUDED.name, address = EXCLUDED.address, phone = EXCLUDED.phone,
			receipt_footer = EXCLUDED.receipt_footer, logo_path = EXCLUDED.logo_path, updated_at = EXCLUDED.updated_at
	`, profile.Name, nullIfEmpty(profile.Address), nullIfEmpty(profile.Phone), nullIfEmpty(profile.ReceiptFooter), nullIfEmpty(profile.LogoPath), profile.UpdatedAt)
	if err != nil {
		return nil, err
	}
	updated := profile
	return &updated, nil
}

func (s *Store) CreateAuditLog(ctx context.Context, entry domain.AuditLog) error {
	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (
			id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, entry.ID, entry.ActorUsername, entry.ActorRole, entry.Action, entry.EntityType, entry.EntityID, entry.Detail, entry.CreatedAt)
	return err
}

func (s *Store) ListAuditLogs(ctx context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error) {
	if limit < 1 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at
		FROM audit_logs
		WHERE created_at >= $1
			AND created_at < $2
		ORDER BY created_at DESC
		LIMIT $3
	`, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]domain.AuditLog, 0, limit)
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(&entry.ID, &entry.ActorUsername, &entry.ActorRole, &entry.Action, &entry.EntityType, &entry.EntityID, &entry.Detail, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.CreatedAt = entry.CreatedAt.UTC()
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	if user.Username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidSale
	}
	if user.Role == "" {
		user.Role = domain.RoleKasir
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_users (username, password, role, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,now())
	`, user.Username, user.Password, user.Role, user.Active, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrConflict
		}
		return err
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, username string) (*domain.UserAccount, error) {
	var user domain.UserAccount
	err := s.db.QueryRowContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM app_users
		WHERE username = $1
	`, strings.ToLower(strings.TrimSpace(username))).Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM app_users
		ORDER BY username ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 16)
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.CreatedAt = user.CreatedAt.UTC()
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidSale
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE app_users
		SET password = $2, updated_at = now()
		WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) SetUserActive(ctx context.Context, username string, active bool) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return store.ErrInvalidSale
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE app_users
		SET active = $2, updated_at = now()
		WHERE username = $1
	`, username, active)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func uniqueSKUs(lines []domain.SaleProductLine) []string {
	if len(lines) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if line.SKU == "" {
			continue
		}
		set[line.SKU] = struct{}{}
	}

	skus := make([]string, 0, len(set))
	for sku := range set {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	return skus
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func nowDateUTC(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), t.UTC().Month(), t.UTC().Day(), 0, 0, 0, 0, time.UTC)
}

func nullIfEmpty(val string) any {
	if val == "" {
		return nil
	}
	return val
}

func nullTime(val *time.Time) any {
	if val == nil {
		return nil
	}
	return *val
}
