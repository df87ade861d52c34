package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"
)

func TestVoidSaleRestocksInventory(t *testing.T) {
	databaseURL := os.Getenv("CUKURAJA_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set CUKURAJA_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	stamp := time.Now().UnixNano()
	outletID := fmt.Sprintf("outlet-void-it-%d", stamp)
	sku := fmt.Sprintf("SKU-VOID-IT-%d", stamp)
	saleID := fmt.Sprintf("sale-void-it-%d", stamp)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM sale_products WHERE sale_id = $1`, saleID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, saleID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM outlet_stocks WHERE outlet_id = $1 AND sku = $2`, outletID, sku)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM products WHERE sku = $1`, sku)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM outlets WHERE id = $1`, outletID)
	})

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO outlets (id, code, name, active, created_at, updated_at)
		VALUES ($1, '99', 'Outlet Void IT', true, now(), now())
	`, outletID); err != nil {
		t.Fatalf("insert outlet: %v", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO products (sku, name, category, cost_price, sale_price, active, created_at, updated_at)
		VALUES ($1, 'Produk Void IT', 'supplies', 9000, 15000, true, now(), now())
	`, sku); err != nil {
		t.Fatalf("insert product: %v", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO outlet_stocks (outlet_id, sku, qty, updated_at)
		VALUES ($1, $2, 10, now())
		ON CONFLICT (outlet_id, sku)
		DO UPDATE SET qty = 10, updated_at = now()
	`, outletID, sku); err != nil {
		t.Fatalf("seed stock: %v", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO sales (
			id, outlet_id, cashier_username, type, payment_method, receipt_number,
			subtotal, amount_paid, change_amount, status, created_at
		)
		VALUES (
			$1, $2, 'kasir', 'product', 'cash', '99/000101/0001',
			30000, 30000, 0, 'paid', now()
		)
	`, saleID, outletID); err != nil {
		t.Fatalf("insert sale: %v", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO sale_products (sale_id, sku, name, qty, unit_cost, unit_price, line_total, profit)
		VALUES ($1, $2, 'Produk Void IT', 2, 9000, 15000, 30000, 12000)
	`, saleID, sku); err != nil {
		t.Fatalf("insert sale product: %v", err)
	}

	at := time.Now().UTC()
	if _, err := s.VoidSale(ctx, saleID, "integration test void", at); err != nil {
		t.Fatalf("void sale: %v", err)
	}

	var qty int
	if err := s.db.QueryRowContext(ctx, `
		SELECT qty
		FROM outlet_stocks
		WHERE outlet_id = $1 AND sku = $2
	`, outletID, sku).Scan(&qty); err != nil {
		t.Fatalf("query stock: %v", err)
	}
	if qty != 12 {
		t.Fatalf("expected stock 12 after void restock, got %d", qty)
	}

	var status string
	if err := s.db.QueryRowContext(ctx, `
		SELECT status
		FROM sales
		WHERE id = $1
	`, saleID).Scan(&status); err != nil {
		t.Fatalf("query sale status: %v", err)
	}
	if status != "voided" {
		t.Fatalf("expected sale status voided, got %s", status)
	}
}
