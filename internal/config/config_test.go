package config

import "testing"

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("OWNER_PIN", "")

	cfg := Load()
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
	if cfg.OwnerPIN != "" {
		t.Fatalf("expected empty OWNER_PIN when unset, got %q", cfg.OwnerPIN)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("PRICELIST_TTL_SECONDS", "")
	t.Setenv("DEFAULT_OUTLET_ID", "")
	t.Setenv("UPLOAD_DIR", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.PricelistTTLSeconds != 300 {
		t.Fatalf("expected default pricelist ttl 300, got %d", cfg.PricelistTTLSeconds)
	}
	if cfg.DefaultOutletID != "outlet-main" {
		t.Fatalf("expected default outlet id outlet-main, got %q", cfg.DefaultOutletID)
	}
	if cfg.UploadDir != "uploads" {
		t.Fatalf("expected default upload dir uploads, got %q", cfg.UploadDir)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("expected address :8080, got %q", cfg.Address())
	}
}
