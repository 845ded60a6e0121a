package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"REDIS_URL":               "redis://localhost:6379/0",
		"APP_ENV":                 "",
		"PORT":                    "",
		"TAX_RATE":                "",
		"SHIPPING_FLAT_FEE":       "",
		"FREE_SHIPPING_THRESHOLD": "",
		"PROMO_CODE":              "",
		"PROMO_RATE":              "",
		"RATE_LIMIT":              "",
		"BODY_LIMIT_BYTES":        "",
		"CHANGE_CHANNEL":          "",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppEnv != "development" || cfg.Port != "8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TaxRate != 0.18 || cfg.FlatShippingFee != 5.99 || cfg.FreeShippingThreshold != 50.00 {
		t.Fatalf("unexpected pricing defaults: %+v", cfg)
	}
	if cfg.PromoCode != "NUTRI20" || cfg.PromoRate != 0.20 {
		t.Fatalf("unexpected promo defaults: %+v", cfg)
	}
	if cfg.RateLimit != "120-M" || cfg.BodyLimitBytes != 1<<20 {
		t.Fatalf("unexpected guard defaults: %+v", cfg)
	}
}

func TestLoadRequiresRedisURL(t *testing.T) {
	if _, err := LoadForTests(map[string]string{"REDIS_URL": ""}); err == nil {
		t.Fatal("expected an error when REDIS_URL is missing")
	}
}

func TestLoadRejectsBadRates(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"REDIS_URL": "redis://localhost:6379/0",
		"TAX_RATE":  "1.5",
	})
	if err == nil {
		t.Fatal("expected an error for a tax rate above 1")
	}
}

func TestHTTPAddr(t *testing.T) {
	cfg := &Config{Port: "9000"}
	if cfg.HTTPAddr() != ":9000" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr())
	}
	cfg.Port = ":7070"
	if cfg.HTTPAddr() != ":7070" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr())
	}
}
