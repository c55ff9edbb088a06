package config

import (
	"testing"
	"time"
)

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", Name: "shopdesk", User: "u", Password: "p", SSLMode: "disable", Timezone: "Asia/Colombo"}
	want := "host=db user=u password=p dbname=shopdesk port=5432 sslmode=disable TimeZone=Asia/Colombo"
	if got := c.DSN(); got != want {
		t.Fatalf("DSN() = %q", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.lk, http://b.lk ,")
	cfg := Load()

	if cfg.App.Name != "shopdesk-api" {
		t.Errorf("App.Name = %q", cfg.App.Name)
	}
	if cfg.Billing.DefaultCreditDays != 30 || cfg.Billing.PhoneRegion != "LK" {
		t.Errorf("Billing = %+v", cfg.Billing)
	}
	if cfg.Redis.Enabled() {
		t.Errorf("redis should be disabled without REDIS_ADDR")
	}
	if cfg.Redis.CacheTTL != time.Minute {
		t.Errorf("CacheTTL = %v", cfg.Redis.CacheTTL)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "http://b.lk" {
		t.Errorf("AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestTimeLocation(t *testing.T) {
	c := AppConfig{Location: "Not/AZone"}
	if c.TimeLocation() != time.UTC {
		t.Fatalf("invalid zone should fall back to UTC")
	}
}
