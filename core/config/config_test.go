package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeDefaultsToLongpoll(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "t"}}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
}

func TestNormalizeAcceptsPollingAlias(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "t", RunMode: " Polling "}}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q", cfg.Telegram.RunMode)
	}
}

func TestNormalizeRejectsInvalidInput(t *testing.T) {
	cases := map[string]*Config{
		"missing token":     {},
		"unknown run mode":  {Telegram: TelegramConfig{Token: "t", RunMode: "smoke"}},
		"webhook no url":    {Telegram: TelegramConfig{Token: "t", RunMode: RunModeWebhook}},
		"negative admin id": {Telegram: TelegramConfig{Token: "t", AdminIDs: []int64{-5}}},
		"bad exclusion":     {Telegram: TelegramConfig{Token: "t"}, RateLimit: RateLimitConfig{ExcludeUpdates: []string{"photo"}}},
	}
	for name, cfg := range cases {
		if err := Normalize(cfg); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := "telegram:\n  token: from-file\n  admin_ids: [1]\nrate_limit:\n  exclude_updates: [\"Callback\"]\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BOT_TOKEN", "from-env")
	t.Setenv("ADMIN_IDS", "10,20")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Errorf("token = %q, want env override", cfg.Telegram.Token)
	}
	if len(cfg.Telegram.AdminIDs) != 2 || cfg.Telegram.AdminIDs[1] != 20 {
		t.Errorf("admin ids = %v", cfg.Telegram.AdminIDs)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != UpdateCallback {
		t.Errorf("exclusions not normalized: %v", cfg.RateLimit.ExcludeUpdates)
	}
}

func TestNormalizeWebhook(t *testing.T) {
	cfg := &Config{
		Telegram: TelegramConfig{Token: "t", RunMode: "WEBHOOK"},
		Webhook:  WebhookConfig{URL: "https://bot.example.org/hook", Listen: "0.0.0.0", Port: 8443},
	}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeWebhook {
		t.Fatalf("run mode = %q", cfg.Telegram.RunMode)
	}

	cfg.Webhook.Port = 0
	if err := Normalize(cfg); err == nil {
		t.Fatal("webhook without port must fail")
	}

	// Webhook settings are ignored in polling mode.
	cfg.Telegram.RunMode = RunModeLongpoll
	if err := Normalize(cfg); err != nil {
		t.Fatalf("longpoll with partial webhook: %v", err)
	}
}

func TestNormalizeDropsBlankExclusions(t *testing.T) {
	cfg := &Config{
		Telegram:  TelegramConfig{Token: "t"},
		RateLimit: RateLimitConfig{ExcludeUpdates: []string{" ", "Message", ""}},
	}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(cfg.RateLimit.ExcludeUpdates) != 1 || cfg.RateLimit.ExcludeUpdates[0] != UpdateMessage {
		t.Fatalf("exclusions = %v", cfg.RateLimit.ExcludeUpdates)
	}
}
