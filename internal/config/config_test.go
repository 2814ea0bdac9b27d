package config

import (
	"path/filepath"
	"testing"

	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/store"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("API_ID", "12345")
	t.Setenv("API_HASH", "abcdef0123456789")
	t.Setenv("BOT_TOKEN", "123456:ABC-DEF")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADMIN_ID", "")
	t.Setenv("PORT", "")
	t.Setenv("RENDER_DEPLOYMENT", "")
	t.Setenv("STAT_CHANNEL", "")
	t.Setenv("DISPLAY_CHANNEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 5000 {
		t.Errorf("Port = %d, want 5000 (local default)", cfg.Port)
	}
	if cfg.DisplayChannel != DefaultDisplayChannel {
		t.Errorf("DisplayChannel = %d, want %d", cfg.DisplayChannel, DefaultDisplayChannel)
	}
	if cfg.HasAdmin() {
		t.Error("HasAdmin = true without ADMIN_ID")
	}
}

func TestLoadHostedDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("RENDER_DEPLOYMENT", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.RenderDeployment {
		t.Error("RenderDeployment = false")
	}
	if cfg.Port != 10000 {
		t.Errorf("Port = %d, want 10000 (hosted default)", cfg.Port)
	}
}

func TestLoadExplicitValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADMIN_ID", "987654321")
	t.Setenv("PORT", "10000")
	t.Setenv("STAT_CHANNEL", "-1001111111111")
	t.Setenv("DISPLAY_CHANNEL", "-1002222222222")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AdminID != 987654321 {
		t.Errorf("AdminID = %d", cfg.AdminID)
	}
	if cfg.StatChannel != -1001111111111 {
		t.Errorf("StatChannel = %d", cfg.StatChannel)
	}
	if cfg.DisplayChannel != -1002222222222 {
		t.Errorf("DisplayChannel = %d", cfg.DisplayChannel)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing api id", map[string]string{"API_ID": "", "API_HASH": "h", "BOT_TOKEN": "t"}},
		{"zero api id", map[string]string{"API_ID": "0", "API_HASH": "h", "BOT_TOKEN": "t"}},
		{"missing api hash", map[string]string{"API_ID": "1", "API_HASH": "", "BOT_TOKEN": "t"}},
		{"missing bot token", map[string]string{"API_ID": "1", "API_HASH": "h", "BOT_TOKEN": ""}},
		{"garbage admin id", map[string]string{"API_ID": "1", "API_HASH": "h", "BOT_TOKEN": "t", "ADMIN_ID": "abc"}},
		{"garbage port", map[string]string{"API_ID": "1", "API_HASH": "h", "BOT_TOKEN": "t", "PORT": "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRuntimePrecedenceJSONFirst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bot_config.json")

	db, err := store.Open(filepath.Join(dir, "db.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	db.Set("stat_channel", "-200")

	cfg := &Config{StatChannel: -300, DisplayChannel: -400}

	// First load: no JSON, store wins over env
	r, err := LoadRuntime(path, db, cfg)
	if err != nil {
		t.Fatalf("LoadRuntime: %v", err)
	}
	if r.StatChannel() != -200 {
		t.Errorf("StatChannel = %d, want -200 (store)", r.StatChannel())
	}
	if r.DisplayChannel() != -400 {
		t.Errorf("DisplayChannel = %d, want -400 (env default)", r.DisplayChannel())
	}

	// Persist a change; JSON now exists and wins
	if err := r.SetStatChannel(-100); err != nil {
		t.Fatalf("SetStatChannel: %v", err)
	}
	if !r.Saved() {
		t.Error("Saved = false after write")
	}

	r2, err := LoadRuntime(path, db, cfg)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if r2.StatChannel() != -100 {
		t.Errorf("StatChannel after reload = %d, want -100 (JSON)", r2.StatChannel())
	}
}

func TestRuntimeSaveWritesStore(t *testing.T) {
	dir := t.TempDir()
	db, err := store.Open(filepath.Join(dir, "db.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	r, err := LoadRuntime(filepath.Join(dir, "bot_config.json"), db, &Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.SetChannels(-11, -22); err != nil {
		t.Fatalf("SetChannels: %v", err)
	}

	if v, _ := db.Get("stat_channel"); v != "-11" {
		t.Errorf("store stat_channel = %q, want -11", v)
	}
	if v, _ := db.Get("display_channel"); v != "-22" {
		t.Errorf("store display_channel = %q, want -22", v)
	}
}
