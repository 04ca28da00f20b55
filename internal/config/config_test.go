package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "server:\n  port: \"8080\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("file value lost: %q", cfg.Server.Port)
	}
	if cfg.Storage.Driver != DriverMemory || cfg.Game.BalanceMode != BalanceLocal {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.TokenTTL() != 24*time.Hour || cfg.Game.RemoteTimeout != 10*time.Second {
		t.Fatalf("unexpected durations %v %v", cfg.TokenTTL(), cfg.Game.RemoteTimeout)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "storage:\n  driver: postgres\n")
	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Driver != DriverMongo || cfg.JWT.Secret != "s3cret" {
		t.Fatalf("env must override the file: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", "storage:\n  driver: sqlite\n")
	if _, err := Load(bad); err == nil {
		t.Fatalf("unknown driver must be rejected")
	}
	remote := writeFile(t, dir, "remote.yaml", "game:\n  balancemode: remote\n")
	if _, err := Load(remote); err == nil {
		t.Fatalf("remote mode without a base url must be rejected")
	}
}

func TestGameRulesInjectedPrizes(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.yaml", "lottery:\n  valera_cost: 7\n")
	cfg := &Config{Game: GameConfig{
		RulesFile:      rules,
		StudentsPrizes: []string{`{"name":"Бафф","students_change":2,"probability":"high"}`, "Простой приз"},
	}}
	r, err := cfg.GameRules()
	if err != nil {
		t.Fatal(err)
	}
	if r.Lottery.ValeraCost != 7 || r.Lottery.StudentsCost != 8 {
		t.Fatalf("rules file not merged over defaults: %+v", r.Lottery)
	}
	if len(r.Prizes.Students) != 2 || r.Prizes.Students[0].StudentsChange != 2 {
		t.Fatalf("injected prizes not applied: %+v", r.Prizes.Students)
	}
	if len(r.Prizes.Valera) == 0 {
		t.Fatalf("valera defaults must stay")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("VALERA_TEST_PATH", "")
	if got := GetEnv("VALERA_TEST_PATH", "config.yaml"); got != "config.yaml" {
		t.Fatalf("empty variable should fall back, got %q", got)
	}
	t.Setenv("VALERA_TEST_PATH", "/etc/valera.yaml")
	if got := GetEnv("VALERA_TEST_PATH", "config.yaml"); got != "/etc/valera.yaml" {
		t.Fatalf("want the variable, got %q", got)
	}
}
