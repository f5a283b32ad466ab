package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DICTAMEN_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FolioPadWidth != 6 {
		t.Fatalf("default pad width: %d", cfg.FolioPadWidth)
	}
	if cfg.Stores.Relation == "" || cfg.Stores.Clients == "" {
		t.Fatalf("default store paths missing: %+v", cfg.Stores)
	}
	if len(cfg.Evidence.Groups) != 0 {
		t.Fatalf("expected no evidence groups without a config file")
	}
}

func TestLoadTOML(t *testing.T) {
	tmp := t.TempDir()
	tomlPath := filepath.Join(tmp, "dictamen.toml")
	body := `
[stores]
relation = "/srv/datos/relacion.xlsx"

[[evidence.groups]]
name = "etiquetas"
bases = ["/srv/evidencia/etiquetas"]
recursive = true
`
	if err := os.WriteFile(tomlPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DICTAMEN_CONFIG", tomlPath)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Stores.Relation != "/srv/datos/relacion.xlsx" {
		t.Fatalf("relation path not taken from TOML: %q", cfg.Stores.Relation)
	}
	if cfg.Stores.Clients == "" {
		t.Fatal("unset store paths must keep defaults")
	}
	if len(cfg.Evidence.Groups) != 1 || !cfg.Evidence.Groups[0].Recursive {
		t.Fatalf("evidence groups: %+v", cfg.Evidence.Groups)
	}
}
