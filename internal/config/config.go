package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// StoresConfig names the on-disk location of every input store. A path
// that does not exist is not an error; the loader degrades to empty.
type StoresConfig struct {
	Clients      string `toml:"clients"`
	Signatures   string `toml:"signatures"`
	Norms        string `toml:"norms"`
	Relation     string `toml:"relation"`
	Visits       string `toml:"visits"`
	SnapshotsDir string `toml:"snapshots_dir"`
	DetailsDir   string `toml:"details_dir"`
}

// EvidenceGroup is one configured set of base directories. Recursive is
// a per-group property, not a runtime choice.
type EvidenceGroup struct {
	Name      string   `toml:"name"`
	Bases     []string `toml:"bases"`
	Recursive bool     `toml:"recursive"`
}

type EvidenceConfig struct {
	Groups []EvidenceGroup `toml:"groups"`
}

type fileConfig struct {
	Stores   StoresConfig   `toml:"stores"`
	Evidence EvidenceConfig `toml:"evidence"`
}

type Config struct {
	DBPath           string
	OutputDir        string
	FolioCounterPath string
	FolioPadWidth    int

	LogLevel  string
	LogFormat string

	Stores   StoresConfig
	Evidence EvidenceConfig
}

// Load reads the env (.env honored) and the TOML stores file pointed at
// by DICTAMEN_CONFIG. A missing TOML file falls back to the default
// store layout under the data directory, same permissive policy as the
// stores themselves.
func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}
	dataDir := getEnv("DATA_DIR", filepath.Join(cwd, "data"))

	cfg := Config{
		DBPath:           getEnv("DB_PATH", filepath.Join(dataDir, "dictamen.db")),
		OutputDir:        getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		FolioCounterPath: getEnv("FOLIO_COUNTER_PATH", filepath.Join(dataDir, "folio.seq")),
		FolioPadWidth:    getEnvInt("FOLIO_PAD_WIDTH", 6),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		Stores: StoresConfig{
			Clients:      filepath.Join(dataDir, "clientes.xlsx"),
			Signatures:   filepath.Join(dataDir, "firmas.xlsx"),
			Norms:        filepath.Join(dataDir, "normas.xlsx"),
			Relation:     filepath.Join(dataDir, "relacion.xlsx"),
			Visits:       filepath.Join(dataDir, "visitas.xlsx"),
			SnapshotsDir: filepath.Join(dataDir, "respaldos"),
			DetailsDir:   filepath.Join(dataDir, "solicitudes"),
		},
	}

	tomlPath := getEnv("DICTAMEN_CONFIG", filepath.Join(cwd, "dictamen.toml"))
	if raw, err := os.ReadFile(tomlPath); err == nil {
		var fc fileConfig
		if err := toml.Unmarshal(raw, &fc); err != nil {
			return Config{}, err
		}
		mergeStores(&cfg.Stores, fc.Stores)
		cfg.Evidence = fc.Evidence
	}

	if cfg.FolioPadWidth <= 0 {
		cfg.FolioPadWidth = 6
	}

	return cfg, nil
}

func mergeStores(dst *StoresConfig, src StoresConfig) {
	if src.Clients != "" {
		dst.Clients = src.Clients
	}
	if src.Signatures != "" {
		dst.Signatures = src.Signatures
	}
	if src.Norms != "" {
		dst.Norms = src.Norms
	}
	if src.Relation != "" {
		dst.Relation = src.Relation
	}
	if src.Visits != "" {
		dst.Visits = src.Visits
	}
	if src.SnapshotsDir != "" {
		dst.SnapshotsDir = src.SnapshotsDir
	}
	if src.DetailsDir != "" {
		dst.DetailsDir = src.DetailsDir
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
