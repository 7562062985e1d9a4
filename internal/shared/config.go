package shared

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/aggregate"
)

type Config struct {
	Database struct {
		Driver string `yaml:"driver"` // "sqlite" (default)
		DSN    string `yaml:"dsn"`    // "./revleak.db"
	} `yaml:"database"`

	Analysis struct {
		Source   string   `yaml:"source"`   // snapshot directory
		Currency string   `yaml:"currency"` // "USD"
		Workers  int      `yaml:"workers"`  // evaluation pool size; <=1 sequential
		Disabled []string `yaml:"disabled"` // use-case names to skip
	} `yaml:"analysis"`

	// Categories overrides the default category order when set.
	Categories []string `yaml:"categories"`

	Rules struct {
		// Assignments moves a use case into another declared category.
		Assignments map[string]string `yaml:"assignments"`
		Packs       []string          `yaml:"packs"` // declarative rule pack files
		Settings    struct {
			ZombieGraceDays      int     `yaml:"zombie_grace_days"`
			GhostOrderAgeDays    int     `yaml:"ghost_order_age_days"`
			TrialMinTermDays     int     `yaml:"trial_min_term_days"`
			CoTermWindowDays     int     `yaml:"co_term_window_days"`
			HugLowPct            float64 `yaml:"hug_low_pct"`
			HugHighPct           float64 `yaml:"hug_high_pct"`
			ApprovalThresholdPct float64 `yaml:"approval_threshold_pct"`
			TaxExposureRate      float64 `yaml:"tax_exposure_rate"`
			TrialExemptFamily    string  `yaml:"trial_exempt_family"`
		} `yaml:"settings"`
	} `yaml:"rules"`

	Thresholds []aggregate.Tier `yaml:"thresholds"`

	Reporting struct {
		OutDir string `yaml:"out_dir"` // "./reports"
	} `yaml:"reporting"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`
}

func DefaultConfig() Config {
	var c Config
	c.Database.Driver = "sqlite"
	c.Database.DSN = "./revleak.db"
	c.Analysis.Currency = "USD"
	c.Analysis.Workers = 1
	c.Reporting.OutDir = "./reports"
	c.Logging.Format = "json"
	c.Logging.Level = "info"
	return c
}

func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}
	// Env overrides (simple, explicit)
	if v := os.Getenv("REVLEAK_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("REVLEAK_SOURCE"); v != "" {
		c.Analysis.Source = v
	}
	if v := os.Getenv("REVLEAK_CURRENCY"); v != "" {
		c.Analysis.Currency = v
	}
	if v := os.Getenv("REVLEAK_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Analysis.Workers = n
		}
	}
	if v := os.Getenv("REVLEAK_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("REVLEAK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("REVLEAK_OUT_DIR"); v != "" {
		c.Reporting.OutDir = v
	}
	return c, nil
}
