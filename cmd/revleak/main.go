package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/aggregate"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/api"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/narrative"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/reporting"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/rules"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/rulesdsl"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/security"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/shared"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/source"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "analyze":
		analyzeCmd(os.Args[2:])
	case "report":
		reportCmd(os.Args[2:])
	case "diff":
		diffCmd(os.Args[2:])
	case "serve":
		serveCmd(os.Args[2:])
	case "adduser":
		addUserCmd(os.Args[2:])
	case "version":
		fmt.Println("revleak report model:", report.Version)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `revleak – Revenue Integrity Rule Engine

Usage:
  revleak analyze --path <snapshot-dir> --out <reports-dir> [--db ./revleak.db] [--config ./configs/revleak.yaml]
  revleak report  --run <run-id>        --out <reports-dir> [--db ./revleak.db] [--config ./configs/revleak.yaml]
  revleak diff    --base <run-id> --head <run-id> --out <reports-dir> [--db ./revleak.db] [--config ./configs/revleak.yaml]
  revleak serve   [--addr :8080] [--db ./revleak.db] [--config ./configs/revleak.yaml]
  revleak adduser --username <name> --password <pw> [--role viewer|admin] [--db ./revleak.db]
  revleak version
`)
}

// buildRegistry applies the configured rule settings and assembles the
// registry, built-ins first, then any declarative packs.
func buildRegistry(cfg shared.Config) (*rules.Registry, error) {
	s := rules.Settings{
		ZombieGraceDays:      cfg.Rules.Settings.ZombieGraceDays,
		GhostOrderAgeDays:    cfg.Rules.Settings.GhostOrderAgeDays,
		TrialMinTermDays:     cfg.Rules.Settings.TrialMinTermDays,
		CoTermWindowDays:     cfg.Rules.Settings.CoTermWindowDays,
		HugLowPct:            cfg.Rules.Settings.HugLowPct,
		HugHighPct:           cfg.Rules.Settings.HugHighPct,
		ApprovalThresholdPct: cfg.Rules.Settings.ApprovalThresholdPct,
		TaxExposureRate:      cfg.Rules.Settings.TaxExposureRate,
		TrialExemptFamily:    cfg.Rules.Settings.TrialExemptFamily,
		Workers:              cfg.Analysis.Workers,
	}
	rules.SetSettings(s)

	disabled := map[string]bool{}
	for _, name := range cfg.Analysis.Disabled {
		disabled[name] = true
	}
	reg, err := rules.BuildRegistry(rules.RegistryConfig{
		Categories:  cfg.Categories,
		Assignments: cfg.Rules.Assignments,
		Disabled:    disabled,
	})
	if err != nil {
		return nil, err
	}
	for _, pack := range cfg.Rules.Packs {
		n, err := rulesdsl.LoadAndRegister(pack, reg)
		if err != nil {
			return nil, fmt.Errorf("pack %s: %w", pack, err)
		}
		slog.Info("rule pack loaded", "pack", pack, "rules", n)
	}
	return reg, nil
}

func analyzeCmd(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	inPath := fs.String("path", "", "Path to snapshot directory")
	outDir := fs.String("out", "", "Output directory for reports")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	// precedence: flags > config > defaults
	if *inPath == "" {
		*inPath = cfg.Analysis.Source
	}
	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "analyze: --path (or analysis.source in config) is required")
		os.Exit(2)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "analyze: cannot create out dir:", err)
		os.Exit(1)
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		slog.Error("rule registry error", "err", err)
		os.Exit(1)
	}

	snap, diags, err := source.Load(*inPath)
	if err != nil {
		slog.Error("snapshot load error", "err", err)
		os.Exit(1)
	}
	if len(diags.Warnings) > 0 {
		slog.Warn("snapshot warnings", "warnings", diags.Warnings)
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		slog.Error("db schema error", "err", err)
		os.Exit(1)
	}

	results, err := rules.Evaluate(context.Background(), snap.Store, reg)
	if err != nil {
		slog.Error("evaluation error", "err", err)
		os.Exit(1)
	}

	if waivers, werr := db.ListWaivers(true); werr == nil && len(waivers) > 0 {
		var n int
		results, n = rules.ApplyWaivers(results, waivers)
		if n > 0 {
			slog.Info("waivers applied", "count", n)
		}
	}

	exec, err := aggregate.Aggregate(results, reg.Categories(), cfg.Thresholds)
	if err != nil {
		slog.Error("aggregation error", "err", err)
		os.Exit(1)
	}

	currency := cfg.Analysis.Currency
	if snap.Currency != "" {
		currency = snap.Currency
	}
	run := report.Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Source:    snap.Source,
		Currency:  currency,
		AsOf:      snap.Store.AsOf(),
		Version:   report.Version,
		Results:   results,
		Executive: &exec,
	}

	if err := db.SaveRun(&run); err != nil {
		slog.Error("db save run error", "err", err)
		os.Exit(1)
	}

	jsonPath, _ := reporting.WriteJSON(run.ID, *outDir, &run)
	htmlPath, _ := reporting.WriteHTML(run.ID, *outDir, &run, narrative.Template{})
	slog.Info("analyze complete",
		"run", run.ID,
		"leakage", exec.TotalImpact.String(),
		"json", jsonPath,
		"html", htmlPath,
		"db", filepath.Clean(*dbPath),
	)
	fmt.Printf("Analyze OK\n  Run: %s\n  Leakage: %s %s\n  JSON: %s\n  HTML: %s\n  DB: %s\n",
		run.ID, exec.TotalImpact.StringFixed(2), currency, jsonPath, htmlPath, filepath.Clean(*dbPath))
}

func reportCmd(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	runID := fs.String("run", "", "Run ID")
	outDir := fs.String("out", "", "Output directory")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *runID == "" {
		fmt.Fprintln(os.Stderr, "report: --run is required")
		os.Exit(2)
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	run, err := db.LoadRun(*runID)
	if err != nil {
		slog.Error("load run error", "err", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		slog.Error("cannot create out dir", "err", err)
		os.Exit(1)
	}
	jsonPath, _ := reporting.WriteJSON(run.ID, *outDir, &run)
	htmlPath, _ := reporting.WriteHTML(run.ID, *outDir, &run, narrative.Template{})
	fmt.Printf("Report OK\n  Run: %s\n  JSON: %s\n  HTML: %s\n", run.ID, jsonPath, htmlPath)
}

func diffCmd(args []string) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	base := fs.String("base", "", "Base run ID")
	head := fs.String("head", "", "Head run ID")
	outDir := fs.String("out", "", "Output directory")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *base == "" || *head == "" {
		fmt.Fprintln(os.Stderr, "diff: --base and --head are required")
		os.Exit(2)
	}
	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	br, err := db.LoadRun(*base)
	if err != nil {
		slog.Error("load base run error", "err", err)
		os.Exit(1)
	}
	hr, err := db.LoadRun(*head)
	if err != nil {
		slog.Error("load head run error", "err", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		slog.Error("cannot create out dir", "err", err)
		os.Exit(1)
	}
	path, _ := reporting.WriteDiffJSON(*base, *head, *outDir, &br, &hr)
	fmt.Printf("Diff OK\n  %s\n", path)
}

func serveCmd(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	addr := fs.String("addr", ":8080", "Listen address")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		slog.Error("rule registry error", "err", err)
		os.Exit(1)
	}
	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		slog.Error("db schema error", "err", err)
		os.Exit(1)
	}

	srv := &api.Server{
		DB:              db,
		UserStore:       db,
		Registry:        reg,
		Logger:          logger,
		SessionDuration: 12 * time.Hour,
	}
	slog.Info("serving", "addr", *addr, "db", filepath.Clean(*dbPath))
	if err := http.ListenAndServe(*addr, srv.Routes()); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}

func addUserCmd(args []string) {
	fs := flag.NewFlagSet("adduser", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	username := fs.String("username", "", "Username")
	password := fs.String("password", "", "Password")
	role := fs.String("role", "viewer", "Role (viewer|admin)")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "adduser: --username and --password are required")
		os.Exit(2)
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		slog.Error("db schema error", "err", err)
		os.Exit(1)
	}

	hash, err := security.HashPassword(*password)
	if err != nil {
		slog.Error("hash error", "err", err)
		os.Exit(1)
	}
	id, err := db.CreateUser(*username, hash, *role)
	if err != nil {
		slog.Error("create user error", "err", err)
		os.Exit(1)
	}
	fmt.Printf("User created\n  ID: %d\n  Username: %s\n  Role: %s\n", id, *username, *role)
}
