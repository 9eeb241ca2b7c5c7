package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Nash0810/docktor/internal/api"
	"github.com/Nash0810/docktor/internal/benchmark"
	"github.com/Nash0810/docktor/internal/hub"
	"github.com/Nash0810/docktor/internal/ir"
	"github.com/Nash0810/docktor/internal/optimizer"
	"github.com/Nash0810/docktor/internal/parser"
	"github.com/Nash0810/docktor/internal/reporting"
	"github.com/Nash0810/docktor/internal/rules"
	"github.com/Nash0810/docktor/internal/rulesdsl"
	"github.com/Nash0810/docktor/internal/security"
	"github.com/Nash0810/docktor/internal/shared"
	"github.com/Nash0810/docktor/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "lint":
		lintCmd(os.Args[2:])
	case "optimize":
		optimizeCmd(os.Args[2:])
	case "benchmark":
		benchmarkCmd(os.Args[2:])
	case "history":
		historyCmd(os.Args[2:])
	case "diff":
		diffCmd(os.Args[2:])
	case "serve":
		serveCmd(os.Args[2:])
	case "user-add":
		userAddCmd(os.Args[2:])
	case "version":
		fmt.Println("docktor IR:", ir.Version)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `docktor - Dockerfile analysis and optimization

Usage:
  docktor lint      --file <Dockerfile> [--format text|json] [--explain] [--min-severity info] [--no-save] [--out <dir>] [--db ./docktor.db] [--config ./configs/docktor.yaml]
  docktor optimize  --file <Dockerfile> [-o <path>] [--config ...]
  docktor benchmark --file <Dockerfile> --tag <image:tag> [--quiet]
  docktor history   [--limit 20] [--db ./docktor.db]
  docktor diff      --base <run-id> --head <run-id> [--out <dir>] [--db ./docktor.db]
  docktor serve     [--addr :8080] [--db ./docktor.db]
  docktor user-add  --username <u> --password <p> [--role viewer] [--db ./docktor.db]
  docktor version
`)
}

// setupRules applies settings, loads configured rule packs and, when
// enabled, attaches the registry-backed rule.
func setupRules(cfg shared.Config) {
	rules.SetSettings(rules.Settings{
		SeverityThreshold: cfg.Rules.SeverityThreshold,
		Disabled:          rules.DisabledSet(cfg.Rules.Disabled),
	})
	for _, pack := range cfg.Rules.Packs {
		n, err := rulesdsl.LoadAndRegister(pack)
		if err != nil {
			slog.Error("rule pack load failed", "pack", pack, "err", err)
			os.Exit(2)
		}
		slog.Debug("rule pack loaded", "pack", pack, "rules", n)
	}
	if cfg.Rules.Registry.Enabled {
		client := hub.New(cfg.Rules.Registry.Timeout, cfg.Rules.Registry.CacheSize)
		rules.Register(rules.NewerTagRule(client))
	}
}

func lintCmd(args []string) {
	fs := flag.NewFlagSet("lint", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	file := fs.String("file", "Dockerfile", "Path to the Dockerfile")
	format := fs.String("format", "", "Output format: text|json")
	explain := fs.Bool("explain", false, "Show detailed explanations for each issue")
	minSeverity := fs.String("min-severity", "", "Lowest severity to report: info|warning|error")
	noSave := fs.Bool("no-save", false, "Do not persist this run")
	outDir := fs.String("out", "", "Output directory for reports")
	dbPath := fs.String("db", "", "SQLite database path")
	registryCheck := fs.Bool("registry-check", false, "Also query the registry for newer base image tags")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	// precedence: flags > env/config > defaults
	if *format == "" {
		*format = cfg.Reporting.Format
	}
	if *minSeverity != "" {
		cfg.Rules.SeverityThreshold = *minSeverity
	}
	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *registryCheck {
		cfg.Rules.Registry.Enabled = true
	}
	setupRules(cfg)

	ins, err := parser.ParseFile(*file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lint: cannot read Dockerfile:", err)
		os.Exit(2)
	}

	run := ir.Run{
		ID:           fmt.Sprintf("run-%d", time.Now().Unix()),
		StartedAt:    time.Now().UTC(),
		Source:       filepath.Clean(*file),
		IRVersion:    ir.Version,
		Instructions: ins,
	}
	run.Issues = rules.AtOrAboveThreshold(rules.Evaluate(ins))

	if !*noSave {
		db, err := storage.OpenSQLite(*dbPath)
		if err != nil {
			slog.Error("db open error", "err", err)
			os.Exit(2)
		}
		defer db.Close()
		if err := db.CreateSchema(); err != nil {
			slog.Error("db schema error", "err", err)
			os.Exit(2)
		}
		if ignores, err := db.ListIgnores(true); err == nil {
			var ignored int
			run.Issues, ignored = rules.ApplyIgnores(run.Issues, ignores)
			if ignored > 0 {
				slog.Info("issues suppressed by ignores", "count", ignored)
			}
		}
		if err := db.SaveRun(&run); err != nil {
			slog.Error("db save run error", "err", err)
			os.Exit(2)
		}
		if err := os.MkdirAll(*outDir, 0o755); err == nil {
			jsonPath, _ := reporting.WriteJSON(run.ID, *outDir, &run)
			htmlPath, _ := reporting.WriteHTML(run.ID, *outDir, &run)
			slog.Info("lint complete", "run", run.ID, "json", jsonPath, "html", htmlPath)
		}
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(run)
	default:
		reporting.RenderText(os.Stdout, run.Source, run.Issues, *explain)
	}

	if len(run.Issues) > 0 {
		os.Exit(1)
	}
}

func optimizeCmd(args []string) {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	file := fs.String("file", "Dockerfile", "Path to the Dockerfile")
	outFile := fs.String("o", "", "Write the optimized Dockerfile here (default: stdout)")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	ins, err := parser.ParseFile(*file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "optimize: cannot read Dockerfile:", err)
		os.Exit(2)
	}

	result := optimizer.Optimize(ins)
	text := optimizer.Render(result.Instructions)

	if *outFile != "" {
		if err := os.WriteFile(*outFile, []byte(text), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "optimize: cannot write output:", err)
			os.Exit(2)
		}
	} else {
		fmt.Print(text)
	}
	reporting.RenderOptimizations(os.Stderr, result.Applied)
}

func benchmarkCmd(args []string) {
	fs := flag.NewFlagSet("benchmark", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	file := fs.String("file", "Dockerfile", "Path to the Dockerfile")
	tag := fs.String("tag", "docktor-bench:latest", "Image tag for the trial build")
	quiet := fs.Bool("quiet", false, "Suppress build progress")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	b, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "benchmark: cannot read Dockerfile:", err)
		os.Exit(2)
	}

	runner := &benchmark.Runner{Quiet: *quiet}
	ctx := context.Background()
	if !runner.Available(ctx) {
		fmt.Fprintln(os.Stderr, "benchmark: docker daemon is not running or accessible")
		os.Exit(2)
	}
	result, err := runner.Run(ctx, string(b), *tag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "benchmark:", err)
		os.Exit(2)
	}
	if result.ErrorMessage != "" {
		fmt.Fprintf(os.Stderr, "benchmark: build failed: %s\n", result.ErrorMessage)
		os.Exit(1)
	}
	fmt.Printf("Benchmark OK\n  Tag: %s\n  Build: %.2fs\n  Size: %.2f MB\n  Layers: %d\n",
		result.ImageTag, result.BuildTimeSeconds, result.ImageSizeMB, result.LayerCount)
}

func historyCmd(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	dbPath := fs.String("db", "", "SQLite database path")
	limit := fs.Int("limit", 20, "Max runs to list")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(2)
	}
	defer db.Close()

	rows, err := db.ListRuns(*limit, 0)
	if err != nil {
		slog.Error("db list error", "err", err)
		os.Exit(2)
	}
	if len(rows) == 0 {
		fmt.Println("no runs recorded")
		return
	}
	for _, rr := range rows {
		fmt.Printf("%-22s %s  issues=%-3d %s\n",
			rr.ID, rr.StartedAt.Format(time.RFC3339), rr.Issues, rr.Source)
	}
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
		os.Exit(2)
	}
	defer db.Close()

	br, err := db.LoadRun(*base)
	if err != nil {
		slog.Error("load base run error", "err", err)
		os.Exit(2)
	}
	hr, err := db.LoadRun(*head)
	if err != nil {
		slog.Error("load head run error", "err", err)
		os.Exit(2)
	}
	path, err := reporting.WriteDiffJSON(*base, *head, *outDir, &br, &hr)
	if err != nil {
		slog.Error("write diff error", "err", err)
		os.Exit(2)
	}
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
	setupRules(cfg)

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(2)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		slog.Error("db schema error", "err", err)
		os.Exit(2)
	}

	srv := &api.Server{
		DB:              db,
		UserStore:       db,
		Logger:          logger,
		SessionDuration: 12 * time.Hour,
	}
	slog.Info("serving", "addr", *addr, "db", filepath.Clean(*dbPath))
	if err := http.ListenAndServe(*addr, srv.Routes()); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}

func userAddCmd(args []string) {
	fs := flag.NewFlagSet("user-add", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	dbPath := fs.String("db", "", "SQLite database path")
	username := fs.String("username", "", "Username")
	password := fs.String("password", "", "Password")
	role := fs.String("role", "viewer", "Role: viewer|admin")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "user-add: --username and --password are required")
		os.Exit(2)
	}

	hash, err := security.HashPassword(*password)
	if err != nil {
		slog.Error("hash error", "err", err)
		os.Exit(1)
	}
	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(2)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		slog.Error("db schema error", "err", err)
		os.Exit(2)
	}
	id, err := db.CreateUser(*username, hash, *role)
	if err != nil {
		slog.Error("create user error", "err", err)
		os.Exit(1)
	}
	fmt.Printf("User OK\n  ID: %d\n  Username: %s\n  Role: %s\n", id, *username, *role)
}
