package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"guardreport/config"
	"guardreport/internal/logger"
	"guardreport/internal/metrics"
	"guardreport/internal/output/reporthttp"
	"guardreport/internal/output/reportjson"
	"guardreport/internal/render"
	"guardreport/internal/report"
	"guardreport/internal/rules"
	redisstore "guardreport/internal/store/redis"
	"guardreport/pkg/models"
)

type reportWriter interface {
	WriteReport(rep *models.Report) error
	Close() error
}

func findConfigFile(configArg string) string {
	if configArg != "" {
		path := configArg
		if _, err := os.Stat(path); err == nil {
			return path
		}
		log.Printf("Warning: config file not found at %s, trying default locations", path)
	}

	if _, err := os.Stat("guardreport.yml"); err == nil {
		return "guardreport.yml"
	}

	exePath, err := os.Executable()
	if err == nil {
		exeDir := filepath.Dir(exePath)
		path := filepath.Join(exeDir, "guardreport.yml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "guardreport.yml"
}

func applyDefaults(cfg *config.Config) {
	if cfg.GuardReport.Store.Redis.Addr == "" {
		cfg.GuardReport.Store.Redis.Addr = "127.0.0.1:6379"
	}
	if cfg.GuardReport.Store.Redis.Key == "" {
		cfg.GuardReport.Store.Redis.Key = "security_events"
	}
	if cfg.GuardReport.Store.Redis.QueryTimeout <= 0 {
		cfg.GuardReport.Store.Redis.QueryTimeout = 10 * time.Second
	}

	if cfg.GuardReport.Report.WindowDays <= 0 {
		cfg.GuardReport.Report.WindowDays = 7
	}
	if cfg.GuardReport.Report.TopOffenders <= 0 {
		cfg.GuardReport.Report.TopOffenders = report.DefaultTopOffenders
	}

	if cfg.GuardReport.Output.Mode == "" {
		cfg.GuardReport.Output.Mode = "file"
	}
	if cfg.GuardReport.Output.File.Path == "" {
		cfg.GuardReport.Output.File.Path = "output/report_%s.json"
	}

	if cfg.GuardReport.Schedule.Interval <= 0 {
		cfg.GuardReport.Schedule.Interval = 7 * 24 * time.Hour
	}
	if cfg.GuardReport.Metrics.Addr == "" {
		cfg.GuardReport.Metrics.Addr = ":9464"
	}

	if cfg.GuardReport.Logging.Level == "" {
		cfg.GuardReport.Logging.Level = "info"
	}
}

func loadConfig(configArg string) *config.Config {
	configPath := findConfigFile(configArg)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyDefaults(cfg)

	if err := logger.Init(cfg.GuardReport.Logging.Enabled, cfg.GuardReport.Logging.Level, cfg.GuardReport.Logging.File, cfg.GuardReport.Logging.Console); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Infof("Config loaded from: %s", configPath)
	return cfg
}

func buildGenerator(cfg *config.Config) (*report.Generator, *redisstore.Store) {
	store, err := redisstore.NewStore(redisstore.Config{
		Addr:         cfg.GuardReport.Store.Redis.Addr,
		Password:     cfg.GuardReport.Store.Redis.Password,
		DB:           cfg.GuardReport.Store.Redis.DB,
		Key:          cfg.GuardReport.Store.Redis.Key,
		QueryTimeout: cfg.GuardReport.Store.Redis.QueryTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to create event store: %v", err)
	}

	var engine rules.Engine
	if cfg.GuardReport.Rules.Enabled {
		if strings.TrimSpace(cfg.GuardReport.Rules.Path) == "" {
			logger.Warnf("Rules enabled but rules.path is empty; custom indicators disabled")
		} else {
			sigmaEngine, stats, err := rules.NewSigmaEngine(cfg.GuardReport.Rules.Path)
			if err != nil {
				log.Fatalf("Failed to load custom rules: %v", err)
			}
			engine = sigmaEngine
			logger.Infof("Custom rules loaded: loaded=%d skipped_complex=%d skipped_invalid=%d files=%d",
				stats.Loaded, stats.SkippedComplex, stats.SkippedInvalid, stats.TotalFiles)
			if stats.Loaded == 0 {
				logger.Warnf("No compatible custom rules loaded")
			}
		}
	}

	gen := report.NewGenerator(store, engine, report.Config{
		WindowDays:   cfg.GuardReport.Report.WindowDays,
		TopOffenders: cfg.GuardReport.Report.TopOffenders,
	})
	return gen, store
}

func buildWriter(cfg *config.Config) reportWriter {
	switch cfg.GuardReport.Output.Mode {
	case "file":
		w, err := reportjson.NewWriter(cfg.GuardReport.Output.File.Path)
		if err != nil {
			log.Fatalf("Failed to create report file writer: %v", err)
		}
		logger.Infof("Output mode: file (%s)", cfg.GuardReport.Output.File.Path)
		return w
	case "http":
		w, err := reporthttp.NewWriter(reporthttp.Config{
			URL:     cfg.GuardReport.Output.HTTP.URL,
			Timeout: cfg.GuardReport.Output.HTTP.Timeout,
			Headers: cfg.GuardReport.Output.HTTP.Headers,
		})
		if err != nil {
			log.Fatalf("Failed to create report HTTP writer: %v", err)
		}
		logger.Infof("Output mode: http (%s)", cfg.GuardReport.Output.HTTP.URL)
		return w
	default:
		log.Fatalf("Unknown output mode: %s", cfg.GuardReport.Output.Mode)
		return nil
	}
}

func runOnce(ctx context.Context, gen *report.Generator, writer reportWriter, end time.Time, htmlPath string) error {
	started := time.Now()
	rep, err := gen.Generate(ctx, end)
	metrics.RunDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.RunsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.RunsTotal.WithLabelValues("ok").Inc()
	metrics.EventsFetched.Add(float64(rep.Statistics.TotalAlerts))
	metrics.EventsSkipped.Add(float64(rep.Statistics.SkippedMalformed))

	if err := writer.WriteReport(rep); err != nil {
		return fmt.Errorf("deliver report %s: %w", rep.ID, err)
	}

	if htmlPath != "" {
		doc, err := render.Document(rep)
		if err != nil {
			return fmt.Errorf("render document for %s: %w", rep.ID, err)
		}
		if err := os.WriteFile(htmlPath, []byte(doc), 0644); err != nil {
			return fmt.Errorf("write document for %s: %w", rep.ID, err)
		}
		logger.Infof("Report document written to %s", htmlPath)
	}

	return nil
}

func runGenerate(args []string) int {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	configArg := fs.String("config", "", "Config file path")
	endArg := fs.String("end", "", "Window end timestamp (RFC3339), defaults to now")
	htmlPath := fs.String("html", "", "Optional path for the HTML document form")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var end time.Time
	if strings.TrimSpace(*endArg) != "" {
		parsed, err := time.Parse(time.RFC3339, *endArg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -end value: %v\n", err)
			return 2
		}
		end = parsed
	}

	cfg := loadConfig(*configArg)
	gen, store := buildGenerator(cfg)
	defer store.Close()
	writer := buildWriter(cfg)
	defer writer.Close()

	if err := runOnce(context.Background(), gen, writer, end, *htmlPath); err != nil {
		fmt.Fprintf(os.Stderr, "report generation failed: %v\n", err)
		return 1
	}
	return 0
}

func runScheduled(args []string) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configArg := fs.String("config", "", "Config file path")
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}

	cfg := loadConfig(*configArg)
	gen, store := buildGenerator(cfg)
	defer store.Close()
	writer := buildWriter(cfg)
	defer writer.Close()

	if cfg.GuardReport.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			logger.Infof("Metrics endpoint listening on %s", cfg.GuardReport.Metrics.Addr)
			if err := http.ListenAndServe(cfg.GuardReport.Metrics.Addr, mux); err != nil {
				logger.Errorf("Metrics endpoint failed: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Infof("GuardReport starting, interval=%s", cfg.GuardReport.Schedule.Interval)
	if err := runOnce(ctx, gen, writer, time.Time{}, ""); err != nil {
		logger.Errorf("Report run failed: %v", err)
	}

	ticker := time.NewTicker(cfg.GuardReport.Schedule.Interval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			if err := runOnce(ctx, gen, writer, time.Time{}, ""); err != nil {
				logger.Errorf("Report run failed: %v", err)
			}
		case <-sigCh:
			logger.Infof("Shutting down")
			return
		}
	}
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "generate":
			os.Exit(runGenerate(os.Args[2:]))
		case "run":
			runScheduled(os.Args[2:])
			return
		default:
			fmt.Fprintf(os.Stderr, "usage: guardreport [generate|run] [flags]\n")
			os.Exit(2)
		}
	}

	runScheduled(nil)
}
