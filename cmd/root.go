package cmd

import (
	"fmt"
	"os"
	"strings"

	cfgpkg "github.com/KaramelBytes/campaignlens/internal/config"
	"github.com/KaramelBytes/campaignlens/internal/dataset"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile       string
	debug         bool
	flagDataPath  string
	flagLogFormat string
	flagDecimal   string
	flagThousands string

	// Loaded configuration
	cfg *cfgpkg.Global

	// source memoizes the table for the configured data path and options.
	source    *dataset.Source
	sourceKey string
)

var rootCmd = &cobra.Command{
	Use:   "campaignlens",
	Short: "campaignlens: filter and summarize a bank marketing campaign dataset",
	Long: `campaignlens loads a marketing campaign table (CSV/TSV/XLSX), filters it by month,
prior contact and age, and reports subscription statistics, categorical breakdowns
and distributions as Markdown, JSON, PNG charts or an HTTP API.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.campaignlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDataPath, "data", "", "campaign table to load (overrides data_path)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: text|json (overrides log_format)")
	rootCmd.PersistentFlags().StringVar(&flagDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	rootCmd.PersistentFlags().StringVar(&flagThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so config commands still work
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		var derr error
		if c, derr = cfgpkg.Defaults(); derr != nil {
			fmt.Fprintf(os.Stderr, "⚠ Warning: ignoring environment overrides: %v\n", derr)
		}
		if c == nil {
			c = &cfgpkg.Global{}
		}
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("data") && flagDataPath != "" {
		cfg.DataPath = flagDataPath
	}
	if f.Changed("log-format") && flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
	setupLogging()
}

func setupLogging() {
	log.SetOutput(os.Stderr)
	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	if debug {
		level = log.DebugLevel
	}
	log.SetLevel(level)
}

// loadOptions maps configuration and locale flags to loader options.
func loadOptions() (dataset.LoadOptions, error) {
	var opt dataset.LoadOptions
	d, err := cfg.DelimiterRune()
	if err != nil {
		return opt, err
	}
	opt.Delimiter = d
	opt.SheetName = cfg.SheetName
	opt.SheetIndex = cfg.SheetIndex
	switch strings.ToLower(strings.TrimSpace(flagDecimal)) {
	case ",", "comma":
		opt.Parse.DecimalSeparator = ','
	case ".", "dot":
		opt.Parse.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", flagDecimal)
	}
	switch strings.ToLower(strings.TrimSpace(flagThousands)) {
	case ",":
		opt.Parse.ThousandsSeparator = ','
	case ".":
		opt.Parse.ThousandsSeparator = '.'
	case "space", " ":
		opt.Parse.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", flagThousands)
	}
	return opt, nil
}

// loadTable returns the campaign table, loading it once per data path.
func loadTable() (*dataset.Table, error) {
	if cfg == nil || cfg.DataPath == "" {
		return nil, fmt.Errorf("no data file: pass --data or set data_path")
	}
	opt, err := loadOptions()
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s|%+v", cfg.DataPath, opt)
	if source == nil || sourceKey != key {
		source = dataset.NewSource(cfg.DataPath, opt)
		sourceKey = key
	}
	t, err := source.Table()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.DataPath, err)
	}
	return t, nil
}
