package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/campaignlens/internal/utils"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataPath   string `mapstructure:"data_path" yaml:"data_path"`
	Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`
	SheetName  string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex int    `mapstructure:"sheet_index" yaml:"sheet_index"`

	// Statistics policy
	ExcludePdaysSentinel bool    `mapstructure:"exclude_pdays_sentinel" yaml:"exclude_pdays_sentinel"`
	PdaysSentinel        int     `mapstructure:"pdays_sentinel" yaml:"pdays_sentinel"`
	IQRMultiplier        float64 `mapstructure:"iqr_multiplier" yaml:"iqr_multiplier"`
	HistogramBins        int     `mapstructure:"histogram_bins" yaml:"histogram_bins"`

	// HTTP server
	ListenAddr  string   `mapstructure:"listen_addr" yaml:"listen_addr"`
	CacheSize   int      `mapstructure:"cache_size" yaml:"cache_size"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// Charts
	ChartWidth  int               `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int               `mapstructure:"chart_height" yaml:"chart_height"`
	Palette     map[string]string `mapstructure:"palette" yaml:"palette"`
	PieColors   []string          `mapstructure:"pie_colors" yaml:"pie_colors"`
}

// Dir is ~/.campaignlens.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".campaignlens"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.campaignlens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := newViper()

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read; a missing file is not an error
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func newViper() *viper.Viper {
	v := builtinViper()
	v.SetEnvPrefix("CAMPAIGNLENS")
	v.AutomaticEnv()
	return v
}

// builtinViper carries the defaults only.
func builtinViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("data_path", "bank_marketing.csv")
	v.SetDefault("delimiter", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 0)
	v.SetDefault("exclude_pdays_sentinel", true)
	v.SetDefault("pdays_sentinel", -1)
	v.SetDefault("iqr_multiplier", 1.5)
	v.SetDefault("histogram_bins", 30)
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("cache_size", 128)
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("chart_width", 800)
	v.SetDefault("chart_height", 480)
	v.SetDefault("palette", map[string]string{"yes": "#ff7f0e", "no": "#65bcff"})
	v.SetDefault("pie_colors", []string{"#1f77b4", "#ff7f0e"})
	return v
}

// Defaults returns the built-in configuration with env overrides applied.
// When an env value cannot be decoded it returns the built-in values
// without env overrides, together with the decode error.
func Defaults() (*Global, error) {
	var c Global
	err := newViper().Unmarshal(&c)
	if err == nil {
		return &c, nil
	}
	var base Global
	if berr := builtinViper().Unmarshal(&base); berr != nil {
		return nil, fmt.Errorf("unmarshal defaults: %w", berr)
	}
	return &base, fmt.Errorf("unmarshal env config: %w", err)
}

// DelimiterRune maps the delimiter setting to a rune; 0 means sniff.
func (c *Global) DelimiterRune() (rune, error) {
	switch strings.ToLower(c.Delimiter) {
	case "", "auto":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	}
	r := []rune(c.Delimiter)
	if len(r) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q", c.Delimiter)
	}
	return r[0], nil
}

// Keys lists the settable keys in display order.
func Keys() []string {
	return []string{
		"data_path", "delimiter", "sheet_name", "sheet_index",
		"exclude_pdays_sentinel", "pdays_sentinel", "iqr_multiplier", "histogram_bins",
		"listen_addr", "cache_size", "cors_origins", "log_level", "log_format",
		"chart_width", "chart_height", "palette", "pie_colors",
	}
}

// Set assigns a value given as text. palette takes "value=#hex" pairs
// separated by commas; pie_colors takes a comma-separated list.
func (c *Global) Set(key, val string) error {
	switch key {
	case "data_path":
		c.DataPath = val
	case "delimiter":
		prev := c.Delimiter
		c.Delimiter = val
		if _, err := c.DelimiterRune(); err != nil {
			c.Delimiter = prev
			return err
		}
	case "sheet_name":
		c.SheetName = val
	case "sheet_index":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for sheet_index: %v", val)
		}
		c.SheetIndex = i
	case "exclude_pdays_sentinel":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for exclude_pdays_sentinel: %w", err)
		}
		c.ExcludePdaysSentinel = b
	case "pdays_sentinel":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for pdays_sentinel: %w", err)
		}
		c.PdaysSentinel = i
	case "iqr_multiplier":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid float for iqr_multiplier: %v", val)
		}
		c.IQRMultiplier = f
	case "histogram_bins", "cache_size", "chart_width", "chart_height":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		switch key {
		case "histogram_bins":
			c.HistogramBins = i
		case "cache_size":
			c.CacheSize = i
		case "chart_width":
			c.ChartWidth = i
		default:
			c.ChartHeight = i
		}
	case "listen_addr":
		c.ListenAddr = val
	case "log_level":
		switch strings.ToLower(val) {
		case "trace", "debug", "info", "warn", "warning", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	case "log_format":
		switch strings.ToLower(val) {
		case "text", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use text or json)", val)
		}
	case "palette":
		p := map[string]string{}
		for _, pair := range splitList(val) {
			k, v, ok := strings.Cut(pair, "=")
			if !ok || strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
				return fmt.Errorf("invalid palette entry %q (use value=#hex)", pair)
			}
			p[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
		c.Palette = p
	case "pie_colors":
		c.PieColors = splitList(val)
	case "cors_origins":
		c.CORSOrigins = splitList(val)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// Lines renders the effective configuration as "key: value" lines.
func (c *Global) Lines() []string {
	pal := make([]string, 0, len(c.Palette))
	for k, v := range c.Palette {
		pal = append(pal, k+"="+v)
	}
	sort.Strings(pal)
	return []string{
		fmt.Sprintf("data_path: %s", c.DataPath),
		fmt.Sprintf("delimiter: %q", c.Delimiter),
		fmt.Sprintf("sheet_name: %s", c.SheetName),
		fmt.Sprintf("sheet_index: %d", c.SheetIndex),
		fmt.Sprintf("exclude_pdays_sentinel: %t", c.ExcludePdaysSentinel),
		fmt.Sprintf("pdays_sentinel: %d", c.PdaysSentinel),
		fmt.Sprintf("iqr_multiplier: %.3f", c.IQRMultiplier),
		fmt.Sprintf("histogram_bins: %d", c.HistogramBins),
		fmt.Sprintf("listen_addr: %s", c.ListenAddr),
		fmt.Sprintf("cache_size: %d", c.CacheSize),
		fmt.Sprintf("cors_origins: %s", strings.Join(c.CORSOrigins, ", ")),
		fmt.Sprintf("log_level: %s", c.LogLevel),
		fmt.Sprintf("log_format: %s", c.LogFormat),
		fmt.Sprintf("chart_width: %d", c.ChartWidth),
		fmt.Sprintf("chart_height: %d", c.ChartHeight),
		fmt.Sprintf("palette: %s", strings.Join(pal, ", ")),
		fmt.Sprintf("pie_colors: %s", strings.Join(c.PieColors, ", ")),
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
