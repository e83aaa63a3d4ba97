// =============================================================================
// Packaging Reconciler - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration.
//
// CONFIGURATION SOURCES (later sources win):
//   1. Built-in defaults
//   2. The YAML file given by --config (optional; a missing file is fine)
//   3. A .env file in the working directory (optional)
//   4. PKGRECON_* environment variables
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/ginjaninja78/pkgrecon/internal/reconcile"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "PKGRECON_"

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// OutputDir is where reports and summary logs are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// ArchiveDir receives the input files of a successful run when
	// ArchiveInputs is set.
	// Default: "./input_archive"
	ArchiveDir string `yaml:"archive_dir"`

	// ArchiveInputs copies the sales and template files into ArchiveDir after
	// a successful run.
	// Default: false
	ArchiveInputs bool `yaml:"archive_inputs"`

	// StorePath is the SQLite database holding remembered input files and
	// the run history.
	// Default: "./pkgrecon.db"
	StorePath string `yaml:"store_path"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects "console" (human readable) or "json" output.
	// Default: "console"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputNameFormat is the report file name without extension.
	// Placeholders:
	//   {date}      - Run date (YYYY-MM-DD)
	//   {timestamp} - Run time (YYYYMMDD_HHMMSS)
	//   {uuid}      - The run ID
	// Default: "網購包裝減量報表_{date}"
	OutputNameFormat string `yaml:"output_name_format"`

	// ExportFormats lists the report formats written on every run.
	// Valid values: "csv", "xlsx"
	// Default: ["csv", "xlsx"]
	ExportFormats []string `yaml:"export_formats"`

	// PreviewLimit is the maximum number of result rows printed to the
	// terminal. A negative value disables the preview.
	// Default: 100
	PreviewLimit int `yaml:"preview_limit"`

	// CSVBOM prefixes exported CSV files with a UTF-8 byte order mark so that
	// spreadsheet programs detect the encoding.
	// Default: false
	CSVBOM bool `yaml:"csv_bom"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// CSVSettings controls how delimited input files are decoded.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// ExtraHeaderVariants adds site-specific header labels per logical field,
	// keyed by field name (e.g. "quantity", "recycle_box"). They are tried
	// after the built-in labels.
	ExtraHeaderVariants map[string][]string `yaml:"extra_header_variants"`
}

// =============================================================================
// CSV SETTINGS STRUCTURE
// =============================================================================

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields in the CSV.
	// Common values: "," (comma), "|" (pipe), "\t" (tab)
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding is the character encoding of the CSV file.
	// Supported values: "UTF-8", "Big5", "GBK"
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration with every default applied.
func Default() *MainConfig {
	cfg := &MainConfig{}
	applyMainConfigDefaults(cfg)
	return cfg
}

// LoadMainConfig loads the configuration.
//
// PARAMETERS:
//   - configPath: The path to the YAML configuration file. A missing file is
//     not an error; the defaults are used instead.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be parsed or the result is invalid.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Run on defaults.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// A missing .env is the normal case.
	_ = godotenv.Load()

	if err := applyEnvOverrides(&config, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyEnvOverrides copies PKGRECON_* variables over the YAML values.
func applyEnvOverrides(config *MainConfig, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
		return nil
	}

	str("OUTPUT_DIR", &config.OutputDir)
	str("ARCHIVE_DIR", &config.ArchiveDir)
	str("STORE_PATH", &config.StorePath)
	str("LOG_LEVEL", &config.LogLevel)
	str("LOG_FORMAT", &config.LogFormat)
	str("OUTPUT_NAME_FORMAT", &config.OutputNameFormat)
	str("CSV_DELIMITER", &config.CSVSettings.Delimiter)
	str("CSV_ENCODING", &config.CSVSettings.Encoding)

	if err := boolean("ARCHIVE_INPUTS", &config.ArchiveInputs); err != nil {
		return err
	}
	if err := boolean("CSV_BOM", &config.CSVBOM); err != nil {
		return err
	}

	if v, ok := lookup(EnvPrefix + "EXPORT_FORMATS"); ok {
		config.ExportFormats = splitList(v)
	}
	if v, ok := lookup(EnvPrefix + "PREVIEW_LIMIT"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sPREVIEW_LIMIT: %w", EnvPrefix, err)
		}
		config.PreviewLimit = n
	}

	return nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.ArchiveDir == "" {
		config.ArchiveDir = "./input_archive"
	}
	if config.StorePath == "" {
		config.StorePath = "./pkgrecon.db"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "console"
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "網購包裝減量報表_{date}"
	}
	if len(config.ExportFormats) == 0 {
		config.ExportFormats = []string{FormatCSV, FormatXLSX}
	}
	if config.PreviewLimit == 0 {
		config.PreviewLimit = 100
	}

	// CSV settings defaults.
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ","
	}
	if config.CSVSettings.Encoding == "" {
		config.CSVSettings.Encoding = "UTF-8"
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	formats, err := ParseFormats(config.ExportFormats)
	if err != nil {
		return err
	}
	config.ExportFormats = formats

	if config.PreviewLimit < 0 {
		config.PreviewLimit = 0
	}

	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", config.LogLevel)
	}

	if _, err := config.HeaderVariants(); err != nil {
		return err
	}

	return nil
}

// HeaderVariants converts ExtraHeaderVariants to the engine's field keys.
func (c *MainConfig) HeaderVariants() (map[reconcile.Field][]string, error) {
	out := make(map[reconcile.Field][]string, len(c.ExtraHeaderVariants))
	for name, variants := range c.ExtraHeaderVariants {
		f, ok := reconcile.ParseField(name)
		if !ok {
			return nil, fmt.Errorf("unknown field %q in extra_header_variants", name)
		}
		out[f] = append(out[f], variants...)
	}
	return out, nil
}

// ParseFormats lowercases and checks a list of export formats, dropping
// duplicates.
func ParseFormats(list []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, f := range list {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != FormatCSV && f != FormatXLSX {
			return nil, fmt.Errorf("unknown export format %q", f)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
