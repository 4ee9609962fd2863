package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/schema"
	"github.com/vango-dev/vtree/pkg/view"
)

const (
	// DefaultPort is the default inspection server port.
	DefaultPort = 4200

	// DefaultHost is the default inspection server host.
	DefaultHost = "localhost"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "vtree"

	// DefaultManifest is the default component manifest file.
	DefaultManifest = "components.yaml"

	// DefaultLocale is the locale used for ICU plural rules.
	DefaultLocale = "en"
)

// FileNames are the configuration file names Load looks for, in order.
var FileNames = []string{"vtree.json", "vtree.yaml", "vtree.yml"}

// Config represents the complete vtree configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Manifest is the path to the component manifest.
	Manifest string `json:"manifest,omitempty" yaml:"manifest,omitempty"`

	// Flatten selects the root-node strategy.
	Flatten FlattenConfig `json:"flatten" yaml:"flatten"`

	// Validation controls template schema checks.
	Validation ValidationConfig `json:"validation" yaml:"validation"`

	// Template contains template parsing options.
	Template TemplateConfig `json:"template" yaml:"template"`

	// Sources configures where templateUrl files are loaded from.
	Sources SourcesConfig `json:"sources" yaml:"sources"`

	// Server contains inspection server settings.
	Server ServerConfig `json:"server" yaml:"server"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// FlattenConfig selects how views are flattened into root nodes.
type FlattenConfig struct {
	// Strategy is "standard" (default) or "legacy".
	Strategy string `json:"strategy,omitempty" yaml:"strategy,omitempty" validate:"omitempty,oneof=standard legacy"`
}

// ValidationConfig controls unknown element and property diagnostics.
type ValidationConfig struct {
	// UnknownMembers is "error" (default) or "warn".
	UnknownMembers string `json:"unknownMembers,omitempty" yaml:"unknownMembers,omitempty" validate:"omitempty,oneof=error warn warning"`

	// DefaultSchemas are applied to every module.
	DefaultSchemas []string `json:"defaultSchemas,omitempty" yaml:"defaultSchemas,omitempty" validate:"dive,oneof=custom-elements no-errors CUSTOM_ELEMENTS_SCHEMA NO_ERRORS_SCHEMA"`
}

// TemplateConfig contains template parsing options.
type TemplateConfig struct {
	// PreserveWhitespaces keeps whitespace-only text nodes.
	PreserveWhitespaces bool `json:"preserveWhitespaces,omitempty" yaml:"preserveWhitespaces,omitempty"`

	// Locale is the BCP 47 tag used for ICU plural categories.
	Locale string `json:"locale,omitempty" yaml:"locale,omitempty" validate:"omitempty,bcp47_language_tag"`
}

// SourcesConfig configures template loaders.
type SourcesConfig struct {
	// Dir is the directory templateUrl paths are relative to.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// S3 loads templates from a bucket. Consulted after Dir.
	S3 S3Config `json:"s3" yaml:"s3"`
}

// S3Config locates templates in an S3 bucket.
type S3Config struct {
	Bucket    string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix    string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region    string `json:"region,omitempty" yaml:"region,omitempty" validate:"required_with=Bucket"`
	Endpoint  string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" validate:"omitempty,url"`
	PathStyle bool   `json:"pathStyle,omitempty" yaml:"pathStyle,omitempty"`
}

// ServerConfig contains inspection server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty" validate:"min=0,max=65535"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Manifest: DefaultManifest,
		Flatten: FlattenConfig{
			Strategy: view.StrategyStandard,
		},
		Validation: ValidationConfig{
			UnknownMembers: schema.SeverityError.String(),
		},
		Template: TemplateConfig{
			Locale: DefaultLocale,
		},
		Sources: SourcesConfig{
			Dir: ".",
		},
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for vtree.json, vtree.yaml and vtree.yml, in that order.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E131").
		WithDetail("No vtree.json or vtree.yaml found in " + dir).
		WithSuggestion("Create vtree.yaml or pass --config")
}

// LoadFile reads configuration from the specified file path. The format is
// chosen by extension: .yaml and .yml are YAML, anything else JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E131").
				WithDetail("No configuration file at " + path)
		}
		return nil, errors.New("E130").Wrap(err)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	cfg.configPath = path
	return cfg, nil
}

// Parse decodes configuration data. ext selects the format as in LoadFile.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := New()
	name := "vtree" + ext
	if isYAML(ext) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E130").
				WithDetail("Failed to parse " + name + ": " + err.Error()).
				WithSuggestion("Check that the file is valid YAML")
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E130").
			WithDetail("Failed to parse " + name + ": " + err.Error()).
			WithSuggestion("Check that the file is valid JSON")
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isYAML(ext string) bool {
	ext = strings.ToLower(ext)
	return ext == ".yaml" || ext == ".yml"
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(filepath.Ext(path)) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E130").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E130").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Manifest == "" {
		c.Manifest = DefaultManifest
	}
	if c.Flatten.Strategy == "" {
		c.Flatten.Strategy = view.StrategyStandard
	}
	if c.Validation.UnknownMembers == "" {
		c.Validation.UnknownMembers = schema.SeverityError.String()
	}
	if c.Template.Locale == "" {
		c.Template.Locale = DefaultLocale
	}
	if c.Sources.Dir == "" {
		c.Sources.Dir = "."
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.New("E130").Wrap(err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.TrimPrefix(e.Namespace(), "Config.")
		switch e.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", field, e.Param(), e.Value()))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must be between 0 and 65535", field))
		case "required_with":
			msgs = append(msgs, fmt.Sprintf("%s is required when %s is set", field, strings.ToLower(e.Param())))
		case "bcp47_language_tag":
			msgs = append(msgs, fmt.Sprintf("%s is not a BCP 47 language tag: %q", field, e.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return errors.New("E130").WithDetail(strings.Join(msgs, "; "))
}

// Severity returns the configured diagnostic severity.
func (c *Config) Severity() schema.Severity {
	s, err := schema.ParseSeverity(c.Validation.UnknownMembers)
	if err != nil {
		return schema.SeverityError
	}
	return s
}

// Schemas returns the configured default schemas.
func (c *Config) Schemas() []schema.Schema {
	out, err := schema.ParseSchemas(c.Validation.DefaultSchemas)
	if err != nil {
		return nil
	}
	return out
}

// Locale returns the ICU locale, falling back to English.
func (c *Config) Locale() language.Tag {
	tag, err := language.Parse(c.Template.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// Address returns the host:port the inspection server listens on.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// ManifestPath returns the absolute path to the component manifest.
func (c *Config) ManifestPath() string {
	return c.resolve(c.Manifest)
}

// SourcesPath returns the absolute path to the template source directory.
func (c *Config) SourcesPath() string {
	return c.resolve(c.Sources.Dir)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range FileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a vtree config file, or an error if not
// found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E131").
				WithDetail("No vtree config found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or the nearest parent that has one.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
