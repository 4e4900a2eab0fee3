package config

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/urlstore/internal/errors"
	"github.com/vango-dev/urlstore/pkg/fieldkind"
	"github.com/vango-dev/urlstore/pkg/qs"
	"github.com/vango-dev/urlstore/pkg/urlstore"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "urlstore.json"

	// DefaultPort is the default port of the codec service.
	DefaultPort = 8080

	// DefaultHost is the default host of the codec service.
	DefaultHost = "localhost"

	// DefaultMetricsPath is where the service exposes Prometheus metrics.
	DefaultMetricsPath = "/metrics"
)

// Encoding modes for fragment tokens.
const (
	EncodingPercent  = "percent"
	EncodingVerbatim = "verbatim"
)

// ConfigFileNames lists the files Load looks for, in order.
var ConfigFileNames = []string{ConfigFileName, "urlstore.yaml", "urlstore.yml"}

// Config represents a urlstore.json or urlstore.yaml file.
type Config struct {
	// Schema declares the typed keys.
	Schema SchemaConfig `json:"schema,omitempty" yaml:"schema,omitempty"`

	// Defaults are merged underneath the fragment on every read.
	Defaults map[string]any `json:"defaults,omitempty" yaml:"defaults,omitempty"`

	// Encoding is "percent" (default) or "verbatim".
	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty"`

	// StrictNumbers rejects number keys whose text does not parse.
	StrictNumbers bool `json:"strictNumbers,omitempty" yaml:"strictNumbers,omitempty"`

	// Server contains codec service settings.
	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// SchemaConfig lists the declared keys per kind.
type SchemaConfig struct {
	BoolKeys    []string `json:"boolKeys,omitempty" yaml:"boolKeys,omitempty"`
	NumberKeys  []string `json:"numberKeys,omitempty" yaml:"numberKeys,omitempty"`
	JSONKeys    []string `json:"jsonKeys,omitempty" yaml:"jsonKeys,omitempty"`
	RawJSONKeys []string `json:"rawJsonKeys,omitempty" yaml:"rawJsonKeys,omitempty"`
}

// ServerConfig contains codec service settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// MetricsPath is the Prometheus endpoint. Empty uses DefaultMetricsPath.
	MetricsPath string `json:"metricsPath,omitempty" yaml:"metricsPath,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Encoding: EncodingPercent,
		Server: ServerConfig{
			Host:        DefaultHost,
			Port:        DefaultPort,
			MetricsPath: DefaultMetricsPath,
		},
	}
}

// Load reads configuration from dir, trying each of ConfigFileNames.
func Load(dir string) (*Config, error) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E121").
		WithDetail("No urlstore.json or urlstore.yaml found in " + dir).
		WithSuggestion("Create urlstore.json or pass --config")
}

// LoadFile reads configuration from path. Files ending in .yaml or .yml
// are parsed as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E121").
				WithDetail("No configuration file at " + path)
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid " + formatName(path))
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func formatName(path string) string {
	if isYAML(path) {
		return "YAML"
	}
	return "JSON"
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path, as YAML or JSON depending on
// the extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		// Add newline at end of file
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Encoding == "" {
		c.Encoding = EncodingPercent
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.MetricsPath == "" {
		c.Server.MetricsPath = DefaultMetricsPath
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port " + strconv.Itoa(c.Server.Port) + " is outside 1-65535")
	}
	switch c.Encoding {
	case "", EncodingPercent, EncodingVerbatim:
	default:
		return errors.New("E123").
			WithInput(c.Encoding, -1).
			WithSuggestion(`Use "percent" or "verbatim"`)
	}
	if _, err := fieldkind.NewSchema(c.Declaration()); err != nil {
		return err
	}
	return nil
}

// Declaration converts the schema section for package fieldkind.
func (c *Config) Declaration() fieldkind.Declaration {
	return fieldkind.Declaration{
		BoolKeys:    c.Schema.BoolKeys,
		NumberKeys:  c.Schema.NumberKeys,
		JSONKeys:    c.Schema.JSONKeys,
		RawJSONKeys: c.Schema.RawJSONKeys,
	}
}

// StoreOptions validates c and returns the urlstore options it describes.
func (c *Config) StoreOptions() ([]urlstore.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	opts := []urlstore.Option{
		urlstore.WithBoolKeys(c.Schema.BoolKeys...),
		urlstore.WithNumberKeys(c.Schema.NumberKeys...),
		urlstore.WithJSONKeys(c.Schema.JSONKeys...),
		urlstore.WithRawJSONKeys(c.Schema.RawJSONKeys...),
		urlstore.WithStrictNumbers(c.StrictNumbers),
	}
	if len(c.Defaults) > 0 {
		opts = append(opts, urlstore.WithDefaults(c.Defaults))
	}
	if c.Encoding == EncodingVerbatim {
		opts = append(opts,
			urlstore.WithEncoder(qs.Verbatim),
			urlstore.WithDecoder(qs.Verbatim),
		)
	}
	return opts, nil
}

// Address returns the listen address of the codec service.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range ConfigFileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindConfigDir walks up from startDir to the first directory that holds
// a configuration file.
func FindConfigDir(startDir string) (string, error) {
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
			return "", errors.New("E121").
				WithDetail("No urlstore.json or urlstore.yaml found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the working directory or
// the nearest parent that has one.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	dir, err := FindConfigDir(wd)
	if err != nil {
		return nil, err
	}

	return Load(dir)
}
