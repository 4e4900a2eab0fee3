package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vango-dev/urlstore/internal/errors"
	"github.com/vango-dev/urlstore/pkg/urlstore"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Server.MetricsPath != DefaultMetricsPath {
		t.Errorf("Server.MetricsPath = %q, want %q", cfg.Server.MetricsPath, DefaultMetricsPath)
	}
	if cfg.Encoding != EncodingPercent {
		t.Errorf("Encoding = %q, want %q", cfg.Encoding, EncodingPercent)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if !errors.HasCode(err, "E121") {
		t.Errorf("missing config error = %v, want E121", err)
	}

	configJSON := `{
  "schema": {
    "boolKeys": ["flying", "dancing"],
    "numberKeys": ["count"],
    "jsonKeys": ["birdlist"]
  },
  "defaults": {"flying": true, "count": 3},
  "strictNumbers": true,
  "server": {"port": 9090}
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if !reflect.DeepEqual(cfg.Schema.BoolKeys, []string{"flying", "dancing"}) {
		t.Errorf("Schema.BoolKeys = %v", cfg.Schema.BoolKeys)
	}
	if !reflect.DeepEqual(cfg.Defaults, map[string]any{"flying": true, "count": 3.0}) {
		t.Errorf("Defaults = %#v", cfg.Defaults)
	}
	if !cfg.StrictNumbers {
		t.Error("StrictNumbers should be true")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	// Defaults fill what the file left out.
	if cfg.Server.Host != DefaultHost || cfg.Encoding != EncodingPercent {
		t.Errorf("defaults not applied: host=%q encoding=%q", cfg.Server.Host, cfg.Encoding)
	}
	if cfg.Path() != filepath.Join(tmpDir, ConfigFileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configYAML := `schema:
  boolKeys: [flying]
  rawJsonKeys: [raw]
defaults:
  flying: true
  filter:
    tags: [a, b]
encoding: verbatim
server:
  host: 0.0.0.0
`
	if err := os.WriteFile(filepath.Join(tmpDir, "urlstore.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Encoding != EncodingVerbatim {
		t.Errorf("Encoding = %q", cfg.Encoding)
	}
	if !reflect.DeepEqual(cfg.Schema.RawJSONKeys, []string{"raw"}) {
		t.Errorf("Schema.RawJSONKeys = %v", cfg.Schema.RawJSONKeys)
	}
	want := map[string]any{
		"flying": true,
		"filter": map[string]any{"tags": []any{"a", "b"}},
	}
	if !reflect.DeepEqual(cfg.Defaults, want) {
		t.Errorf("Defaults = %#v", cfg.Defaults)
	}
	if cfg.Address() != "0.0.0.0:8080" {
		t.Errorf("Address() = %q", cfg.Address())
	}
}

func TestLoadFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	tests := map[string]string{
		"urlstore.json": `{"schema": [}`,
		"urlstore.yml":  "schema: [unclosed",
	}
	for name, content := range tests {
		path := filepath.Join(tmpDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := LoadFile(path)
		if !errors.HasCode(err, "E120") {
			t.Errorf("%s: error = %v, want E120", name, err)
		}
	}

	if _, err := LoadFile(filepath.Join(tmpDir, "missing.json")); !errors.HasCode(err, "E121") {
		t.Errorf("missing file error = %v, want E121", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"out.json", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			cfg := New()
			cfg.Schema.BoolKeys = []string{"flying"}
			cfg.Schema.NumberKeys = []string{"count"}
			cfg.Defaults = map[string]any{"flying": true}
			cfg.Server.Port = 7000

			path := filepath.Join(tmpDir, name)
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo error: %v", err)
			}
			if cfg.Path() != path {
				t.Errorf("Path() = %q after SaveTo", cfg.Path())
			}

			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile error: %v", err)
			}
			if !reflect.DeepEqual(loaded.Schema, cfg.Schema) {
				t.Errorf("Schema = %+v, want %+v", loaded.Schema, cfg.Schema)
			}
			if loaded.Server.Port != 7000 || loaded.Defaults["flying"] != true {
				t.Errorf("loaded = %+v", loaded)
			}

			loaded.Server.Port = 7001
			if err := loaded.Save(); err != nil {
				t.Fatalf("Save error: %v", err)
			}
			again, err := LoadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if again.Server.Port != 7001 {
				t.Errorf("Save did not persist: port %d", again.Server.Port)
			}
		})
	}

	if err := New().Save(); err == nil {
		t.Error("Save without a path should fail")
	}
}

func TestSaveJSONEndsWithNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := New().SaveTo(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "}\n") {
		t.Errorf("file does not end with newline: %q", data)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		code   string
	}{
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "E122"},
		{"port negative", func(c *Config) { c.Server.Port = -1 }, "E122"},
		{"unknown encoding", func(c *Config) { c.Encoding = "base64" }, "E123"},
		{"conflicting kinds", func(c *Config) {
			c.Schema.BoolKeys = []string{"x"}
			c.Schema.JSONKeys = []string{"x"}
		}, "E003"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.HasCode(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
			if _, err := cfg.StoreOptions(); !errors.HasCode(err, tt.code) {
				t.Errorf("StoreOptions() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestStoreOptions(t *testing.T) {
	cfg := New()
	cfg.Schema.BoolKeys = []string{"flying"}
	cfg.Schema.NumberKeys = []string{"count"}
	cfg.Defaults = map[string]any{"flying": true}

	opts, err := cfg.StoreOptions()
	if err != nil {
		t.Fatal(err)
	}
	loc := urlstore.NewMemoryLocation("https://cat.net/hey#count=2")
	store, err := urlstore.New(loc, opts...)
	if err != nil {
		t.Fatal(err)
	}
	state, err := store.Read()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(state, urlstore.State{"flying": true, "count": 2.0}) {
		t.Errorf("Read() = %#v", state)
	}
}

func TestStoreOptionsVerbatim(t *testing.T) {
	cfg := New()
	cfg.Encoding = EncodingVerbatim

	opts, err := cfg.StoreOptions()
	if err != nil {
		t.Fatal(err)
	}
	loc := urlstore.NewMemoryLocation("https://cat.net/hey")
	store, err := urlstore.New(loc, opts...)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Write(urlstore.State{"q": "a b"}); err != nil {
		t.Fatal(err)
	}
	if loc.Fragment() != "#q=a b" {
		t.Errorf("Fragment() = %q, want verbatim value", loc.Fragment())
	}
}

func TestFindConfigDir(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "urlstore.yml"), []byte("encoding: percent\n"), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err := FindConfigDir(nested)
	if err != nil {
		t.Fatalf("FindConfigDir error: %v", err)
	}
	want, _ := filepath.Abs(root)
	if dir != want {
		t.Errorf("FindConfigDir() = %q, want %q", dir, want)
	}
	if !Exists(root) || Exists(nested) {
		t.Error("Exists() reported wrong directories")
	}
}
