package appconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"

	"datatable/appconfig"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "PRESET_FILE", "DATATABLE_ADDR", "DATATABLE_STORE_PATH", "DATATABLE_STORE_BACKEND", "DATATABLE_LOG_LEVEL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := appconfig.Load("", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := appconfig.Config{
		Addr:   ":8080",
		Store:  appconfig.StoreConfig{Backend: "file", Path: "/data/presets.json"},
		Log:    appconfig.LogConfig{Level: "info", Format: "text"},
		Locale: "en",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}
}

func TestLegacyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("PRESET_FILE", "/tmp/p.json")
	cfg, err := appconfig.Load("", nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9090" || cfg.Store.Path != "/tmp/p.json" {
		t.Fatalf("legacy env ignored: %+v", cfg)
	}
}

func TestPrefixedEnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DATATABLE_ADDR", "127.0.0.1:7000")
	t.Setenv("DATATABLE_STORE_BACKEND", "badger")
	cfg, err := appconfig.Load("", nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != "127.0.0.1:7000" || cfg.Store.Backend != "badger" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestFileAndFlags(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "datatable.yaml")
	data := "addr: \":7070\"\nstore:\n  backend: sqlite\n  path: /var/lib/dt.db\nlog:\n  format: json\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	appconfig.AddFlags(fs)
	if err := fs.Parse([]string{"--log-level", "debug", "--addr", ":6060"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := appconfig.Load(path, fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":6060" {
		t.Fatalf("flag did not override file: %q", cfg.Addr)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Store.Path != "/var/lib/dt.db" {
		t.Fatalf("file settings ignored: %+v", cfg.Store)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATATABLE_STORE_BACKEND", "etcd")
	if _, err := appconfig.Load("", nil); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	t.Setenv("DATATABLE_STORE_BACKEND", "memory")
	t.Setenv("DATATABLE_LOG_LEVEL", "loud")
	if _, err := appconfig.Load("", nil); err == nil {
		t.Fatal("expected error for bad log level")
	}
}

func TestMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := appconfig.Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
