package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("QUICKSETUP_CONFIG", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := Config{
		Render: RenderConfig{Renderer: "vanilla", Output: "json"},
		Server: ServerConfig{
			Addr:            ":8080",
			BasePath:        "/quicksetup",
			AssetsPath:      "/assets",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Log:     LogConfig{Level: "info", Format: "json"},
		Tracing: TracingConfig{ServiceName: "quicksetup"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quicksetup.yaml")
	content := `document:
  path: setups/aws.yaml
render:
  renderer: tui
  output: pretty
server:
  addr: ":9090"
  read_timeout: 3s
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("QUICKSETUP_SERVER_ADDR", ":7070")
	t.Setenv("QUICKSETUP_TRACING_ENDPOINT", "localhost:4318")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Document.Path != "setups/aws.yaml" || cfg.Render.Renderer != "tui" || cfg.Render.Output != "pretty" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Server.Addr != ":7070" {
		t.Fatalf("env override not applied, got %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 3*time.Second || cfg.Log.Level != "debug" {
		t.Fatalf("unexpected server/log config: %+v %+v", cfg.Server, cfg.Log)
	}
	if cfg.Tracing.Endpoint != "localhost:4318" {
		t.Fatalf("tracing endpoint env not applied, got %q", cfg.Tracing.Endpoint)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}
