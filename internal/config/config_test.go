package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lumenlabs/lumen/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "2m"
shutdown_timeout = "30s"

[database]
host = "localhost"
port = 5432
name = "lumen"
user = "lumen"
password = "lumen"
ssl_mode = "disable"
max_open_conns = 25
max_idle_conns = 5
conn_max_lifetime = "15m"
conn_timeout = "5s"

[storage]
container_name = "uploads"
connection_string = "DefaultEndpointsProtocol=http;AccountName=lumenstore;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/lumenstore;"

[pipeline]
dual_analysis = true

[pipeline.baseline]
url = "http://localhost:8000"
timeout = "10s"

[pipeline.rich]
api_key = "test-key"
model = "gemini-2.5-flash"
timeout = "45s"
max_output_tokens = 1024

[api]
base_path = "/api"

[api.cors]
enabled = false

[api.pagination]
default_page_size = 25
max_page_size = 50
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"

[pipeline]
dual_analysis = true

[pipeline.baseline]
url = "http://model-server:8000"
`

// minimalConfig provides the minimum fields required for validation to pass
// (db name/user, storage connection string, baseline url). Dual analysis is
// left disabled so no rich API key is needed.
const minimalConfig = `
shutdown_timeout = "30s"

[server]
port = 8080

[database]
name = "lumen"
user = "lumen"

[storage]
connection_string = "conn"

[pipeline.baseline]
url = "http://localhost:8000"

[api]
base_path = "/api"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("db host: got %s, want localhost", cfg.Database.Host)
	}
	if cfg.Storage.ContainerName != "uploads" {
		t.Errorf("storage container: got %s, want uploads", cfg.Storage.ContainerName)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("api base_path: got %s, want /api", cfg.API.BasePath)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 50 {
		t.Errorf("pagination max_page_size: got %d, want 50", cfg.API.Pagination.MaxPageSize)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv("LUMEN_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (from overlay)", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port: got %d, want 5432 (from base)", cfg.Database.Port)
	}
	if cfg.Pipeline.Baseline.URL != "http://model-server:8000" {
		t.Errorf("baseline url: got %s, want http://model-server:8000 (from overlay)", cfg.Pipeline.Baseline.URL)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("LUMEN_VERSION", "2.0.0")
	t.Setenv("LUMEN_SERVER_PORT", "3000")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("LUMEN_DB_NAME", "testdb")
	t.Setenv("LUMEN_DB_USER", "testuser")
	t.Setenv("LUMEN_STORAGE_CONNECTION_STRING", "conn")
	t.Setenv("LUMEN_BASELINE_URL", "http://localhost:8000")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "testdb" {
		t.Errorf("db name from env: got %s, want testdb", cfg.Database.Name)
	}
	if cfg.Storage.ConnectionString != "conn" {
		t.Errorf("storage conn from env: got %s, want conn", cfg.Storage.ConnectionString)
	}
	if cfg.Pipeline.Baseline.URL != "http://localhost:8000" {
		t.Errorf("baseline url from env: got %s", cfg.Pipeline.Baseline.URL)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", `server = {`)
	chdir(t, dir)

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestEnvDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}
}

func TestEnvFromEnvVar(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("LUMEN_ENV", "production")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Env() != "production" {
		t.Errorf("env: got %s, want production", cfg.Env())
	}
}

func TestShutdownTimeoutDuration(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if d := cfg.ShutdownTimeoutDuration(); d != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", d)
	}
}

func TestServerAddr(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if addr := cfg.Server.Addr(); addr != "0.0.0.0:8080" {
		t.Errorf("addr: got %s, want 0.0.0.0:8080", addr)
	}
}

func TestPaginationDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default_page_size: got %d, want 20", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 100 {
		t.Errorf("pagination max_page_size: got %d, want 100", cfg.API.Pagination.MaxPageSize)
	}
}

func TestPaginationEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("LUMEN_PAGINATION_DEFAULT_PAGE_SIZE", "10")
	t.Setenv("LUMEN_PAGINATION_MAX_PAGE_SIZE", "200")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.Pagination.DefaultPageSize != 10 {
		t.Errorf("pagination default_page_size: got %d, want 10", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 200 {
		t.Errorf("pagination max_page_size: got %d, want 200", cfg.API.Pagination.MaxPageSize)
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	tests := []struct {
		name string
		size string
		want int64
	}{
		{"valid 50MB", "50MB", 50 * 1024 * 1024},
		{"valid 10MB", "10MB", 10 * 1024 * 1024},
		{"valid 1GB", "1GB", 1024 * 1024 * 1024},
		{"invalid falls back to 10MB", "bad", 10 * 1024 * 1024},
		{"empty falls back to 10MB", "", 10 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.APIConfig{MaxUploadSize: tt.size}
			got := cfg.MaxUploadSizeBytes()
			if got != tt.want {
				t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMaxUploadSizeDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	want := int64(10 * 1024 * 1024)
	if got := cfg.API.MaxUploadSizeBytes(); got != want {
		t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, want)
	}
}

func TestMaxUploadSizeEnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("LUMEN_API_MAX_UPLOAD_SIZE", "100MB")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	want := int64(100 * 1024 * 1024)
	if got := cfg.API.MaxUploadSizeBytes(); got != want {
		t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, want)
	}
}

func TestServerValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name: "invalid port",
			config: `
shutdown_timeout = "30s"

[server]
port = 99999

[database]
name = "lumen"
user = "lumen"

[storage]
connection_string = "conn"

[pipeline.baseline]
url = "http://localhost:8000"
`,
			wantErr: "invalid port",
		},
		{
			name: "invalid read_timeout",
			config: `
shutdown_timeout = "30s"

[server]
read_timeout = "bad"

[database]
name = "lumen"
user = "lumen"

[storage]
connection_string = "conn"

[pipeline.baseline]
url = "http://localhost:8000"
`,
			wantErr: "invalid read_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.toml", tt.config)
			chdir(t, dir)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPipelineConfigFromTOML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if !cfg.Pipeline.DualAnalysis {
		t.Error("dual_analysis should be enabled")
	}
	if cfg.Pipeline.Baseline.URL != "http://localhost:8000" {
		t.Errorf("baseline url: got %s, want http://localhost:8000", cfg.Pipeline.Baseline.URL)
	}
	if cfg.Pipeline.Rich.Model != "gemini-2.5-flash" {
		t.Errorf("rich model: got %s, want gemini-2.5-flash", cfg.Pipeline.Rich.Model)
	}
	if cfg.Pipeline.Rich.MaxOutputTokens != 1024 {
		t.Errorf("rich max_output_tokens: got %d, want 1024", cfg.Pipeline.Rich.MaxOutputTokens)
	}
}

func TestPipelineDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Pipeline.DualAnalysis {
		t.Error("dual_analysis should default to false")
	}
	if cfg.Pipeline.Baseline.Timeout != "10s" {
		t.Errorf("baseline timeout: got %s, want 10s", cfg.Pipeline.Baseline.Timeout)
	}
	if cfg.Pipeline.Rich.Model != "gemini-2.5-flash" {
		t.Errorf("rich model: got %s, want gemini-2.5-flash", cfg.Pipeline.Rich.Model)
	}
	if cfg.Pipeline.Rich.Timeout != "45s" {
		t.Errorf("rich timeout: got %s, want 45s", cfg.Pipeline.Rich.Timeout)
	}
	if cfg.Pipeline.Rich.MaxOutputTokens != 1024 {
		t.Errorf("rich max_output_tokens: got %d, want 1024", cfg.Pipeline.Rich.MaxOutputTokens)
	}
}

func TestPipelineEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("LUMEN_DUAL_ANALYSIS", "true")
	t.Setenv("LUMEN_BASELINE_URL", "http://override:8000")
	t.Setenv("LUMEN_RICH_API_KEY", "env-key")
	t.Setenv("LUMEN_RICH_MODEL", "gemini-2.5-pro")
	t.Setenv("LUMEN_RICH_MAX_OUTPUT_TOKENS", "2048")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if !cfg.Pipeline.DualAnalysis {
		t.Error("dual_analysis should be enabled from env")
	}
	if cfg.Pipeline.Baseline.URL != "http://override:8000" {
		t.Errorf("baseline url: got %s, want http://override:8000", cfg.Pipeline.Baseline.URL)
	}
	if cfg.Pipeline.Rich.APIKey != "env-key" {
		t.Errorf("rich api_key: got %s, want env-key", cfg.Pipeline.Rich.APIKey)
	}
	if cfg.Pipeline.Rich.Model != "gemini-2.5-pro" {
		t.Errorf("rich model: got %s, want gemini-2.5-pro", cfg.Pipeline.Rich.Model)
	}
	if cfg.Pipeline.Rich.MaxOutputTokens != 2048 {
		t.Errorf("rich max_output_tokens: got %d, want 2048", cfg.Pipeline.Rich.MaxOutputTokens)
	}
}

func TestPipelineValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.PipelineConfig)
		wantErr string
	}{
		{
			name:    "missing baseline url",
			mutate:  func(c *config.PipelineConfig) {},
			wantErr: "baseline url required",
		},
		{
			name: "dual without api key",
			mutate: func(c *config.PipelineConfig) {
				c.Baseline.URL = "http://localhost:8000"
				c.DualAnalysis = true
			},
			wantErr: "rich api_key required",
		},
		{
			name: "invalid baseline timeout",
			mutate: func(c *config.PipelineConfig) {
				c.Baseline.URL = "http://localhost:8000"
				c.Baseline.Timeout = "bad"
			},
			wantErr: "invalid baseline timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.PipelineConfig{}
			tt.mutate(&cfg)

			err := cfg.Finalize()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
