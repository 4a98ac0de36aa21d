package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_MinimalConfig(t *testing.T) {
	yaml := `
base_url: https://chat.example.com/api
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// check defaults applied
	if cfg.Timeout.Duration() != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout.Duration())
	}
	if cfg.PollInterval.Duration() != 1*time.Second {
		t.Errorf("PollInterval = %v, want 1s", cfg.PollInterval.Duration())
	}
	if cfg.PollMaxAttempts != 60 {
		t.Errorf("PollMaxAttempts = %d, want 60", cfg.PollMaxAttempts)
	}
}

func TestParse_FullConfig(t *testing.T) {
	yaml := `
base_url: https://chat.example.com/api
timeout: 10s
poll_interval: 2s
poll_max_attempts: 30
credentials_dir: /tmp/chatwire-creds
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.BaseURL != "https://chat.example.com/api" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout.Duration() != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout.Duration())
	}
	if cfg.PollInterval.Duration() != 2*time.Second {
		t.Errorf("PollInterval = %v, want 2s", cfg.PollInterval.Duration())
	}
	if cfg.PollMaxAttempts != 30 {
		t.Errorf("PollMaxAttempts = %d, want 30", cfg.PollMaxAttempts)
	}
	if cfg.CredentialsDir != "/tmp/chatwire-creds" {
		t.Errorf("CredentialsDir = %q", cfg.CredentialsDir)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing base_url",
			yaml:    `timeout: 10s`,
			wantErr: "base_url is required",
		},
		{
			name:    "bad scheme",
			yaml:    `base_url: ftp://chat.example.com`,
			wantErr: "scheme must be http or https",
		},
		{
			name: "poll interval too aggressive",
			yaml: `
base_url: https://chat.example.com
poll_interval: 10ms
`,
			wantErr: "poll_interval must be at least",
		},
		{
			name: "negative max attempts",
			yaml: `
base_url: https://chat.example.com
poll_max_attempts: -5
`,
			wantErr: "poll_max_attempts must be at least 1",
		},
		{
			name: "invalid duration",
			yaml: `
base_url: https://chat.example.com
timeout: banana
`,
			wantErr: "invalid duration",
		},
		{
			name:    "malformed yaml",
			yaml:    `base_url: [unclosed`,
			wantErr: "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_EnvVarExpansion(t *testing.T) {
	t.Setenv("CHAT_HOST", "chat.example.com")

	yaml := `
base_url: https://${CHAT_HOST}/api
credentials_dir: ${CHAT_CREDS:-/tmp/creds}
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.BaseURL != "https://chat.example.com/api" {
		t.Errorf("BaseURL = %q, want expanded host", cfg.BaseURL)
	}
	// CHAT_CREDS is unset, so the default applies
	if cfg.CredentialsDir != "/tmp/creds" {
		t.Errorf("CredentialsDir = %q, want default /tmp/creds", cfg.CredentialsDir)
	}
}

func TestParse_EnvVarMissing(t *testing.T) {
	yaml := `
base_url: https://${CHATWIRE_TEST_UNSET_VAR}/api
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("Parse() error = nil for unset variable without default")
	}
	if !strings.Contains(err.Error(), "CHATWIRE_TEST_UNSET_VAR") {
		t.Errorf("Parse() error = %q, want the variable named", err)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("Load() error = nil for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Load() error = %q, want read failure", err)
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
base_url: https://chat.example.com/api
poll_interval: 2s
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PollInterval.Duration() != 2*time.Second {
		t.Errorf("PollInterval = %v, want 2s", cfg.PollInterval.Duration())
	}
}

func TestBuildClient(t *testing.T) {
	cfg := &Config{
		BaseURL:         "https://chat.example.com/api",
		Timeout:         Duration(10 * time.Second),
		PollInterval:    Duration(2 * time.Second),
		PollMaxAttempts: 30,
		CredentialsDir:  t.TempDir(),
	}

	client, err := BuildClient(cfg)
	if err != nil {
		t.Fatalf("BuildClient() error = %v", err)
	}
	if client.BaseURL() != "https://chat.example.com/api" {
		t.Errorf("BaseURL() = %q", client.BaseURL())
	}
}
