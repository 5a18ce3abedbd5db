package config_test

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/exweb/exweb-backend/pkg/config"
)

var update = flag.Bool("update", false, "update golden files")

func newFakeConfig() config.Config {
	return config.Config{
		Oauth: config.Oauth{
			ClientID:     "fake_client_id",
			ClientSecret: "fake_client_secret",
			TenantID:     "fake_tenant_id",
		},
		Exchange: config.Exchange{
			Server:   "https://mail.example.com",
			GraphURL: "https://graph.microsoft.com/v1.0",
		},
		Security: config.Security{
			SigningKey:      "fake_signing_key",
			TokenExpiryMins: 30,
			Algorithm:       "HS256",
		},
		Server: config.Server{
			Hostname: "localhost",
			Address:  "127.0.0.1",
			Port:     "8080",
		},
		Cors: config.Cors{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		LogLevel: "info",
		Debug:    false,
	}
}

func updateGoldenFiles(t *testing.T, filePath string, cfg config.Config) []byte {
	t.Helper()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Errorf("marshal config: %v", err)
	}

	err = os.WriteFile(filePath, data, 0o600)
	if err != nil {
		t.Errorf("write golden file: %v", err)
	}

	return data
}

func TestValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		config    config.Config
		expectErr bool
	}{
		{
			name:      "Valid config",
			config:    newFakeConfig(),
			expectErr: false,
		},
		{
			name: "Missing oauth client",
			config: func() config.Config {
				cfg := newFakeConfig()
				cfg.Oauth.ClientID = ""

				return cfg
			}(),
			expectErr: true,
		},
		{
			name: "Asymmetric signing algorithm",
			config: func() config.Config {
				cfg := newFakeConfig()
				cfg.Security.Algorithm = "RS256"

				return cfg
			}(),
			expectErr: true,
		},
		{
			name: "Exchange server is not a URL",
			config: func() config.Config {
				cfg := newFakeConfig()
				cfg.Exchange.Server = "not a url"

				return cfg
			}(),
			expectErr: true,
		},
		{
			name: "No allowed origins",
			config: func() config.Config {
				cfg := newFakeConfig()
				cfg.Cors.AllowedOrigins = nil

				return cfg
			}(),
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if err != nil && !tc.expectErr {
				t.Errorf("unexpected error: %v", err)
			}

			if err == nil && tc.expectErr {
				t.Errorf("expected error, got none")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	if *update {
		t.Log("Updating golden files")
		updateGoldenFiles(t, "testdata/config.yaml", newFakeConfig())
		t.Log("Done updating golden files")

		return
	}

	testCases := []struct {
		name      string
		config    string
		path      string
		envPrefix string
		loader    config.Loader
		binder    config.Binder
		envs      map[string]string
		expect    config.Config
		expectErr bool
	}{
		{
			name:      "Standard config",
			config:    "config",
			path:      "testdata",
			loader:    config.NewFileSystemLoader(),
			expect:    newFakeConfig(),
			expectErr: false,
		},
		{
			name:      "Missing config file",
			config:    "nonexistent",
			path:      "testdata",
			loader:    config.NewFileSystemLoader(),
			expectErr: true,
		},
		{
			name:      "Standard config with env prefix overrides",
			config:    "config",
			path:      "testdata",
			envPrefix: "exweb",
			loader:    config.NewFileSystemLoader(),
			expect: func() config.Config {
				cfg := newFakeConfig()
				cfg.Server.Address = "0.0.0.0"

				return cfg
			}(),
			envs: map[string]string{
				"EXWEB_SERVER_ADDRESS": "0.0.0.0",
			},
		},
		{
			name:      "Standard config with env overrides and binder",
			config:    "config",
			path:      "testdata",
			envPrefix: "exweb",
			loader:    config.NewFileSystemLoader(),
			binder: config.NewEnvBinder(map[string]string{
				"AZURE_APP_CLIENT_SECRET": "oauth.client_secret",
			}),
			expect: func() config.Config {
				cfg := newFakeConfig()
				cfg.Oauth.ClientSecret = "very_secret"

				return cfg
			}(),
			envs: map[string]string{
				"AZURE_APP_CLIENT_SECRET": "very_secret",
			},
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.envs {
				t.Setenv(k, v)
			}

			cfg, err := tc.loader.Load(tc.config, tc.path, tc.envPrefix, tc.binder)
			if err != nil && !tc.expectErr {
				t.Errorf("unexpected error: %v", err)
			}

			if err == nil && tc.expectErr {
				t.Errorf("expected error, got none")
			}

			if !tc.expectErr {
				if diff := cmp.Diff(tc.expect, cfg); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func getWorkingDir(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Errorf("get working dir: %v", err)
	}

	return wd
}

func TestProcessConfigPath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		path      string
		expect    config.FileParts
		expectErr bool
	}{
		{
			name: "Relative path",
			path: "testdata/config.yaml",
			expect: config.FileParts{
				FileName: "config",
				Path:     filepath.Join(getWorkingDir(t), "testdata"),
			},
		},
		{
			name: "Absolute path",
			path: filepath.Join(getWorkingDir(t), "testdata", "config.yaml"),
			expect: config.FileParts{
				FileName: "config",
				Path:     filepath.Join(getWorkingDir(t), "testdata"),
			},
		},
		{
			name:      "Wrong extension",
			path:      "testdata/config.json",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			got, err := config.ProcessConfigPath(tc.path)
			if err != nil && !tc.expectErr {
				t.Errorf("unexpected error: %v", err)
			}

			if err == nil && tc.expectErr {
				t.Errorf("expected error, got none")
			}

			if !tc.expectErr {
				if diff := cmp.Diff(tc.expect, got); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
