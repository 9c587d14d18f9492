package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func configPath(t *testing.T) string {
	t.Helper()

	// project root is two levels up from internal/config
	projectRoot, err := filepath.Abs("../../")
	if err != nil {
		t.Fatalf("failed to get project root: %v", err)
	}

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(configPath(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Title == "" {
		t.Error("Config.Title should not be empty")
	}

	if cfg.Webserver.Port != 8080 {
		t.Errorf("Webserver.Port = %d, want 8080", cfg.Webserver.Port)
	}

	if cfg.DB.GormEngine != EngineMySQL {
		t.Errorf("DB.GormEngine = %q, want %q", cfg.DB.GormEngine, EngineMySQL)
	}

	if cfg.Auth.TokenExpiry != 12*time.Hour {
		t.Errorf("Auth.TokenExpiry = %v, want 12h", cfg.Auth.TokenExpiry)
	}

	if cfg.Log.File.AccessLog != "access.log" {
		t.Errorf("Log.File.AccessLog = %q, want access.log", cfg.Log.File.AccessLog)
	}

	if !cfg.Log.Console.Enabled {
		t.Error("Log.Console.Enabled should be true")
	}
}

func TestReadConfigWithEnvOverride(t *testing.T) {
	t.Setenv("NICESPEAK_ADMIN_WEBSERVER_PORT", "9191")
	t.Setenv("NICESPEAK_ADMIN_DB_GORMENGINE", "postgres")

	cfg, err := ReadConfig(configPath(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Webserver.Port != 9191 {
		t.Errorf("Webserver.Port = %v, want 9191", cfg.Webserver.Port)
	}

	if cfg.DB.GormEngine != EnginePostgres {
		t.Errorf("DB.GormEngine = %v, want postgres", cfg.DB.GormEngine)
	}
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	t.Setenv(EnvConfigJSON, `{"Title":"Test Override","Webserver":{"Port":9090}}`)

	cfg, err := ReadConfig(configPath(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Title != "Test Override" {
		t.Errorf("Title = %v, want %v", cfg.Title, "Test Override")
	}

	if cfg.Webserver.Port != 9090 {
		t.Errorf("Webserver.Port = %v, want %v", cfg.Webserver.Port, 9090)
	}

	// untouched sections keep the file values
	if cfg.Webserver.URL == "" {
		t.Error("Webserver.URL should keep the file value")
	}
}

func TestReadConfigMissingFile(t *testing.T) {
	if _, err := ReadConfig(t.TempDir()); err == nil {
		t.Error("ReadConfig() expected an error for a missing file")
	}
}

func TestConfigValidation(t *testing.T) {
	secret := strings.Repeat("s", 32)

	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name: "valid config",
			config: Config{
				Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
				Auth:      Auth{JWTSecret: secret},
			},
		},
		{
			name: "missing port",
			config: Config{
				Webserver: Webserver{URL: "http://localhost:8080"},
				Auth:      Auth{JWTSecret: secret},
			},
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name: "missing URL",
			config: Config{
				Webserver: Webserver{Port: 8080},
				Auth:      Auth{JWTSecret: secret},
			},
			wantErr: ErrEmptyURL,
		},
		{
			name: "unknown engine",
			config: Config{
				Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
				DB:        DB{GormEngine: "oracle"},
				Auth:      Auth{JWTSecret: secret},
			},
			wantErr: ErrUnknownEngine,
		},
		{
			name: "short secret",
			config: Config{
				Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
				Auth:      Auth{JWTSecret: "short"},
			},
			wantErr: ErrJWTSecretTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(&tt.config)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{
		Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
		Auth:      Auth{JWTSecret: strings.Repeat("s", 32)},
	}

	if err := validate(&cfg); err != nil {
		t.Fatalf("validate() error = %v", err)
	}

	if cfg.Webserver.ShutDownTime != defaultShutDownTime {
		t.Errorf("ShutDownTime = %d, want %d", cfg.Webserver.ShutDownTime, defaultShutDownTime)
	}

	if cfg.DB.GormEngine != EngineMySQL {
		t.Errorf("GormEngine = %q, want %q", cfg.DB.GormEngine, EngineMySQL)
	}

	if cfg.Auth.TokenExpiry != defaultTokenExpiry || cfg.Auth.Issuer != defaultIssuer {
		t.Errorf("Auth defaults not applied: %+v", cfg.Auth)
	}
}

func TestDumpConfig(t *testing.T) {
	cfg := Config{
		Title:   "Test",
		DevMode: true,
		Webserver: Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
	}

	tomlStr, err := DumpConfig(&cfg)
	if err != nil {
		t.Fatalf("DumpConfig() error = %v", err)
	}

	if !strings.Contains(tomlStr, "title") || !strings.Contains(tomlStr, "Test") {
		t.Errorf("DumpConfig() output should contain the title, got:\n%s", tomlStr)
	}

	jsonStr, err := DumpConfigJSON(&cfg)
	if err != nil {
		t.Fatalf("DumpConfigJSON() error = %v", err)
	}

	if !strings.Contains(jsonStr, `"Port": 8080`) {
		t.Errorf("DumpConfigJSON() output should contain the port, got:\n%s", jsonStr)
	}
}
