package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(envFrom(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &Config{
		ServerAddress:         ":8080",
		ShutdownTimeout:       10 * time.Second,
		DatabasePath:          "studymate.db",
		CORSOrigins:           []string{"http://localhost:3000"},
		LogLevel:              "info",
		LLMURL:                "https://api.groq.com/openai/v1",
		LLMModel:              "llama-3.1-8b-instant",
		GenerationTimeout:     120 * time.Second,
		GenerationTemperature: 0.7,
		GenerationMaxTokens:   8000,
		StrictQuizValidation:  true,
		GradingTimeout:        15 * time.Second,
		GradingWorkers:        8,
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("defaults mismatch:\n got %+v\nwant %+v", cfg, want)
	}
}

func TestParse_EnvironmentOverrides(t *testing.T) {
	cfg, err := Parse(envFrom(map[string]string{
		"SERVER_ADDRESS":         ":9090",
		"LLM_URL":                "http://localhost:1234/v1/",
		"GROQ_API_KEY":           "gsk-test",
		"GRADING_WORKERS":        "3",
		"STRICT_QUIZ_VALIDATION": "false",
		"CORS_ORIGINS":           "http://a.test, http://b.test,",
		"LOG_LEVEL":              "DEBUG",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServerAddress != ":9090" || cfg.GradingWorkers != 3 || cfg.StrictQuizValidation {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.LLMURL != "http://localhost:1234/v1" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.LLMURL)
	}
	if cfg.LLMAPIKey != "gsk-test" {
		t.Errorf("expected GROQ_API_KEY fallback, got %q", cfg.LLMAPIKey)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"http://a.test", "http://b.test"}) {
		t.Errorf("unexpected origins: %v", cfg.CORSOrigins)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected lower-cased log level, got %q", cfg.LogLevel)
	}
}

func TestParse_APIKeyPrecedence(t *testing.T) {
	cfg, err := Parse(envFrom(map[string]string{
		"LLM_API_KEY":  "primary",
		"GROQ_API_KEY": "secondary",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLMAPIKey != "primary" {
		t.Errorf("expected LLM_API_KEY to win, got %q", cfg.LLMAPIKey)
	}
}

func TestParse_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"SHUTDOWN_TIMEOUT", "soon", "SHUTDOWN_TIMEOUT"},
		{"GRADING_WORKERS", "eight", "GRADING_WORKERS"},
		{"GRADING_WORKERS", "0", "at least 1"},
		{"GENERATION_MAX_TOKENS", "-5", "at least 1"},
		{"GENERATION_TEMPERATURE", "3", "between 0 and 2"},
		{"STRICT_QUIZ_VALIDATION", "maybe", "STRICT_QUIZ_VALIDATION"},
		{"GRADING_TIMEOUT", "0s", "must be positive"},
		{"LOG_LEVEL", "verbose", "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			_, err := Parse(envFrom(map[string]string{tt.key: tt.value}))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "studymate.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestParse_FileOverlay(t *testing.T) {
	path := writeFile(t, `
llm_model: llama-3.3-70b-versatile
grading_workers: 4
generation_temperature: 0.2
strict_quiz_validation: false
cors_origins:
  - http://one.test
  - http://two.test
grading_timeout: 5s
`)

	cfg, err := Parse(envFrom(map[string]string{
		FileEnv:           path,
		"GRADING_WORKERS": "6",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LLMModel != "llama-3.3-70b-versatile" || cfg.GenerationTemperature != 0.2 || cfg.StrictQuizValidation {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.GradingWorkers != 6 {
		t.Errorf("expected environment to win over file, got %d", cfg.GradingWorkers)
	}
	if cfg.GradingTimeout != 5*time.Second {
		t.Errorf("expected 5s grading timeout, got %v", cfg.GradingTimeout)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("expected file origins, got %v", cfg.CORSOrigins)
	}
}

func TestParse_FileRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "llm_modle: typo\n")

	_, err := Parse(envFrom(map[string]string{FileEnv: path}))
	if err == nil || !strings.Contains(err.Error(), "llm_modle") {
		t.Fatalf("expected unknown-field error, got %v", err)
	}
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse(envFrom(map[string]string{FileEnv: filepath.Join(t.TempDir(), "absent.yaml")}))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}
