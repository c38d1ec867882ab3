package config

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileEnv names the variable pointing at an optional YAML settings file.
// Values from the file sit between the built-in defaults and the environment.
const FileEnv = "STUDYMATE_CONFIG"

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
	DatabasePath    string
	CORSOrigins     []string
	LogLevel        string

	// Model provider, any OpenAI-compatible chat completions endpoint
	LLMURL    string // e.g. "https://api.groq.com/openai/v1"
	LLMModel  string // e.g. "llama-3.1-8b-instant"
	LLMAPIKey string

	// Quiz generation
	GenerationTimeout     time.Duration
	GenerationTemperature float64
	GenerationMaxTokens   int
	StrictQuizValidation  bool

	// Short-answer grading
	GradingTimeout time.Duration
	GradingWorkers int
}

// fileConfig mirrors the environment keys for the YAML overlay.
type fileConfig struct {
	ServerAddress         string   `yaml:"server_address"`
	ShutdownTimeout       string   `yaml:"shutdown_timeout"`
	DatabasePath          string   `yaml:"database_path"`
	CORSOrigins           []string `yaml:"cors_origins"`
	LogLevel              string   `yaml:"log_level"`
	LLMURL                string   `yaml:"llm_url"`
	LLMModel              string   `yaml:"llm_model"`
	LLMAPIKey             string   `yaml:"llm_api_key"`
	GenerationTimeout     string   `yaml:"generation_timeout"`
	GenerationTemperature *float64 `yaml:"generation_temperature"`
	GenerationMaxTokens   *int     `yaml:"generation_max_tokens"`
	StrictQuizValidation  *bool    `yaml:"strict_quiz_validation"`
	GradingTimeout        string   `yaml:"grading_timeout"`
	GradingWorkers        *int     `yaml:"grading_workers"`
}

// Load reads .env, the optional YAML file and the environment.
// Any invalid value stops the process.
func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := Parse(os.Getenv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// Parse builds a Config from getenv, layering the file named by FileEnv
// under it.
func Parse(getenv func(string) string) (*Config, error) {
	file := map[string]string{}
	if path := getenv(FileEnv); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if file, err = parseFile(data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	lookup := func(k string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return file[k]
	}

	p := parser{lookup: lookup}
	cfg := &Config{
		ServerAddress:         p.getString("SERVER_ADDRESS", ":8080"),
		ShutdownTimeout:       p.getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		DatabasePath:          p.getString("DATABASE_PATH", "studymate.db"),
		CORSOrigins:           p.getList("CORS_ORIGINS", "http://localhost:3000"),
		LogLevel:              strings.ToLower(p.getString("LOG_LEVEL", "info")),
		LLMURL:                strings.TrimRight(p.getString("LLM_URL", "https://api.groq.com/openai/v1"), "/"),
		LLMModel:              p.getString("LLM_MODEL", "llama-3.1-8b-instant"),
		LLMAPIKey:             p.getString("LLM_API_KEY", lookup("GROQ_API_KEY")),
		GenerationTimeout:     p.getDuration("GENERATION_TIMEOUT", 120*time.Second),
		GenerationTemperature: p.getFloat("GENERATION_TEMPERATURE", 0.7),
		GenerationMaxTokens:   p.getInt("GENERATION_MAX_TOKENS", 8000),
		StrictQuizValidation:  p.getBool("STRICT_QUIZ_VALIDATION", true),
		GradingTimeout:        p.getDuration("GRADING_TIMEOUT", 15*time.Second),
		GradingWorkers:        p.getInt("GRADING_WORKERS", 8),
	}
	if p.err != nil {
		return nil, p.err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.ShutdownTimeout <= 0:
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	case c.GenerationTimeout <= 0:
		return fmt.Errorf("GENERATION_TIMEOUT must be positive")
	case c.GradingTimeout <= 0:
		return fmt.Errorf("GRADING_TIMEOUT must be positive")
	case c.GradingWorkers < 1:
		return fmt.Errorf("GRADING_WORKERS must be at least 1, got %d", c.GradingWorkers)
	case c.GenerationMaxTokens < 1:
		return fmt.Errorf("GENERATION_MAX_TOKENS must be at least 1, got %d", c.GenerationMaxTokens)
	case c.GenerationTemperature < 0 || c.GenerationTemperature > 2:
		return fmt.Errorf("GENERATION_TEMPERATURE must be between 0 and 2, got %g", c.GenerationTemperature)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL=%q is not one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}

func parseFile(data []byte) (map[string]string, error) {
	var fc fileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	out := map[string]string{
		"SERVER_ADDRESS":     fc.ServerAddress,
		"SHUTDOWN_TIMEOUT":   fc.ShutdownTimeout,
		"DATABASE_PATH":      fc.DatabasePath,
		"CORS_ORIGINS":       strings.Join(fc.CORSOrigins, ","),
		"LOG_LEVEL":          fc.LogLevel,
		"LLM_URL":            fc.LLMURL,
		"LLM_MODEL":          fc.LLMModel,
		"LLM_API_KEY":        fc.LLMAPIKey,
		"GENERATION_TIMEOUT": fc.GenerationTimeout,
		"GRADING_TIMEOUT":    fc.GradingTimeout,
	}
	if fc.GenerationTemperature != nil {
		out["GENERATION_TEMPERATURE"] = strconv.FormatFloat(*fc.GenerationTemperature, 'g', -1, 64)
	}
	if fc.GenerationMaxTokens != nil {
		out["GENERATION_MAX_TOKENS"] = strconv.Itoa(*fc.GenerationMaxTokens)
	}
	if fc.StrictQuizValidation != nil {
		out["STRICT_QUIZ_VALIDATION"] = strconv.FormatBool(*fc.StrictQuizValidation)
	}
	if fc.GradingWorkers != nil {
		out["GRADING_WORKERS"] = strconv.Itoa(*fc.GradingWorkers)
	}
	return out, nil
}

// parser keeps the first conversion error so Parse can report it once.
type parser struct {
	lookup func(string) string
	err    error
}

func (p *parser) fail(k, v string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%s=%q is not valid: %v", k, v, err)
	}
}

func (p *parser) getString(k, fallback string) string {
	if v := p.lookup(k); v != "" {
		return v
	}
	return fallback
}

func (p *parser) getList(k, fallback string) []string {
	var out []string
	for _, part := range strings.Split(p.getString(k, fallback), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (p *parser) getDuration(k string, fallback time.Duration) time.Duration {
	v := p.lookup(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(k, v, err)
		return fallback
	}
	return d
}

func (p *parser) getInt(k string, fallback int) int {
	v := p.lookup(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(k, v, err)
		return fallback
	}
	return n
}

func (p *parser) getFloat(k string, fallback float64) float64 {
	v := p.lookup(k)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(k, v, err)
		return fallback
	}
	return f
}

func (p *parser) getBool(k string, fallback bool) bool {
	v := p.lookup(k)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(k, v, err)
		return fallback
	}
	return b
}
