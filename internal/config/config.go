package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhimana06/llmapp04/internal/proxy"
)

// Model API flavors understood by the analysis backend.
const (
	ModelAPIOpenAI = "openai"
	ModelAPIOllama = "ollama"
)

// Config holds all application configuration.
type Config struct {
	BackendURL         string        `yaml:"backend_url"`
	Port               int           `yaml:"port"`
	Debug              bool          `yaml:"debug"`
	BackendTimeout     time.Duration `yaml:"backend_timeout"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`

	// Analysis backend (cmd/aibackend).
	BackendPort      int           `yaml:"backend_port"`
	TLSCertFile      string        `yaml:"tls_cert_file"`
	TLSKeyFile       string        `yaml:"tls_key_file"`
	ModelAPI         string        `yaml:"model_api"`
	ModelURL         string        `yaml:"model_url"`
	ModelName        string        `yaml:"model_name"`
	ModelAPIKey      string        `yaml:"model_api_key"`
	ModelTemperature float64       `yaml:"model_temperature"`
	ModelTimeout     time.Duration `yaml:"model_timeout"`

	JudgeURL    string `yaml:"judge_url"`
	JudgeModel  string `yaml:"judge_model"`
	JudgeAPIKey string `yaml:"judge_api_key"`
}

func defaults() Config {
	return Config{
		BackendURL:         "https://localhost:8443",
		Port:               5000,
		BackendTimeout:     proxy.DefaultTimeout,
		InsecureSkipVerify: proxy.DefaultInsecureSkipVerify,
		BackendPort:        8443,
		ModelAPI:           ModelAPIOpenAI,
		ModelURL:           "http://localhost:11434/v1",
		ModelName:          "llama3.2",
		ModelAPIKey:        "ollama",
		ModelTemperature:   0.7,
		ModelTimeout:       120 * time.Second,
		JudgeURL:           "http://localhost:11434/v1",
		JudgeModel:         "llama3.2",
		JudgeAPIKey:        "ollama",
	}
}

// Load builds the configuration in layers: defaults, then the YAML file at
// path, then AIPROXY_* variables from envFile, then AIPROXY_* variables from
// the process environment. Empty path or envFile skips that layer.
func Load(path, envFile string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	var dotenv gotenv.Env
	if envFile != "" {
		env, err := gotenv.Read(envFile)
		if err != nil {
			return Config{}, fmt.Errorf("config: read env file: %w", err)
		}
		dotenv = env
	}
	e := envReader{lookup: func(key string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		return dotenv[key]
	}}

	e.str("AIPROXY_BACKEND_URL", &cfg.BackendURL)
	e.int("AIPROXY_PORT", &cfg.Port)
	e.bool("AIPROXY_DEBUG", &cfg.Debug)
	e.duration("AIPROXY_BACKEND_TIMEOUT", &cfg.BackendTimeout)
	e.bool("AIPROXY_INSECURE_SKIP_VERIFY", &cfg.InsecureSkipVerify)

	e.int("AIPROXY_BACKEND_PORT", &cfg.BackendPort)
	e.str("AIPROXY_TLS_CERT_FILE", &cfg.TLSCertFile)
	e.str("AIPROXY_TLS_KEY_FILE", &cfg.TLSKeyFile)
	e.str("AIPROXY_MODEL_API", &cfg.ModelAPI)
	e.str("AIPROXY_MODEL_URL", &cfg.ModelURL)
	e.str("AIPROXY_MODEL_NAME", &cfg.ModelName)
	e.str("AIPROXY_MODEL_API_KEY", &cfg.ModelAPIKey)
	e.float("AIPROXY_MODEL_TEMPERATURE", &cfg.ModelTemperature)
	e.duration("AIPROXY_MODEL_TIMEOUT", &cfg.ModelTimeout)

	e.str("AIPROXY_JUDGE_URL", &cfg.JudgeURL)
	e.str("AIPROXY_JUDGE_MODEL", &cfg.JudgeModel)
	e.str("AIPROXY_JUDGE_API_KEY", &cfg.JudgeAPIKey)

	if e.err != nil {
		return Config{}, e.err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envReader applies non-empty variables and keeps the first parse error.
type envReader struct {
	lookup func(string) string
	err    error
}

func (e *envReader) get(key string) (string, bool) {
	if e.err != nil {
		return "", false
	}
	v := e.lookup(key)
	return v, v != ""
}

func (e *envReader) fail(key, v string, err error) {
	e.err = fmt.Errorf("config: invalid %s %q: %w", key, v, err)
}

func (e *envReader) str(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *envReader) int(key string, dst *int) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = n
}

func (e *envReader) bool(key string, dst *bool) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = b
}

func (e *envReader) float(key string, dst *float64) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = f
}

func (e *envReader) duration(key string, dst *time.Duration) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = d
}

func (c Config) validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("config: backend_url is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.BackendTimeout <= 0 {
		return fmt.Errorf("config: backend_timeout must be positive, got %s", c.BackendTimeout)
	}
	if c.BackendPort <= 0 || c.BackendPort > 65535 {
		return fmt.Errorf("config: backend_port %d out of range", c.BackendPort)
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("config: tls_cert_file and tls_key_file must be set together")
	}
	if c.ModelAPI != ModelAPIOpenAI && c.ModelAPI != ModelAPIOllama {
		return fmt.Errorf("config: model_api must be %q or %q, got %q", ModelAPIOpenAI, ModelAPIOllama, c.ModelAPI)
	}
	if c.ModelURL == "" {
		return fmt.Errorf("config: model_url is required")
	}
	if c.ModelTemperature < 0 || c.ModelTemperature > 2 {
		return fmt.Errorf("config: model_temperature %v out of range [0, 2]", c.ModelTemperature)
	}
	if c.ModelTimeout <= 0 {
		return fmt.Errorf("config: model_timeout must be positive, got %s", c.ModelTimeout)
	}
	return nil
}
