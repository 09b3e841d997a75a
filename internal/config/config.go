package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultIAMTokenURL = "https://iam.cloud.ibm.com/identity/token"

type Config struct {
	Port          string
	AllowedOrigin string
	// IBM Cloud credential exchanged for short-lived bearer tokens
	APIKey string
	// Public deployment URL of the watsonx agent (.../ai_service?version=...)
	AgentURL    string
	IAMTokenURL string
	// Per-attempt timeout for agent calls; generative replies can be slow
	AgentTimeout time.Duration
	IAMTimeout   time.Duration
	// Optional YAML prompt spec for the quick-start samples
	QuickStartPromptFile string
	// Cap on retained transcript messages per session
	MaxSessionMessages int
}

// Load reads .env (when present) and the process environment. It fails when
// either of the two required settings is missing so the server refuses to
// start half-configured.
func Load() (Config, error) {
	_ = godotenv.Load()
	cfg := Config{
		Port:                 getEnvDefault("PORT", "8080"),
		AllowedOrigin:        getEnvDefault("ALLOWED_ORIGIN", "*"),
		APIKey:               os.Getenv("IBM_CLOUD_API_KEY"),
		AgentURL:             os.Getenv("WATSONX_AGENT_URL"),
		IAMTokenURL:          getEnvDefault("IAM_TOKEN_URL", defaultIAMTokenURL),
		AgentTimeout:         getEnvDurationDefault("AGENT_TIMEOUT", 90*time.Second),
		IAMTimeout:           getEnvDurationDefault("IAM_TIMEOUT", 30*time.Second),
		QuickStartPromptFile: getEnvDefault("QUICKSTART_PROMPT_FILE", "prompts/quickstart.yaml"),
		MaxSessionMessages:   40,
	}
	if cfg.APIKey == "" || cfg.AgentURL == "" {
		return Config{}, fmt.Errorf("missing IBM_CLOUD_API_KEY or WATSONX_AGENT_URL in environment; put them in .env next to the binary")
	}
	return cfg, nil
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDurationDefault(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
