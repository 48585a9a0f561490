// README: Config loader: .env, optional tripwise.yaml and env overrides for HTTP, LLM, preference store, quota and edge settings.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"

	GroqBaseURL = "https://api.groq.com/openai/v1"
	GroqModel   = "llama-3.1-8b-instant"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	LLM struct {
		Provider string
		Model    string
		BaseURL  string
		Attempts int
		Timeout  time.Duration
	}
	AI struct {
		GeminiKey string
		OpenAIKey string
	}
	Preference struct {
		Embedder string
		Store    string
		TopK     int
	}
	Redis struct {
		Addr string
	}
	DB struct {
		DSN string
	}
	Usage struct {
		Monthly int
	}
	Firebase struct {
		ProjectID       string
		CredentialsFile string
		Collection      string
	}
	Maps struct {
		APIKey string
	}
	Schedule struct {
		Strict bool
	}
	Rate struct {
		RPS   float64
		Burst int
	}
	CORS struct {
		Origins []string
	}
}

// env var names per config key.
var bindings = map[string][]string{
	"http.addr":            {"TRIP_HTTP_ADDR"},
	"llm.provider":         {"TRIP_LLM_PROVIDER"},
	"llm.model":            {"TRIP_LLM_MODEL"},
	"llm.base_url":         {"TRIP_LLM_BASE_URL"},
	"llm.attempts":         {"TRIP_LLM_ATTEMPTS"},
	"llm.timeout":          {"TRIP_LLM_TIMEOUT"},
	"gemini.api_key":       {"GEMINI_API_KEY"},
	"openai.api_key":       {"OPENAI_API_KEY", "GROQ_API_KEY"},
	"preference.embedder":  {"TRIP_EMBEDDER"},
	"preference.store":     {"TRIP_PREFERENCE_STORE"},
	"preference.top_k":     {"TRIP_PREFERENCE_TOP_K"},
	"redis.addr":           {"TRIP_REDIS_ADDR"},
	"db.dsn":               {"TRIP_DB_DSN"},
	"usage.monthly":        {"TRIP_USAGE_MONTHLY"},
	"firebase.project_id":  {"TRIP_FIREBASE_PROJECT_ID"},
	"firebase.credentials": {"TRIP_FIREBASE_CREDENTIALS"},
	"firestore.collection": {"TRIP_FIRESTORE_COLLECTION"},
	"maps.api_key":         {"TRIP_MAPS_API_KEY"},
	"schedule.strict":      {"TRIP_SCHEDULE_STRICT"},
	"rate.rps":             {"TRIP_RATE_RPS"},
	"rate.burst":           {"TRIP_RATE_BURST"},
	"cors.origins":         {"TRIP_CORS_ORIGINS"},
}

// Load reads .env (if present), then tripwise.yaml from . or ./config (if present),
// then the environment. Missing credentials are not an error here.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("tripwise")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("llm.provider", ProviderGemini)
	v.SetDefault("llm.attempts", 1)
	v.SetDefault("llm.timeout", "2m")
	v.SetDefault("preference.embedder", "hash")
	v.SetDefault("preference.store", "memory")
	v.SetDefault("preference.top_k", 3)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("usage.monthly", 100)
	v.SetDefault("firestore.collection", "trip_preferences")
	v.SetDefault("rate.rps", 2.0)
	v.SetDefault("rate.burst", 5)
	v.SetDefault("cors.origins", "*")
}

func fromViper(v *viper.Viper) (Config, error) {
	setDefaults(v)
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	cfg.HTTP.Addr = v.GetString("http.addr")

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(v.GetString("llm.provider")))
	cfg.LLM.Model = v.GetString("llm.model")
	cfg.LLM.BaseURL = v.GetString("llm.base_url")
	cfg.LLM.Attempts = v.GetInt("llm.attempts")
	cfg.LLM.Timeout = v.GetDuration("llm.timeout")
	switch cfg.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	case ProviderGroq:
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = GroqBaseURL
		}
		if cfg.LLM.Model == "" {
			cfg.LLM.Model = GroqModel
		}
	default:
		return Config{}, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}

	cfg.AI.GeminiKey = v.GetString("gemini.api_key")
	cfg.AI.OpenAIKey = v.GetString("openai.api_key")

	cfg.Preference.Embedder = strings.ToLower(v.GetString("preference.embedder"))
	if cfg.Preference.Embedder != "hash" && cfg.Preference.Embedder != "gemini" {
		return Config{}, fmt.Errorf("unknown embedder %q", cfg.Preference.Embedder)
	}
	cfg.Preference.Store = strings.ToLower(v.GetString("preference.store"))
	switch cfg.Preference.Store {
	case "none", "memory", "redis", "firestore":
	default:
		return Config{}, fmt.Errorf("unknown preference store %q", cfg.Preference.Store)
	}
	cfg.Preference.TopK = v.GetInt("preference.top_k")

	cfg.Redis.Addr = v.GetString("redis.addr")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Usage.Monthly = v.GetInt("usage.monthly")

	cfg.Firebase.ProjectID = v.GetString("firebase.project_id")
	cfg.Firebase.CredentialsFile = v.GetString("firebase.credentials")
	cfg.Firebase.Collection = v.GetString("firestore.collection")
	if cfg.Preference.Store == "firestore" && cfg.Firebase.ProjectID == "" {
		return Config{}, errors.New("firestore preference store requires TRIP_FIREBASE_PROJECT_ID")
	}

	cfg.Maps.APIKey = v.GetString("maps.api_key")
	cfg.Schedule.Strict = v.GetBool("schedule.strict")

	cfg.Rate.RPS = v.GetFloat64("rate.rps")
	cfg.Rate.Burst = v.GetInt("rate.burst")
	// Accepts a YAML list or a comma-separated env value.
	cfg.CORS.Origins = splitList(strings.Join(v.GetStringSlice("cors.origins"), ","))
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
