package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

type AppConfig struct {
	Env                Environment
	LogLevel           string
	ServerPort         string
	RawBodyLog         bool
	HttpTimeoutSeconds int
	LogFile            string
	LogMaxSizeMB       int
	LogMaxBackups      int
	LogMaxAgeDays      int
}

type SummaryConfig struct {
	Threshold              float64
	Damping                float64
	MaxIterations          int
	Epsilon                float64
	DefaultCompressionRate float64
	DefaultEmbedding       string
	MinTextLength          int
}

type PreprocessConfig struct {
	RulesFile     string
	StopwordsFile string
	LemmaFile     string
	Normalizer    string
}

type PythonConfig struct {
	ConfigDir              string
	ProcessStartupTimeout  int
	ProcessShutdownTimeout int
	ProcessKillTimeout     int
}

type OllamaConfig struct {
	Host  string
	Model string
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type SemanticConfig struct {
	BertModel    string
	RobertaModel string
	MaxLength    int
	TimeoutMs    int
	WorkerCount  int
	CacheSize    int
	Python       PythonConfig
	Ollama       OllamaConfig
	OpenAI       OpenAIConfig
}

type Config struct {
	App        AppConfig
	Summary    SummaryConfig
	Preprocess PreprocessConfig
	Semantic   SemanticConfig
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	appEnv := getEnv("APP_ENV", "development")
	env := parseEnvironment(appEnv)

	logLevel := getLogLevel(env)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	defaultPythonDir := filepath.Join(homeDir, ".config", "rezumat")

	defaultWorkerCount := calculateDefaultWorkerCount()

	return &Config{
		App: AppConfig{
			Env:                env,
			LogLevel:           logLevel,
			ServerPort:         getEnv("APP_SERVER_PORT", "8080"),
			RawBodyLog:         getEnvBool("APP_RAW_BODY_LOG", false),
			HttpTimeoutSeconds: getEnvInt("APP_HTTP_TIMEOUT_SECONDS", 30),
			LogFile:            getEnv("APP_LOG_FILE", ""),
			LogMaxSizeMB:       getEnvInt("APP_LOG_MAX_SIZE_MB", 50),
			LogMaxBackups:      getEnvInt("APP_LOG_MAX_BACKUPS", 3),
			LogMaxAgeDays:      getEnvInt("APP_LOG_MAX_AGE_DAYS", 28),
		},
		Summary: SummaryConfig{
			Threshold:              getEnvFloat("SUMMARY_THRESHOLD", 0.1),
			Damping:                getEnvFloat("SUMMARY_DAMPING", 0.15),
			MaxIterations:          getEnvInt("SUMMARY_MAX_ITERATIONS", 100),
			Epsilon:                getEnvFloat("SUMMARY_EPSILON", 1e-4),
			DefaultCompressionRate: getEnvFloat("SUMMARY_DEFAULT_COMPRESSION_RATE", 0.3),
			DefaultEmbedding:       strings.ToLower(getEnv("SUMMARY_DEFAULT_EMBEDDING", "tfidf")),
			MinTextLength:          getEnvInt("SUMMARY_MIN_TEXT_LENGTH", 10),
		},
		Preprocess: PreprocessConfig{
			RulesFile:     getEnv("PREPROCESS_RULES_FILE", ""),
			StopwordsFile: getEnv("PREPROCESS_STOPWORDS_FILE", ""),
			LemmaFile:     getEnv("PREPROCESS_LEMMA_FILE", ""),
			Normalizer:    strings.ToLower(getEnv("PREPROCESS_NORMALIZER", "stem")),
		},
		Semantic: SemanticConfig{
			BertModel:    getEnv("SEMANTIC_BERT_MODEL", "dumitrescustefan/bert-base-romanian-cased-v1"),
			RobertaModel: getEnv("SEMANTIC_ROBERTA_MODEL", "readerbench/RoBERT-base"),
			MaxLength:    getEnvInt("SEMANTIC_MAX_LENGTH", 512),
			TimeoutMs:    getEnvInt("SEMANTIC_TIMEOUT_MS", 30000),
			WorkerCount:  getEnvInt("SEMANTIC_WORKER_COUNT", defaultWorkerCount),
			CacheSize:    getEnvInt("SEMANTIC_CACHE_SIZE", 4096),
			Python: PythonConfig{
				ConfigDir:              getEnv("SEMANTIC_PYTHON_CONFIG_DIR", defaultPythonDir),
				ProcessStartupTimeout:  getEnvInt("SEMANTIC_PYTHON_PROCESS_STARTUP_TIMEOUT", 300),
				ProcessShutdownTimeout: getEnvInt("SEMANTIC_PYTHON_PROCESS_SHUTDOWN_TIMEOUT", 5),
				ProcessKillTimeout:     getEnvInt("SEMANTIC_PYTHON_PROCESS_KILL_TIMEOUT", 2),
			},
			Ollama: OllamaConfig{
				Host:  getEnv("OLLAMA_HOST", "http://localhost:11434"),
				Model: getEnv("OLLAMA_EMBED_MODEL", "nomic-embed-text"),
			},
			OpenAI: OpenAIConfig{
				APIKey:  getEnv("OPENAI_API_KEY", ""),
				BaseURL: getEnv("OPENAI_BASE_URL", ""),
				Model:   getEnv("OPENAI_EMBED_MODEL", "text-embedding-3-small"),
			},
		},
	}, nil
}

// Validate rejects settings the summarizer cannot run with. Embedding
// names are checked by the embedding registry, not here.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.App.ServerPort); err != nil {
		return fmt.Errorf("APP_SERVER_PORT must be numeric, got %q", c.App.ServerPort)
	}
	s := c.Summary
	if s.Threshold < 0 || s.Threshold >= 1 {
		return fmt.Errorf("SUMMARY_THRESHOLD must be in [0, 1), got %v", s.Threshold)
	}
	if s.Damping <= 0 || s.Damping >= 1 {
		return fmt.Errorf("SUMMARY_DAMPING must be in (0, 1), got %v", s.Damping)
	}
	if s.MaxIterations < 1 {
		return fmt.Errorf("SUMMARY_MAX_ITERATIONS must be positive, got %d", s.MaxIterations)
	}
	if s.Epsilon <= 0 {
		return fmt.Errorf("SUMMARY_EPSILON must be positive, got %v", s.Epsilon)
	}
	if s.DefaultCompressionRate < 0.1 || s.DefaultCompressionRate > 1.0 {
		return fmt.Errorf(
			"SUMMARY_DEFAULT_COMPRESSION_RATE must be in [0.1, 1.0], got %v",
			s.DefaultCompressionRate,
		)
	}
	switch c.Preprocess.Normalizer {
	case "stem", "none":
	case "lemma":
		if c.Preprocess.LemmaFile == "" {
			return fmt.Errorf("PREPROCESS_LEMMA_FILE is required when PREPROCESS_NORMALIZER=lemma")
		}
	default:
		return fmt.Errorf("PREPROCESS_NORMALIZER must be one of stem, lemma, none, got %q", c.Preprocess.Normalizer)
	}
	if c.Semantic.WorkerCount < 1 {
		return fmt.Errorf("SEMANTIC_WORKER_COUNT must be positive, got %d", c.Semantic.WorkerCount)
	}
	return nil
}

func parseEnvironment(envStr string) Environment {
	env := Environment(strings.ToLower(envStr))

	switch env {
	case Development, Production:
		return env
	default:
		return Development
	}
}

func calculateDefaultWorkerCount() int {
	cpuCores := runtime.NumCPU()

	// bert-base sized encoders hold roughly 500MB resident per process
	modelMemoryMB := 500

	var availableMemoryMB int64 = 4096

	if memInfo, err := os.ReadFile("/proc/meminfo"); err == nil {
		lines := strings.Split(string(memInfo), "\n")
		for _, line := range lines {
			if strings.HasPrefix(line, "MemTotal:") {
				fields := strings.Fields(line)
				if len(fields) >= 2 {
					if kb, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
						availableMemoryMB = kb / 1024
						break
					}
				}
			}
		}
	}

	workersByCPU := min(cpuCores, 4)

	// leave 2GB for the system and the Go process
	systemReservedMB := 2048
	usableMemoryMB := int(availableMemoryMB) - systemReservedMB
	if usableMemoryMB < 0 {
		usableMemoryMB = 2048
	}

	workersByMemory := max(min(usableMemoryMB/modelMemoryMB, 4), 1)
	return min(max(min(workersByMemory, workersByCPU), 1), 4)
}

func getLogLevel(env Environment) string {
	if env == Production {
		return getEnv("APP_LOG_LEVEL", "info")
	}

	return getEnv("APP_LOG_LEVEL", "debug")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value == "true" {
		return true
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
