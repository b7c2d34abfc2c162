package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultDeniedPatterns is the substring denylist applied to submitted
// code before execution. It is a heuristic filter for obviously hostile
// snippets, not a security boundary: anything it catches can be rewritten
// to slip past it. Real isolation would be a separate sandboxing layer.
var DefaultDeniedPatterns = []string{
	"import os", "import sys", "import subprocess", "eval(", "exec(",
	"__import__", "globals()", "locals()", "open(", "file(",
	"system(", "popen(", "spawn(", "fork(", "kill(",
}

type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
	MaxBodyBytes int64
}

type ExecutionConfig struct {
	// TimeoutSeconds is the wall-clock limit for each child process,
	// applied separately to the compile and run phases.
	TimeoutSeconds int
	MaxCodeLength  int
	DeniedPatterns []string
	// ScratchDir is where source files and compiled binaries are written.
	// Empty means the system temp directory.
	ScratchDir string
	// ExecPath is the PATH handed to child processes.
	ExecPath  string
	PythonBin string
	CCompiler string
}

type LimiterConfig struct {
	RequestsPerWindow int
	WindowSeconds     int
	GlobalRPS         float64
	MaxConcurrent     int
}

type WorkerConfig struct {
	Count         int
	QueueCapacity int
}

type Config struct {
	Server    ServerConfig
	Execution ExecutionConfig
	Limiter   LimiterConfig
	Workers   WorkerConfig
}

// LoadConfig reads configuration from the environment, after loading an
// optional .env file from the working directory.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	conf := &Config{
		Server: ServerConfig{
			Port:         envOrDefault("FUTURIDE_PORT", "8080"),
			ReadTimeout:  envInt("FUTURIDE_READ_TIMEOUT", 15),
			WriteTimeout: envInt("FUTURIDE_WRITE_TIMEOUT", 30),
			IdleTimeout:  envInt("FUTURIDE_IDLE_TIMEOUT", 60),
			MaxBodyBytes: int64(envInt("FUTURIDE_MAX_BODY_BYTES", 1<<20)),
		},
		Execution: ExecutionConfig{
			TimeoutSeconds: envInt("FUTURIDE_EXECUTION_TIMEOUT", 10),
			MaxCodeLength:  envInt("FUTURIDE_MAX_CODE_LENGTH", 50000),
			DeniedPatterns: envList("FUTURIDE_DENIED_PATTERNS", DefaultDeniedPatterns),
			ScratchDir:     os.Getenv("FUTURIDE_SCRATCH_DIR"),
			ExecPath:       envOrDefault("FUTURIDE_EXEC_PATH", "/usr/bin:/bin"),
			PythonBin:      envOrDefault("FUTURIDE_PYTHON_BIN", "python3"),
			CCompiler:      envOrDefault("FUTURIDE_C_COMPILER", "gcc"),
		},
		Limiter: LimiterConfig{
			RequestsPerWindow: envInt("FUTURIDE_RATE_LIMIT_REQUESTS", 50),
			WindowSeconds:     envInt("FUTURIDE_RATE_LIMIT_WINDOW", 3600),
			GlobalRPS:         envFloat("FUTURIDE_GLOBAL_RPS", 100),
			MaxConcurrent:     envInt("FUTURIDE_MAX_CONCURRENT", 50),
		},
		Workers: WorkerConfig{
			Count:         envInt("FUTURIDE_WORKERS", 5),
			QueueCapacity: envInt("FUTURIDE_QUEUE_CAPACITY", 100),
		},
	}

	if conf.Execution.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("execution timeout must be positive, got %d", conf.Execution.TimeoutSeconds)
	}
	if conf.Execution.MaxCodeLength <= 0 {
		return nil, fmt.Errorf("max code length must be positive, got %d", conf.Execution.MaxCodeLength)
	}
	if conf.Workers.Count <= 0 {
		return nil, fmt.Errorf("worker count must be positive, got %d", conf.Workers.Count)
	}

	return conf, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func envList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	fields := strings.Split(raw, ",")
	values := make([]string, 0, len(fields))
	for _, field := range fields {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}
