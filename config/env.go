package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds server configuration loaded from environment variables.
type Config struct {
	HTTPAddr     string
	GRPCAddr     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	TickInterval time.Duration
	MaxSessions  int // 0 or less removes the cap
	LogLevel     string
	CORSOrigins  []string

	StoreBackend string // file, memory, redis or mongo
	StoreDir     string
	StoreFormat  string // json or yaml

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Load reads a .env file when present and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env file not loaded", "err", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	return Config{
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		GRPCAddr:     getEnv("GRPC_ADDR", ":9090"),
		ReadTimeout:  parseDuration(getEnv("API_READ_TIMEOUT", "15s"), 15*time.Second),
		WriteTimeout: parseDuration(getEnv("API_WRITE_TIMEOUT", "15s"), 15*time.Second),
		TickInterval: parseDuration(getEnv("TICK_INTERVAL", ""), DefaultTickInterval),
		MaxSessions:  getEnvAsInt("MAX_SESSIONS", DefaultMaxSessions),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "*")),

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", StoreFile)),
		StoreDir:     getEnv("STORE_DIR", "mazes"),
		StoreFormat:  strings.ToLower(getEnv("STORE_FORMAT", "json")),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		RedisTTL:      parseDuration(getEnv("REDIS_TTL", "0s"), 0),

		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DB", "robot-maze"),
		MongoCollection: getEnv("MONGO_COLLECTION", "mazes"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
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
