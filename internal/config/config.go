package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Supported values for DB_DRIVER.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort    string
	DBDriver      string
	MySQLDSN      string
	PostgresDSN   string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	JWTSecret     string
	// JWTExpiry of zero issues credentials without an expiry claim.
	JWTExpiry   time.Duration
	CacheTTL    time.Duration
	SwaggerHost string
	ResetDB     bool
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is read first when present; real environment
// variables take precedence over it.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: ignoring .env: %v", err)
	}

	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "4500"),
		DBDriver:      getEnv("DB_DRIVER", DriverMySQL),
		MySQLDSN:      getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/evote?charset=utf8mb4&parseTime=True&loc=Local"),
		PostgresDSN:   getEnv("POSTGRES_DSN", "host=localhost user=evote password=evote dbname=evote port=5432 sslmode=disable"),
		SQLitePath:    getEnv("SQLITE_PATH", "evote.db"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "evote"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me"),
		JWTExpiry:     getEnvDuration("JWT_EXPIRY", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", 5*time.Minute),
		SwaggerHost:   os.Getenv("SWAGGER_HOST"),
		ResetDB:       os.Getenv("RESET_DB") == "true",
	}
}

// UsesMongo reports whether the document store backend is selected.
func (c *Config) UsesMongo() bool {
	return c.DBDriver == DriverMongo
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
		log.Printf("config: invalid duration %s=%q, using %s", key, v, def)
	}
	return def
}
