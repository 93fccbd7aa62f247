package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Env  string
	Port string

	JWTSecret string
	TokenTTL  time.Duration

	StoreDriver string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBNameTest string

	MongoURI string
	MongoDB  string

	RedisHost     string
	RedisPort     int
	RedisPassword string
	CacheEnabled  bool

	CORSOrigins  string
	SecureCookie bool
	LogDir       string
}

func LoadConfig() Config {
	// Muat file .env
	if err := godotenv.Load(); err != nil {
		// Hanya log jika tidak dalam mode test
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using default values")
		}
	}

	env := getEnv("GO_ENV", "development")

	return Config{
		Env:           env,
		Port:          getEnv("PORT", "3000"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenTTL:      getDuration("TOKEN_TTL", 24*time.Hour),
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getInt("DB_PORT", 5432),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBNameTest:    os.Getenv("DB_NAME_TEST"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "taskboard"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getInt("REDIS_PORT", 6379),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CacheEnabled:  getBool("CACHE_ENABLED", true),
		CORSOrigins:   getEnv("CORS_ORIGINS", "http://localhost:5173"),
		SecureCookie:  getBool("SECURE_COOKIE", env == "production"),
		LogDir:        getEnv("LOG_DIR", "logs"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
