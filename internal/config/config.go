package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port            string
	MongoURI        string
	MongoDB         string
	RedisAddr       string
	RedisPass       string
	RedisDB         int
	SessionTTLHours int
	StripeSecretKey string
	FrontEndURL     string
	UploadDir       string
	IsProd          bool
}

// LoadConfig loads configuration from environment variables, reading a .env
// file first when one is present (local development).
func LoadConfig() *Config {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			logrus.Warnf("could not load .env file: %v", err)
		}
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	sessionTTL, err := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "168"))
	if err != nil || sessionTTL <= 0 {
		sessionTTL = 168 // 7 days
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "ecommerce"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:       getEnv("REDIS_PASS", ""),
		RedisDB:         redisDB,
		SessionTTLHours: sessionTTL,
		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		FrontEndURL:     getEnv("FRONT_END_URL", "http://localhost:3000"),
		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		IsProd:          getEnv("IS_PROD", "false") == "true",
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
