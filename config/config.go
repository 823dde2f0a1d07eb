package config

import (
	"os"
	"strconv"
)

// Config collects everything the server reads from the environment. It is
// built once in main and passed to the components that need it, so storage
// credentials and signing secrets never live in package globals.
type Config struct {
	Port string

	MongoURI string
	MongoDB  string

	JWTSecret      string
	JWTExpiryHours int

	RedisAddr     string
	RedisPassword string

	S3 S3Config
}

// S3Config holds credentials for the S3-compatible bucket that stores
// property images.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, for R2/Spaces style providers
	AccessKeyID     string
	SecretAccessKey string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGODB_DATABASE", "realestate"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 24),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		S3: S3Config{
			Bucket:          getEnv("S3_BUCKET", "property-images"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
