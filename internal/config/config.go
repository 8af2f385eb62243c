package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	AppPort string
	AppURL  string

	PostgresDSN string
	RedisAddr   string

	// News pipeline
	CronSpec      string
	NewsSourceURL string

	// Paystack (donations + advert payments)
	PaystackSecretKey string
	PaystackPublicKey string

	// ImageKit CDN (profile pictures, advert images)
	ImageKitPrivateKey  string
	ImageKitURLEndpoint string

	// Bootstrap admin account, created on startup if missing
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

func Load() *Config {
	// .env is optional; deployments usually set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		AppPort: getEnv("APP_PORT", "9000"),
		AppURL:  getEnv("APP_URL", "http://localhost:9000"),

		PostgresDSN: getEnv("POSTGRES_DSN", "host=localhost user=teachershub password=teachershub dbname=teachershub port=5432 sslmode=disable TimeZone=UTC"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),

		CronSpec:      getEnv("CRON_SPEC", "0 * * * *"),
		NewsSourceURL: getEnv("NEWS_SOURCE_URL", "https://apnews.com/education"),

		PaystackSecretKey: getEnv("PAYSTACK_SECRET_KEY", ""),
		PaystackPublicKey: getEnv("PAYSTACK_PUBLIC_KEY", ""),

		ImageKitPrivateKey:  getEnv("IMAGEKIT_PRIVATE_KEY", ""),
		ImageKitURLEndpoint: getEnv("IMAGEKIT_URL_ENDPOINT", "https://ik.imagekit.io/teachershub"),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@teachershub.ng"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}

	logrus.WithFields(logrus.Fields{
		"port": cfg.AppPort,
		"cron": cfg.CronSpec,
		"news": cfg.NewsSourceURL,
	}).Info("config loaded")
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
