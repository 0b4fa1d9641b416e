package config

import (
	"log"

	"github.com/caarlos0/env/v11"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                int      `env:"PORT" envDefault:"8080"`
	Dsn                 string   `env:"DSN"`
	JwtSecret           string   `env:"JWT_SECRET"`
	JwtExpires          string   `env:"JWT_EXPIRES" envDefault:"15m"`
	RefreshSecret       string   `env:"REFRESH_SECRET"`
	RefreshExpiry       string   `env:"REFRESH_EXPIRY" envDefault:"720h"`
	AdminEmails         []string `env:"ADMIN_EMAILS" envSeparator:","`
	CloudinaryCloudName string   `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string   `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string   `env:"CLOUDINARY_API_SECRET"`
}

func New() *Config {
	if loadErr := godotenv.Load(".env"); loadErr != nil {
		log.Printf("[Env]: unable to load .env file %v", loadErr)
	}

	var cfg Config

	if parseErr := env.Parse(&cfg); parseErr != nil {
		log.Printf("[Env]: failed to parse environment variables: %v", parseErr)
	}

	return &cfg
}

// IsAdminEmail reports whether the given (already lowercased) email address is
// configured as an administrator account.
func (c *Config) IsAdminEmail(email string) bool {
	for _, admin := range c.AdminEmails {
		if admin == email {
			return true
		}
	}
	return false
}
