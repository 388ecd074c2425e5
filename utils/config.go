package utils

import (
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config gathers the env-driven settings once at startup so handlers and
// tests get explicit values instead of reading the environment ad hoc.
type Config struct {
	MongoURI     string
	DatabaseName string

	JWTSecret        []byte
	JWTRefreshSecret []byte
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	BcryptCost       int

	CookieSecure bool
	CookieDomain string

	AllowedOrigins []string
	Port           string
}

func LoadConfig() *Config {
	return &Config{
		MongoURI:         os.Getenv("MONGODB_URI"),
		DatabaseName:     os.Getenv("DATABASE_NAME"),
		JWTSecret:        []byte(os.Getenv("JWT_SECRET")),
		JWTRefreshSecret: []byte(os.Getenv("JWT_REFRESH_SECRET")),
		AccessTTL:        AccessTTL(),
		RefreshTTL:       RefreshTTL(),
		BcryptCost:       BcryptCost(),
		CookieSecure:     os.Getenv("COOKIE_SECURE") == "true",
		CookieDomain:     os.Getenv("COOKIE_DOMAIN"),
		AllowedOrigins:   SplitOrigins(os.Getenv("ALLOWED_ORIGINS")),
		Port:             os.Getenv("PORT"),
	}
}

func AccessTTL() time.Duration {
	minStr := os.Getenv("ACCESS_TOKEN_TTL_MINUTES")
	min, _ := strconv.Atoi(minStr)
	if min <= 0 {
		min = 15
	}
	return time.Duration(min) * time.Minute
}

func RefreshTTL() time.Duration {
	dStr := os.Getenv("REFRESH_TOKEN_TTL_DAYS")
	days, _ := strconv.Atoi(dStr)
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

func BcryptCost() int {
	cost, _ := strconv.Atoi(os.Getenv("BCRYPT_COST"))
	if cost < bcrypt.DefaultCost {
		cost = bcrypt.DefaultCost
	}
	return cost
}

func SplitOrigins(origins string) []string {
	out := make([]string, 0)
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			out = append(out, origin)
		}
	}
	return out
}
