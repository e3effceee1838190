package auth

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Secret    string
	Issuer    string
	Audience  string
	AdminRole string
	DevBypass bool
	Leeway    time.Duration
}

func New(c Config) *Middleware {
	return &Middleware{
		adminRole: c.AdminRole,
		devBypass: c.DevBypass,
		secret:    []byte(c.Secret),
		issuer:    c.Issuer,
		audience:  c.Audience,
		leeway:    c.Leeway,
	}
}

// ProvideAuthentication wires defaults and env config.
func ProvideAuthentication() *Middleware {
	leeway := 60 * time.Second
	if v := strings.TrimSpace(os.Getenv("AUTH_JWT_LEEWAY_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			leeway = time.Duration(n) * time.Second
		}
	}

	return New(Config{
		Secret:    strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET")),
		Issuer:    strings.TrimSpace(os.Getenv("AUTH_JWT_ISSUER")),
		Audience:  strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE")),
		AdminRole: os.Getenv("ADMIN_ROLE_NAME"),
		DevBypass: os.Getenv("AUTH_DEV_BYPASS") == "true",
		Leeway:    leeway,
	})
}
