package auth

import "time"

type Middleware struct {
	adminRole string
	devBypass bool

	// Bearer token verification (HS256); empty secret disables it.
	secret   []byte
	issuer   string
	audience string
	leeway   time.Duration
}
