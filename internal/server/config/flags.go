package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/flagx"
)

// flagSpec lists the server flags; the bool says whether the flag takes a value.
var flagSpec = flagx.Spec{
	"-a": true, // HTTP bind address
	"-n": true, // database driver: pgx | sqlite
	"-d": true, // database DSN
	"-s": true, // access token secret
	"-x": true, // refresh token secret
	"-t": true, // access token validity, minutes
	"-r": true, // refresh token validity, minutes
	"-o": true, // CORS allowed origin
	"-m": true, // gin mode
	"-w": true, // expired session sweep interval, minutes
	"-k": false,
}

// parseFlags populates server Config fields from command-line flags.
//
// Duration flags are integers in minutes. -k toggles the Secure cookie
// attribute and accepts the usual boolean forms (-k, -k=false).
func parseFlags(config *Config) {
	args := flagx.Filter(os.Args[1:], flagSpec)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "n", config.DatabaseDriver, "database driver (pgx or sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AccessTokenSecret, "s", config.AccessTokenSecret, "access token secret")
	fs.StringVar(&config.RefreshTokenSecret, "x", config.RefreshTokenSecret, "refresh token secret")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")
	sweepInterval := fs.Int("w", int(config.SweepInterval.Minutes()), "expired session sweep interval (in minutes)")

	fs.StringVar(&config.CORSAllowedOrigin, "o", config.CORSAllowedOrigin, "allowed CORS origin")
	fs.StringVar(&config.GinMode, "m", config.GinMode, "gin mode (debug, release, test)")
	fs.BoolVar(&config.CookieSecure, "k", config.CookieSecure, "set the Secure attribute on session cookies")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only explicit flags touch durations so sub-minute values from earlier
	// layers survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		case "r":
			config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
		case "w":
			config.SweepInterval = time.Duration(*sweepInterval) * time.Minute
		}
	})
}
