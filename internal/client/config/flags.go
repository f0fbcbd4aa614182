package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Interval flags are whole seconds.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerURL, "a", config.ServerURL, "auth server base URL")
	onlineCheckInterval := fs.Int("i", int(config.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	requestTimeout := fs.Int("t", int(config.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	config.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
