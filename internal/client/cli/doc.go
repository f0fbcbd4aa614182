// Package cli provides the interactive sessionkeeper terminal client.
//
// The client talks to the auth server through api.Client, whose cookie jar
// carries the session between commands. A background watcher pings the
// server's health endpoint and flips the prompt between online and offline.
//
// Commands:
//   - register  create an account
//   - login     authenticate and start a session
//   - whoami    validate the session through /token
//   - logout    end the session
//   - help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
