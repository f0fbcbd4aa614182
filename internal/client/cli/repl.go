package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// It returns on EOF, on "exit"/"quit" or when ctx is cancelled. Handler
// errors are reported by the handlers themselves and do not stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintf(w, "sk %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: whoami, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, whoami, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
