package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/weatherdesk/weatherdesk/internal/client/client"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Weather(ctx context.Context, city string) error
	History(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit", and
// dispatches them to a. The prompt shows statusFn(). Errors returned by a
// command are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "wd (%s)> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			fmt.Fprintln(out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, "Available commands: weather <city>, history, whoami, status, logout, exit")
			} else {
				fmt.Fprintln(out, "Available commands: register, login, status, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami", "profile":
			cmdErr = a.Profile(ctx)

		case "weather":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: weather <city>")
				continue
			}
			cmdErr = a.Weather(ctx, strings.Join(args, " "))

		case "history":
			cmdErr = a.History(ctx)

		case "status":
			cmdErr = a.Status(ctx)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(out, errorStyle.Render("error: "+describe(cmdErr)))
		}
	}
}

// describe prefers the server's message over the wrapped error chain.
func describe(err error) string {
	if msg := client.Message(err); msg != "" {
		return msg
	}
	if errors.Is(err, client.ErrUnavailable) {
		return "server unavailable"
	}
	return err.Error()
}
