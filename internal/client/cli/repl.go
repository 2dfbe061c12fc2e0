package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Protect(ctx context.Context, args []string) error
	Verify(ctx context.Context, args []string) error
	Monitor(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Status(ctx context.Context) error
	SwitchTab(name string) error
	RunActive(ctx context.Context, args []string) error
	reportError(ctx context.Context, cmd string, err error)
}

// commandContext derives the context of one command; Ctrl+C cancels it.
var commandContext = func(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

// runREPL starts a simple read–eval–print loop for the imarqd CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a' with the remaining tokens as arguments. The
// loop exits on EOF or when the user types "exit" or "quit".
//
//	Not logged in:
//	  - help, login, status, exit
//
//	Logged in:
//	  - protect [path], verify [path], monitor [handle]
//	  - tab <protect|verify|monitor>, run [arg]
//	  - download [dir], history [n], status, logout, exit
//
// Errors returned by handlers go to reportError, so a failing command never
// ends the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(statusFn())
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		cmdCtx, stop := commandContext(ctx)
		if err := dispatch(cmdCtx, a, cmd, args); err != nil {
			a.reportError(cmdCtx, cmd, err)
		}
		stop()
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn("Available commands: protect [path], verify [path], monitor [handle], tab <panel>, run [arg], download [dir], history [n], status, logout, exit")
		} else {
			printlnFn("Available commands: login, status, exit")
		}
		return nil

	case "login":
		return a.Login(ctx)

	case "logout":
		return a.Logout(ctx)

	case "protect":
		return a.Protect(ctx, args)

	case "verify":
		return a.Verify(ctx, args)

	case "monitor":
		return a.Monitor(ctx, args)

	case "download":
		return a.Download(ctx, args)

	case "history":
		return a.History(ctx, args)

	case "status":
		return a.Status(ctx)

	case "tab":
		if len(args) == 0 {
			return errors.New("usage: tab <protect|verify|monitor>")
		}
		return a.SwitchTab(args[0])

	case "run":
		return a.RunActive(ctx, args)

	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}
