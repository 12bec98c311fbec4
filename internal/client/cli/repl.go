package cli

import (
	"bufio"
	"context"
	"fmt"
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
	Memo(ctx context.Context, args []string) error
	Diary(ctx context.Context, args []string) error
	Style(ctx context.Context, args []string) error
	Week(ctx context.Context, args []string) error
	Status(ctx context.Context) error
	Sync(ctx context.Context) error
	Resync(ctx context.Context) error
}

const helpText = `Available commands:
  memo add <date> <text>        memo list <date>
  memo edit <id> <text>         memo delete <id>
  diary show <date>             diary edit <date>
  diary delete <date>           diary photo <date> <file>
  diary link <key>              diary save <key> <path>
  style add | list | delete <id>
  week add <start> | list | delete <start>
  status, sync, resync, logout, exit
Dates are YYYY-MM-DD or "today".`

// runREPL reads commands from scanner until EOF or exit and dispatches them.
// Handlers report their own errors, so the loop keeps going after a failed
// command.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sumdays %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if ctx.Err() != nil {
			return
		}

		if !a.isLoggedIn() {
			switch cmd {
			case "help":
				printlnFn("Available commands: login, exit")
			case "login":
				_ = a.Login(ctx)
			case "exit", "quit":
				printlnFn("Bye!")
				return
			default:
				printlnFn("Please login first")
			}
			continue
		}

		switch cmd {
		case "help":
			printlnFn(helpText)
		case "memo":
			_ = a.Memo(ctx, args)
		case "diary":
			_ = a.Diary(ctx, args)
		case "style":
			_ = a.Style(ctx, args)
		case "week":
			_ = a.Week(ctx, args)
		case "status":
			_ = a.Status(ctx)
		case "sync":
			_ = a.Sync(ctx)
		case "resync":
			_ = a.Resync(ctx)
		case "login":
			printlnFn("Already logged in; logout first")
		case "logout":
			_ = a.Logout(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
