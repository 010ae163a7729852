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
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	DevLogin(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Folders(ctx context.Context) error
	MakeFolder(ctx context.Context) error
	MoveFolder(ctx context.Context) error
	RemoveFolder(ctx context.Context) error
	ImportFile(ctx context.Context) error
	MoveFiles(ctx context.Context) error
	RemoveFiles(ctx context.Context) error
	Publish(ctx context.Context) error
	SaveFile(ctx context.Context) error
	Community(ctx context.Context) error
	Sync(ctx context.Context) error
	GenerateImage(ctx context.Context) error
	EditImage(ctx context.Context) error
	BlendImages(ctx context.Context) error
	GenerateVideo(ctx context.Context) error
	GenerateSpeech(ctx context.Context) error
	Chat(ctx context.Context) error
	Enhance(ctx context.Context) error
	Concatenate(ctx context.Context) error
	LipSync(ctx context.Context) error
	TestToolkit(ctx context.Context) error
	ShowSettings(ctx context.Context) error
	Configure(ctx context.Context) error
	Actors(ctx context.Context) error
	Logs(ctx context.Context) error
}

const helpLoggedOut = "Available commands: register, login, devlogin, config, exit"

const helpLoggedIn = `Library:    (l)ist, folders, mkdir, mvdir, rmdir, add, mv, rm, save, publish, community, sync
Generation: image, edit, blend, video, speech, chat, enhance
Toolkit:    concat, lipsync, toolkit
Session:    settings, config, actors, logs, logout, exit`

// runREPL starts a simple read-eval-print loop for the studio CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("nebula %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "devlogin":
			_ = a.DevLogin(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "folders":
			_ = a.Folders(ctx)

		case "mkdir":
			_ = a.MakeFolder(ctx)

		case "mvdir":
			_ = a.MoveFolder(ctx)

		case "rmdir":
			_ = a.RemoveFolder(ctx)

		case "add":
			_ = a.ImportFile(ctx)

		case "mv":
			_ = a.MoveFiles(ctx)

		case "rm":
			_ = a.RemoveFiles(ctx)

		case "publish":
			_ = a.Publish(ctx)

		case "save":
			_ = a.SaveFile(ctx)

		case "community":
			_ = a.Community(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "image":
			_ = a.GenerateImage(ctx)

		case "edit":
			_ = a.EditImage(ctx)

		case "blend":
			_ = a.BlendImages(ctx)

		case "video":
			_ = a.GenerateVideo(ctx)

		case "speech":
			_ = a.GenerateSpeech(ctx)

		case "chat":
			_ = a.Chat(ctx)

		case "enhance":
			_ = a.Enhance(ctx)

		case "concat":
			_ = a.Concatenate(ctx)

		case "lipsync":
			_ = a.LipSync(ctx)

		case "toolkit":
			_ = a.TestToolkit(ctx)

		case "settings":
			_ = a.ShowSettings(ctx)

		case "config":
			_ = a.Configure(ctx)

		case "actors":
			_ = a.Actors(ctx)

		case "logs":
			_ = a.Logs(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
