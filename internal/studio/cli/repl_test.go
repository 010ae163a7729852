package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	return f.record("register")
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) DevLogin(ctx context.Context) error {
	f.loggedIn = true
	return f.record("devlogin")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) List(ctx context.Context) error           { return f.record("list") }
func (f *fakeExec) Folders(ctx context.Context) error        { return f.record("folders") }
func (f *fakeExec) MakeFolder(ctx context.Context) error     { return f.record("mkdir") }
func (f *fakeExec) MoveFolder(ctx context.Context) error     { return f.record("mvdir") }
func (f *fakeExec) RemoveFolder(ctx context.Context) error   { return f.record("rmdir") }
func (f *fakeExec) ImportFile(ctx context.Context) error     { return f.record("add") }
func (f *fakeExec) MoveFiles(ctx context.Context) error      { return f.record("mv") }
func (f *fakeExec) RemoveFiles(ctx context.Context) error    { return f.record("rm") }
func (f *fakeExec) Publish(ctx context.Context) error        { return f.record("publish") }
func (f *fakeExec) SaveFile(ctx context.Context) error       { return f.record("save") }
func (f *fakeExec) Community(ctx context.Context) error      { return f.record("community") }
func (f *fakeExec) Sync(ctx context.Context) error           { return f.record("sync") }
func (f *fakeExec) GenerateImage(ctx context.Context) error  { return f.record("image") }
func (f *fakeExec) EditImage(ctx context.Context) error      { return f.record("edit") }
func (f *fakeExec) BlendImages(ctx context.Context) error    { return f.record("blend") }
func (f *fakeExec) GenerateVideo(ctx context.Context) error  { return f.record("video") }
func (f *fakeExec) GenerateSpeech(ctx context.Context) error { return f.record("speech") }
func (f *fakeExec) Chat(ctx context.Context) error           { return f.record("chat") }
func (f *fakeExec) Enhance(ctx context.Context) error        { return f.record("enhance") }
func (f *fakeExec) Concatenate(ctx context.Context) error    { return f.record("concat") }
func (f *fakeExec) LipSync(ctx context.Context) error        { return f.record("lipsync") }
func (f *fakeExec) TestToolkit(ctx context.Context) error    { return f.record("toolkit") }
func (f *fakeExec) ShowSettings(ctx context.Context) error   { return f.record("settings") }
func (f *fakeExec) Configure(ctx context.Context) error      { return f.record("config") }
func (f *fakeExec) Actors(ctx context.Context) error         { return f.record("actors") }
func (f *fakeExec) Logs(ctx context.Context) error           { return f.record("logs") }

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"image",
		"l",
		"sync",
		"publish",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "image", "list", "sync", "publish"}
	if len(exec.calls) < len(wantOrder) {
		t.Fatalf("few calls: %+v", exec.calls)
	}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_QuitAndEOF(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" },
		bufio.NewScanner(strings.NewReader("quit\nlist\n")))
	if len(exec.calls) != 0 {
		t.Fatalf("expected no calls after quit, got %v", exec.calls)
	}

	// EOF without an exit command also terminates the loop.
	exec = &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" },
		bufio.NewScanner(strings.NewReader("logs\n")))
	if len(exec.calls) != 1 || exec.calls[0] != "logs" {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_BlankLinesIgnored(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" },
		bufio.NewScanner(strings.NewReader("\n   \ndevlogin\nexit\n")))
	if len(exec.calls) != 1 || exec.calls[0] != "devlogin" {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
