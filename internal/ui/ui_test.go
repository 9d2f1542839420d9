package ui

import (
	"os"
	"testing"
)

func TestRender(t *testing.T) {
	SetColor(true)
	t.Cleanup(func() { SetColor(true) })

	if got, want := RenderType("user_login"), "\x1b[38;5;74muser_login\x1b[0m"; got != want {
		t.Fatalf("RenderType = %q, want %q", got, want)
	}
	if got := RenderMuted(""); got != "" {
		t.Fatalf("empty strings stay empty, got %q", got)
	}

	SetColor(false)
	for _, f := range []func(string) string{RenderType, RenderID, RenderMuted, RenderError} {
		if got := f("plain"); got != "plain" {
			t.Fatalf("colour disabled: got %q", got)
		}
	}
}

func TestShouldUseColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("CLICOLOR_FORCE", "1")
	if ShouldUseColor(os.Stdout) {
		t.Fatal("NO_COLOR must win")
	}

	t.Setenv("NO_COLOR", "")
	if !ShouldUseColor(nil) {
		t.Fatal("CLICOLOR_FORCE=1 must force colour")
	}

	t.Setenv("CLICOLOR_FORCE", "")
	t.Setenv("CLICOLOR", "0")
	if ShouldUseColor(os.Stdout) {
		t.Fatal("CLICOLOR=0 must disable colour")
	}

	t.Setenv("CLICOLOR", "")
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if ShouldUseColor(f) {
		t.Fatal("regular files are not terminals")
	}
}
