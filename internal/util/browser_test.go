package util

import (
	"runtime"
	"testing"
)

func TestOpenURL(t *testing.T) {
	var gotName string
	var gotArgs []string
	orig := startCommand
	startCommand = func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}
	t.Cleanup(func() { startCommand = orig })

	for _, bad := range []string{"", "file:///etc/passwd", "javascript:alert(1)", "; rm -rf /"} {
		if err := OpenURL(bad); err == nil {
			t.Errorf("OpenURL(%q) = nil, want error", bad)
		}
	}
	if gotName != "" {
		t.Fatalf("command started for rejected URL: %s %v", gotName, gotArgs)
	}

	switch runtime.GOOS {
	case "darwin", "linux", "freebsd", "openbsd", "windows":
	default:
		t.Skip("no browser opener on " + runtime.GOOS)
	}
	const u = "https://lemmy.ml/private_message/1"
	if err := OpenURL(u); err != nil {
		t.Fatalf("OpenURL: %v", err)
	}
	if len(gotArgs) == 0 || gotArgs[len(gotArgs)-1] != u {
		t.Errorf("args = %v, want URL last", gotArgs)
	}
}
