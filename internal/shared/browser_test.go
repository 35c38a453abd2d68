package shared

import (
	"errors"
	"testing"
)

func TestBrowserCommand(t *testing.T) {
	tc := []struct {
		goos string
		want string
	}{
		{"darwin", "open"},
		{"linux", "xdg-open"},
		{"windows", "cmd"},
	}

	for _, tt := range tc {
		t.Run(tt.goos, func(t *testing.T) {
			cmd, err := browserCommand(tt.goos, "http://127.0.0.1:3000/shared/abc")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if cmd.Args[0] != tt.want {
				t.Errorf("expected %s, got %s", tt.want, cmd.Args[0])
			}
			if last := cmd.Args[len(cmd.Args)-1]; last != "http://127.0.0.1:3000/shared/abc" {
				t.Errorf("expected url as last argument, got %s", last)
			}
		})
	}

	t.Run("Unsupported Platform", func(t *testing.T) {
		_, err := browserCommand("plan9", "http://example.com")
		if !errors.Is(err, ErrNotImplemented) {
			t.Errorf("expected ErrNotImplemented, got %v", err)
		}
	})

	t.Run("OpenBrowser Uses Runtime Override", func(t *testing.T) {
		orig := getRuntime
		defer func() { getRuntime = orig }()
		getRuntime = func() string { return "plan9" }

		if err := OpenBrowser("http://example.com"); err == nil {
			t.Error("expected error for unsupported runtime")
		}
	})
}
