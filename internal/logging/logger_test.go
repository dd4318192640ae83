package logging

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"call Sarah about the Denver project", 10, "call Sarah..."},
		{"line one\nline two", 100, "line one line two"},
		{"  padded  ", 100, "padded"},
		{"café meeting", 4, "café..."},
		{"日本語のメモ", 3, "日本語..."},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}

func TestDebugToggle(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	prev := DebugEnabled()
	defer SetDebug(prev)

	SetDebug(false)
	Debug("test", "hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("expected no output with debug off, got %q", buf.String())
	}

	SetDebug(true)
	Debug("test", "shown %d", 2)
	if !strings.Contains(buf.String(), "[test] shown 2") {
		t.Errorf("expected debug line, got %q", buf.String())
	}

	buf.Reset()
	Info("engine", "fallback: %s", "timeout")
	if !strings.Contains(buf.String(), "[engine] fallback: timeout") {
		t.Errorf("expected info line, got %q", buf.String())
	}
}
