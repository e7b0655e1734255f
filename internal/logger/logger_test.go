package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"off", LevelOff, false},
		{"QUIET", LevelOff, false},
		{"", LevelNormal, false},
		{"info", LevelNormal, false},
		{"debug", LevelVerbose, false},
		{" verbose ", LevelVerbose, false},
		{"loud", LevelNormal, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelsFilterOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelNormal, &buf)

	log.Debug("hidden %d", 1)
	log.Info("shown %d", 2)
	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug line should be filtered at normal level")
	}
	if !strings.Contains(buf.String(), "[INF] shown 2") {
		t.Errorf("missing info line, got %q", buf.String())
	}

	log.SetLevel(LevelOff)
	buf.Reset()
	log.Error("nope")
	if buf.Len() != 0 {
		t.Errorf("expected no output when off, got %q", buf.String())
	}
}

func TestChildSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	root := New(LevelNormal, &buf)
	child := root.With("player").With("timer")

	root.SetLevel(LevelVerbose)
	child.Debug("tick")
	if !strings.Contains(buf.String(), "(player.timer) tick") {
		t.Errorf("child line missing component tag: %q", buf.String())
	}
	if child.GetLevel() != LevelVerbose {
		t.Errorf("child level = %v, want verbose", child.GetLevel())
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Info("no panic")
}
