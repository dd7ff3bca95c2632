package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestConfigure(t *testing.T) {
	log, err := Configure("debug", "json")
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if log.GetLevel() != zerolog.DebugLevel {
		t.Errorf("level = %v, want debug", log.GetLevel())
	}
	if GetLogger().GetLevel() != zerolog.DebugLevel {
		t.Error("global logger not updated")
	}

	if _, err := Configure(" WARN ", "console"); err != nil {
		t.Errorf("level/format should be case and space tolerant: %v", err)
	}
	if GetLogger().GetLevel() != zerolog.WarnLevel {
		t.Errorf("level = %v, want warn", GetLogger().GetLevel())
	}
}

func TestConfigure_InvalidInputsKeepCurrentLogger(t *testing.T) {
	if _, err := Configure("info", "console"); err != nil {
		t.Fatal(err)
	}
	before := GetLogger().GetLevel()

	if _, err := Configure("loud", "console"); err == nil {
		t.Error("bad level accepted")
	}
	if _, err := Configure("info", "xml"); err == nil {
		t.Error("bad format accepted")
	}
	if GetLogger().GetLevel() != before {
		t.Error("failed Configure replaced the global logger")
	}
}
