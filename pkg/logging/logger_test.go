package logging

import (
	"testing"

	"github.com/yoursocial/yoursocial/pkg/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LoggingConfig
	}{
		{"json format", config.LoggingConfig{Level: "INFO", Format: "json"}},
		{"text format", config.LoggingConfig{Level: "DEBUG", Format: "text"}},
		{"invalid level falls back", config.LoggingConfig{Level: "NOPE", Format: "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := InitLogger(&tt.cfg); err != nil {
				t.Fatalf("InitLogger() error: %v", err)
			}
			if Logger == nil {
				t.Fatal("Logger should be set after InitLogger")
			}
		})
	}
}

func TestWithComponent(t *testing.T) {
	Logger = nil
	logger := WithComponent("jobs")
	if logger == nil {
		t.Fatal("WithComponent should never return nil")
	}
}
