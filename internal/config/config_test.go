package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8765},
		Flights:  FlightsConfig{DSN: "host=localhost user=luna dbname=flights"},
		KB:       KBConfig{Addrs: []string{"localhost:6379"}},
		Realtime: RealtimeConfig{URL: "wss://models.example.com/realtime"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.HTTP.Port = 0 }},
		{"missing dsn", func(c *Config) { c.Flights.DSN = "" }},
		{"missing kb addrs", func(c *Config) { c.KB.Addrs = nil }},
		{"missing realtime url", func(c *Config) { c.Realtime.URL = "" }},
		{"non-websocket realtime url", func(c *Config) { c.Realtime.URL = "https://models.example.com" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.KB.Index != "luna-kb" {
		t.Errorf("expected default index luna-kb, got %q", cfg.KB.Index)
	}
	if cfg.KB.KNNNeighbors != 50 {
		t.Errorf("expected default knn_neighbors 50, got %d", cfg.KB.KNNNeighbors)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected default shutdown timeout 10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.HTTP.StaticDir != "static" {
		t.Errorf("expected default static dir, got %q", cfg.HTTP.StaticDir)
	}
	if cfg.Realtime.Voice != "alloy" {
		t.Errorf("expected default voice alloy, got %q", cfg.Realtime.Voice)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("LUNA_TEST_DSN", "host=db user=luna")

	in := []byte("dsn: ${LUNA_TEST_DSN}\nvoice: ${LUNA_TEST_VOICE:-alloy}\n")
	out := string(expandEnvVars(in))

	want := "dsn: host=db user=luna\nvoice: alloy\n"
	if out != want {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", out, want)
	}
}
