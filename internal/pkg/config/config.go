package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the grading service configuration. A sink whose address is empty
// is disabled.
type Config struct {
	Server    Server    `json:"Server"`
	Log       Log       `json:"Log"`
	Gradebook Gradebook `json:"Gradebook"`
	Mongo     Mongo     `json:"Mongo"`
	NATS      NATS      `json:"NATS"`
}

type Server struct {
	Port string `json:"Port"`
}

type Log struct {
	Environment string `json:"Environment"`
}

// Gradebook configures the SQL gradebook. Driver is "mysql" or "postgres".
type Gradebook struct {
	Driver   string `json:"Driver"`
	Server   string `json:"Server"`
	Port     int    `json:"Port"`
	Username string `json:"Username"`
	Password string `json:"Password"`
	Database string `json:"Database"`
}

// Enabled reports whether a server is configured.
func (g Gradebook) Enabled() bool {
	return g.Server != ""
}

type Mongo struct {
	URI      string `json:"URI"`
	Port     string `json:"Port"`
	Database string `json:"Database"`
}

// Enabled reports whether a URI is configured.
func (m Mongo) Enabled() bool {
	return m.URI != ""
}

type NATS struct {
	Server  string `json:"Server"`
	Subject string `json:"Subject"`
}

// Enabled reports whether a server is configured.
func (n NATS) Enabled() bool {
	return n.Server != ""
}

// Default is used for fields a file leaves blank.
func Default() Config {
	return Config{
		Server: Server{Port: ":8080"},
		Log:    Log{Environment: "development"},
		NATS:   NATS{Subject: "digilab.reports"},
	}
}

// Load reads the JSON file at path over the defaults.
func Load(path string) (Config, error) {
	jsonConfig, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := json.Unmarshal(jsonConfig, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Gradebook.Enabled() && cfg.Gradebook.Driver != "mysql" && cfg.Gradebook.Driver != "postgres" {
		return Config{}, fmt.Errorf("gradebook driver must be mysql or postgres, got %q", cfg.Gradebook.Driver)
	}
	return cfg, nil
}
