package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/onorbumbum/noteshare.space/internal/flagx"
	"github.com/onorbumbum/noteshare.space/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "24h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr    string         `json:"endpoint_addr"`
	DatabaseDSN     string         `json:"database_dsn"`
	BaseURL         string         `json:"base_url"`
	DefaultNoteTTL  timex.Duration `json:"default_note_ttl"`
	MaxNoteTTL      timex.Duration `json:"max_note_ttl"`
	MaxPayloadBytes int64          `json:"max_payload_bytes"`
	SweepInterval   timex.Duration `json:"sweep_interval"`
	SweepBatchSize  int            `json:"sweep_batch_size"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; when neither
// is set, no JSON file is loaded. If the file cannot be read or contains
// invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults and command-line
// flags as part of the full configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.BaseURL = c.BaseURL
	config.DefaultNoteTTL = time.Duration(c.DefaultNoteTTL.Duration)
	config.MaxNoteTTL = time.Duration(c.MaxNoteTTL.Duration)
	config.MaxPayloadBytes = c.MaxPayloadBytes
	config.SweepInterval = time.Duration(c.SweepInterval.Duration)
	config.SweepBatchSize = c.SweepBatchSize
}
