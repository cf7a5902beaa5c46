package config

import (
	"flag"
	"os"
	"time"

	"github.com/onorbumbum/noteshare.space/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-b string   public base URL for share links
//	-t int      default note TTL, hours
//	-m int      maximum note TTL, hours
//	-p int      max note payload, bytes
//	-i int      sweep interval, seconds (0 disables the sweeper)
//	-n int      sweep batch size (0 = unlimited)
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration flags
// are accepted as integers and converted to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-b", "-t", "-m", "-p", "-i", "-n"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.BaseURL, "b", config.BaseURL, "public base URL for share links")

	defaultNoteTTL := fs.Int("t", int(config.DefaultNoteTTL.Hours()), "default note TTL (in hours)")
	maxNoteTTL := fs.Int("m", int(config.MaxNoteTTL.Hours()), "maximum note TTL (in hours)")
	sweepInterval := fs.Int("i", int(config.SweepInterval.Seconds()), "sweep interval (in seconds)")

	fs.Int64Var(&config.MaxPayloadBytes, "p", config.MaxPayloadBytes, "max note payload (in bytes)")
	fs.IntVar(&config.SweepBatchSize, "n", config.SweepBatchSize, "expired notes deleted per sweep tick")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.DefaultNoteTTL = time.Duration(*defaultNoteTTL) * time.Hour
	config.MaxNoteTTL = time.Duration(*maxNoteTTL) * time.Hour
	config.SweepInterval = time.Duration(*sweepInterval) * time.Second
}
