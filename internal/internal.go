// Package internal holds process-level configuration: the flag registry
// and the environment-backed settings shared by the apps.
package internal

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Configuration values bound to flags, with environment fallback.
var (
	LogLevel    = "info"
	Port        = 8000
	Dim         = 10
	ReportPath  = "ServerStatistics.txt"
	BotName     = ""
	BotAddr     = ""
	BotTickerMS = 1000
)

// Flag binds one configuration value to a cobra flag. The environment
// variable, when set, provides the default, so an explicit flag always
// wins.
type Flag struct {
	Name        string
	Env         string
	Description string
	StringVar   *string
	IntVar      *int
}

// Flag definitions.
var (
	LogLevelFlag = Flag{
		Name:        "log-level",
		Env:         "PLACE_LOG_LEVEL",
		Description: "log level (trace, debug, info, warn, error)",
		StringVar:   &LogLevel,
	}
	PortFlag = Flag{
		Name:        "port",
		Env:         "PLACE_PORT",
		Description: "server listen port",
		IntVar:      &Port,
	}
	DimFlag = Flag{
		Name:        "dim",
		Env:         "PLACE_DIM",
		Description: "board dimension",
		IntVar:      &Dim,
	}
	ReportPathFlag = Flag{
		Name:        "report",
		Env:         "PLACE_REPORT",
		Description: "statistics report path written on shutdown",
		StringVar:   &ReportPath,
	}
	BotNameFlag = Flag{
		Name:        "name",
		Env:         "PLACE_BOT_NAME",
		Description: "bot display name",
		StringVar:   &BotName,
	}
	BotAddrFlag = Flag{
		Name:        "addr",
		Env:         "PLACE_BOT_ADDR",
		Description: "server websocket URL (defaults to ws://localhost:<port>/ws)",
		StringVar:   &BotAddr,
	}
	BotTickerMSFlag = Flag{
		Name:        "ticker-ms",
		Env:         "PLACE_BOT_TICKER_MS",
		Description: "milliseconds between bot tile changes",
		IntVar:      &BotTickerMS,
	}
)

// RegisterCommandFlags registers the given flags on the command.
func RegisterCommandFlags(cmd *cobra.Command, flags []*Flag) error {
	for _, f := range flags {
		switch {
		case f.StringVar != nil:
			if v, ok := os.LookupEnv(f.Env); ok {
				*f.StringVar = v
			}
			cmd.PersistentFlags().StringVar(f.StringVar, f.Name, *f.StringVar, f.Description)
		case f.IntVar != nil:
			if v, ok := os.LookupEnv(f.Env); ok {
				n, err := strconv.Atoi(v)
				if err != nil {
					return errors.Wrapf(err, "parse %s failed", f.Env)
				}
				*f.IntVar = n
			}
			cmd.PersistentFlags().IntVar(f.IntVar, f.Name, *f.IntVar, f.Description)
		default:
			return errors.Errorf("flag %s has no target", f.Name)
		}
	}
	return nil
}

// ValidateEnv checks the resolved configuration.
func ValidateEnv() error {
	if Port < 1 || Port > 65535 {
		return errors.Errorf("port %d out of range", Port)
	}
	if Dim < 1 {
		return errors.Errorf("dimension %d must be >= 1", Dim)
	}
	switch LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return errors.Errorf("unknown log level %q", LogLevel)
	}
	if BotTickerMS < 1 {
		return errors.Errorf("ticker interval %dms must be >= 1", BotTickerMS)
	}
	return nil
}
