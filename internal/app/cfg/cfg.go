// Package cfg implements functionality to configure an app.
//
// The configuration objects defined here need only be implemented once,
// but can be applied to multiple types. In order to add support for a
// new type, the configuration need only implement an ApplyX method.
package cfg

import (
	"fmt"
	"time"

	"place/internal"
	"place/internal/app/apps"
)

// PortCfg is configuration for the server listen port.
type PortCfg struct {
	port uint16
}

// NewPortCfg creates a new PortCfg from the given port.
func NewPortCfg(port uint16) *PortCfg {
	return &PortCfg{port: port}
}

// PortFromEnv creates a new PortCfg from the current environment.
func PortFromEnv() *PortCfg {
	return &PortCfg{port: uint16(internal.Port)}
}

// ApplyServerApp applies the PortCfg to a ServerApp.
func (cfg PortCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.Port = cfg.port
	return nil
}

// ApplyBotApp applies the PortCfg to a BotApp: unless an explicit URL is
// configured later, the bot targets a local server on this port.
func (cfg PortCfg) ApplyBotApp(app *apps.BotApp) error {
	if app.ServerURL == "" {
		app.ServerURL = fmt.Sprintf("ws://localhost:%d/ws", cfg.port)
	}
	return nil
}

// DimCfg is configuration for the board dimension.
type DimCfg struct {
	dim int
}

// NewDimCfg creates a new DimCfg from the given dimension.
func NewDimCfg(dim int) *DimCfg {
	return &DimCfg{dim: dim}
}

// DimFromEnv creates a new DimCfg from the current environment.
func DimFromEnv() *DimCfg {
	return &DimCfg{dim: internal.Dim}
}

// ApplyServerApp applies the DimCfg to a ServerApp.
func (cfg DimCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.Dim = cfg.dim
	return nil
}

// ReportPathCfg is configuration for the statistics report path.
type ReportPathCfg struct {
	path string
}

// NewReportPathCfg creates a new ReportPathCfg from the given path.
func NewReportPathCfg(path string) *ReportPathCfg {
	return &ReportPathCfg{path: path}
}

// ReportPathFromEnv creates a new ReportPathCfg from the current environment.
func ReportPathFromEnv() *ReportPathCfg {
	return &ReportPathCfg{path: internal.ReportPath}
}

// ApplyServerApp applies the ReportPathCfg to a ServerApp.
func (cfg ReportPathCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.ReportPath = cfg.path
	return nil
}

// BotCfg is configuration for the bot client.
type BotCfg struct {
	name   string
	addr   string
	ticker time.Duration
}

// NewBotCfg creates a new BotCfg from the given settings.
func NewBotCfg(name, addr string, ticker time.Duration) *BotCfg {
	return &BotCfg{name: name, addr: addr, ticker: ticker}
}

// BotFromEnv creates a new BotCfg from the current environment.
func BotFromEnv() *BotCfg {
	return &BotCfg{
		name:   internal.BotName,
		addr:   internal.BotAddr,
		ticker: time.Duration(internal.BotTickerMS) * time.Millisecond,
	}
}

// ApplyBotApp applies the BotCfg to a BotApp.
func (cfg BotCfg) ApplyBotApp(app *apps.BotApp) error {
	if cfg.name != "" {
		app.Name = cfg.name
	}
	if cfg.addr != "" {
		app.ServerURL = cfg.addr
	}
	app.Ticker = cfg.ticker
	return nil
}
