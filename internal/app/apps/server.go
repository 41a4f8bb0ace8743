package apps

import (
	"bufio"
	"context"
	"io"
	"os"

	"place/internal/pkg/server"
	"place/internal/pkg/validate"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// ServerAppCfg configures a ServerApp.
type ServerAppCfg interface {
	ApplyServerApp(*ServerApp) error
}

// ServerApp runs the canvas server until the operator types STOP.
type ServerApp struct {
	Port       uint16 `validate:"required"`
	Dim        int    `validate:"required,min=1"`
	ReportPath string `validate:"required"`

	// Console is where the operator's STOP command is read from.
	// Defaults to stdin; tests substitute a pipe.
	Console io.Reader
}

// NewServerApp creates a new ServerApp.
func NewServerApp(cfgs ...ServerAppCfg) (*ServerApp, error) {
	app := &ServerApp{
		Console: os.Stdin,
	}
	for _, cfg := range cfgs {
		if err := cfg.ApplyServerApp(app); err != nil {
			return nil, errors.Wrap(err, "apply ServerApp cfg failed")
		}
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate ServerApp failed")
	}
	return app, nil
}

// Run serves until ctx is cancelled or the operator types STOP, then
// drains sessions and writes the statistics report.
func (app *ServerApp) Run(ctx context.Context, _ []string) error {
	srv, err := server.NewServer(
		server.WithPort(app.Port),
		server.WithDim(app.Dim),
		server.WithReportPath(app.ReportPath),
	)
	if err != nil {
		return errors.Wrap(err, "create server failed")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		scanner := bufio.NewScanner(app.Console)
		for scanner.Scan() {
			if scanner.Text() == "STOP" {
				logger.Info("operator requested stop")
				cancel()
				return
			}
		}
	}()

	return errors.Wrap(srv.Run(ctx), "run server failed")
}
