package apps

import (
	"context"
	"math/rand"
	"time"

	"place/internal/pkg/board"
	"place/internal/pkg/client"
	"place/internal/pkg/validate"

	"github.com/pkg/errors"
)

// BotAppCfg configures a BotApp.
type BotAppCfg interface {
	ApplyBotApp(*BotApp) error
}

// BotApp is a scripted client that paints random cells with random
// palette colors on a ticker until stopped.
type BotApp struct {
	ServerURL string        `validate:"required"`
	Name      string        `validate:"required"`
	Ticker    time.Duration `validate:"required"`
}

// NewBotApp creates a new BotApp.
func NewBotApp(cfgs ...BotAppCfg) (*BotApp, error) {
	app := &BotApp{}
	for _, cfg := range cfgs {
		if err := cfg.ApplyBotApp(app); err != nil {
			return nil, errors.Wrap(err, "apply BotApp cfg failed")
		}
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate BotApp failed")
	}
	return app, nil
}

// Run logs the bot in and paints until ctx is cancelled or the server
// goes away.
func (app *BotApp) Run(ctx context.Context, args []string) error {
	name := app.Name
	if len(args) > 1 && args[1] != "" {
		name = args[1]
	}
	c, err := client.NewClient(
		client.WithServerURL(app.ServerURL),
		client.WithName(name),
	)
	if err != nil {
		return errors.Wrap(err, "create client failed")
	}
	if err := c.Connect(ctx); err != nil {
		return errors.Wrap(err, "connect client failed")
	}
	defer c.Close()

	// drain the broadcast stream so the server's queue never fills
	recvErr := make(chan error, 1)
	go func() {
		for {
			if _, err := c.Receive(); err != nil {
				recvErr <- err
				return
			}
		}
	}()

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	ticker := time.NewTicker(app.Ticker)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-recvErr:
			logger.WithError(err).Info("disconnected")
			return nil
		case <-ticker.C:
			row := r.Intn(c.Dim())
			col := r.Intn(c.Dim())
			color := board.Color(r.Intn(board.PaletteSize))
			if err := c.SendChange(row, col, color); err != nil {
				return errors.Wrap(err, "send change failed")
			}
		}
	}
}
