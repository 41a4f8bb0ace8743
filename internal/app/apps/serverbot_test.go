package apps_test

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"place/internal/app/apps"
	"place/internal/app/cfg"

	"github.com/stretchr/testify/require"
)

func TestServerAndBot(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	port := uint16(30000 + rand.Intn(20000))
	reportPath := filepath.Join(t.TempDir(), "report.txt")
	console, operator := io.Pipe()

	serverApp, err := apps.NewServerApp(
		cfg.NewPortCfg(port),
		cfg.NewDimCfg(6),
		cfg.NewReportPathCfg(reportPath),
	)
	require.NoError(t, err)
	serverApp.Console = console

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- serverApp.Run(ctx, nil)
	}()

	healthz := fmt.Sprintf("http://localhost:%d/healthz", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(healthz)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	botApp, err := apps.NewBotApp(
		cfg.NewPortCfg(port),
		cfg.NewBotCfg("bot-1", "", 10*time.Millisecond),
	)
	require.NoError(t, err)

	botCtx, stopBot := context.WithCancel(ctx)
	botDone := make(chan error, 1)
	go func() {
		botDone <- botApp.Run(botCtx, nil)
	}()

	// let the bot paint for a while, then stop it
	time.Sleep(300 * time.Millisecond)
	stopBot()
	select {
	case err := <-botDone:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("bot did not stop")
	}

	// the operator's STOP drains the server and writes the report
	_, err = operator.Write([]byte("STOP\n"))
	require.NoError(t, err)
	select {
	case err := <-serverDone:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	report, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	require.Contains(t, string(report), "Statistics for PlaceServer:")
	require.Contains(t, string(report), "bot-1")
}
