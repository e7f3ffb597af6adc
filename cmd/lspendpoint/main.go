// Package main wires a stdio transport to the internal/lsp method tables,
// exercising internal/rpc's framing, dispatch, and completion machinery
// end to end against a small demo language server.
// file: cmd/lspendpoint/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkoosis/cowgnition/internal/config"
	"github.com/dkoosis/cowgnition/internal/lsp"
	"github.com/dkoosis/cowgnition/internal/metrics"
	"github.com/dkoosis/cowgnition/internal/rpc"

	"github.com/dkoosis/cowgnition/internal/logging"
)

var (
	version = "dev"
)

type stdioReader struct{ fr *rpc.FrameReader }

func (r stdioReader) ReadMessage(_ context.Context) ([]byte, error) { return r.fr.ReadFrame() }

type stdioWriter struct{ fw *rpc.FrameWriter }

func (w stdioWriter) WriteMessage(_ context.Context, payload []byte) error {
	return w.fw.WriteFrame(payload)
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional; defaults are used if omitted)")
	debug := flag.Bool("debug", false, "enable debug-level logging")
	flag.Parse()

	cfg, err := loadSettings(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lspendpoint: %+v\n", err)
		os.Exit(1)
	}

	logLevel := logging.LevelInfo
	if *debug {
		logLevel = logging.LevelDebug
	}
	logging.InitLogging(logLevel, os.Stderr)
	logger := logging.GetLogger("lspendpoint")

	if err := run(cfg, logger); err != nil {
		logger.Error("lspendpoint exited with error", "error", fmt.Sprintf("%+v", err))
		os.Exit(1)
	}
}

func loadSettings(path string) (*config.Settings, error) {
	if path == "" {
		return config.New(), nil
	}
	return config.LoadConfig(path)
}

func run(cfg *config.Settings, logger logging.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	collector := metrics.NewMetricsCollector(50)

	reader := stdioReader{rpc.NewFrameReader(os.Stdin)}
	writer := stdioWriter{rpc.NewFrameWriter(os.Stdout)}

	lifecycle, err := lsp.NewLifecycle(logging.GetLogger("lspendpoint.lifecycle"))
	if err != nil {
		return err
	}

	server := newDemoServer(lifecycle)
	table := lsp.NewServerMethodTable(server)
	endpoint := rpc.NewEndpoint(writer, table, logger, collector)
	server.setClient(lsp.NewClient(endpoint))

	logger.Info("lspendpoint starting", "version", version, "server_name", cfg.GetServerName())

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- endpoint.Run(ctx, reader)
	}()

	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", "signal", sig)
	case err := <-runErrCh:
		if err != nil {
			logger.Error("endpoint read loop failed", "error", fmt.Sprintf("%+v", err))
		}
		endpoint.Shutdown()
		return err
	case <-ctx.Done():
	}

	shutdownTimeout := time.Duration(cfg.Endpoint.ShutdownTimeoutSeconds) * time.Second
	if shutdownTimeout <= 0 {
		shutdownTimeout = 5 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	cancel()
	endpoint.Shutdown()

	select {
	case <-runErrCh:
	case <-shutdownCtx.Done():
		logger.Warn("endpoint did not stop before shutdown timeout elapsed")
	}

	logger.Info("lspendpoint stopped")
	return nil
}
