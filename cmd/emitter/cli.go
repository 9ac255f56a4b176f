package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chainy-backend/internal/config"
	"chainy-backend/internal/di"
	"chainy-backend/internal/events"
	"chainy-backend/internal/infrastructure/storage"
	"chainy-backend/internal/sanitize"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// maxLineSize bounds a single JSON-lines request
const maxLineSize = 1 << 20

var (
	configPath string
	dryRun     bool
)

// newRootCmd returns the local CLI entrypoint
func newRootCmd() *cobra.Command {
	configPath = ""
	dryRun = false
	root := &cobra.Command{
		Use:   "emitter",
		Short: "Sanitize and persist Chainy domain events",
		Long: "Emitter sanitizes Chainy link events and writes each one as a JSON line to the " +
			"events bucket, partitioned by event type, date and hour.",
		Example: "  emitter emit < events.jsonl\n" +
			"  emitter emit --dry-run < events.jsonl\n" +
			"  emitter sanitize --salt s1 --ip-salt s2 < detail.json",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", configPath, "Path to a YAML config file (overrides CHAINY_CONFIG_FILE)")
	root.AddCommand(newEmitCmd())
	root.AddCommand(newSanitizeCmd())
	return root
}

func newEmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Emit JSON-lines event requests read from stdin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				os.Setenv(config.EnvConfigFile, configPath)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var opts []di.Option
			if dryRun {
				opts = append(opts, di.WithBlobStore(storage.NewWriterStore(cmd.OutOrStdout())))
			}
			container, err := di.NewContainer(ctx, cfg, opts...)
			if err != nil {
				return err
			}
			defer container.Shutdown(context.Background())

			if cfg.EnableMetrics && container.Metrics != nil {
				server := serveMetrics(cfg.MetricsAddr, container)
				defer server.Close()
			}

			summary, err := emitLines(ctx, container, cmd.InOrStdin())
			container.Logger.Info("Emission run finished",
				zap.Int("emitted", summary.Emitted),
				zap.Int("failed", summary.Failed),
				zap.Int("rejected", summary.Rejected),
			)
			if err != nil {
				return err
			}
			if summary.Failed > 0 || summary.Rejected > 0 {
				return fmt.Errorf("%d of %d events were not emitted", summary.Failed+summary.Rejected, summary.Total())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", dryRun, "Write payloads to stdout instead of the events bucket")
	return cmd
}

func newSanitizeCmd() *cobra.Command {
	var hashSalt, ipHashSalt string
	cmd := &cobra.Command{
		Use:   "sanitize",
		Short: "Print the sanitized form of a JSON detail object read from stdin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var detail map[string]any
			decoder := json.NewDecoder(cmd.InOrStdin())
			decoder.UseNumber()
			if err := decoder.Decode(&detail); err != nil {
				return fmt.Errorf("failed to decode detail: %w", err)
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetEscapeHTML(false)
			encoder.SetIndent("", "  ")
			return encoder.Encode(sanitize.Sanitize(detail, hashSalt, ipHashSalt))
		},
	}
	cmd.Flags().StringVar(&hashSalt, "salt", os.Getenv(config.EnvHashSalt), "Identifier hash salt")
	cmd.Flags().StringVar(&ipHashSalt, "ip-salt", os.Getenv(config.EnvIPHashSalt), "IP hash salt")
	return cmd
}

// Summary counts the outcome of a local emission run
type Summary struct {
	Emitted  int
	Failed   int
	Rejected int
}

// Total is the number of requests read
func (s Summary) Total() int {
	return s.Emitted + s.Failed + s.Rejected
}

// emitLines dispatches every request in r and waits for all of them. Lines
// that are not valid requests are rejected without stopping the run.
func emitLines(ctx context.Context, container *di.Container, r io.Reader) (Summary, error) {
	var summary Summary
	var pending []<-chan events.Result

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		if ctx.Err() != nil {
			break
		}
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var req events.RawEventRequest
		decoder := json.NewDecoder(bytes.NewReader(raw))
		decoder.UseNumber()
		if err := decoder.Decode(&req); err != nil {
			container.Logger.Warn("Rejected malformed request", zap.Int("line", line), zap.Error(err))
			summary.Rejected++
			continue
		}
		if err := req.Validate(); err != nil {
			container.Logger.Warn("Rejected invalid request", zap.Int("line", line), zap.Error(err))
			summary.Rejected++
			continue
		}
		pending = append(pending, container.Dispatcher.Dispatch(ctx, req))
	}

	for _, results := range pending {
		if result := <-results; result.Err != nil {
			summary.Failed++
		} else {
			summary.Emitted++
		}
	}
	container.Flush(ctx)

	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("failed to read requests: %w", err)
	}
	return summary, nil
}

// serveMetrics exposes the pipeline registry on addr
func serveMetrics(addr string, container *di.Container) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(container.Metrics.Registry(), promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			container.Logger.Warn("Metrics server stopped", zap.Error(err))
		}
	}()
	container.Logger.Info("Serving metrics", zap.String("addr", addr))
	return server
}
