package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/anova-cli/internal/report"
	"github.com/KaramelBytes/anova-cli/internal/server"
)

var (
	serveAddr     string
	serveFormat   string
	serveMaxBytes int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ANOVA pipeline over HTTP",
	Long: `Starts an HTTP server with:
  POST /v1/anova   CSV body (or multipart 'file' parts); query: alpha, tail, fmax_threshold, precision, format, conditions, name
  GET  /healthz    liveness probe`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := settings()
		addr := s.ServeAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		format := report.FormatJSON
		if serveFormat != "" {
			f, err := report.ParseFormat(serveFormat)
			if err != nil {
				return err
			}
			format = f
		}
		opt := s.AnovaOptions()
		if err := opt.Validate(); err != nil {
			return err
		}
		handler := server.New(server.Config{
			Options:      opt,
			Format:       format,
			MaxRows:      s.MaxRows,
			MaxBodyBytes: serveMaxBytes,
			Jobs:         s.BatchJobs,
			Logger:       logger,
		})
		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("shutdown", zap.Error(err))
			}
		}()

		fmt.Printf("✓ Listening on http://%s\n", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config: 127.0.0.1:8080)")
	serveCmd.Flags().StringVar(&serveFormat, "format", "", "default response format: json|markdown|html|yaml (default json)")
	serveCmd.Flags().Int64Var(&serveMaxBytes, "max-body", 10<<20, "maximum request body size in bytes")
}
