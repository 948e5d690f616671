package cli

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"llmbench/internal/httpapi"
)

func newMockCmd(a *app) *cobra.Command {
	var models []string
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Serve a mock Ollama-compatible /api/generate endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			if f.Changed("addr") {
				a.cfg.Mock.Addr, _ = f.GetString("addr")
			}
			if f.Changed("reply") {
				a.cfg.Mock.Reply, _ = f.GetString("reply")
			}
			if f.Changed("token-delay-ms") {
				a.cfg.Mock.TokenDelayMS, _ = f.GetInt("token-delay-ms")
			}
			if f.Changed("cors-origin") {
				a.cfg.Mock.CORSOrigins, _ = f.GetStringSlice("cors-origin")
			}
			if f.Changed("max-body-bytes") {
				a.cfg.Mock.MaxBodyBytes, _ = f.GetInt64("max-body-bytes")
			}
			if f.Changed("generate-timeout-ms") {
				a.cfg.Mock.GenerateTimeoutMS, _ = f.GetInt("generate-timeout-ms")
			}
			return a.serveMock(cmd.Context(), models)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default :11434)")
	cmd.Flags().String("reply", "", "Reply text streamed back token by token")
	cmd.Flags().Int("token-delay-ms", envInt("LLMBENCH_MOCK_TOKEN_DELAY_MS", 0), "Delay between tokens in milliseconds")
	cmd.Flags().StringSlice("cors-origin", nil, "Enable CORS for these origins")
	cmd.Flags().Int64("max-body-bytes", 0, "Maximum /api/generate request body size (default 1 MiB)")
	cmd.Flags().Int("generate-timeout-ms", 0, "Abort a generation after this many milliseconds (0 = none)")
	cmd.Flags().StringSliceVar(&models, "models", nil, "Restrict accepted model names (default: accept any)")
	return cmd
}

// mockHandler applies the mock configuration to the httpapi package and builds its router.
func (a *app) mockHandler(ctx context.Context, models []string) http.Handler {
	mc := a.cfg.Mock
	httpapi.SetLogger(a.log)
	httpapi.SetDefaultLogLevel(a.cfg.LogLevel)
	httpapi.SetBaseContext(ctx)
	httpapi.SetMaxBodyBytes(mc.MaxBodyBytes)
	httpapi.SetGenerateTimeout(mc.GenerateTimeout())
	if len(mc.CORSOrigins) > 0 {
		httpapi.SetCORSOptions(true, mc.CORSOrigins, []string{"GET", "POST", "OPTIONS"}, []string{"Content-Type"})
	}
	return httpapi.NewMux(&httpapi.EchoGenerator{
		Reply:      mc.Reply,
		TokenDelay: time.Duration(mc.TokenDelayMS) * time.Millisecond,
		ModelNames: models,
	})
}

func (a *app) serveMock(ctx context.Context, models []string) error {
	mc := a.cfg.Mock
	srv := &http.Server{Addr: mc.Addr, Handler: a.mockHandler(ctx, models), ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", mc.Addr).Str("models", strings.Join(models, ",")).Msg("mock server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		a.log.Warn().Err(err).Msg("graceful shutdown error")
	}
	return nil
}
