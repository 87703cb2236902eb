package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"nestkit/internal/config"
	"nestkit/internal/httpapi"
	"nestkit/internal/logging"
	"nestkit/internal/prior"
	"nestkit/internal/progress"
	"nestkit/internal/samples"
)

// app carries state shared by all subcommands once flags are parsed.
type app struct {
	cfgPath   string
	logLevel  string
	logFormat string

	cfg config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "nestkit",
		Short:         "Nested-sampling loop driver, progress telemetry and prior transforms",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	// Persistent flags -> Config
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "Config file (.yaml, .yml, .json, .toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug|info|warn|error|off (default from config, else info)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: console|json (default from config, else console)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.init(cmd.ErrOrStderr())
	}
	root.AddCommand(newRunCmd(a), newInterpCmd(a), newIcdfCmd(a), newServeCmd(a))
	return root
}

func (a *app) init(stderr io.Writer) error {
	if a.cfgPath != "" {
		cfg, err := config.Load(a.cfgPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.logLevel != "" {
		a.cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		a.cfg.LogFormat = a.logFormat
	}
	a.cfg = a.cfg.WithDefaults()
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.log = logging.New(a.cfg.LogLevel, a.cfg.LogFormat, stderr)
	httpapi.SetLogger(a.log)
	return nil
}

func (a *app) newHub(sink progress.Sink) *progress.Hub {
	policy, _ := progress.ParsePolicy(a.cfg.Backpressure)
	return progress.NewHub(progress.HubConfig{
		Sink:         sink,
		BufferSize:   a.cfg.BufferSize,
		Policy:       policy,
		BlockTimeout: time.Duration(a.cfg.BlockTimeoutMS) * time.Millisecond,
		Logger:       &a.log,
	})
}

func (a *app) priors() (*prior.Registry, error) {
	return prior.FromConfig(a.cfg.Priors, samples.Load, a.cfg.Seed)
}

// serve runs the HTTP surface on addr until ctx is done.
func (a *app) serve(ctx context.Context, addr string, svc httpapi.Service) error {
	httpapi.SetCORSOptions(len(a.cfg.CORSOrigins) > 0, a.cfg.CORSOrigins, nil, nil)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: httpapi.NewMux(svc), ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info().Str("addr", ln.Addr().String()).Msg("http listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			a.log.Warn().Err(err).Msg("graceful shutdown")
		}
		return nil
	})
	return g.Wait()
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseFloats(flag, s string) ([]float64, error) {
	parts := splitCSV(s)
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("--%s: %q is not a number", flag, p)
		}
		out[i] = v
	}
	return out, nil
}

func printValues(w io.Writer, vs []float64) {
	for _, v := range vs {
		fmt.Fprintln(w, strconv.FormatFloat(v, 'g', -1, 64))
	}
}
