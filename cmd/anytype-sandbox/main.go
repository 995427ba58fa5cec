package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/anytype-sdk/anytype_sdk_go/pkg/anytype"
	"github.com/anytype-sdk/anytype_sdk_go/pkg/anytype/mock"
)

type failConfig struct {
	rate float64
	code int
}

// shutdownTimeout bounds how long in-flight requests may run after a signal.
const shutdownTimeout = 10 * time.Second

func main() {
	addr := flag.String("addr", ":3030", "listen address")
	apiKey := flag.String("api-key", "sandbox-key", "API key clients must present (empty disables the check)")
	dataDir := flag.String("data-dir", "", "persist data in a badger database under this directory")
	latency := flag.Duration("latency", 0, "artificial latency to inject per request")
	fail := flag.String("fail", "", "failure injection (rate=<float>,code=<httpStatus>)")
	accessLog := flag.Bool("access-log", false, "write an Apache-style access log to stdout")
	logLevel := flag.String("log-level", "info", "log level: trace, debug, info, warn or error")
	flag.Parse()

	log, err := newLogger(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	failCfg, err := parseFailConfig(*fail)
	if err != nil {
		log.Error("parse fail flag", "error", err)
		os.Exit(2)
	}

	store, err := openStore(*dataDir)
	if err != nil {
		log.Error("open store", "error", err)
		os.Exit(1)
	}

	api := mock.NewServer(store,
		mock.WithAPIKey(*apiKey),
		mock.WithLogger(log.Named("api")),
	)
	var handler http.Handler = withMiddleware(*latency, failCfg, api)
	if *accessLog {
		handler = handlers.LoggingHandler(os.Stdout, handler)
	}

	server := &http.Server{
		Addr:              *addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("listening", "addr", *addr, "persistent", *dataDir != "")
	fmt.Println()
	host := *addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	fmt.Printf("export %s=http://%s\n", anytype.EnvAPIURL, host)
	fmt.Printf("export %s=%s\n", anytype.EnvAPIKey, *apiKey)
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, server, store, log); err != nil {
		log.Error("server failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func newLogger(level string) (hclog.Logger, error) {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:  "anytype-sandbox",
		Level: lvl,
	}), nil
}

// serve runs server until ctx is done or the listener fails, then shuts it
// down and closes store.
func serve(ctx context.Context, server *http.Server, store mock.Store, log hclog.Logger) error {
	var result *multierror.Error

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			result = multierror.Append(result, err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			result = multierror.Append(result, fmt.Errorf("shutdown: %w", err))
		}
	}

	if err := store.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close store: %w", err))
	}
	return result.ErrorOrNil()
}

func openStore(dataDir string) (mock.Store, error) {
	if dataDir == "" {
		return mock.NewMemory(), nil
	}
	return mock.OpenBadger(dataDir)
}

func withMiddleware(delay time.Duration, failCfg failConfig, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if delay > 0 {
			time.Sleep(delay)
		}
		if failCfg.rate > 0 && rand.Float64() < failCfg.rate {
			status := failCfg.code
			if status == 0 {
				status = http.StatusInternalServerError
			}
			http.Error(w, "failure injected", status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func parseFailConfig(raw string) (failConfig, error) {
	if strings.TrimSpace(raw) == "" {
		return failConfig{}, nil
	}
	cfg := failConfig{code: http.StatusInternalServerError}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return failConfig{}, fmt.Errorf("invalid fail segment %q", part)
		}
		val = strings.TrimSpace(val)
		switch strings.TrimSpace(key) {
		case "rate":
			rate, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return failConfig{}, err
			}
			if rate < 0 || rate > 1 {
				return failConfig{}, fmt.Errorf("fail rate %v outside [0,1]", rate)
			}
			cfg.rate = rate
		case "code":
			code, err := strconv.Atoi(val)
			if err != nil {
				return failConfig{}, err
			}
			cfg.code = code
		default:
			return failConfig{}, fmt.Errorf("unknown fail key %q", key)
		}
	}
	return cfg, nil
}
