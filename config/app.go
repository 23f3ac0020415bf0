package config

import (
	"context"
	"errors"
	"fmt"
	stdslog "log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appstate "github.com/0xLeif/AppState-sub000"
	promhooks "github.com/0xLeif/AppState-sub000/hooks/prom"
	lgrus "github.com/0xLeif/AppState-sub000/log/logrus"
	lslog "github.com/0xLeif/AppState-sub000/log/slog"
	lzap "github.com/0xLeif/AppState-sub000/log/zap"
	pr "github.com/0xLeif/AppState-sub000/provider"
	"github.com/0xLeif/AppState-sub000/provider/bigcache"
	"github.com/0xLeif/AppState-sub000/provider/file"
	"github.com/0xLeif/AppState-sub000/provider/memory"
	"github.com/0xLeif/AppState-sub000/provider/redis"
	"github.com/0xLeif/AppState-sub000/provider/ristretto"
	"github.com/0xLeif/AppState-sub000/provider/secure"
)

// Runtime is an App plus the resources built for it.
type Runtime struct {
	App *appstate.App
	// Feed is set when the cloud tier is Redis; pass it to App.WatchRemote.
	Feed appstate.ChangeFeed

	rdb goredis.UniversalClient
}

// Close closes the App and the Redis client it was built with.
func (r *Runtime) Close(ctx context.Context) error {
	err := r.App.Close(ctx)
	if r.rdb != nil {
		err = errors.Join(err, r.rdb.Close())
	}
	return err
}

// Open builds an App from cfg. reg receives metrics when cfg.MetricsEnabled;
// nil => the default registerer.
func Open(cfg *Config, reg prometheus.Registerer) (_ *Runtime, err error) {
	if cfg == nil {
		cfg = Default()
	}
	log, err := NewLogger(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	// providers opened so far; closed again if a later step fails
	var opened []pr.Provider
	defer func() {
		if err == nil {
			return
		}
		for _, p := range opened {
			_ = p.Close(context.Background())
		}
	}()

	prefs, err := newPreferences(cfg.Preferences)
	if err != nil {
		return nil, err
	}
	opened = append(opened, prefs)
	files, err := file.New(file.Config{Dir: cfg.FileDir})
	if err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	opened = append(opened, files)
	key, err := secure.LoadOrCreateKey(cfg.SecureKeyFile)
	if err != nil {
		return nil, fmt.Errorf("secure key: %w", err)
	}
	sec, err := secure.New(secure.Config{Dir: cfg.SecureDir, Key: key})
	if err != nil {
		return nil, fmt.Errorf("secure store: %w", err)
	}
	opened = append(opened, sec)

	rt := &Runtime{}
	var cloud pr.Provider = memory.New()
	if cfg.RedisAddr != "" {
		rt.rdb = goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		rp, err := redis.New(redis.Config{Client: rt.rdb, Namespace: cfg.RedisNamespace, MaxKeys: cfg.RedisMaxKeys})
		if err != nil {
			_ = rt.rdb.Close()
			return nil, err
		}
		cloud, rt.Feed = rp, rp
	}

	opts := appstate.Options{
		Logger:         log,
		Preferences:    prefs,
		Cloud:          cloud,
		Files:          files,
		Secure:         sec,
		Synchronous:    cfg.Synchronous,
		QueueSize:      cfg.QueueSize,
		DurableTimeout: cfg.DurableTimeout,
	}
	if cfg.MetricsEnabled {
		opts.Hooks = promhooks.New(reg, "appstate")
	}
	rt.App = appstate.New(opts)
	return rt, nil
}

// newPreferences is replaced in tests.
var newPreferences = preferences

func preferences(kind string) (pr.Provider, error) {
	switch strings.ToLower(kind) {
	case "", "memory":
		return memory.New(), nil
	case "bigcache":
		return bigcache.New(bigcache.Config{})
	case "ristretto":
		return ristretto.New(ristretto.Config{NumCounters: 1e5, MaxCost: 64 << 20, BufferItems: 64})
	default:
		return nil, fmt.Errorf("unknown preference store %q", kind)
	}
}

// NewLogger builds a Logger writing to stderr in the given format.
func NewLogger(format, level string) (appstate.Logger, error) {
	switch strings.ToLower(format) {
	case "", "slog":
		var lv stdslog.Level
		if err := lv.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
		h := stdslog.NewJSONHandler(os.Stderr, &stdslog.HandlerOptions{Level: lv})
		return lslog.New(stdslog.New(h)), nil
	case "zap":
		lv, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(lv)
		l, err := zc.Build()
		if err != nil {
			return nil, err
		}
		return lzap.New(l), nil
	case "logrus":
		lv, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
		l := logrus.New()
		l.SetOutput(os.Stderr)
		l.SetLevel(lv)
		l.SetFormatter(&logrus.JSONFormatter{})
		return lgrus.New(l), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
