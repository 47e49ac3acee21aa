package logger

import (
	"log/slog"
	"os"

	"github.com/shuldan/chassis/pkg/contracts"
)

func NewLogger(opts ...Option) (contracts.Logger, error) {
	cfg := &config{
		level:     slog.LevelInfo,
		json:      false,
		addSource: false,
		writer:    os.Stdout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.replaceAttr == nil {
		WithDefaultReplaceAttr()(cfg)
	}

	var handler slog.Handler
	if cfg.json {
		handlerOpts := &slog.HandlerOptions{
			Level:       cfg.level,
			AddSource:   cfg.addSource,
			ReplaceAttr: cfg.replaceAttr,
		}
		handler = slog.NewJSONHandler(cfg.writer, handlerOpts)
	} else {
		isColored := cfg.wantColor && isTerminal(cfg.writer)
		handler = newTextHandler(cfg.writer, isColored, cfg.replaceAttr, cfg.level)
	}

	return &sLogger{Logger: slog.New(handler)}, nil
}

// NewFromConfig builds a logger from the logger.* configuration keys. It is
// meant for wiring done before a container exists; inside a container the
// logger module reads the same keys.
func NewFromConfig(cfg contracts.Config, opts ...Option) (contracts.Logger, error) {
	return NewLogger(append(configuredOptions(cfg), opts...)...)
}

func NewModule(opts ...Option) contracts.AppModule {
	return &module{opts: opts}
}
