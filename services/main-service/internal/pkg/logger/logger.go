package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	appCtx "github.com/baechuer/explore-with-me/services/main-service/internal/pkg/context"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Logger is the process-wide logger. It discards everything until Init runs,
// so packages under test stay quiet.
var Logger = zerolog.Nop()

type Options struct {
	Level   string // zerolog level name; unknown values mean info
	Format  string // "json" (default) or "console"
	Service string
}

func Init(opts Options) {
	InitWithWriter(os.Stdout, opts)
}

func InitWithWriter(w io.Writer, opts Options) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := w
	if strings.EqualFold(opts.Format, "console") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	c := zerolog.New(out).Level(level).With().Timestamp()
	if opts.Service != "" {
		c = c.Str("service", opts.Service)
	}
	Logger = c.Logger()
	zlog.Logger = Logger
}

// WithCtx returns the global logger tagged with the request id and the acting
// user, when the context carries them.
func WithCtx(ctx context.Context) *zerolog.Logger {
	c := Logger.With()
	if rid := appCtx.GetRequestID(ctx); rid != "" {
		c = c.Str("request_id", rid)
	}
	if actor, ok := appCtx.GetActor(ctx); ok {
		c = c.Int64("actor_id", actor)
	}
	l := c.Logger()
	return &l
}
