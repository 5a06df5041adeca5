package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

const service = "stats-service"

var Logger = zerolog.Nop()

// Init installs the process logger and mirrors it into zerolog/log, which the
// handlers and middleware write through.
func Init(level, format string) {
	InitWithWriter(os.Stdout, level, format)
}

func InitWithWriter(w io.Writer, level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	if strings.EqualFold(format, "json") {
		out = w
	}

	Logger = zerolog.New(out).Level(lvl).With().Timestamp().Str("service", service).Logger()
	zlog.Logger = Logger
}
