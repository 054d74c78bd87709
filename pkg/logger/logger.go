package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options opciones para el logger.
type Options struct {
	Env     string // development -> consola legible; production -> JSON
	Level   string // trace, debug, info, warn, error
	Service string // nombre del servicio, va como campo fijo
}

// New crea un logger estructurado zerolog. En development usa salida legible;
// en production JSON. Redirige además el logger global de zerolog para
// librerías que lo usen.
func New(opts Options) zerolog.Logger {
	var w io.Writer = os.Stdout
	if opts.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zl := zerolog.New(w).Level(parseLevel(opts.Level)).With().Timestamp()
	if opts.Service != "" {
		zl = zl.Str("service", opts.Service)
	}
	l := zl.Logger()
	log.Logger = l
	return l
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
