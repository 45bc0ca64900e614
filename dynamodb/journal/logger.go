package journal

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// badgerLogger forwards badger's log lines to zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func msg(format string, args []any) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.log.Error().Msg(msg(format, args))
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.log.Warn().Msg(msg(format, args))
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.log.Info().Msg(msg(format, args))
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msg(msg(format, args))
}
