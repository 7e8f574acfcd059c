package log

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/neurodecode/gomvpa/pkg/errors"
)

// EnableZerologWarnings routes all library warnings through a zerolog logger
// writing to w. Warning types that implement zerolog.LogObjectMarshaler are
// emitted as structured objects; anything else falls back to the message text.
//
// The wiring goes through errors.SetZerologWarnFunc so that pkg/errors never
// has to import this package.
func EnableZerologWarnings(w io.Writer) {
	zl := zerolog.New(w).With().Timestamp().Logger()
	errors.SetZerologWarnFunc(func(warning error) {
		ev := zl.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev = ev.Object("warning", obj)
		}
		ev.Msg(warning.Error())
	})
}
