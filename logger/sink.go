package logger

import (
	iface "LineCrossServer/interface"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sink forwards report lines to zap. Highlighted lines carry a "highlight" field
// instead of terminal colors.
type Sink struct {
	l *zap.Logger
}

// NewSink wraps l; a nil l means the package logger at the time of each Emit.
func NewSink(l *zap.Logger) *Sink {
	return &Sink{l: l}
}

func (s *Sink) logger() *zap.Logger {
	if s.l != nil {
		return s.l
	}
	return Log()
}

func level(sev iface.Severity) zapcore.Level {
	switch sev {
	case iface.SeverityWarn:
		return zapcore.WarnLevel
	case iface.SeverityError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (s *Sink) Emit(line iface.LogLine) {
	l := s.logger()
	if ce := l.Check(level(line.Severity), line.Text); ce != nil {
		if line.Highlight {
			ce.Write(zap.Bool("highlight", true))
			return
		}
		ce.Write()
	}
}
