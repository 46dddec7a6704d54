package trace

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Quizert/refs/shared"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the package logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger installs l as the package logger. Call it before the first
// Logger use.
func SetLogger(l *zap.Logger) {
	logger = l
}

// LogObserver writes control-block lifecycle events to a zap logger.
type LogObserver struct {
	log *zap.Logger
}

// NewLogObserver creates a lifecycle log observer. A nil logger falls
// back to the package logger.
func NewLogObserver(l *zap.Logger) *LogObserver {
	if l == nil {
		l = Logger()
	}
	return &LogObserver{log: l}
}

// OnBlockEvent implements shared.Observer.
func (o *LogObserver) OnBlockEvent(e shared.Event) {
	o.log.Debug("block lifecycle",
		zap.Uint64("block", e.ID),
		zap.String("label", e.Label),
		zap.Stringer("event", e.Type),
		zap.Uint32("strong", e.Strong),
		zap.Uint32("weak", e.Weak),
	)
}

// Tee fans lifecycle events out to several observers, in order.
func Tee(obs ...shared.Observer) shared.Observer {
	return tee(obs)
}

type tee []shared.Observer

func (t tee) OnBlockEvent(e shared.Event) {
	for _, o := range t {
		o.OnBlockEvent(e)
	}
}
