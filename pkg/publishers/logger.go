package publishers

import "github.com/samvad-hq/contacts-prober/internal/logger"

// Logger is the logging surface publishers rely on.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger {
	if log == nil {
		return logger.NopLogger{}
	}
	return log
}
