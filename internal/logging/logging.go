package logging

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

var levels = map[string]logrus.Level{
	"trace":    logrus.TraceLevel,
	"debug":    logrus.DebugLevel,
	"info":     logrus.InfoLevel,
	"warn":     logrus.WarnLevel,
	"error":    logrus.ErrorLevel,
	"critical": logrus.FatalLevel,
	"off":      logrus.PanicLevel,
}

// Setup configures the standard logrus logger with the named level.
func Setup(level string) error {
	lv, ok := levels[level]
	if !ok {
		return fmt.Errorf("unknown log level %q (trace debug info warn error critical off)", level)
	}
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(lv)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return nil
}

// For returns a logger entry tagged with the module name.
func For(module string) *logrus.Entry {
	return logrus.WithField("module", module)
}
