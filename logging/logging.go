// Package logging hands out component loggers that share one logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var root = &logrus.Logger{
	Out:       os.Stdout,
	Formatter: &logrus.TextFormatter{FullTimestamp: true},
	Hooks:     make(logrus.LevelHooks),
	Level:     logrus.InfoLevel,
}

// New returns a logger tagged with the component name.
func New(component string) *logrus.Entry {
	return root.WithField("component", component)
}

// Configure sets the level ("debug", "info", ...) and the format ("text" or
// "json") of every component logger.
func Configure(level, format string) error {

	l, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	root.SetLevel(l)

	switch format {
	case "", "text":
		root.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		root.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("log format '%s' not supported, must be [text|json]", format)
	}

	return nil
}

// SetOutput redirects every component logger, mostly useful in tests.
func SetOutput(w io.Writer) {
	root.SetOutput(w)
}
