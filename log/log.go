// Package log provides a structured logging facade over logrus with filesystem-based persistence.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/lo"
	logrus "github.com/sirupsen/logrus"
	"github.com/solotube/solotube/filesystem"
	"github.com/solotube/solotube/key"
	"github.com/solotube/solotube/where"
	"github.com/spf13/viper"
)

var (
	enabled bool
	base    = logrus.New()
)

// Setup initializes the logging subsystem based on global configuration.
// If logging is disabled, all subsequent log emissions are silently discarded.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		base.SetOutput(io.Discard)
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))

	if exists := lo.Must(filesystem.API().Exists(path)); !exists {
		lo.Must(filesystem.API().Create(path))
	}

	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	base.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		base.SetFormatter(&logrus.JSONFormatter{PrettyPrint: true})
	} else {
		base.SetFormatter(&logrus.TextFormatter{})
	}

	parsed, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	base.SetLevel(parsed)

	return nil
}

// Logger emits entries tagged with the component that produced them.
type Logger struct {
	component string
}

// For returns a logger for the named component.
func For(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) entry() *logrus.Entry {
	return base.WithField("component", l.component)
}

func (l *Logger) Errorf(format string, args ...any) {
	if enabled {
		l.entry().Errorf(format, args...)
	}
}

func (l *Logger) Warnf(format string, args ...any) {
	if enabled {
		l.entry().Warnf(format, args...)
	}
}

func (l *Logger) Infof(format string, args ...any) {
	if enabled {
		l.entry().Infof(format, args...)
	}
}

func (l *Logger) Debugf(format string, args ...any) {
	if enabled {
		l.entry().Debugf(format, args...)
	}
}

// Package-level emissions for code without a dedicated component.

func Error(args ...any) {
	if enabled {
		base.Error(args...)
	}
}

func Errorf(format string, args ...any) {
	if enabled {
		base.Errorf(format, args...)
	}
}

func Warnf(format string, args ...any) {
	if enabled {
		base.Warnf(format, args...)
	}
}

func Infof(format string, args ...any) {
	if enabled {
		base.Infof(format, args...)
	}
}
