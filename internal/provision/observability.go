package provision

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/go-logr/logr"
)

// Observer receives progress and warning output from provisioning. It is
// deliberately small; sessions report what happened and the
// implementation decides where it goes.
type Observer interface {
	Printf(format string, v ...interface{})

	// WithFields returns an Observer that attaches the given context
	// fields to everything it emits.
	WithFields(fields map[string]string) Observer
}

// ConsoleObserver writes to the standard log package.
type ConsoleObserver struct {
	contextFields map[string]string
}

// NewConsoleObserver creates a console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{
		contextFields: make(map[string]string),
	}
}

// Printf implements Observer.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	if suffix := formatFields(o.contextFields); suffix != "" {
		msg = msg + " " + suffix
	}
	log.Print(msg)
}

// WithFields implements Observer.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	merged := make(map[string]string, len(o.contextFields)+len(fields))
	for k, v := range o.contextFields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &ConsoleObserver{contextFields: merged}
}

func formatFields(fields map[string]string) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, fields[k]))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// LogrObserver adapts a logr.Logger to the Observer interface.
type LogrObserver struct {
	logger logr.Logger
}

// NewLogrObserver wraps the given logger.
func NewLogrObserver(logger logr.Logger) *LogrObserver {
	return &LogrObserver{logger: logger}
}

// Printf implements Observer.
func (o *LogrObserver) Printf(format string, v ...interface{}) {
	o.logger.Info(fmt.Sprintf(format, v...))
}

// WithFields implements Observer.
func (o *LogrObserver) WithFields(fields map[string]string) Observer {
	logger := o.logger
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		logger = logger.WithValues(k, fields[k])
	}
	return &LogrObserver{logger: logger}
}
