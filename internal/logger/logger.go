package logger

import (
	"io"
	"os"
	"runtime/debug"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Logger writes structured JSON log lines tagged with the service name,
// hostname, action and request id.
type Logger struct {
	service  string
	hostname string
	entry    *log.Logger
}

// New creates a logger writing to stdout
func New(service string) *Logger {
	return NewWithWriter(service, os.Stdout)
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(service string, w io.Writer) *Logger {
	hostname, _ := os.Hostname()

	l := log.New()
	l.SetOutput(w)
	l.SetLevel(log.DebugLevel)
	l.SetFormatter(&log.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
		FieldMap: log.FieldMap{
			log.FieldKeyTime: "timestamp",
			log.FieldKeyMsg:  "message",
		},
	})

	return &Logger{
		service:  service,
		hostname: hostname,
		entry:    l,
	}
}

// SetLevel changes the minimum level; unknown names leave the level untouched.
func (l *Logger) SetLevel(level string) {
	if lvl, err := log.ParseLevel(level); err == nil {
		l.entry.SetLevel(lvl)
	}
}

func (l *Logger) Info(action, message, requestID string, fields map[string]interface{}) {
	l.with(action, requestID, fields).Info(message)
}

func (l *Logger) Debug(action, message, requestID string, fields map[string]interface{}) {
	l.with(action, requestID, fields).Debug(message)
}

func (l *Logger) Warn(action, message, requestID string, fields map[string]interface{}) {
	l.with(action, requestID, fields).Warn(message)
}

func (l *Logger) Error(action, message, requestID string, err error, fields map[string]interface{}) {
	entry := l.with(action, requestID, fields)
	if err != nil {
		entry = entry.WithField("error", map[string]string{
			"msg":   err.Error(),
			"stack": string(debug.Stack()),
		})
	}
	entry.Error(message)
}

func (l *Logger) with(action, requestID string, fields map[string]interface{}) *log.Entry {
	entry := l.entry.WithFields(log.Fields{
		"service":    l.service,
		"hostname":   l.hostname,
		"action":     action,
		"request_id": requestID,
	})
	if len(fields) > 0 {
		entry = entry.WithFields(log.Fields(fields))
	}
	return entry
}

// GenerateRequestID returns a fresh request correlation id
func GenerateRequestID() string {
	return uuid.NewString()
}
