package core

import (
	"log"
	"os"
)

type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// consoleLogger writes leveled lines via the std log package. Debug lines
// are dropped unless verbose is set.
type consoleLogger struct {
	log     *log.Logger
	verbose bool
}

func NewConsoleLogger(verbose bool) Logger {
	return &consoleLogger{log: log.New(os.Stderr, "", log.LstdFlags), verbose: verbose}
}

func (l *consoleLogger) Debug(msg string, args ...interface{}) {
	if l.verbose {
		l.log.Printf("DEBUG "+msg, args...)
	}
}
func (l *consoleLogger) Info(msg string, args ...interface{})  { l.log.Printf("INFO "+msg, args...) }
func (l *consoleLogger) Warn(msg string, args ...interface{})  { l.log.Printf("WARN "+msg, args...) }
func (l *consoleLogger) Error(msg string, args ...interface{}) { l.log.Printf("ERROR "+msg, args...) }
func (l *consoleLogger) Fatal(msg string, args ...interface{}) { l.log.Fatalf("FATAL "+msg, args...) }
