package core

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	errColor  = color.New(color.FgRed)
	infoColor = color.New(color.FgBlue)
	warnColor = color.New(color.FgYellow)
)

// Console colors mirror the tool's long-standing convention:
// errors red, informational chatter blue, warnings yellow, data plain.

func Errorf(format string, a ...interface{}) {
	_, _ = errColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Infof(format string, a ...interface{}) {
	_, _ = infoColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Warnf(format string, a ...interface{}) {
	_, _ = warnColor.Fprintf(os.Stderr, format+"\n", a...)
}

// Outputf writes data output to stdout, uncolored so it pipes cleanly.
func Outputf(format string, a ...interface{}) {
	fmt.Fprintf(os.Stdout, format+"\n", a...)
}
