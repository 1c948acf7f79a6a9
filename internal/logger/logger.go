package logger

import (
	"github.com/fatih/color" // Colored console output for the different log levels
)

// Leveled printing functions built on fatih/color. Each behaves like
// fmt.Printf but renders in a color matching its severity, so the operator
// can pick out failures in a long provisioning transcript at a glance.

// Info logs informational messages in green.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs warnings in bright magenta.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs errors in red.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug logs debug messages in cyan when enabled, otherwise it is a no-op.
// It is assigned by Init based on the --debug flag.
var Debug func(format string, a ...any)

// Init enables or disables debug logging. Must be called before any command
// runs; the root command does this in its PersistentPreRun hook.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}
