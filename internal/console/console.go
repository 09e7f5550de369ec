// Package console is the process-wide logger of the command line tool.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Logger is the shared console logger.
var Logger = New(os.Stdout)

// Console prints leveled, human readable lines. Debug lines are printed only
// when DebugLevel is above zero.
type Console struct {
	DebugLevel int
	log        zerolog.Logger
}

// New creates a Console writing to out. Colour is used only when out is a
// terminal.
func New(out io.Writer) *Console {
	c := &Console{}
	c.SetOutput(out)
	return c
}

// SetOutput redirects the console; io.Discard silences it.
func (c *Console) SetOutput(out io.Writer) {
	noColor := true
	if f, ok := out.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
		if !noColor {
			out = colorable.NewColorable(f)
		}
	}
	c.log = zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    noColor,
		TimeFormat: "15:04:05",
	}).With().Timestamp().Logger()
}

// Debug prints a debug line when debugging is enabled.
func (c *Console) Debug(format string, args ...interface{}) {
	if c.DebugLevel <= 0 {
		return
	}
	c.log.Debug().Msg(fmt.Sprintf(format, args...))
}

// Info prints an informational line.
func (c *Console) Info(format string, args ...interface{}) {
	c.log.Info().Msg(fmt.Sprintf(format, args...))
}

// Warn prints a warning.
func (c *Console) Warn(format string, args ...interface{}) {
	c.log.Warn().Msg(fmt.Sprintf(format, args...))
}

// Error prints an error line.
func (c *Console) Error(err error, format string, args ...interface{}) {
	c.log.Error().Err(err).Msg(fmt.Sprintf(format, args...))
}

// Printf makes a Console usable as a Debugger.
func (c *Console) Printf(format string, args ...interface{}) {
	c.Info(format, args...)
}

// Debugger exposes the debug level as a Debugger, for components that only
// log diagnostics.
func (c *Console) Debugger() *DebugWriter {
	return &DebugWriter{c: c}
}

// DebugWriter is a Debugger printing at debug level.
type DebugWriter struct {
	c *Console
}

// Printf implements Debugger.
func (d *DebugWriter) Printf(format string, args ...interface{}) {
	d.c.Debug(format, args...)
}
