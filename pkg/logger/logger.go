package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

// New returns a stdlib-backed logger with component prefix.
// Libraries that expect a Printf-style logger (cron) write through it.
func New(component string) *log.Logger {
	return NewTo(os.Stdout, component)
}

// NewTo is New with an explicit destination.
func NewTo(w io.Writer, component string) *log.Logger {
	prefix := fmt.Sprintf("[%s] ", component)
	return log.New(w, prefix, log.LstdFlags|log.Lmsgprefix)
}
