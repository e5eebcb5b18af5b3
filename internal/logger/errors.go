package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrAppNameIsEmpty is returned if Log.AppName was not defined.
	ErrAppNameIsEmpty = errors.New("config Log.AppName can not be empty")

	// ErrServiceNameIsEmpty is returned if Log.ServiceName was not defined.
	ErrServiceNameIsEmpty = errors.New("config Log.ServiceName can not be empty")
)

// writeFailures receives events zerolog failed to write.
var writeFailures io.Writer = os.Stderr //nolint:gochecknoglobals

// ErrorHandler reports a failed write, installed as zerolog.ErrorHandler by Init.
func ErrorHandler(err error) {
	_, _ = fmt.Fprintf(writeFailures, "zerolog: could not write event: %v\n", err)
}
