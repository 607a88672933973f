//
// goknight - a UCI chess engine in Go
//

// Package logging provides a single shared logger configuration for all
// engine packages, following the same pattern across the codebase: one
// named logger per package, backed by github.com/op/go-logging.
package logging

import (
	"os"
	"sync"

	"github.com/op/go-logging"
)

var (
	once    sync.Once
	backend logging.LeveledBackend
)

func setup() {
	b := logging.NewLogBackend(os.Stderr, "", 0)
	format := logging.MustStringFormatter(
		`%{time:15:04:05.000} %{shortfile} %{level:7s}: %{message}`,
	)
	formatted := logging.NewBackendFormatter(b, format)
	backend = logging.AddModuleLevel(formatted)
	backend.SetLevel(logging.INFO, "")
}

// GetLog returns a named logger, initializing the shared backend on first use.
func GetLog(name string) *logging.Logger {
	once.Do(setup)
	log := logging.MustGetLogger(name)
	logging.SetBackend(backend)
	return log
}

// SetLevel adjusts the log level for the named module ("" for all modules).
func SetLevel(level logging.Level, module string) {
	once.Do(setup)
	backend.SetLevel(level, module)
}
