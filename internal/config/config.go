// Package config holds globally available configuration values for the
// engine, either defaulted, read from a toml file, or set through UCI
// setoption commands at runtime.
package config

import (
	"log"

	"github.com/BurntSushi/toml"
)

// ConfFile is the path to the toml config file, relative to the working directory.
var ConfFile = "./config.toml"

var initialized = false

// Settings is the global, process-wide configuration.
var Settings conf

type conf struct {
	Log    logConfig
	Search searchConfig
	Eval   evalConfig
	UCI    uciConfig
}

type logConfig struct {
	// Level is one of CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG.
	Level string
}

// searchConfig toggles individual pruning/search techniques so each can be
// measured or disabled in isolation during tuning and regression testing.
// UseQuiescence and UseSee are not read by the search: quiescence and SEE
// filtering always run.
type searchConfig struct {
	UseTranspositionTable bool
	TTSizeMb              int
	UseQuiescence         bool
	UseNullMove           bool
	UseLmr                bool
	UseLmp                bool
	UseFutility           bool
	UseRazoring           bool
	UseReverseFutility    bool
	UseSee                bool
	UseAspiration         bool
	Contempt              int
}

type evalConfig struct {
	UseNNUE  bool
	NNUEFile string
	UsePawnCache bool
}

type uciConfig struct {
	OwnBook  bool
	BookFile string
	Ponder   bool
	MultiPV  int
}

func defaults() conf {
	return conf{
		Log: logConfig{Level: "INFO"},
		Search: searchConfig{
			UseTranspositionTable: true,
			TTSizeMb:              64,
			UseQuiescence:         true,
			UseNullMove:           true,
			UseLmr:                true,
			UseLmp:                true,
			UseFutility:           true,
			UseRazoring:           true,
			UseReverseFutility:    true,
			UseSee:                true,
			UseAspiration:         true,
			Contempt:              10,
		},
		Eval: evalConfig{UsePawnCache: true},
		UCI:  uciConfig{MultiPV: 1},
	}
}

// Setup reads the config file (if present) over engine defaults. Safe to
// call more than once; subsequent calls are no-ops.
func Setup() {
	if initialized {
		return
	}
	Settings = defaults()
	if _, err := toml.DecodeFile(ConfFile, &Settings); err != nil {
		log.Println("config file not found, using defaults (", err, ")")
	}
	initialized = true
}
