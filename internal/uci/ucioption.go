package uci

import (
	"fmt"
	"strconv"

	"github.com/elinde/goknight/internal/config"
)

// optionKind mirrors the UCI option type vocabulary (check/spin/button/
// string); combo is unused since none of this engine's options are
// enumerated choices.
type optionKind int

const (
	optCheck optionKind = iota
	optSpin
	optButton
	optString
)

type optionDef struct {
	name    string
	kind    optionKind
	def     string
	min     string
	max     string
	applyFn func(value string) error
}

// options is the UCI options table, mirroring the teacher's uciOptions map
// but keyed by the spec's declared option set: Hash, Contempt, MultiPV,
// OwnBook, BookFile, UseNNUE, NNUEFile, Ponder.
var options = []optionDef{
	{name: "Hash", kind: optSpin, def: "64", min: "1", max: "65536", applyFn: func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		config.Settings.Search.TTSizeMb = n
		return nil
	}},
	{name: "Contempt", kind: optSpin, def: "10", min: "-100", max: "100", applyFn: func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		config.Settings.Search.Contempt = n
		return nil
	}},
	{name: "MultiPV", kind: optSpin, def: "1", min: "1", max: "16", applyFn: func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		config.Settings.UCI.MultiPV = n
		return nil
	}},
	{name: "OwnBook", kind: optCheck, def: "false", applyFn: func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		config.Settings.UCI.OwnBook = b
		return nil
	}},
	{name: "BookFile", kind: optString, def: "", applyFn: func(v string) error {
		config.Settings.UCI.BookFile = v
		return nil
	}},
	{name: "UseNNUE", kind: optCheck, def: "false", applyFn: func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		config.Settings.Eval.UseNNUE = b
		return nil
	}},
	{name: "NNUEFile", kind: optString, def: "", applyFn: func(v string) error {
		config.Settings.Eval.NNUEFile = v
		return nil
	}},
	{name: "Ponder", kind: optCheck, def: "false", applyFn: func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		config.Settings.UCI.Ponder = b
		return nil
	}},
}

// OptionLines renders the "option name ..." lines sent in response to the
// "uci" command, in UCI's required wire format.
func OptionLines() []string {
	lines := make([]string, 0, len(options))
	for _, o := range options {
		switch o.kind {
		case optCheck:
			lines = append(lines, fmt.Sprintf("option name %s type check default %s", o.name, o.def))
		case optSpin:
			lines = append(lines, fmt.Sprintf("option name %s type spin default %s min %s max %s", o.name, o.def, o.min, o.max))
		case optButton:
			lines = append(lines, fmt.Sprintf("option name %s type button", o.name))
		case optString:
			lines = append(lines, fmt.Sprintf("option name %s type string default %s", o.name, o.def))
		}
	}
	return lines
}

// ApplyOption looks up name in the options table and applies value through
// its handler, or returns an error describing why it couldn't.
func ApplyOption(name, value string) error {
	for _, o := range options {
		if o.name == name {
			return o.applyFn(value)
		}
	}
	return fmt.Errorf("no such option %q", name)
}
