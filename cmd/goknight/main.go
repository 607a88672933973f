// Command goknight runs the engine as a UCI chess engine, reading
// commands from stdin and writing responses to stdout.
package main

import (
	"flag"
	"os"
	"runtime"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/elinde/goknight/internal/config"
	"github.com/elinde/goknight/internal/logging"
	"github.com/elinde/goknight/internal/uci"
)

var out = message.NewPrinter(language.English)

const version = "0.1.0"

func main() {
	versionInfo := flag.Bool("version", false, "prints version and exits")
	configFile := flag.String("config", "./config.toml", "path to configuration settings file")
	flag.Parse()

	if *versionInfo {
		printVersionInfo()
		return
	}

	config.ConfFile = *configFile
	config.Setup()
	logging.GetLog("main")

	h := uci.NewHandler()
	h.Loop()
}

func printVersionInfo() {
	out.Printf("goknight %s\n", version)
	out.Println("Environment:")
	out.Printf("  Using GO version %s\n", runtime.Version())
	out.Printf("  Running %s using %s as a compiler\n", runtime.GOARCH, runtime.Compiler)
	out.Printf("  Number of CPU: %d\n", runtime.NumCPU())
	cwd, _ := os.Getwd()
	out.Printf("  Working directory: %s\n", cwd)
}
