package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ancient-empires/assetconv/internal/config"
	"github.com/ancient-empires/assetconv/internal/logx"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const usage = `usage: aemconv [-config file] [-log-level level] <command> [args]

commands:
  maps                      convert every .aem map in the configured directories
  tiles                     convert tile definitions into one tiles file
  units                     bundle unit definitions into one units file
  inspect <file.aem>        decode one map and print what it contains
  slice <sheet.png>         cut a sprite sheet into fixed-size tiles
  atlas <atlas> <page.png>  cut the regions of a libGDX atlas out of a page
  manifest [dir]            index the sprites in dir (default: sprite output dir)
`

// app carries what every command needs.
type app struct {
	cfg        *config.AppConfig
	configPath string
	log        *logx.Logger
	out        io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, out io.Writer) int {
	fs := flag.NewFlagSet("aemconv", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { fmt.Fprint(out, usage) }
	configPath := fs.String("config", "aemconv.config.xml", "path to the XML configuration file")
	logLevel := fs.String("log-level", "", "override Advanced.LogLevel (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	// Load XML configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(out, "Failed to load configuration: %v\n", err)
		return 1
	}
	if *logLevel != "" {
		cfg.Advanced.LogLevel = *logLevel
	}

	a := &app{
		cfg:        cfg,
		configPath: *configPath,
		log:        logx.New(out, logx.ParseLevel(cfg.Advanced.LogLevel)),
		out:        out,
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	if cmd != "inspect" {
		a.banner(cmd)
	}

	var failed bool
	switch cmd {
	case "maps":
		failed, err = a.runMaps(ctx)
	case "tiles":
		failed, err = a.runTiles()
	case "units":
		err = a.runUnits()
	case "inspect":
		err = a.runInspect(rest)
	case "slice":
		err = a.runSlice(rest)
	case "atlas":
		failed, err = a.runAtlas(rest)
	case "manifest":
		err = a.runManifest(rest)
	default:
		fmt.Fprintf(out, "unknown command %q\n\n", cmd)
		fs.Usage()
		return 2
	}

	if err != nil {
		a.log.Errorf("%s: %v", cmd, err)
		return 1
	}
	if failed {
		return 1
	}
	return 0
}

func (a *app) banner(cmd string) {
	fmt.Fprintf(a.out, "\n")
	fmt.Fprintf(a.out, "╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Fprintf(a.out, "║           Ancient Empires Asset Converter                 ║\n")
	fmt.Fprintf(a.out, "╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Fprintf(a.out, "║  Version:    %-45s║\n", Version)
	fmt.Fprintf(a.out, "║  Build Time: %-45s║\n", BuildTime)
	fmt.Fprintf(a.out, "║  Command:    %-45s║\n", cmd)
	fmt.Fprintf(a.out, "╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Fprintf(a.out, "║  Config:    %-46s║\n", a.configPath)
	fmt.Fprintf(a.out, "║  Output:    %-46s║\n", a.cfg.Output.Directory)
	fmt.Fprintf(a.out, "╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Fprintf(a.out, "\n")
}
