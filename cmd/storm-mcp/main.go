package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/storm-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const usage = `storm-tools-mcp - locate cyclones and anticyclones in gridded pressure fields

Usage: storm-tools-mcp [--version | --help]

Tools are served over MCP (JSON-RPC 2.0) on stdin/stdout; logs go to stderr.

Environment:
  STORM_MCP_LOG_LEVEL     info | debug   (default info)
  STORM_MCP_MIN_PIXELS    default min_pixels for storms_detect (default 9)
  STORM_MCP_RENDER_SCALE  default pixels per cell for grid_render, 1..32 (default 4)
`

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("storm-tools-mcp %s (built %s, commit %s)\n", Version, BuildTime, GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Print(usage)
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown argument %q\n\n%s", os.Args[1], usage)
			os.Exit(2)
		}
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := server.ConfigFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Debug() {
		log.Printf("storm-tools-mcp %s starting (min_pixels=%d, render_scale=%d)", Version, cfg.MinPixels, cfg.RenderScale)
	}

	if err := server.New(cfg).Run(); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
