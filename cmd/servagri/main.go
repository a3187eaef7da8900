package main

import (
	"fmt"
	"os"

	servagri "github.com/agrotic7/serv-agri"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("servagri %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServe() error {
	cfg := servagri.SiteConfig{
		Name:            servagri.EnvOr("SITE_NAME", "Serv'Agri"),
		Addr:            servagri.EnvOr("ADDR", ":3000"),
		DatabasePath:    servagri.EnvOr("DATABASE_PATH", "data/site.db"),
		CORSAllowOrigin: servagri.EnvOr("CORS_ALLOW_ORIGIN", "*"),
	}

	app := servagri.New(cfg, servagri.WithStaticDir(servagri.EnvOr("STATIC_DIR", "public")))
	defer app.Close()
	return app.Start()
}

func printUsage() {
	fmt.Println(`servagri - content engine for the Serv'Agri marketing site

Usage:
  servagri <command>

Commands:
  serve         Start the content API server
  version       Print the servagri version
  help          Show this help message

Environment:
  SITE_NAME          Site name (default "Serv'Agri")
  ADDR               Listen address (default ":3000")
  DATABASE_PATH      SQLite path (default "data/site.db")
  CORS_ALLOW_ORIGIN  Allow-origin for /api responses (default "*")
  STATIC_DIR         Static build directory (default "public")`)
}
