// goserver serves files from one directory over HTTP/0.9 and HTTP/1.0.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/s00inx/oldhttp/internal/logging"
	"github.com/s00inx/oldhttp/server"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "goserver:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("goserver", flag.ContinueOnError)
	var (
		cfgPath  = fs.String("config", "", "path to a TOML config file")
		addr     = fs.String("addr", "", "listen address (default 127.0.0.1:8080)")
		root     = fs.String("root", "", "document root (default .)")
		metrics  = fs.String("metrics", "", "address for the /metrics listener, empty disables it")
		logLevel = fs.String("log-level", "", "debug, info, warn or error")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := server.DefaultConfig()
	if *cfgPath != "" {
		var err error
		if cfg, err = server.LoadConfig(*cfgPath); err != nil {
			return err
		}
	}
	// flags win over the file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "root":
			cfg.Root = *root
		case "metrics":
			cfg.MetricsAddr = *metrics
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}
