package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/splitpool/internal/domain/settlement"
	"github.com/okian/splitpool/internal/settlecli"
)

func main() {
	var (
		file    = flag.String("file", "", "Snapshot file in YAML or JSON")
		baseURL = flag.String("url", "", "Base URL of a running server (settles locally when empty)")
		asJSON  = flag.Bool("json", false, "Print the summary as JSON")
		lang    = flag.String("lang", "", "Language for unnamed participants")
		policy  = flag.String("policy", string(settlecli.DefaultPolicy), "Invalid amount handling: reject or coerce")
		timeout = flag.Duration("timeout", settlecli.DefaultTimeout, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Enable debug logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		settlecli.ShowHelp(os.Stdout)
		return
	}

	if err := settlecli.SetupLogging(os.Stderr, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	p, err := settlement.ParsePolicy(*policy)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := &settlecli.Config{
		File:    *file,
		BaseURL: *baseURL,
		JSON:    *asJSON,
		Lang:    *lang,
		Policy:  p,
		Timeout: *timeout,
		Verbose: *verbose,
	}

	if err := settlecli.Run(ctx, cfg, os.Stdout); err != nil {
		os.Stderr.WriteString("settle: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
