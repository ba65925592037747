// Command activity-server serves the family activity MCP tools: a budget
// filter and a distance ranker over an activity catalogue, the catalogue
// itself as a resource, and two example prompts.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/MrWong99/familytools/internal/app"
	"github.com/MrWong99/familytools/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "path to an optional YAML configuration file")
	envFile := flag.String("env-file", "", "path to an env file (default: .env when present)")
	watch := flag.Bool("watch", false, "reload the configuration file when it changes")
	flag.Parse()

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := app.CommandOptions{ConfigPath: *configPath, Watch: *watch}
	if *envFile != "" {
		opts.EnvFiles = []string{*envFile}
	}
	return app.RunCommand(ctx, config.KindActivity, opts)
}
