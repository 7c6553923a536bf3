package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/blogdex/internal"
	pkgconfig "github.com/starford/blogdex/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

// loadConfig layers defaults, the config file and the command line, then
// validates the result.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()

	configPath := cmd.String("config")
	if cmd.IsSet("config") {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if _, err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyFlags overrides cfg with every flag set on the command line or
// through its environment variable.
func applyFlags(cmd *cli.Command, cfg *internal.Config) {
	if cmd.IsSet("root") {
		cfg.Blog.Root = cmd.String("root")
	}
	if cmd.IsSet("langs") {
		cfg.Blog.Langs = cmd.StringSlice("langs")
	}
	if cmd.IsSet("extractor") {
		cfg.Scan.Extractor = cmd.String("extractor")
	}
	if cmd.IsSet("merge") {
		cfg.Scan.Merge = cmd.String("merge")
	}
	if cmd.IsSet("dry-run") {
		cfg.Scan.DryRun = cmd.Bool("dry-run")
	}
	if cmd.IsSet("watch") {
		cfg.Scan.Watch = cmd.Bool("watch")
	}
	if cmd.IsSet("verbose") {
		cfg.App.Verbose = cmd.Bool("verbose")
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:   "blogdex",
		Usage:  "Generate manifest.json for blog/<lang> from article metadata",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: "blogdex.yaml",
				Value:       "blogdex.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "root",
				Usage:   "Blog root containing one directory per language",
				Value:   "blog",
				Sources: cli.EnvVars("BLOGDEX_ROOT"),
			},
			&cli.StringSliceFlag{
				Name:    "langs",
				Usage:   "Language directories to index",
				Value:   []string{"en", "kr"},
				Sources: cli.EnvVars("BLOGDEX_LANGS"),
			},
			&cli.StringFlag{
				Name:    "extractor",
				Usage:   "Metadata strategy: footer (last 4 lines) or header (front matter + tags footer)",
				Value:   "footer",
				Sources: cli.EnvVars("BLOGDEX_EXTRACTOR"),
			},
			&cli.StringFlag{
				Name:        "merge",
				Usage:       "Index policy: preserve (never update existing entries) or replace",
				DefaultText: "preserve for footer, replace for header",
				Sources:     cli.EnvVars("BLOGDEX_MERGE"),
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "Print the manifests instead of writing any file",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Keep running and re-index when articles change",
			},
		},
	}
}

// execute runs the command and maps its outcome to a process exit code.
func execute(ctx context.Context, args []string) int {
	if err := newCommand().Run(ctx, args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(context.Background(), os.Args))
}
