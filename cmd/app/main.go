package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/digimark/internal"
	"github.com/starford/digimark/internal/aggregate"
	"github.com/starford/digimark/internal/report"
	pkgconfig "github.com/starford/digimark/pkg/config"
)

var version = "dev"

func options(cmd *cli.Command) ([]internal.Option, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	loaded, err := pkgconfig.LoadOptional(configPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if !loaded {
		slog.Info("config file not found, using defaults", slog.String("path", configPath))
	}

	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, opts...)
}

func summary(ctx context.Context, cmd *cli.Command) error {
	f, err := aggregate.ParseFilter(cmd.String("category"), cmd.String("channel"))
	if err != nil {
		return err
	}
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.RunSummary(ctx, f, cmd.String("format"), opts...)
}

func export(ctx context.Context, cmd *cli.Command) error {
	f, err := aggregate.ParseFilter(cmd.String("category"), cmd.String("channel"))
	if err != nil {
		return err
	}
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	path, err := internal.RunExport(ctx, f, cmd.String("dir"), opts...)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "category",
			Usage: `Category filter ("Organik", "Paid Ads" or "all")`,
			Value: aggregate.All,
		},
		&cli.StringFlag{
			Name:  "channel",
			Usage: `Channel filter (e.g. "Meta Ads" or "all")`,
			Value: aggregate.All,
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "digimark",
		Usage:   "Marketing operations dashboard: campaign records, KPI aggregation, tasks and CSV export",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API, SSE feed and metrics endpoint",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: mcp,
			},
			{
				Name:  "summary",
				Usage: "Print the dashboard totals, distribution and time series",
				Flags: append(filterFlags(), &cli.StringFlag{
					Name:  "format",
					Usage: "Output format (" + strings.Join(report.Formats(), ", ") + ")",
					Value: report.FormatStyled,
				}),
				Action: summary,
			},
			{
				Name:  "export",
				Usage: "Write the filtered records to a timestamped CSV file",
				Flags: append(filterFlags(), &cli.StringFlag{
					Name:  "dir",
					Usage: "Directory to write the CSV into",
					Value: ".",
				}),
				Action: export,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
