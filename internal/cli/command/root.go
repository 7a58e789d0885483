package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/gridmap-go/internal/cli/connection"
	"github.com/yndnr/gridmap-go/internal/infra/buildinfo"
)

// NewApp builds the gridmap-cli application.
//
// @req FR-0901
func NewApp() *cli.App {
	return &cli.App{
		Name:    "gridmap-cli",
		Usage:   "command-line client for gridmap-server",
		Version: buildinfo.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   "127.0.0.1:6390",
				Usage:   "server address (host:port)",
				EnvVars: []string{"GRIDMAP_SERVER"},
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"a"},
				Usage:   "AUTH password",
				EnvVars: []string{"GRIDMAP_PASSWORD"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 5 * time.Second,
				Usage: "per-command timeout",
			},
		},
		Commands: []*cli.Command{
			getCommand(),
			setCommand(),
			delCommand(),
			existsCommand(),
			sizeCommand(),
			opsCommand(),
			statsCommand(),
			dumpCommand(),
			pingCommand(),
			benchCommand(),
		},
	}
}

// dial opens an authenticated connection using the global flags.
func dial(c *cli.Context) (*connection.Client, error) {
	client, err := connection.Dial(c.String("server"), c.Duration("timeout"))
	if err != nil {
		return nil, err
	}
	if pw := c.String("password"); pw != "" {
		if err := client.Auth(pw); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("auth: %w", err)
		}
	}
	return client, nil
}
