package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "get the value for a key",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: get KEY", 2)
			}
			client, err := dial(c)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer client.Close()

			r, err := client.Do("GET", c.Args().Get(0))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if r.Null {
				fmt.Fprintln(c.App.Writer, "(nil)")
				return nil
			}
			fmt.Fprintln(c.App.Writer, r.Str)
			return nil
		},
	}
}

func setCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "store a value under a key, printing the previous value if any",
		ArgsUsage: "KEY VALUE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("usage: set KEY VALUE", 2)
			}
			client, err := dial(c)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer client.Close()

			r, err := client.Do("GETSET", c.Args().Get(0), c.Args().Get(1))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if r.Null {
				fmt.Fprintln(c.App.Writer, "OK")
				return nil
			}
			fmt.Fprintf(c.App.Writer, "OK (was %s)\n", r.Str)
			return nil
		},
	}
}

func delCommand() *cli.Command {
	return &cli.Command{
		Name:      "del",
		Usage:     "delete one or more keys, printing how many existed",
		ArgsUsage: "KEY [KEY...]",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return cli.Exit("usage: del KEY [KEY...]", 2)
			}
			client, err := dial(c)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer client.Close()

			args := append([]string{"DEL"}, c.Args().Slice()...)
			r, err := client.Do(args...)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprintln(c.App.Writer, r.Int)
			return nil
		},
	}
}

func existsCommand() *cli.Command {
	return &cli.Command{
		Name:      "exists",
		Usage:     "check whether a key is present",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: exists KEY", 2)
			}
			client, err := dial(c)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer client.Close()

			r, err := client.Do("EXISTS", c.Args().Get(0))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprintln(c.App.Writer, r.Int == 1)
			return nil
		},
	}
}

func sizeCommand() *cli.Command {
	return simpleIntCommand("size", "print the number of stored entries", "DBSIZE")
}

func opsCommand() *cli.Command {
	return simpleIntCommand("ops", "print the lifetime operation counter", "GM.OPS")
}

// simpleIntCommand covers the zero-argument commands with integer replies.
func simpleIntCommand(name, usage, wire string) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Action: func(c *cli.Context) error {
			client, err := dial(c)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer client.Close()

			r, err := client.Do(wire)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprintln(c.App.Writer, r.Int)
			return nil
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "print table statistics",
		Action: func(c *cli.Context) error {
			client, err := dial(c)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer client.Close()

			r, err := client.Do("GM.STATS")
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			for _, e := range r.Elems {
				fmt.Fprintln(c.App.Writer, e.Str)
			}
			return nil
		},
	}
}

func dumpCommand() *cli.Command {
	return &cli.Command{
		Name:  "dump",
		Usage: "print every bucket chain",
		Action: func(c *cli.Context) error {
			client, err := dial(c)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer client.Close()

			r, err := client.Do("GM.DUMP")
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprint(c.App.Writer, r.Str)
			return nil
		},
	}
}

func pingCommand() *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "check server liveness",
		Action: func(c *cli.Context) error {
			client, err := dial(c)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer client.Close()

			r, err := client.Do("PING")
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprintln(c.App.Writer, r.Str)
			return nil
		},
	}
}
