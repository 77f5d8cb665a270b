package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func infoCmd() *cli.Command {
	return &cli.Command{
		Name:                  "info",
		EnableShellCompletion: true,
		Usage:                 "Describe a package recipe",
		ArgsUsage:             "<package>",
		Description: `Show a recipe's versions, variants with their defaults and allowed values,
dependencies with their conditions, and build-system mappings.

# Examples

  boutpkg info boutpp
  boutpkg info --revision legacy hermes-3`,
		Flags: []cli.Flag{revisionFlag(), outputFlag(), formatFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("exactly one package name is required")
			}
			c, err := newCatalog(cmd)
			if err != nil {
				return err
			}
			info, err := c.Info(cmd.Args().First(), cmd.String("revision"), version)
			if err != nil {
				return err
			}
			return writeOutput(ctx, cmd, info)
		},
	}
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:                  "list",
		EnableShellCompletion: true,
		Usage:                 "List the package recipes in the catalog",
		Flags:                 []cli.Flag{outputFlag(), formatFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, err := newCatalog(cmd)
			if err != nil {
				return err
			}
			return writeOutput(ctx, cmd, c.List(version))
		},
	}
}
