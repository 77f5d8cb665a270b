package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

func resolveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "resolve",
		EnableShellCompletion: true,
		Usage:                 "Resolve a package spec into definitions, dependencies and patches",
		ArgsUsage:             "<spec>",
		Description: `Resolve a package spec against its recipe. Unspecified variants take their
defaults, every value is checked against its variant's domain, and the result
lists the selected version, the resolved variants, the ordered build-system
definitions, the included dependencies and the patches to apply.

# Examples

Resolve BOUT++ with PETSc and extra runtime checks:
  boutpkg resolve boutpp@5.1.0+petsc check=3

Resolve the legacy Hermes-3 recipe as JSON:
  boutpkg resolve --revision legacy --format json hermes-3+petsc

Resolve a BuildRequest document:
  boutpkg resolve --request request.yaml -o result.yaml`,
		Flags: append(requestFlags(), outputFlag(), formatFlag()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			res, err := resolveFromCmd(ctx, cmd)
			if err != nil {
				return err
			}
			return writeOutput(ctx, cmd, res)
		},
	}
}
