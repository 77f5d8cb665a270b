package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/boutproject/boutpkg/pkg/packages"
)

func planCmd() *cli.Command {
	return &cli.Command{
		Name:                  "plan",
		EnableShellCompletion: true,
		Usage:                 "Resolve a package and its catalog dependencies in build order",
		ArgsUsage:             "<spec>",
		Description: `Resolve the requested package, then every dependency that is itself a
catalog recipe, choosing for each the best version that satisfies all the
ranges and variants its dependents require. Steps are emitted
dependencies first.

# Examples

  boutpkg plan hermes-3 limiter=MinMod
  boutpkg plan --format table hermes-3+xhermes
  boutpkg plan --cmake hermes-3`,
		Flags: append(requestFlags(),
			&cli.BoolFlag{
				Name:  "cmake",
				Usage: "print the cmake command line of every step instead of the plan document",
			},
			outputFlag(),
			formatFlag(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			req, err := readRequest(cmd)
			if err != nil {
				return err
			}
			c, err := newCatalog(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			plan, err := packages.NewPlanner(c, newResolver(c), version).Plan(ctx, req)
			if err != nil {
				return err
			}
			slog.Debug("plan ready", "root", plan.Root, "steps", len(plan.Steps))

			if !cmd.Bool("cmake") {
				return writeOutput(ctx, cmd, plan)
			}

			w, done, err := openOutput(cmd)
			if err != nil {
				return err
			}
			defer done()
			for _, step := range plan.Steps {
				if _, err := fmt.Fprintf(w, "# %s@%s\n", step.Package, step.Version.Identifier); err != nil {
					return err
				}
				if err := renderCMake(w, styleCommand, step.Package, &step.Result); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
