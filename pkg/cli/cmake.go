package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/boutproject/boutpkg/pkg/cmake"
	"github.com/boutproject/boutpkg/pkg/recipe"
)

const (
	styleArgs    = "args"
	styleCommand = "command"
	styleCache   = "cache"
)

func cmakeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "cmake",
		EnableShellCompletion: true,
		Usage:                 "Render the CMake arguments for a package spec",
		ArgsUsage:             "<spec>",
		Description: `Resolve a package spec and render its definitions for CMake.

Styles:
  args     - shell-quoted -DNAME:TYPE=VALUE arguments on one line
  command  - a complete "cmake -S <source-dir> ..." invocation
  cache    - an initial-cache script for "cmake -C <file>"

# Examples

  boutpkg cmake boutpp+petsc buildtests=all
  boutpkg cmake --style command --source-dir ./BOUT-dev boutpp@5.2.0
  boutpkg cmake --style cache -o hermes.cmake hermes-3 limiter=MinMod`,
		Flags: append(requestFlags(),
			&cli.StringFlag{
				Name:  "style",
				Value: styleArgs,
				Usage: fmt.Sprintf("rendering style (%s, %s, %s)", styleArgs, styleCommand, styleCache),
			},
			&cli.StringFlag{
				Name:  "source-dir",
				Value: ".",
				Usage: "source directory for the command style",
			},
			outputFlag(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			style := cmd.String("style")
			switch style {
			case styleArgs, styleCommand, styleCache:
			default:
				return fmt.Errorf("unknown style: %q", style)
			}

			res, err := resolveFromCmd(ctx, cmd)
			if err != nil {
				return err
			}

			w, done, err := openOutput(cmd)
			if err != nil {
				return err
			}
			defer done()

			return renderCMake(w, style, cmd.String("source-dir"), res)
		},
	}
}

func renderCMake(w io.Writer, style, sourceDir string, res *recipe.Result) error {
	var out string
	switch style {
	case styleCache:
		return cmake.InitialCache(w, res.Package+"@"+res.Version.Identifier, res.Definitions)
	case styleCommand:
		out = cmake.CommandLine(sourceDir, res.Definitions)
	default:
		args := cmake.Args(res.Definitions)
		for i, a := range args {
			args[i] = cmake.Quote(a)
		}
		out = strings.Join(args, " ")
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
