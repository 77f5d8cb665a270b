package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/boutproject/boutpkg/pkg/defaults"
	"github.com/boutproject/boutpkg/pkg/packages"
	"github.com/boutproject/boutpkg/pkg/recipe"
	"github.com/boutproject/boutpkg/pkg/serializer"
)

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
		Sources: cli.EnvVars("BOUTPKG_OUTPUT"),
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("output format (supported: %s)", strings.Join(serializer.SupportedFormats(), ", ")),
		Sources: cli.EnvVars("BOUTPKG_FORMAT"),
	}
}

func knownPackagesFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "known-packages",
		Usage:   "KnownPackages file naming extra packages available in the environment",
		Sources: cli.EnvVars("BOUTPKG_KNOWN_PACKAGES"),
	}
}

// requestFlags are shared by the commands that resolve a spec.
func requestFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "request",
			Aliases: []string{"f"},
			Usage: `Path/URL to a BuildRequest document (YAML or JSON).
	When set, the spec arguments are ignored.`,
		},
		revisionFlag(),
		&cli.DurationFlag{
			Name:    "timeout",
			Value:   defaults.CLIResolveTimeout,
			Usage:   "maximum time for the resolution",
			Sources: cli.EnvVars("BOUTPKG_TIMEOUT"),
		},
	}
}

func revisionFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "revision",
		Aliases: []string{"r"},
		Usage:   "recipe revision for packages that ship several (e.g. hermes-3: current, legacy)",
	}
}

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", f)
	}
	return f, nil
}

// newCatalog builds the package catalog, extended with the names from the
// --known-packages file.
func newCatalog(cmd *cli.Command) (*packages.Catalog, error) {
	var opts []packages.Option
	if path := cmd.String("known-packages"); path != "" {
		names, err := packages.LoadKnownPackages(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load known packages from %q: %w", path, err)
		}
		slog.Debug("loaded known packages", "path", path, "count", len(names))
		opts = append(opts, packages.WithKnownPackages(names...))
	}
	return packages.NewCatalog(opts...)
}

func newResolver(c *packages.Catalog) *recipe.Resolver {
	return recipe.NewResolver(
		recipe.WithIndex(c),
		recipe.WithToolVersion(version),
	)
}

// readRequest builds the request from --request or the spec arguments.
// --revision overrides the revision from either.
func readRequest(cmd *cli.Command) (recipe.Request, error) {
	var req recipe.Request
	if path := cmd.String("request"); path != "" {
		loaded, err := recipe.LoadRequestFromFile(path)
		if err != nil {
			return req, err
		}
		req = *loaded
	} else {
		spec := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
		if spec == "" {
			return req, fmt.Errorf("a package spec or --request is required")
		}
		parsed, err := recipe.ParseSpec(spec)
		if err != nil {
			return req, fmt.Errorf("invalid spec %q: %w", spec, err)
		}
		req = parsed
	}
	if rev := cmd.String("revision"); rev != "" {
		req.Revision = rev
	}
	return req, nil
}

// resolveFromCmd resolves the request named on the command line.
func resolveFromCmd(ctx context.Context, cmd *cli.Command) (*recipe.Result, error) {
	req, err := readRequest(cmd)
	if err != nil {
		return nil, err
	}
	c, err := newCatalog(cmd)
	if err != nil {
		return nil, err
	}
	pkg, err := c.Lookup(req.Package, req.Revision)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
	defer cancel()

	slog.Debug("resolving", "request", req.String(), "revision", pkg.Revision())
	return newResolver(c).Resolve(ctx, pkg, req)
}

// writeOutput serializes v in the --format format to --output or the
// command's writer.
func writeOutput(ctx context.Context, cmd *cli.Command, v any) error {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	var ser serializer.Serializer
	if path := cmd.String("output"); path != "" {
		ser = serializer.NewFileWriterOrStdout(format, path)
	} else {
		ser = serializer.NewWriter(format, cmd.Root().Writer)
	}
	defer func() {
		if closer, ok := ser.(serializer.Closer); ok {
			if err := closer.Close(); err != nil {
				slog.Warn("failed to close serializer", "error", err)
			}
		}
	}()

	return ser.Serialize(ctx, v)
}

// openOutput returns the --output file or the command's writer.
func openOutput(cmd *cli.Command) (io.Writer, func(), error) {
	path := strings.TrimSpace(cmd.String("output"))
	if path == "" {
		w := cmd.Root().Writer
		if w == nil {
			w = os.Stdout
		}
		return w, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close output file", "path", path, "error", err)
		}
	}, nil
}
