// Command stackedportrayals rewrites a Minecraft JVM stack trace from one
// naming scheme into another, per spec.md §6.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quay/zlog"

	"github.com/octylFractal/stacked-portrayals/mapping"
	"github.com/octylFractal/stacked-portrayals/names"
	"github.com/octylFractal/stacked-portrayals/parse"
	"github.com/octylFractal/stacked-portrayals/stacktrace"
)

// logLevelEnv is the standard log-filter environment variable override
// named in spec.md §6, analogous to claircore's LOG_LEVEL config field.
const logLevelEnv = "STACKEDPORTRAYALS_LOG"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("stackedportrayals", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [-v...] <mc_version> <from_names> <to_names>\n", fs.Name())
		fs.PrintDefaults()
	}
	var verbosity int
	fs.BoolFunc("v", "increase verbosity (repeatable: none=info, -v=debug, -v -v=trace)", func(string) error {
		verbosity++
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return 99
	}
	if fs.NArg() != 3 {
		fs.Usage()
		return 99
	}
	version := fs.Arg(0)
	var from, to names.NamesType
	if err := from.Set(fs.Arg(1)); err != nil {
		fmt.Fprintf(stderr, "invalid from_names: %v\n", err)
		return 99
	}
	if err := to.Set(fs.Arg(2)); err != nil {
		fmt.Fprintf(stderr, "invalid to_names: %v\n", err)
		return 99
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).
		With().Timestamp().Logger().
		Level(logLevel(verbosity))
	zlog.Set(&log)
	ctx := context.Background()

	src, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "reading stdin: %v\n", err)
		return 1
	}

	out, err := rewriteStacktrace(ctx, version, from, to, src)
	if err != nil {
		renderError(stderr, err)
		return 1
	}
	fmt.Fprint(stdout, out)
	return 0
}

// rewriteStacktrace is the glue spec.md §2 calls "External glue": it wires
// together the mapping graph, the stack-trace parser, and the rewriter for
// one invocation.
func rewriteStacktrace(ctx context.Context, version string, from, to names.NamesType, src []byte) (string, error) {
	st, diags := stacktrace.Parse(src)
	if st == nil {
		return "", fmt.Errorf("parsing stack trace: %w", diags)
	}
	if diags != nil {
		zlog.Info(ctx).Int("diagnostics", len(diags.Errors)).Msg("stack trace parsed with diagnostics")
	}

	cacheDir, err := mapping.DefaultCacheDir()
	if err != nil {
		return "", err
	}
	cache, err := mapping.NewCache(cacheDir, mapping.DefaultFetcher())
	if err != nil {
		return "", err
	}
	graph := mapping.NewGraph(cache)

	mapper, err := mapping.GenerateMapper(ctx, graph, version, from, to)
	if err != nil {
		return "", err
	}

	rewritten := stacktrace.Rewrite(ctx, *st, mapper)
	return rewritten.String(), nil
}

// logLevel maps -v repetitions onto zerolog levels, per spec.md §6: 0 =
// info, 1 = debug, ≥2 = trace. The environment override takes precedence
// when set and valid, matching claircore's LOG_LEVEL precedence.
func logLevel(verbosity int) zerolog.Level {
	if raw, ok := os.LookupEnv(logLevelEnv); ok {
		if l, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil {
			return l
		}
	}
	switch {
	case verbosity >= 2:
		return zerolog.TraceLevel
	case verbosity == 1:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// renderError prints a human-readable error chain. A *parse.Diagnostics or
// *mapping.Error in the chain gets its own annotated rendering; anything
// else falls back to its Error() string.
func renderError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)

	var diags *parse.Diagnostics
	if errors.As(err, &diags) {
		for _, d := range diags.Errors {
			fmt.Fprintf(w, "  at byte %d-%d: %s\n", d.Span.Start, d.Span.End, d.Message)
		}
	}

	var mErr *mapping.Error
	if errors.As(err, &mErr) {
		fmt.Fprintf(w, "  kind: %s\n", mErr.Kind)
	}
}
