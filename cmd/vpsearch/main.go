// Command vpsearch builds vantage-point tree indexes over nucleotide
// sequences and queries them for the nearest references by global alignment.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ic-timon/vpsearch"
)

const version = "1.0.0"

// app carries the streams and the logger shared by all subcommands.
type app struct {
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	verbose int
	logger  *vpsearch.Logger
}

func (a *app) initLogger() {
	level := slog.LevelWarn
	switch {
	case a.verbose >= 2:
		level = slog.LevelDebug
	case a.verbose == 1:
		level = slog.LevelInfo
	}
	a.logger = vpsearch.NewTextLogger(a.stderr, level)
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "vpsearch",
		Short: "Nearest-neighbour search over nucleotide sequences",
		Long: `vpsearch indexes reference sequences in a vantage-point tree and finds,
for each query, the k references with the highest global alignment score
(NUC.4.4 substitution matrix, affine gaps).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.initLogger()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.AddCommand(buildCommand(a))
	root.AddCommand(queryCommand(a))
	root.AddCommand(versionCommand(a))
	return root
}

func versionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "vpsearch version %s\n", version)
			fmt.Fprintf(a.stdout, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(a.stdout, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := newRootCommand(a)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "vpsearch: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
