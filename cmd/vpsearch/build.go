package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ic-timon/vpsearch"
	"github.com/ic-timon/vpsearch/align"
	"github.com/ic-timon/vpsearch/indexer"
	"github.com/ic-timon/vpsearch/seqdb"
)

type buildOptions struct {
	output    string
	force     bool
	compress  string
	gapOpen   int
	gapExtend int
	progress  bool
}

func buildCommand(a *app) *cobra.Command {
	var opts buildOptions
	defaults := align.DefaultParams()
	cmd := &cobra.Command{
		Use:   "build <sequences_file>",
		Short: "Build an index directory from a FASTA file",
		Long: `Build a vantage-point tree over every record of a FASTA file (plain,
gzip, zstd or lz4) and write it, with a copy of the records, to a directory.
The default directory is the input path minus its extension plus ".db".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBuild(args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `Output index directory (default "<input>.db")`)
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing index without asking")
	cmd.Flags().StringVar(&opts.compress, "compress", "none", "Compression of the stored sequences: none, zstd or lz4")
	cmd.Flags().IntVar(&opts.gapOpen, "gap-open", defaults.GapOpen, "Gap open penalty")
	cmd.Flags().IntVar(&opts.gapExtend, "gap-extend", defaults.GapExtend, "Gap extension penalty")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "Show a progress bar")
	return cmd
}

func (a *app) runBuild(input string, opts buildOptions) error {
	ctx := context.Background()
	codec, err := seqdb.ParseCompression(opts.compress)
	if err != nil {
		return vpsearch.ValidationError("build", "", err)
	}
	if opts.gapOpen <= 0 || opts.gapExtend <= 0 {
		return vpsearch.ValidationError("build", "", fmt.Errorf("gap penalties must be positive, got %d/%d", opts.gapOpen, opts.gapExtend))
	}
	out := opts.output
	if out == "" {
		out = defaultIndexDir(input)
	}
	overwrite, err := a.confirmOverwrite(out, opts.force)
	if err != nil {
		return err
	}

	scorer := align.New(align.Params{GapOpen: opts.gapOpen, GapExtend: opts.gapExtend})
	start := time.Now()
	records, err := seqdb.Load(input, scorer)
	if err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "sequences loaded",
		"path", input,
		"records", humanize.Comma(int64(records.Len())),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	cfg := indexer.DefaultConfig()
	cfg.Logger = a.logger
	if opts.progress {
		bar := pb.Full.New(records.Len()).SetWriter(a.stderr).Start()
		defer bar.Finish()
		cfg.Progress = func(done, total int) { bar.SetCurrent(int64(done)) }
	}

	start = time.Now()
	ix, err := indexer.BuildIndex(records, scorer, cfg)
	if err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "tree built",
		"records", humanize.Comma(int64(ix.Len())),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if err := ix.Persist(out, indexer.PersistOptions{Overwrite: overwrite, Compression: codec}); err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "index written", "dir", out, "compression", codec.String())
	return nil
}

// defaultIndexDir strips a compression suffix and the format extension from
// input and appends ".db".
func defaultIndexDir(input string) string {
	base := input
	for _, ext := range []string{".gz", ".zst", ".lz4"} {
		if strings.HasSuffix(base, ext) {
			base = strings.TrimSuffix(base, ext)
			break
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".db"
}

// confirmOverwrite reports whether dir may be replaced. A missing dir needs
// no confirmation; an existing one needs force or a "y" answer on stdin.
func (a *app) confirmOverwrite(dir string, force bool) (bool, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, vpsearch.FilesystemError("build", dir, err)
	}
	if force {
		return true, nil
	}
	fmt.Fprintf(a.stderr, "Are you sure you want to overwrite %s? [y/N] ", dir)
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(a.stderr)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, vpsearch.FilesystemError("build", dir, errors.New("output exists and overwrite was declined"))
}
