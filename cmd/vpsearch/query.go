package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ic-timon/vpsearch"
	"github.com/ic-timon/vpsearch/align"
	"github.com/ic-timon/vpsearch/indexer"
	"github.com/ic-timon/vpsearch/seqdb"
)

type queryOptions struct {
	k        int
	workers  int
	progress bool
}

func queryCommand(a *app) *cobra.Command {
	var opts queryOptions
	defaults := indexer.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "query <index_dir> <query_file>",
		Short: "Find the nearest references for every query sequence",
		Long: `Search an index directory for the nearest references of each record in
a FASTA file. One tab-separated line is printed per hit, in query order:

  query_id target_id percent_identity alignment_length mismatches gap_opens
  q_start q_end t_start t_end e_value score`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuery(args[0], args[1], opts)
		},
	}
	cmd.Flags().IntVarP(&opts.k, "max-hits", "n", defaults.K, "Number of neighbours to report per query")
	cmd.Flags().IntVarP(&opts.workers, "jobs", "j", defaults.Workers, "Number of query workers")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "Show a progress bar")
	return cmd
}

// pairAligner produces the per-hit statistics of the tabular report.
type pairAligner interface {
	Align(a, b []byte) align.Alignment
}

func (a *app) runQuery(dir, queryFile string, opts queryOptions) error {
	ctx := context.Background()
	if opts.k < 0 {
		return vpsearch.ValidationError("query", "", fmt.Errorf("max hits must not be negative, got %d", opts.k))
	}

	cfg := indexer.DefaultConfig()
	cfg.Logger = a.logger
	cfg.Workers = opts.workers
	ix, err := indexer.Load(dir, nil, cfg)
	if err != nil {
		return err
	}
	defer ix.Close()
	aligner, ok := ix.Scorer().(pairAligner)
	if !ok {
		return vpsearch.QueryError("query", dir, "", fmt.Errorf("scorer %T cannot report alignments", ix.Scorer()))
	}

	queries, err := readQueries(queryFile)
	if err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "queries loaded",
		"path", queryFile,
		"queries", humanize.Comma(int64(len(queries))),
		"references", humanize.Comma(int64(ix.Len())),
	)

	if opts.progress {
		bar := pb.Full.New(len(queries)).SetWriter(a.stderr).Start()
		defer bar.Finish()
		cfg.Progress = func(done, total int) { bar.SetCurrent(int64(done)) }
	}

	start := time.Now()
	w := bufio.NewWriterSize(a.stdout, 64<<10)
	failed := 0
	err = indexer.NewScheduler(ix, cfg).Stream(queries, opts.k, func(r indexer.Result) error {
		if r.Err != nil {
			failed++
			return nil
		}
		for _, hit := range r.Neighbors {
			target := ix.Store().Get(hit.Index)
			if err := writeHit(w, r.Query, target, aligner.Align(r.Query.Seq, target.Seq)); err != nil {
				return err
			}
		}
		return nil
	})
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		return vpsearch.FilesystemError("query", "stdout", err)
	}
	a.logger.InfoContext(ctx, "queries completed",
		"queries", humanize.Comma(int64(len(queries))),
		"failed", failed,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	if failed > 0 {
		return vpsearch.QueryError("query", queryFile, "", fmt.Errorf("%d of %d queries failed", failed, len(queries)))
	}
	return nil
}

func readQueries(path string) ([]indexer.Query, error) {
	r, err := seqdb.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	entries, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	queries := make([]indexer.Query, len(entries))
	for i, e := range entries {
		queries[i] = indexer.Query{ID: e.ID, Seq: e.Seq}
	}
	return queries, nil
}

// writeHit prints one hit in the 12-column tabular layout. Alignments are
// global, so both ranges span the full sequences and the e-value is 0.
func writeHit(w io.Writer, q indexer.Query, target seqdb.Record, aln align.Alignment) error {
	_, err := fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
		q.ID, target.ID, aln.Identity(), aln.Length, aln.Mismatches, aln.GapOpens,
		1, len(q.Seq), 1, len(target.Seq), 0, aln.Score)
	return err
}
