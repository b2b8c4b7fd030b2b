package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ic-timon/vpsearch"
	"github.com/ic-timon/vpsearch/align"
	"github.com/ic-timon/vpsearch/indexer/store"
	"github.com/ic-timon/vpsearch/seqdb"
)

const (
	// IndexFile holds the header and the entry arrays.
	IndexFile = "indices.vpt"
	// SequencesFile holds the reference copy; a codec suffix may follow.
	SequencesFile = "sequences.fa"
)

// PersistOptions controls Persist.
type PersistOptions struct {
	Overwrite   bool              // replace an existing directory
	Compression seqdb.Compression // codec of the reference copy
}

// Persist writes the index and a copy of its records into dir.
//
// Both files are written into a temporary sibling directory, synced, and
// renamed into place, so dir is either the complete new index or untouched.
// An existing dir is refused unless opts.Overwrite is set.
func (ix *LinearIndex) Persist(dir string, opts PersistOptions) error {
	err := ix.persist(filepath.Clean(dir), opts)
	ix.cfg.Logger.LogPersist(context.Background(), dir, ix.Len(), err)
	return err
}

func (ix *LinearIndex) persist(dir string, opts PersistOptions) (err error) {
	if _, statErr := os.Stat(dir); statErr == nil {
		if !opts.Overwrite {
			return vpsearch.FilesystemError("persist", dir, fs.ErrExist)
		}
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return vpsearch.FilesystemError("persist", dir, statErr)
	}

	image, err := encodeIndex(ix, opts.Compression)
	if err != nil {
		return vpsearch.FilesystemError("persist", dir, err)
	}

	parent, base := filepath.Split(dir)
	if parent == "" {
		parent = "."
	}
	tmp := filepath.Join(parent, "."+base+".tmp-"+uuid.NewString())
	if err := os.Mkdir(tmp, 0o755); err != nil {
		return vpsearch.FilesystemError("persist", tmp, err)
	}
	defer func() {
		if err != nil {
			os.RemoveAll(tmp)
		}
	}()

	seqPath := filepath.Join(tmp, SequencesFile+opts.Compression.Ext())
	if err := writeFile(seqPath, func(f *os.File) error {
		w, err := opts.Compression.NewWriter(f)
		if err != nil {
			return err
		}
		if err := ix.store.WriteFASTA(w); err != nil {
			w.Close()
			return err
		}
		return w.Close()
	}); err != nil {
		return vpsearch.FilesystemError("persist", seqPath, err)
	}

	idxPath := filepath.Join(tmp, IndexFile)
	if err := writeFile(idxPath, func(f *os.File) error {
		_, err := f.Write(image)
		return err
	}); err != nil {
		return vpsearch.FilesystemError("persist", idxPath, err)
	}
	if err := syncDir(tmp); err != nil {
		return vpsearch.FilesystemError("persist", tmp, err)
	}

	if err := replaceDir(tmp, dir); err != nil {
		return vpsearch.FilesystemError("persist", dir, err)
	}
	_ = syncDir(parent)
	return nil
}

func writeFile(path string, fill func(f *os.File) error) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	if err := d.Sync(); err != nil && !errors.Is(err, fs.ErrInvalid) {
		return err
	}
	return nil
}

// replaceDir renames tmp to dir. An existing dir is moved aside first and
// restored if the final rename fails.
func replaceDir(tmp, dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return os.Rename(tmp, dir)
	}
	old := tmp + ".old"
	if err := os.Rename(dir, old); err != nil {
		return err
	}
	if err := os.Rename(tmp, dir); err != nil {
		if rerr := os.Rename(old, dir); rerr != nil {
			return fmt.Errorf("%w (previous index left at %s)", err, old)
		}
		return err
	}
	return os.RemoveAll(old)
}

// Load maps dir/indices.vpt read-only and loads the reference copy next to
// it. A nil scorer is built from the gap penalties in the header; a scorer
// whose penalties differ from the header is rejected. cfg may be nil.
//
// Any missing, truncated or inconsistent file is reported as a QueryError.
// The caller must Close the returned index.
func Load(dir string, scorer align.Scorer, cfg *Config) (*LinearIndex, error) {
	cfg = cfg.OrDefault()
	ix, err := load(dir, scorer, cfg)
	n := 0
	if ix != nil {
		n = ix.Len()
	}
	cfg.Logger.LogLoad(context.Background(), dir, n, err)
	return ix, err
}

func load(dir string, scorer align.Scorer, cfg *Config) (ix *LinearIndex, err error) {
	path := filepath.Join(dir, IndexFile)
	m, err := store.OpenMmap(path)
	if err != nil {
		return nil, vpsearch.QueryError("load", path, "", err)
	}
	defer func() {
		if err != nil {
			m.Close()
		}
	}()

	h, a, err := decodeIndex(m.Bytes())
	if err != nil {
		return nil, vpsearch.QueryError("load", path, "", err)
	}

	params := align.Params{GapOpen: int(h.GapOpen), GapExtend: int(h.GapExtend)}
	if scorer == nil {
		scorer = align.New(params)
	} else if p, ok := scorer.(interface{ Params() align.Params }); ok && h.GapOpen != 0 {
		if got := p.Params(); got != params {
			return nil, vpsearch.QueryError("load", path, "",
				fmt.Errorf("index built with gap penalties %d/%d, scorer uses %d/%d",
					params.GapOpen, params.GapExtend, got.GapOpen, got.GapExtend))
		}
	}

	codec := seqdb.Compression(h.Codec)
	seqPath := filepath.Join(dir, SequencesFile+codec.Ext())
	records, err := seqdb.Load(seqPath, scorer)
	if err != nil {
		return nil, vpsearch.QueryError("load", seqPath, "", err)
	}
	if records.Len() != int(h.Count) {
		return nil, vpsearch.QueryError("load", seqPath, "",
			fmt.Errorf("%d records, index has %d entries", records.Len(), h.Count))
	}

	return &LinearIndex{
		vantage: a.vantage,
		radii:   a.radii,
		left:    a.left,
		right:   a.right,
		store:   records,
		scorer:  scorer,
		cfg:     cfg,
		mapping: m,
	}, nil
}
