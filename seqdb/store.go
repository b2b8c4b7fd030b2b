package seqdb

import (
	"bufio"
	"fmt"
	"io"
	"iter"

	"github.com/ic-timon/vpsearch"
	"github.com/ic-timon/vpsearch/align"
)

// Record is a stored sequence. Index positions are 0-based and stable.
type Record struct {
	ID        string
	Name      string
	Seq       []byte
	SelfScore int
}

// Store is an immutable, in-order collection of validated records.
// It is safe for concurrent reads.
type Store struct {
	source  string
	records []Record
}

// Load reads and validates every record in path.
func Load(path string, scorer align.Scorer) (*Store, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return load(r, path, scorer)
}

// LoadReader reads and validates every record from rd. name labels errors.
func LoadReader(rd io.Reader, name string, scorer align.Scorer) (*Store, error) {
	r, err := NewReader(rd, name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return load(r, name, scorer)
}

func load(r *Reader, name string, scorer align.Scorer) (*Store, error) {
	entries, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	s, err := New(entries, scorer)
	if err != nil {
		return nil, err
	}
	s.source = name
	return s, nil
}

// New builds a store from already parsed entries, computing self-scores.
func New(entries []Entry, scorer align.Scorer) (*Store, error) {
	s := &Store{records: make([]Record, len(entries))}
	for i, e := range entries {
		if len(e.Seq) == 0 {
			return nil, vpsearch.FormatError("load", "", e.ID, fmt.Errorf("empty sequence"))
		}
		if err := align.Check(scorer, e.Seq); err != nil {
			return nil, vpsearch.ValidationError("load", e.ID, err)
		}
		name := e.Name
		if name == "" {
			name = e.ID
		}
		s.records[i] = Record{
			ID:        e.ID,
			Name:      name,
			Seq:       e.Seq,
			SelfScore: scorer.SelfScore(e.Seq),
		}
	}
	return s, nil
}

// Source returns the path the store was loaded from, if any.
func (s *Store) Source() string { return s.source }

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Get returns record i. It panics if i is out of range.
func (s *Store) Get(i int) Record { return s.records[i] }

// All iterates records in store order.
func (s *Store) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i, r := range s.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// WriteFASTA writes every record in store order, one sequence line each.
func (s *Store) WriteFASTA(w io.Writer) error {
	bw := bufio.NewWriterSize(w, 64<<10)
	for _, r := range s.records {
		bw.WriteByte('>')
		bw.WriteString(r.Name)
		bw.WriteByte('\n')
		bw.Write(r.Seq)
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
