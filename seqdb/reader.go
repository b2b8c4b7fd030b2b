package seqdb

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"

	"github.com/ic-timon/vpsearch"
)

// Entry is one parsed FASTA record. Seq is upper-cased and owned by the caller.
type Entry struct {
	ID   string // first word of the header
	Name string // full header line without '>'
	Seq  []byte
}

// Reader streams FASTA (or FASTQ) records from a plain, gzip, zstd or lz4
// stream. Residues are not validated; that is left to the caller.
type Reader struct {
	name    string
	fx      *fastx.Reader
	release []func() error
	n       int
	done    bool
}

// Open opens path for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, vpsearch.FilesystemError("open", path, err)
	}
	r, err := NewReader(f, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.release = append(r.release, f.Close)
	return r, nil
}

// NewReader reads records from rd. name labels errors.
func NewReader(rd io.Reader, name string) (*Reader, error) {
	plain, release, err := decompress(rd)
	if err != nil {
		return nil, vpsearch.FormatError("open", name, "", err)
	}
	r := &Reader{name: name, release: []func() error{release}}

	br := bufio.NewReader(plain)
	if isBlank(br) {
		r.done = true
		return r, nil
	}
	fx, err := fastx.NewReaderFromIO(seq.Unlimit, br, "")
	if err != nil {
		release()
		return nil, vpsearch.FormatError("open", name, "", err)
	}
	r.fx = fx
	return r, nil
}

// isBlank reports whether br holds nothing but whitespace.
func isBlank(br *bufio.Reader) bool {
	for {
		c, err := br.ReadByte()
		if err != nil {
			return true
		}
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		_ = br.UnreadByte()
		return false
	}
}

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (Entry, error) {
	if r.done {
		return Entry{}, io.EOF
	}
	rec, err := r.fx.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			r.done = true
			return Entry{}, io.EOF
		}
		return Entry{}, vpsearch.FormatError("read", r.name, fmt.Sprintf("#%d", r.n+1), err)
	}
	r.n++
	e := Entry{
		ID:   string(rec.ID),
		Name: string(rec.Name),
		Seq:  bytes.ToUpper(rec.Seq.Seq),
	}
	if e.ID == "" {
		return Entry{}, vpsearch.FormatError("read", r.name, fmt.Sprintf("#%d", r.n), errors.New("empty header"))
	}
	if len(e.Seq) == 0 {
		return Entry{}, vpsearch.FormatError("read", r.name, e.ID, errors.New("empty sequence"))
	}
	return e, nil
}

// ReadAll drains the reader.
func (r *Reader) ReadAll() ([]Entry, error) {
	var out []Entry
	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
}

// Close releases the decoder and the underlying file.
func (r *Reader) Close() error {
	if r.fx != nil {
		r.fx.Close()
	}
	var errs []error
	for i := len(r.release) - 1; i >= 0; i-- {
		errs = append(errs, r.release[i]())
	}
	r.release = nil
	return errors.Join(errs...)
}
