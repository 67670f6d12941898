package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/nathoo/replaycore/engine/rng"
	"github.com/nathoo/replaycore/types"
)

// ResultLine is the JSON form of one reconstructed step.
type ResultLine struct {
	Index  int      `json:"index"`
	Kind   string   `json:"kind"`
	Rng    []string `json:"rng"`
	Screen []string `json:"screen,omitempty"`
	Grid   [][]int  `json:"grid,omitempty"`
}

// ResultWriter writes reconstructed steps as zstd-compressed JSON lines.
type ResultWriter struct {
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewResultWriter creates or truncates path.
func NewResultWriter(path string) (*ResultWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &ResultWriter{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

// Write appends one step. Index -1 is the startup pseudo-step.
func (w *ResultWriter) Write(index int, r types.ReplayStepResult) error {
	line := ResultLine{
		Index:  index,
		Kind:   r.Kind.String(),
		Rng:    rng.FormatTrace(r.Rng),
		Screen: r.Screen,
		Grid:   r.Grid,
	}
	b, err := json.Marshal(line)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Close flushes the stream and closes the file.
func (w *ResultWriter) Close() error {
	err := w.w.Flush()
	if cerr := w.enc.Close(); err == nil {
		err = cerr
	}
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadResults reads a file written by ResultWriter.
func ReadResults(path string) ([]ResultLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []ResultLine
	jd := json.NewDecoder(dec)
	for {
		var line ResultLine
		err := jd.Decode(&line)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		out = append(out, line)
	}
}
