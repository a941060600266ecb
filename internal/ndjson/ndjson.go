// Package ndjson provides newline-delimited JSON reading and writing
// for CLI stdio streams.
package ndjson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
)

// Reader reads newline-delimited JSON lines from an underlying stream.
// Blank lines are skipped; the CLI is allowed to emit them between
// protocol lines.
type Reader struct {
	br *bufio.Reader
}

// NewReader creates a Reader wrapping r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// ReadLine returns the next non-blank line with the trailing newline
// stripped. It returns io.EOF when the stream is exhausted. Lines of
// arbitrary length are supported.
func (r *Reader) ReadLine() ([]byte, error) {
	for {
		line, err := r.readFull()
		if err != nil {
			if err == io.EOF && len(bytes.TrimSpace(line)) > 0 {
				// Final line without a trailing newline.
				return bytes.TrimSpace(line), nil
			}
			return nil, err
		}

		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		return trimmed, nil
	}
}

// readFull reads one full line, handling bufio's isPrefix splitting.
func (r *Reader) readFull() ([]byte, error) {
	var full []byte
	for {
		part, isPrefix, err := r.br.ReadLine()
		full = append(full, part...)
		if err != nil {
			return full, err
		}
		if !isPrefix {
			return full, nil
		}
	}
}

// Writer writes newline-delimited JSON lines to an underlying stream.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer wrapping w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteRaw writes a pre-encoded line followed by a newline.
func (w *Writer) WriteRaw(line []byte) error {
	if _, err := w.w.Write(line); err != nil {
		return err
	}
	_, err := w.w.Write([]byte{'\n'})
	return err
}

// Write JSON-encodes v and writes it as one line.
func (w *Writer) Write(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.WriteRaw(data)
}
