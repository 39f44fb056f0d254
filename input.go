package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// maxLineLength bounds a single input line; longer lines are skipped.
const maxLineLength = 64 * 1024

// readPairs reads one "x,y" pair per line. Lines that don't hold exactly two
// finite numbers are reported to warn and skipped; blank lines and # comments
// are ignored. maxLines > 0 stops reading after that many lines.
func readPairs(r io.Reader, maxLines int, warn *log.Logger) (*observations, int, error) {
	obs := &observations{}
	skipped := 0

	br := bufio.NewReader(r)
	for lineNo := 1; maxLines <= 0 || lineNo <= maxLines; lineNo++ {
		line, tooLong, err := readLine(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, skipped, err
		}

		text := strings.TrimSpace(line)
		switch {
		case tooLong:
			warn.Printf("skipping line %d: longer than %d bytes", lineNo, maxLineLength)
			skipped++
		case text == "" || strings.HasPrefix(text, "#"):
		default:
			x, y, err := parsePair(text)
			if err != nil {
				warn.Printf("skipping line %d: %v", lineNo, err)
				skipped++
				continue
			}
			obs.add(x, y)
		}
	}
	return obs, skipped, nil
}

// readLine returns the next line without its line ending. A line longer than
// maxLineLength is consumed but not kept.
func readLine(br *bufio.Reader) (string, bool, error) {
	var buf []byte
	tooLong := false
	for {
		frag, isPrefix, err := br.ReadLine()
		if err != nil {
			return "", false, err
		}
		if !tooLong {
			if len(buf)+len(frag) > maxLineLength {
				tooLong, buf = true, nil
			} else {
				buf = append(buf, frag...)
			}
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}

func parsePair(s string) (x, y float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected two comma separated values, got %d in %q", len(parts), s)
	}
	if x, err = parseNumber(parts[0]); err != nil {
		return 0, 0, err
	}
	if y, err = parseNumber(parts[1]); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", strings.TrimSpace(s))
	}
	return v, nil
}

// openInput opens path and decompresses it when the extension says so.
func openInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("could not read gzip header of %s: %w", path, err)
		}
		return &readCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case ".zst":
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("could not create zstd reader for %s: %w", path, err)
		}
		rc := dec.IOReadCloser()
		return &readCloser{Reader: rc, closers: []io.Closer{rc, f}}, nil
	case ".lz4":
		return &readCloser{Reader: lz4.NewReader(f), closers: []io.Closer{f}}, nil
	}
	return f, nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var errs []error
	for _, c := range rc.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
