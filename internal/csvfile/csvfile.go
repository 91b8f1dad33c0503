// Package csvfile reads and writes the berth inventory file: one boat per
// line, five comma-separated fields, no header and no quoting.
//
// Loading is permissive. Lines that do not decode are skipped and counted,
// and lines past the collection's capacity are ignored. Saving writes the
// collection in its current order and replaces the file atomically.
package csvfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/berths/internal/fleet"
	"github.com/mesh-intelligence/berths/pkg/types"
)

// maxLineLen bounds a single inventory line, terminator included.
const maxLineLen = 64 * 1024

// LoadReport summarizes a Load.
type LoadReport struct {
	Loaded    int // boats added to the collection
	Skipped   int // lines that failed to decode
	Truncated int // lines ignored because the collection was full
}

type loadOptions struct {
	parse  func(string) (*types.Boat, error)
	logger *slog.Logger
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// Strict decodes lines with types.ParseLineStrict instead of the permissive
// decoder.
func Strict() LoadOption {
	return func(o *loadOptions) { o.parse = types.ParseLineStrict }
}

// WithLogger sets the logger that receives skipped-line warnings.
// The default is slog.Default().
func WithLogger(l *slog.Logger) LoadOption {
	return func(o *loadOptions) { o.logger = l }
}

// errLineTooLong marks a line longer than maxLineLen. It is skipped like any
// other malformed record.
var errLineTooLong = fmt.Errorf("%w: line longer than %d bytes", types.ErrMalformedRecord, maxLineLen)

// Load reads inventory lines from r into c. Blank lines are ignored, lines
// that fail to decode are skipped with a warning, and once c is full the
// remaining lines are counted as truncated. Only read errors are returned.
func Load(r io.Reader, c *fleet.Collection, opts ...LoadOption) (LoadReport, error) {
	o := loadOptions{parse: types.ParseLine, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	var report LoadReport
	br := bufio.NewReader(r)
	for lineNo := 1; ; lineNo++ {
		line, tooLong, err := readLine(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return report, fmt.Errorf("reading inventory: %w", err)
		}
		if !tooLong && strings.TrimSpace(line) == "" {
			continue
		}
		if c.Full() {
			report.Truncated++
			continue
		}
		if tooLong {
			report.Skipped++
			o.logger.Warn("skipping inventory line", "line", lineNo, "error", errLineTooLong)
			continue
		}
		b, err := o.parse(line)
		if err != nil {
			report.Skipped++
			o.logger.Warn("skipping inventory line", "line", lineNo, "error", err)
			continue
		}
		if err := c.Add(*b); err != nil {
			if errors.Is(err, fleet.ErrCapacityExceeded) {
				report.Truncated++
				continue
			}
			report.Skipped++
			o.logger.Warn("skipping inventory line", "line", lineNo, "error", err)
			continue
		}
		report.Loaded++
	}
	if report.Truncated > 0 {
		o.logger.Warn("inventory truncated at capacity", "capacity", c.Cap(), "ignored", report.Truncated)
	}
	return report, nil
}

// readLine returns the next line without its terminator. A line longer than
// maxLineLen is consumed up to its newline and reported with tooLong set and
// an empty line. A final line without a newline is returned normally; io.EOF
// comes only once the input is exhausted.
func readLine(br *bufio.Reader) (line string, tooLong bool, err error) {
	var buf []byte
	n := 0
	for {
		chunk, err := br.ReadSlice('\n')
		n += len(chunk)
		if n > maxLineLen {
			tooLong, buf = true, nil
		} else {
			buf = append(buf, chunk...)
		}
		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) && n > 0:
		case err != nil:
			return "", false, err
		}
		return strings.TrimRight(string(buf), "\r\n"), tooLong, nil
	}
}

// LoadFile opens path and loads it into c. A missing or unreadable file is
// an error.
func LoadFile(path string, c *fleet.Collection, opts ...LoadOption) (LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadReport{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	report, err := Load(f, c, opts...)
	if err != nil {
		return report, fmt.Errorf("loading %s: %w", path, err)
	}
	return report, nil
}

// Save writes one line per boat in the collection's current order.
func Save(w io.Writer, c *fleet.Collection) error {
	bw := bufio.NewWriter(w)
	err := c.Each(func(b types.Boat) error {
		if _, err := bw.WriteString(b.FormatLine()); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing buffer: %w", err)
	}
	return nil
}

// SaveFile writes the collection to path using the temp-file, fsync, rename
// pattern. On failure the previous file is left untouched and the
// collection is not modified.
func SaveFile(path string, c *fleet.Collection) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".inventory-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := Save(tmp, c); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
