// Package report writes closed activity segments to per-day CSV files.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"apptrack/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

var header = []string{
	"Application", "Title", "Start Time", "End Time", "Total Time", "Readable Total Time",
}

// CSVSink appends activity segments to a day-stamped CSV file. Segments are
// buffered until a write succeeds, so rows lost to a transient failure are
// retried implicitly on the next append. Not safe for concurrent use; the
// tracker loop is the only writer.
type CSVSink struct {
	dir     string
	pending []*models.ActivitySegment
}

func NewCSVSink(dir string) *CSVSink {
	return &CSVSink{dir: dir}
}

// FilePath returns the report file for the day containing t.
func (s *CSVSink) FilePath(t time.Time) string {
	return filepath.Join(s.dir, fmt.Sprintf("application_usage_%s.csv", t.Format("20060102")))
}

// Pending returns the number of buffered, unflushed segments.
func (s *CSVSink) Pending() int {
	return len(s.pending)
}

// Append buffers a segment and flushes the buffer into the report file for
// the current day (keyed by the segment's end time). On failure the buffer
// is kept intact for the next attempt.
func (s *CSVSink) Append(seg *models.ActivitySegment) error {
	s.pending = append(s.pending, seg)
	return s.Flush(seg.EndTime)
}

// Flush merges all pending segments into the day file for now: existing rows
// are read back, pending rows appended, and the whole file rewritten. The
// pending buffer is cleared only once the rewrite succeeds.
func (s *CSVSink) Flush(now time.Time) error {
	if len(s.pending) == 0 {
		return nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create report directory")
	}

	path := s.FilePath(now)
	rows, err := readRows(path)
	if err != nil {
		return err
	}

	for _, seg := range s.pending {
		rows = append(rows, []string{
			seg.Application,
			seg.Title,
			seg.StartTime.Format(timeLayout),
			seg.EndTime.Format(timeLayout),
			seg.TotalTime,
			seg.ReadableTotalTime,
		})
	}

	if err := writeRows(path, rows); err != nil {
		return err
	}

	s.pending = s.pending[:0]
	return nil
}

// readRows returns the data rows of an existing report file, without the
// header. A missing file yields no rows.
func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to open report file")
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse report file")
	}

	if len(records) > 0 {
		records = records[1:]
	}
	return records, nil
}

func writeRows(path string, rows [][]string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(err, "failed to create report file")
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return errors.Wrap(err, "failed to write report header")
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return errors.Wrap(err, "failed to write report rows")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return errors.Wrap(err, "failed to flush report rows")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "failed to close report file")
	}

	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(err, "failed to replace report file")
	}
	return nil
}
