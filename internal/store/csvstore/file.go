// Package csvstore persists registry snapshots as flat CSV files with one header line.
package csvstore

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/park285/cheese-tourney/internal/service/tournament"
)

const (
	PlayersFile = "players.csv"
	MatchesFile = "matches.csv"

	playersHeader = "id,nickname,level,score"
	matchesHeader = "id,player1Id,player2Id,scorePlayer1,scorePlayer2,date"
)

// snapshotFile reads and rewrites one CSV snapshot.
type snapshotFile struct {
	path   string
	header string
	fields int
	logger *zap.Logger
}

// EnsureDir creates dir if it is missing.
func EnsureDir(dir string) error {
	if strings.TrimSpace(dir) == "" || dir == "." {
		return nil
	}
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}

// load calls parse for every data record. Records that fail to decode or parse
// are logged and skipped. A missing file yields no records and no error.
// Quoted fields may span lines and have no length cap.
func (f *snapshotFile) load(parse func(fields []string) error) (loaded, skipped int, err error) {
	fh, err := os.Open(f.path)
	if errors.Is(err, os.ErrNotExist) {
		f.logger.Info("csv_snapshot_missing", zap.String("path", f.path))
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer fh.Close()

	r := csv.NewReader(bufio.NewReader(fh))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header := true
	for {
		fields, rerr := r.Read()
		if errors.Is(rerr, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if rerr != nil && !errors.As(rerr, &perr) {
			return loaded, skipped, fmt.Errorf("read %s: %w", f.path, rerr)
		}
		if header {
			header = false
			if rerr == nil {
				continue
			}
		}
		if rerr == nil {
			rerr = f.decode(fields, parse)
		}
		if rerr != nil {
			skipped++
			var line int
			if perr != nil {
				line = perr.StartLine
			} else {
				line, _ = r.FieldPos(0)
			}
			f.logger.Warn("csv_record_skip",
				zap.String("path", f.path),
				zap.Int("line", line),
				zap.Strings("fields", fields),
				zap.Error(rerr),
			)
			continue
		}
		loaded++
	}
	return loaded, skipped, nil
}

func (f *snapshotFile) decode(fields []string, parse func([]string) error) error {
	if len(fields) != f.fields {
		return fmt.Errorf("%w: want %d columns, got %d", tournament.ErrMalformedRecord, f.fields, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return parse(fields)
}

// save replaces the file with header + rows. The new content is written to a
// sibling temp file first and renamed over the old one.
func (f *snapshotFile) save(rows [][]string) error {
	dir := filepath.Dir(f.path)
	if err := EnsureDir(dir); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	bw := bufio.NewWriter(tmp)
	if _, err := bw.WriteString(f.header + "\n"); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	w := csv.NewWriter(bw)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	f.logger.Debug("csv_snapshot_saved", zap.String("path", f.path), zap.Int("records", len(rows)))
	return nil
}
