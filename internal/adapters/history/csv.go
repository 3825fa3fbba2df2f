// Package history reads historical match results from football-data style
// CSV files.
package history

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/okian/matchodds/internal/domain/dedupe"
	"github.com/okian/matchodds/internal/domain/model"
)

// Column names read from each file. Anything else in the row is ignored.
const (
	colDate     = "Date"
	colHomeTeam = "HomeTeam"
	colAwayTeam = "AwayTeam"
	colHomeGoal = "FTHG"
	colAwayGoal = "FTAG"
	colHomeXG   = "HomeXG"
	colAwayXG   = "AwayXG"
)

// dateLayouts are tried in order.
var dateLayouts = []string{"02/01/2006", "02/01/06", "2006-01-02"} //nolint:gochecknoglobals // fixed format list

// CSVSource loads matches for a league from <dir>/<league>/*.csv, falling
// back to <dir>/<league>.csv.
type CSVSource struct {
	dir       string
	teams     *TeamRegistry
	dedupeMax int
}

// Option applies a configuration option to the CSVSource.
type Option func(*CSVSource)

// WithRegistry shares a team registry between sources, so IDs agree across
// leagues.
func WithRegistry(r *TeamRegistry) Option {
	return func(s *CSVSource) {
		if r != nil {
			s.teams = r
		}
	}
}

// WithDedupeMaxKeys bounds the fixture keys remembered while merging a
// league's files. Zero means unbounded.
func WithDedupeMaxKeys(n int) Option {
	return func(s *CSVSource) {
		if n >= 0 {
			s.dedupeMax = n
		}
	}
}

// NewCSVSource creates a source rooted at dir.
func NewCSVSource(dir string, opts ...Option) *CSVSource {
	s := &CSVSource{dir: dir, teams: NewTeamRegistry()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Teams returns the registry used to assign team IDs.
func (s *CSVSource) Teams() *TeamRegistry { return s.teams }

// Matches returns the league's completed matches dated within [from, to],
// de-duplicated across files and in chronological order. A zero from or to
// leaves that side open.
func (s *CSVSource) Matches(ctx context.Context, league string, from, to time.Time) ([]model.MatchRecord, error) {
	files, err := s.files(league)
	if err != nil {
		return nil, err
	}

	var all []model.MatchRecord
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ms, err := s.readFile(path, league)
		if err != nil {
			return nil, err
		}
		all = append(all, ms...)
	}

	all = model.Chronological(dedupe.Matches(all, dedupe.WithMaxSize(s.dedupeMax)))
	out := all[:0]
	for _, m := range all {
		if !from.IsZero() && m.Date.Before(model.Date(from)) {
			continue
		}
		if !to.IsZero() && m.Date.After(model.Date(to)) {
			continue
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: league %s", ErrNoData, league)
	}
	return out, nil
}

func (s *CSVSource) files(league string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, league, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", league, err)
	}
	if len(files) == 0 {
		single := filepath.Join(s.dir, league+".csv")
		if _, err := os.Stat(single); err == nil {
			files = []string{single}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: league %s under %s", ErrNoData, league, s.dir)
	}
	sort.Strings(files)
	return files, nil
}

func (s *CSVSource) readFile(path, league string) ([]model.MatchRecord, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the configured data directory
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ms, err := Parse(f, league, s.teams)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return ms, nil
}

// Parse reads one CSV document. Rows without a score (fixtures not yet
// played, trailing blank lines) are skipped; a row with an unreadable date
// or score fails with ErrMalformedRow.
func Parse(r io.Reader, league string, teams *TeamRegistry) ([]model.MatchRecord, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range []string{colDate, colHomeTeam, colAwayTeam, colHomeGoal, colAwayGoal} {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%w: missing column %s", ErrMalformedRow, c)
		}
	}

	var out []model.MatchRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}

		home, away := col(row, idx, colHomeTeam), col(row, idx, colAwayTeam)
		hg, ag := col(row, idx, colHomeGoal), col(row, idx, colAwayGoal)
		if home == "" || away == "" || hg == "" || ag == "" {
			continue
		}

		m := model.MatchRecord{League: league, HomeID: teams.ID(home), AwayID: teams.ID(away)}
		if m.Date, err = parseDate(col(row, idx, colDate)); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		if m.HomeGoals, err = parseGoals(hg); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		if m.AwayGoals, err = parseGoals(ag); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		m.HomeXG, m.AwayXG = optionalXG(col(row, idx, colHomeXG)), optionalXG(col(row, idx, colAwayXG))
		if m.HomeXG == nil || m.AwayXG == nil {
			m.HomeXG, m.AwayXG = nil, nil
		}
		out = append(out, m)
	}
	return out, nil
}

func col(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q", s)
}

func parseGoals(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("goals %q", s)
	}
	return n, nil
}

func optionalXG(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil
	}
	return model.XG(v)
}
