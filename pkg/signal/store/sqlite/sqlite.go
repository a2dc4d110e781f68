// Package sqlite implements the mention store on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sullygpt-ui/keyword-intelligence/pkg/signal/store"
)

type sqliteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) a SQLite mention store with WAL mode
// enabled.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL for concurrent readers during the scoring pass
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS terms (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	term TEXT UNIQUE NOT NULL,
	first_seen TEXT NOT NULL,
	last_updated TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS mentions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	term_id INTEGER NOT NULL,
	source_type TEXT NOT NULL,
	source_name TEXT NOT NULL,
	mention_date TEXT NOT NULL,
	count INTEGER NOT NULL DEFAULT 1,
	context TEXT,
	url TEXT,
	FOREIGN KEY(term_id) REFERENCES terms(id)
);

CREATE TABLE IF NOT EXISTS occurrences (
	term_id INTEGER NOT NULL,
	source_type TEXT NOT NULL,
	source_name TEXT NOT NULL,
	date TEXT NOT NULL,
	count INTEGER NOT NULL DEFAULT 0,
	UNIQUE(term_id, source_type, source_name, date),
	FOREIGN KEY(term_id) REFERENCES terms(id)
);

CREATE TABLE IF NOT EXISTS period_scores (
	term_id INTEGER NOT NULL,
	period TEXT NOT NULL,
	tier1_mentions INTEGER NOT NULL DEFAULT 0,
	tier2_mentions INTEGER NOT NULL DEFAULT 0,
	tier3_mentions INTEGER NOT NULL DEFAULT 0,
	score REAL NOT NULL DEFAULT 0,
	UNIQUE(term_id, period),
	FOREIGN KEY(term_id) REFERENCES terms(id)
);

CREATE TABLE IF NOT EXISTS processed_sources (
	source_type TEXT NOT NULL,
	source_identifier TEXT NOT NULL,
	processed_date TEXT NOT NULL,
	UNIQUE(source_type, source_identifier)
);

CREATE TABLE IF NOT EXISTS collection_runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_type TEXT NOT NULL,
	date TEXT NOT NULL,
	items INTEGER NOT NULL DEFAULT 0,
	terms INTEGER NOT NULL DEFAULT 0,
	started_at TEXT,
	completed_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_mentions_term ON mentions(term_id);
CREATE INDEX IF NOT EXISTS idx_mentions_source ON mentions(source_type, source_name);
CREATE INDEX IF NOT EXISTS idx_occurrences_term ON occurrences(term_id);
CREATE INDEX IF NOT EXISTS idx_occurrences_date ON occurrences(date);
CREATE INDEX IF NOT EXISTS idx_period_scores_period ON period_scores(period);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// GetOrCreateTerm returns the tracked term, creating it on first sight.
// An existing term keeps its earliest first_seen and gets its
// last_updated bumped.
func (s *sqliteStore) GetOrCreateTerm(ctx context.Context, term string, seen time.Time) (store.Term, error) {
	day := seen.Format(store.DateFormat)

	_, err := s.db.ExecContext(ctx, `
INSERT INTO terms (term, first_seen, last_updated) VALUES (?, ?, ?)
ON CONFLICT(term) DO UPDATE SET
	first_seen=MIN(first_seen, excluded.first_seen),
	last_updated=excluded.last_updated;
`, term, day, day)
	if err != nil {
		return store.Term{}, err
	}

	t, _, err := s.GetTerm(ctx, term)
	return t, err
}

func (s *sqliteStore) GetTerm(ctx context.Context, term string) (store.Term, bool, error) {
	var (
		t                      store.Term
		firstSeen, lastUpdated string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, term, first_seen, last_updated FROM terms WHERE term = ?;
`, term).Scan(&t.ID, &t.Term, &firstSeen, &lastUpdated)
	if err == sql.ErrNoRows {
		return store.Term{}, false, nil
	}
	if err != nil {
		return store.Term{}, false, err
	}
	t.FirstSeen = parseDate(firstSeen)
	t.LastUpdated = parseDate(lastUpdated)
	return t, true, nil
}

func (s *sqliteStore) AllTerms(ctx context.Context) ([]store.Term, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, term, first_seen, last_updated FROM terms ORDER BY id;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []store.Term
	for rows.Next() {
		var (
			t                      store.Term
			firstSeen, lastUpdated string
		)
		if err := rows.Scan(&t.ID, &t.Term, &firstSeen, &lastUpdated); err != nil {
			return nil, err
		}
		t.FirstSeen = parseDate(firstSeen)
		t.LastUpdated = parseDate(lastUpdated)
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// RecordMention appends the mention row and folds its count into the
// (term, source, date) occurrence aggregate in one transaction. Duplicate
// mentions are legal; occurrence counts simply accumulate.
func (s *sqliteStore) RecordMention(ctx context.Context, m store.Mention) error {
	if m.Count <= 0 {
		m.Count = 1
	}
	day := m.Date.Format(store.DateFormat)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO mentions (term_id, source_type, source_name, mention_date, count, context, url)
VALUES (?, ?, ?, ?, ?, ?, ?);
`, m.TermID, m.SourceType, m.SourceName, day, m.Count, m.Context, m.URL); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO occurrences (term_id, source_type, source_name, date, count)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(term_id, source_type, source_name, date) DO UPDATE SET
	count=count+excluded.count;
`, m.TermID, m.SourceType, m.SourceName, day, m.Count); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *sqliteStore) IsProcessed(ctx context.Context, sourceType, identifier string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
SELECT 1 FROM processed_sources WHERE source_type = ? AND source_identifier = ?;
`, sourceType, identifier).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkProcessed is idempotent; marking an already-marked identifier is a
// no-op.
func (s *sqliteStore) MarkProcessed(ctx context.Context, sourceType, identifier string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO processed_sources (source_type, source_identifier, processed_date)
VALUES (?, ?, ?);
`, sourceType, identifier, time.Now().UTC().Format(store.DateFormat))
	return err
}

// AggregateCounts sums occurrence counts per source type. A zero since
// time means all history.
func (s *sqliteStore) AggregateCounts(ctx context.Context, termID int64, since time.Time) (map[string]int, error) {
	query := `SELECT source_type, SUM(count) FROM occurrences WHERE term_id = ?`
	args := []interface{}{termID}
	if !since.IsZero() {
		query += ` AND date >= ?`
		args = append(args, since.Format(store.DateFormat))
	}
	query += ` GROUP BY source_type;`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			typ string
			n   int
		)
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		counts[typ] = n
	}
	return counts, rows.Err()
}

func (s *sqliteStore) DistinctSourcesFor(ctx context.Context, termID int64) ([]store.SourceRef, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT DISTINCT source_type, source_name, COALESCE(url, '')
FROM mentions
WHERE term_id = ?
ORDER BY source_type, source_name;
`, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []store.SourceRef
	for rows.Next() {
		var r store.SourceRef
		if err := rows.Scan(&r.Type, &r.Name, &r.URL); err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

func (s *sqliteStore) PreviousPeriodScore(ctx context.Context, termID int64, before time.Time) (float64, bool, error) {
	var score float64
	err := s.db.QueryRowContext(ctx, `
SELECT score FROM period_scores
WHERE term_id = ? AND period < ?
ORDER BY period DESC LIMIT 1;
`, termID, before.Format(store.DateFormat)).Scan(&score)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

// SavePeriodScore upserts the score snapshot; a rerun for the same period
// overwrites rather than duplicates.
func (s *sqliteStore) SavePeriodScore(ctx context.Context, p store.PeriodScore) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO period_scores (term_id, period, tier1_mentions, tier2_mentions, tier3_mentions, score)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(term_id, period) DO UPDATE SET
	tier1_mentions=excluded.tier1_mentions,
	tier2_mentions=excluded.tier2_mentions,
	tier3_mentions=excluded.tier3_mentions,
	score=excluded.score;
`, p.TermID, p.Period.Format(store.DateFormat), p.Tier1Mentions, p.Tier2Mentions, p.Tier3Mentions, p.Score)
	return err
}

func (s *sqliteStore) TermHistory(ctx context.Context, term string, since time.Time) ([]store.Occurrence, error) {
	query := `
SELECT o.term_id, t.term, o.source_type, o.source_name, o.date, o.count
FROM occurrences o
JOIN terms t ON t.id = o.term_id
WHERE t.term = ?`
	args := []interface{}{term}
	if !since.IsZero() {
		query += ` AND o.date >= ?`
		args = append(args, since.Format(store.DateFormat))
	}
	query += ` ORDER BY o.date DESC;`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var occ []store.Occurrence
	for rows.Next() {
		var (
			o   store.Occurrence
			day string
		)
		if err := rows.Scan(&o.TermID, &o.Term, &o.SourceType, &o.SourceName, &day, &o.Count); err != nil {
			return nil, err
		}
		o.Date = parseDate(day)
		occ = append(occ, o)
	}
	return occ, rows.Err()
}

func (s *sqliteStore) TermsForPeriod(ctx context.Context, since time.Time) ([]store.PeriodTermStats, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT o.term_id, t.term, t.first_seen, o.source_type, o.source_name, o.count
FROM occurrences o
JOIN terms t ON t.id = o.term_id
WHERE o.date >= ?
ORDER BY o.term_id;
`, since.Format(store.DateFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int64]*store.PeriodTermStats)
	var order []int64
	seenSource := make(map[int64]map[string]struct{})

	for rows.Next() {
		var (
			id         int64
			term       string
			firstSeen  string
			sourceType string
			sourceName string
			count      int
		)
		if err := rows.Scan(&id, &term, &firstSeen, &sourceType, &sourceName, &count); err != nil {
			return nil, err
		}
		st, ok := byID[id]
		if !ok {
			st = &store.PeriodTermStats{
				TermID:    id,
				Term:      term,
				FirstSeen: parseDate(firstSeen),
				ByType:    make(map[string]int),
			}
			byID[id] = st
			order = append(order, id)
			seenSource[id] = make(map[string]struct{})
		}
		st.Total += count
		st.ByType[sourceType] += count
		if _, dup := seenSource[id][sourceName]; !dup {
			seenSource[id][sourceName] = struct{}{}
			st.Sources = append(st.Sources, sourceName)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]store.PeriodTermStats, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out, nil
}

func (s *sqliteStore) LogRun(ctx context.Context, r store.Run) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO collection_runs (source_type, date, items, terms, started_at, completed_at)
VALUES (?, ?, ?, ?, ?, ?);
`, r.SourceType, r.Date.Format(store.DateFormat), r.Items, r.Terms,
		r.StartedAt.UTC().Format(time.RFC3339), r.CompletedAt.UTC().Format(time.RFC3339))
	return err
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(store.DateFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
