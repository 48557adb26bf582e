// Package store persists accepted policy records in SQLite. The policy
// number carries a UNIQUE constraint; a violation on insert is a normal
// duplicate outcome, not an error.
package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/cmc-agency/policy-cli/internal/model"
)

// SQLiteStore implements the policy archive using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS policies (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	insured     TEXT,
	txn_date    TEXT,
	customer_no TEXT,
	policy_no   TEXT UNIQUE,
	policy_type TEXT,
	carrier     TEXT,
	plate       TEXT,
	brand       TEXT,
	amount      TEXT,
	note        TEXT,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_policies_policy_no ON policies(policy_no);
CREATE INDEX IF NOT EXISTS idx_policies_insured ON policies(insured);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertRecords writes accepted records, skipping entries without a usable
// policy number and entries the UNIQUE constraint already holds. Returns how
// many rows were actually inserted.
func (s *SQLiteStore) InsertRecords(ctx context.Context, records []model.PolicyRecord) (int, error) {
	inserted := 0
	for i := range records {
		r := &records[i]
		if !r.HasPolicyNo() {
			zap.L().Info("skipping record without policy number", zap.String("insured", r.Insured))
			continue
		}
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO policies (insured, txn_date, customer_no, policy_no, policy_type, carrier, plate, brand, amount, note)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.Insured, r.Date, r.CustomerNo, r.PolicyNo, string(r.Type), string(r.Carrier), r.Plate, r.Brand, r.Amount, r.Note,
		)
		if err != nil {
			if isUniqueViolation(err) {
				zap.L().Info("duplicate policy number in archive", zap.String("policy_no", r.PolicyNo))
				continue
			}
			return inserted, eris.Wrapf(err, "sqlite: insert policy %s", r.PolicyNo)
		}
		inserted++
	}
	return inserted, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE")
}

// LoadKeys snapshots the dedup-relevant columns of every stored record.
func (s *SQLiteStore) LoadKeys(ctx context.Context) ([]model.RecordKeys, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT policy_no, insured, txn_date, policy_type FROM policies`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load keys")
	}
	defer rows.Close()

	var keys []model.RecordKeys
	for rows.Next() {
		var k model.RecordKeys
		if err := rows.Scan(&k.PolicyNo, &k.Insured, &k.Date, &k.Type); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan keys")
		}
		keys = append(keys, k)
	}
	return keys, eris.Wrap(rows.Err(), "sqlite: load keys iterate")
}

// Filter narrows a Search. Empty fields are ignored; set fields match as
// substrings, except the date range which is inclusive on both ends.
type Filter struct {
	CustomerNo string
	Insured    string
	PolicyNo   string
	Plate      string
	Date       string
	DateFrom   string
	DateTo     string
	Type       string
	Limit      int
}

// StoredRecord is a persisted policy row.
type StoredRecord struct {
	Insured    string    `json:"insured"`
	Date       string    `json:"date"`
	CustomerNo string    `json:"customer_no"`
	PolicyNo   string    `json:"policy_no"`
	Type       string    `json:"type"`
	Carrier    string    `json:"carrier"`
	Plate      string    `json:"plate"`
	Brand      string    `json:"brand"`
	Amount     string    `json:"amount"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}

// Search returns stored records matching the filter, newest first. Rows whose
// filtered column holds only the absence placeholder never match.
func (s *SQLiteStore) Search(ctx context.Context, f Filter) ([]StoredRecord, error) {
	query := `SELECT insured, txn_date, customer_no, policy_no, policy_type, carrier, plate, brand, amount, note, created_at
	          FROM policies WHERE 1=1`
	var args []any

	like := func(column, value string) {
		query += ` AND ` + column + ` LIKE ? AND ` + column + ` != '-'`
		args = append(args, "%"+value+"%")
	}

	if f.CustomerNo != "" {
		like("customer_no", f.CustomerNo)
	}
	if f.Insured != "" {
		like("insured", f.Insured)
	}
	if f.PolicyNo != "" {
		like("policy_no", f.PolicyNo)
	}
	if f.Plate != "" {
		like("plate", f.Plate)
	}
	if f.DateFrom != "" && f.DateTo != "" {
		query += ` AND txn_date BETWEEN ? AND ? AND txn_date != '-'`
		args = append(args, f.DateFrom, f.DateTo)
	} else if f.Date != "" {
		like("txn_date", f.Date)
	}
	if f.Type != "" {
		query += ` AND policy_type LIKE ?`
		args = append(args, "%"+f.Type+"%")
	}

	query += ` ORDER BY created_at DESC`

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: search")
	}
	defer rows.Close()

	var records []StoredRecord
	for rows.Next() {
		var r StoredRecord
		if err := rows.Scan(&r.Insured, &r.Date, &r.CustomerNo, &r.PolicyNo, &r.Type, &r.Carrier, &r.Plate, &r.Brand, &r.Amount, &r.Note, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: search iterate")
}
