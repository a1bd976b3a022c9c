// Package precedent maintains a small corpus of past collaboration cases and
// retrieves the ones most similar to a hypothetical-document embedding.
package precedent

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/sells-group/matching-cli/internal/model"
)

//go:embed corpus.yaml
var corpusYAML []byte

// corpusFile is the shape of the embedded seed file.
type corpusFile struct {
	Cases []model.PrecedentCase `yaml:"cases"`
}

// indexedCase is a corpus case together with its stored embedding.
type indexedCase struct {
	Case      model.PrecedentCase
	Embedding []float64
}

// Store persists the precedent corpus and its embeddings in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the corpus database at the given path.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "precedent: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "precedent: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS precedent_cases (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	case_date   TEXT NOT NULL,
	description TEXT NOT NULL,
	roi         TEXT NOT NULL,
	embedding   TEXT
);
`

// Migrate creates the schema.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "precedent: migrate")
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// caseID derives a stable identifier from the case title, so re-seeding the
// corpus never duplicates rows.
func caseID(title string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(title)).String()
}

// Seed inserts the embedded corpus cases that are not yet present. Existing
// rows (and their embeddings) are left untouched.
func (s *Store) Seed(ctx context.Context) (int, error) {
	var corpus corpusFile
	if err := yaml.Unmarshal(corpusYAML, &corpus); err != nil {
		return 0, eris.Wrap(err, "precedent: unmarshal corpus")
	}

	inserted := 0
	for _, c := range corpus.Cases {
		res, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO precedent_cases (id, title, case_date, description, roi) VALUES (?, ?, ?, ?, ?)`,
			caseID(c.Title), c.Title, c.Date, c.Description, c.ROI,
		)
		if err != nil {
			return inserted, eris.Wrapf(err, "precedent: seed case %q", c.Title)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

// EmbedFunc converts text into a vector.
type EmbedFunc func(ctx context.Context, text string) ([]float64, error)

// Index computes and stores embeddings for every case that lacks one.
// Returns the number of cases embedded.
func (s *Store) Index(ctx context.Context, embed EmbedFunc) (int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description FROM precedent_cases WHERE embedding IS NULL`)
	if err != nil {
		return 0, eris.Wrap(err, "precedent: query unindexed")
	}

	type pending struct{ id, description string }
	var work []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.description); err != nil {
			rows.Close()
			return 0, eris.Wrap(err, "precedent: scan unindexed")
		}
		work = append(work, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, eris.Wrap(err, "precedent: iterate unindexed")
	}

	indexed := 0
	for _, p := range work {
		vec, err := embed(ctx, p.description)
		if err != nil {
			return indexed, eris.Wrapf(err, "precedent: embed case %s", p.id)
		}
		encoded, err := json.Marshal(vec)
		if err != nil {
			return indexed, eris.Wrap(err, "precedent: marshal embedding")
		}
		if _, err := s.db.ExecContext(ctx,
			`UPDATE precedent_cases SET embedding = ? WHERE id = ?`,
			string(encoded), p.id,
		); err != nil {
			return indexed, eris.Wrapf(err, "precedent: store embedding %s", p.id)
		}
		indexed++
	}
	return indexed, nil
}

// Indexed loads every case that has an embedding.
func (s *Store) Indexed(ctx context.Context) ([]indexedCase, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, case_date, description, roi, embedding FROM precedent_cases WHERE embedding IS NOT NULL`)
	if err != nil {
		return nil, eris.Wrap(err, "precedent: query indexed")
	}
	defer rows.Close()

	var cases []indexedCase
	for rows.Next() {
		var (
			c       model.PrecedentCase
			encoded string
		)
		if err := rows.Scan(&c.Title, &c.Date, &c.Description, &c.ROI, &encoded); err != nil {
			return nil, eris.Wrap(err, "precedent: scan indexed")
		}
		var vec []float64
		if err := json.Unmarshal([]byte(encoded), &vec); err != nil {
			return nil, eris.Wrap(err, "precedent: unmarshal embedding")
		}
		cases = append(cases, indexedCase{Case: c, Embedding: vec})
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "precedent: iterate indexed")
	}
	return cases, nil
}
