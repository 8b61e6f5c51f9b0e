package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore keeps layouts in a PostgreSQL table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects and creates the schema if needed.
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}
	store := &PostgresStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %v", err)
	}
	return store, nil
}

func (ps *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS layouts (
		id TEXT PRIMARY KEY,
		variant TEXT NOT NULL,
		seed BIGINT NOT NULL,
		params JSONB NOT NULL,
		attempts INTEGER NOT NULL,
		map JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS layouts_variant ON layouts (variant);
	`
	_, err := ps.db.Exec(schema)
	return err
}

// SaveLayout upserts l.
func (ps *PostgresStore) SaveLayout(l *Layout) error {
	paramsJSON, err := json.Marshal(l.Params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %v", err)
	}
	mapJSON, err := json.Marshal(l.Map)
	if err != nil {
		return fmt.Errorf("failed to marshal map: %v", err)
	}

	query := `
	INSERT INTO layouts (id, variant, seed, params, attempts, map)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id)
	DO UPDATE SET
		params = $4, attempts = $5, map = $6,
		created_at = NOW()
	`
	_, err = ps.db.Exec(query, l.ID, l.Variant, l.Seed, string(paramsJSON), l.Attempts, string(mapJSON))
	if err != nil {
		return fmt.Errorf("failed to save layout: %v", err)
	}
	return nil
}

// LoadLayout reads the layout stored under id.
func (ps *PostgresStore) LoadLayout(id string) (*Layout, error) {
	query := `SELECT id, variant, seed, params, attempts, map, created_at FROM layouts WHERE id = $1`

	var l Layout
	var paramsJSON, mapJSON string
	err := ps.db.QueryRow(query, id).Scan(&l.ID, &l.Variant, &l.Seed, &paramsJSON, &l.Attempts, &mapJSON, &l.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("layout %s not found", id)
		}
		return nil, fmt.Errorf("failed to load layout: %v", err)
	}
	if err := json.Unmarshal([]byte(paramsJSON), &l.Params); err != nil {
		return nil, fmt.Errorf("failed to unmarshal params: %v", err)
	}
	if err := json.Unmarshal([]byte(mapJSON), &l.Map); err != nil {
		return nil, fmt.Errorf("failed to unmarshal map: %v", err)
	}
	return &l, nil
}

// ListLayouts returns the sorted IDs of variant's layouts, or all of them.
func (ps *PostgresStore) ListLayouts(variant string) ([]string, error) {
	rows, err := ps.db.Query(`SELECT id FROM layouts WHERE $1 = '' OR variant = $1 ORDER BY id`, variant)
	if err != nil {
		return nil, fmt.Errorf("failed to list layouts: %v", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan layout id: %v", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database connection.
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
