package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	spatial "Lenscalc/internal/calc/spatial"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// ErrNotFound is returned when a row does not exist or belongs to another user.
var ErrNotFound = errors.New("not found")

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetBylogin(ctx context.Context, login string) (int, string, error)
}

// Preset is a named lens parameter set saved by a user.
type Preset struct {
	ID        string        `json:"id"`
	UserID    int           `json:"-"`
	Name      string        `json:"name"`
	Lens      spatial.Input `json:"lens"`
	CreatedAt time.Time     `json:"created_at"`
}

type PresetRepository interface {
	ListPresets(ctx context.Context, userID int) ([]Preset, error)
	CreatePreset(ctx context.Context, p *Preset) error
	GetPreset(ctx context.Context, userID int, id uuid.UUID) (*Preset, error)
	DeletePreset(ctx context.Context, userID int, id uuid.UUID) error
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id       SERIAL PRIMARY KEY,
	login    TEXT NOT NULL UNIQUE,
	email    TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS lens_presets (
	id         UUID PRIMARY KEY,
	user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name       TEXT NOT NULL,
	lens       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS lens_presets_user_idx ON lens_presets (user_id, created_at DESC);`

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", withSSLMode(connStr))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// withSSLMode requires TLS unless the connection string says otherwise.
func withSSLMode(connStr string) string {
	if strings.Contains(connStr, "sslmode=") {
		return connStr
	}
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if strings.Contains(connStr, "?") {
			return connStr + "&sslmode=require"
		}
		return connStr + "?sslmode=require"
	}
	return connStr + " sslmode=require"
}

// Migrate creates the tables if they are missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

// GetBylogin returns the user id and password hash, or zero values when the
// login is unknown.
func (r *PostgresRepository) GetBylogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", nil
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresRepository) ListPresets(ctx context.Context, userID int) ([]Preset, error) {
	query := `
		SELECT id, user_id, name, lens, created_at
		FROM lens_presets
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	presets := []Preset{}
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, *p)
	}
	return presets, rows.Err()
}

func (r *PostgresRepository) CreatePreset(ctx context.Context, p *Preset) error {
	lens, err := json.Marshal(p.Lens)
	if err != nil {
		return fmt.Errorf("failed to marshal lens: %w", err)
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO lens_presets (id, user_id, name, lens, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = r.db.ExecContext(ctx, query, p.ID, p.UserID, p.Name, string(lens), p.CreatedAt)
	return err
}

func (r *PostgresRepository) GetPreset(ctx context.Context, userID int, id uuid.UUID) (*Preset, error) {
	query := `
		SELECT id, user_id, name, lens, created_at
		FROM lens_presets
		WHERE id = $1 AND user_id = $2`

	p, err := scanPreset(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) DeletePreset(ctx context.Context, userID int, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM lens_presets WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(s scanner) (*Preset, error) {
	var p Preset
	var lens []byte
	if err := s.Scan(&p.ID, &p.UserID, &p.Name, &lens, &p.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(lens, &p.Lens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lens: %w", err)
	}
	return &p, nil
}
