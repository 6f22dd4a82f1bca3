package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/tapedeck/internal/api"
	"github.com/desertthunder/tapedeck/internal/shared"
)

// Draft is one cached mixtape snapshot row.
type Draft struct {
	ID        string
	PublicID  string
	Name      string
	Version   int
	UpdatedAt time.Time
}

// Repository persists mixtape snapshots in the drafts table. The full
// service response is stored as a JSON payload; name and version are
// denormalized for listing without decoding.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a Repository over an open database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save upserts the snapshot for the mixtape's public ID.
func (r *Repository) Save(ctx context.Context, mixtape *api.MixtapeResponse) error {
	payload, err := shared.MarshalJSON(mixtape, false)
	if err != nil {
		return fmt.Errorf("failed to encode draft payload: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO drafts (id, public_id, name, version, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(public_id) DO UPDATE SET
			name = excluded.name,
			version = excluded.version,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		shared.GenerateID(),
		mixtape.PublicID,
		mixtape.Name,
		mixtape.Version,
		string(payload),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert draft: %w", err)
	}

	return nil
}

// Get returns the cached snapshot for a public ID.
func (r *Repository) Get(ctx context.Context, publicID string) (*api.MixtapeResponse, error) {
	query := `SELECT payload FROM drafts WHERE public_id = ?`

	var payload string
	err := r.db.QueryRowContext(ctx, query, publicID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no draft for %s", shared.ErrMixtapeNotFound, publicID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query draft: %w", err)
	}

	var mixtape api.MixtapeResponse
	if err := json.Unmarshal([]byte(payload), &mixtape); err != nil {
		return nil, fmt.Errorf("failed to decode draft payload: %w", err)
	}

	return &mixtape, nil
}

// List returns all cached drafts, most recently updated first.
func (r *Repository) List(ctx context.Context) ([]Draft, error) {
	query := `
		SELECT id, public_id, name, version, updated_at
		FROM drafts
		ORDER BY updated_at DESC, public_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []Draft
	for rows.Next() {
		var d Draft
		if err := rows.Scan(&d.ID, &d.PublicID, &d.Name, &d.Version, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate drafts: %w", err)
	}

	return drafts, nil
}

// Delete removes the cached snapshot for a public ID.
func (r *Repository) Delete(ctx context.Context, publicID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE public_id = ?`, publicID)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: no draft for %s", shared.ErrMixtapeNotFound, publicID)
	}

	return nil
}
