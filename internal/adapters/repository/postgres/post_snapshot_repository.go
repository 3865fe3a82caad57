package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/ports"
)

type postSnapshotRepository struct {
	db *sql.DB
}

func NewPostSnapshotRepository(db *sql.DB) ports.SnapshotRepository {
	return &postSnapshotRepository{
		db: db,
	}
}

func (r *postSnapshotRepository) SavePost(ctx context.Context, post *domain.Post) error {
	payload, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("failed to encode post: %w", err)
	}

	query := `
		INSERT INTO post_snapshots (id, kind, payload, deleted, fetched_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE
		SET kind = EXCLUDED.kind,
		    payload = EXCLUDED.payload,
		    deleted = EXCLUDED.deleted,
		    fetched_at = NOW()
	`
	_, err = r.db.ExecContext(ctx, query, post.ID, string(post.Kind), payload, post.Deleted)
	if err != nil {
		return fmt.Errorf("failed to save post snapshot: %w", err)
	}
	return nil
}

func (r *postSnapshotRepository) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	query := `
		SELECT payload, deleted
		FROM post_snapshots
		WHERE id = $1
	`

	var (
		payload []byte
		deleted bool
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&payload, &deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post snapshot: %w", err)
	}

	var post domain.Post
	if err := json.Unmarshal(payload, &post); err != nil {
		return nil, fmt.Errorf("failed to decode post snapshot: %w", err)
	}
	post.Deleted = deleted
	return &post, nil
}

func (r *postSnapshotRepository) ListPostIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT id
		FROM post_snapshots
		WHERE deleted = false
		ORDER BY fetched_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list post snapshots: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan post id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post snapshots: %w", err)
	}
	return ids, nil
}

func (r *postSnapshotRepository) MarkDeleted(ctx context.Context, id string) error {
	query := `UPDATE post_snapshots SET deleted = true WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark post deleted: %w", err)
	}
	return nil
}
