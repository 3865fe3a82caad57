package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
)

func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(context.Background()) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, applyMigrations(db))
	return db
}

func applyMigrations(db *sql.DB) error {
	dirPath := "migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func TestPostSnapshotRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := setupPostgres(t)
	repo := NewPostSnapshotRepository(db)
	ctx := context.Background()

	poll := domain.NewPollPost("p1", domain.Author{ID: "u1", Username: "hook"}, domain.PollContent{
		Title:   "Lane?",
		Type:    domain.PollSingle,
		Options: []domain.PollOption{{ID: 1, Text: "A", VoteCount: 1, VoteShare: 100, ViewerHasVoted: true}},
	})
	poll.LikeCount = 3
	plain := domain.NewDefaultPost("p2", domain.Author{ID: "u2"}, domain.DefaultContent{Text: "hello"})

	require.NoError(t, repo.SavePost(ctx, poll))
	require.NoError(t, repo.SavePost(ctx, plain))

	got, err := repo.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.ContentPoll, got.Kind)
	assert.Equal(t, 3, got.LikeCount)
	assert.Equal(t, []int{1}, got.Poll.VotedOptionIDs())

	poll.LikeCount = 4
	require.NoError(t, repo.SavePost(ctx, poll))
	got, err = repo.GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 4, got.LikeCount, "upsert overwrites")

	ids, err := repo.ListPostIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p1", "p2"}, ids)

	require.NoError(t, repo.MarkDeleted(ctx, "p2"))
	ids, err = repo.ListPostIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, ids)

	got, err = repo.GetPost(ctx, "p2")
	require.NoError(t, err)
	assert.True(t, got.Deleted)

	_, err = repo.GetPost(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}
