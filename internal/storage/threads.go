package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/threadforge/threadforge/internal/core/domain"
	coreerrors "github.com/threadforge/threadforge/internal/core/errors"
)

// ThreadRecord is a persisted generation result.
type ThreadRecord struct {
	ID         string
	SourceText string
	Options    domain.Options
	Result     domain.ThreadResult
	Source     string
	TweetCount int
	Language   string
	CreatedAt  time.Time
}

// SaveThread persists a generated thread and returns its assigned ID.
func (db *DB) SaveThread(ctx context.Context, sourceText string, opts domain.Options, result *domain.ThreadResult) (string, error) {
	id := uuid.NewString()

	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return "", fmt.Errorf("marshal options: %w", err)
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO thread_history (id, source_text, options, result, source, tweet_count, language)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, sourceText, optsJSON, resultJSON,
		result.Metadata.Source, result.Metadata.TweetsGenerated, string(result.Metadata.Language),
	)
	if err != nil {
		return "", fmt.Errorf("insert thread: %w", err)
	}

	return id, nil
}

// GetThread returns a persisted thread by ID.
func (db *DB) GetThread(ctx context.Context, id string) (*ThreadRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, coreerrors.ErrNotFound
	}

	row := db.Pool.QueryRow(ctx, `
		SELECT id, source_text, options, result, source, tweet_count, language, created_at
		FROM thread_history
		WHERE id = $1`, id)

	rec, err := scanThread(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coreerrors.ErrNotFound
		}

		return nil, fmt.Errorf("select thread: %w", err)
	}

	return rec, nil
}

// ListRecentThreads returns the most recently generated threads, newest first.
func (db *DB) ListRecentThreads(ctx context.Context, limit int) ([]*ThreadRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, source_text, options, result, source, tweet_count, language, created_at
		FROM thread_history
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("select recent threads: %w", err)
	}
	defer rows.Close()

	var records []*ThreadRecord

	for rows.Next() {
		rec, err := scanThread(rows)
		if err != nil {
			return nil, fmt.Errorf("scan thread: %w", err)
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate threads: %w", err)
	}

	return records, nil
}

func scanThread(row pgx.Row) (*ThreadRecord, error) {
	var (
		rec        ThreadRecord
		optsJSON   []byte
		resultJSON []byte
	)

	if err := row.Scan(&rec.ID, &rec.SourceText, &optsJSON, &resultJSON,
		&rec.Source, &rec.TweetCount, &rec.Language, &rec.CreatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(optsJSON, &rec.Options); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}

	if err := json.Unmarshal(resultJSON, &rec.Result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}

	return &rec, nil
}
