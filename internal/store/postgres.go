package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/inkwell/pkg/models"
)

const postColumns = `id, title, content, author_id, date_created`

// PostgresStore implements PostRepository using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// AddAndSave inserts post and commits immediately.
func (s *PostgresStore) AddAndSave(ctx context.Context, post *models.Post) (*models.Post, error) {
	p, err := scanPost(s.pool.QueryRow(ctx,
		`INSERT INTO posts (id, title, content, author_id, date_created)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+postColumns,
		post.ID, post.Title, post.Content, post.AuthorID, post.DateCreated))
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return p, nil
}

// getByID looks a post up by primary key alone. It performs no ownership
// check and must never back a caller-facing read.
func (s *PostgresStore) getByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) GetByIDAndAuthor(ctx context.Context, id uuid.UUID, authorID string) (*models.Post, error) {
	p, err := scanPost(s.pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1 AND author_id = $2`, id, authorID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post by author: %w", err)
	}
	return p, nil
}

// GetByAuthor lists an author's posts newest first. Posts created at the
// same instant come back in insertion order.
func (s *PostgresStore) GetByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+postColumns+` FROM posts WHERE author_id = $1 ORDER BY date_created DESC, seq ASC`, authorID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// NewUnitOfWork starts an empty unit of work bound to this store's pool.
func (s *PostgresStore) NewUnitOfWork() UnitOfWork {
	return &pgUnitOfWork{pool: s.pool}
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.DateCreated); err != nil {
		return nil, err
	}
	p.DateCreated = p.DateCreated.UTC()
	return &p, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
