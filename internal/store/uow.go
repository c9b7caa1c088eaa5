package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/inkwell/pkg/models"
)

type stagedOp func(ctx context.Context, tx pgx.Tx) error

// pgUnitOfWork buffers operations in memory and replays them inside a single
// read-committed transaction on Save. Values are captured when staged.
type pgUnitOfWork struct {
	pool *pgxpool.Pool
	ops  []stagedOp
}

func (u *pgUnitOfWork) Pending() int { return len(u.ops) }

func (u *pgUnitOfWork) Add(post *models.Post) {
	p := *post
	u.ops = append(u.ops, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO posts (id, title, content, author_id, date_created)
			 VALUES ($1, $2, $3, $4, $5)`,
			p.ID, p.Title, p.Content, p.AuthorID, p.DateCreated)
		if err != nil {
			if isDuplicateKeyError(err) {
				return ErrDuplicateKey
			}
			return fmt.Errorf("insert post: %w", err)
		}
		return nil
	})
}

// Update stages a title/content rewrite. The statement is filtered by the
// post's own author, so a post that changed hands or vanished fails the save.
func (u *pgUnitOfWork) Update(post *models.Post) {
	p := *post
	u.ops = append(u.ops, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE posts SET title = $3, content = $4 WHERE id = $1 AND author_id = $2`,
			p.ID, p.AuthorID, p.Title, p.Content)
		if err != nil {
			return fmt.Errorf("update post: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (u *pgUnitOfWork) Remove(post *models.Post) {
	p := *post
	u.ops = append(u.ops, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM posts WHERE id = $1 AND author_id = $2`, p.ID, p.AuthorID)
		if err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Save commits every staged operation or none of them. On success the unit
// of work is emptied; on failure the staged operations are kept.
func (u *pgUnitOfWork) Save(ctx context.Context) error {
	if len(u.ops) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	// Rollback after Commit is a no-op.
	defer tx.Rollback(context.Background())

	for _, op := range u.ops {
		if err := op(ctx, tx); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	u.ops = nil
	return nil
}
