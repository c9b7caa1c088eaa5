// Package storetest provides an in-memory PostRepository with the same
// scoping and unit-of-work semantics as the Postgres store.
package storetest

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/inkwell/internal/store"
	"github.com/kiranshivaraju/inkwell/pkg/models"
)

type row struct {
	post models.Post
	seq  int64
}

// MemoryStore is safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]row
	nextSeq int64

	// Err, when set, is returned by every operation.
	Err error
	// Saves counts successful commits, including AddAndSave.
	Saves int
}

var _ store.PostRepository = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[uuid.UUID]row)}
}

func (m *MemoryStore) Ping(_ context.Context) error { return m.Err }

func (m *MemoryStore) AddAndSave(ctx context.Context, post *models.Post) (*models.Post, error) {
	uow := m.NewUnitOfWork()
	uow.Add(post)
	if err := uow.Save(ctx); err != nil {
		return nil, err
	}
	return m.Lookup(post.ID)
}

func (m *MemoryStore) GetByIDAndAuthor(_ context.Context, id uuid.UUID, authorID string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	r, ok := m.rows[id]
	if !ok || r.post.AuthorID != authorID {
		return nil, store.ErrNotFound
	}
	p := r.post
	return &p, nil
}

func (m *MemoryStore) GetByAuthor(_ context.Context, authorID string) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var matched []row
	for _, r := range m.rows {
		if r.post.AuthorID == authorID {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.post.DateCreated.Equal(b.post.DateCreated) {
			return a.post.DateCreated.After(b.post.DateCreated)
		}
		return a.seq < b.seq
	})
	posts := make([]*models.Post, 0, len(matched))
	for _, r := range matched {
		p := r.post
		posts = append(posts, &p)
	}
	return posts, nil
}

// Lookup reads a row without any author filter. Test assertions only.
func (m *MemoryStore) Lookup(id uuid.UUID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p := r.post
	return &p, nil
}

// Len returns the number of committed rows.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *MemoryStore) NewUnitOfWork() store.UnitOfWork {
	return &memoryUnitOfWork{store: m}
}

type opKind int

const (
	opAdd opKind = iota
	opUpdate
	opRemove
)

type memOp struct {
	kind opKind
	post models.Post
}

type memoryUnitOfWork struct {
	store *MemoryStore
	ops   []memOp
}

func (u *memoryUnitOfWork) Pending() int { return len(u.ops) }

func (u *memoryUnitOfWork) Add(post *models.Post)    { u.ops = append(u.ops, memOp{opAdd, *post}) }
func (u *memoryUnitOfWork) Update(post *models.Post) { u.ops = append(u.ops, memOp{opUpdate, *post}) }
func (u *memoryUnitOfWork) Remove(post *models.Post) { u.ops = append(u.ops, memOp{opRemove, *post}) }

// Save applies the staged ops to a copy of the table and swaps it in only if
// all of them succeed.
func (u *memoryUnitOfWork) Save(ctx context.Context) error {
	if len(u.ops) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := u.store
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	next := make(map[uuid.UUID]row, len(m.rows)+len(u.ops))
	for k, v := range m.rows {
		next[k] = v
	}
	seq := m.nextSeq
	for _, op := range u.ops {
		existing, ok := next[op.post.ID]
		owned := ok && existing.post.AuthorID == op.post.AuthorID
		switch op.kind {
		case opAdd:
			if ok {
				return store.ErrDuplicateKey
			}
			seq++
			next[op.post.ID] = row{post: op.post, seq: seq}
		case opUpdate:
			if !owned {
				return store.ErrNotFound
			}
			existing.post.Title = op.post.Title
			existing.post.Content = op.post.Content
			next[op.post.ID] = existing
		case opRemove:
			if !owned {
				return store.ErrNotFound
			}
			delete(next, op.post.ID)
		default:
			return errors.New("unknown staged operation")
		}
	}

	m.rows = next
	m.nextSeq = seq
	m.Saves++
	u.ops = nil
	return nil
}
