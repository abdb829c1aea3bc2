package book

import (
	"context"

	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/model/storage"
)

// Collection wraps the repository of one entity.
type Collection[T any] struct {
	book     *Book
	entity   string
	repo     func(storage.Scope) *storage.Repo[T]
	id       func(*T) int64
	refs     func(*T) []ref
	describe func(*T, *ledger.Change)
}

// Entity is the record name used in messages, e.g. "Account".
func (c *Collection[T]) Entity() string {
	return c.repo(c.book.storage).Entity()
}

func (c *Collection[T]) Get(ctx context.Context, id int64) (*T, error) {
	return c.repo(c.book.storage).Get(ctx, id)
}

func (c *Collection[T]) List(ctx context.Context, page storage.Page) ([]T, int, error) {
	return c.repo(c.book.storage).List(ctx, page)
}

func (c *Collection[T]) Query(ctx context.Context, page storage.Page, filters ...storage.Filter) ([]T, int, error) {
	return c.repo(c.book.storage).Query(ctx, page, filters...)
}

func (c *Collection[T]) ParseFilter(field, expr string) (storage.Filter, error) {
	return c.repo(c.book.storage).ParseFilter(field, expr)
}

func (c *Collection[T]) Create(ctx context.Context, item *T) error {
	err := c.book.storage.InTx(ctx, func(tx *storage.Tx) error {
		if err := c.checkRefs(ctx, tx, item); err != nil {
			return err
		}
		return c.repo(tx).Create(ctx, item)
	})
	if err != nil {
		return err
	}
	c.notify(ctx, ledger.OpCreate, item)
	return nil
}

// Update applies changes to the stored record. References are checked
// against the values after apply.
func (c *Collection[T]) Update(ctx context.Context, id int64, apply func(*T) error) (*T, error) {
	var updated *T
	err := c.book.storage.InTx(ctx, func(tx *storage.Tx) error {
		var err error
		updated, err = c.repo(tx).Update(ctx, id, func(item *T) error {
			if err := apply(item); err != nil {
				return err
			}
			return c.checkRefs(ctx, tx, item)
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	c.notify(ctx, ledger.OpUpdate, updated)
	return updated, nil
}

func (c *Collection[T]) Delete(ctx context.Context, id int64) error {
	var deleted *T
	err := c.book.storage.InTx(ctx, func(tx *storage.Tx) error {
		var err error
		if deleted, err = c.repo(tx).Get(ctx, id); err != nil {
			return err
		}
		return c.repo(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	c.notify(ctx, ledger.OpDelete, deleted)
	return nil
}

func (c *Collection[T]) checkRefs(ctx context.Context, s storage.Scope, item *T) error {
	if c.refs == nil {
		return nil
	}
	for _, r := range c.refs(item) {
		if err := checkRef(ctx, s, r); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collection[T]) notify(ctx context.Context, op ledger.Op, item *T) {
	change := ledger.Change{Entity: c.entity, Op: op, ID: c.id(item)}
	if c.describe != nil {
		c.describe(item, &change)
	}
	c.book.Notify(ctx, change)
}
