package prompts

import (
	"context"
	"fmt"

	"github.com/futig/exam-practice/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Store is the remote side of the catalog
type Store interface {
	List(ctx context.Context, kind entity.TaskKind) ([]entity.Prompt, error)
	Create(ctx context.Context, kind entity.TaskKind, fields *entity.PromptFields) (int, error)
	Update(ctx context.Context, kind entity.TaskKind, id int, fields *entity.PromptFields) error
	Delete(ctx context.Context, kind entity.TaskKind, id int) error
}

// Catalog keeps the last successfully loaded prompt list of every
// collection. Entries never expire; they are replaced on refresh.
type Catalog struct {
	store Store
	lists *cache.Cache
}

func NewCatalog(store Store) *Catalog {
	return &Catalog{
		store: store,
		lists: cache.New(cache.NoExpiration, 0),
	}
}

// Refresh reloads the collection behind kind. On failure the previous
// list stays in place and the error is returned.
func (c *Catalog) Refresh(ctx context.Context, kind entity.TaskKind) ([]entity.Prompt, error) {
	store, err := storeOf(kind)
	if err != nil {
		return nil, err
	}

	list, err := c.store.List(ctx, kind)
	if err != nil {
		ctxzap.Warn(ctx, "prompt list refresh failed, keeping cached list",
			zap.String("store", store),
			zap.Error(err),
		)
		return c.Prompts(kind), err
	}

	c.lists.Set(store, list, cache.NoExpiration)
	return filterKind(kind, list), nil
}

// Prompts returns the cached list for kind; speaking kinds share one
// collection and are filtered by part.
func (c *Catalog) Prompts(kind entity.TaskKind) []entity.Prompt {
	store := kind.PromptStore()
	if store == "" {
		return nil
	}
	cached, ok := c.lists.Get(store)
	if !ok {
		return nil
	}
	return filterKind(kind, cached.([]entity.Prompt))
}

// Find returns the cached prompt with id
func (c *Catalog) Find(kind entity.TaskKind, id int) (*entity.Prompt, error) {
	for _, p := range c.Prompts(kind) {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s #%d", entity.ErrPromptNotFound, kind.Label(), id)
}

// Save creates a prompt when id is zero and updates it otherwise. The
// cached list is only reloaded after the backend accepted the write.
func (c *Catalog) Save(ctx context.Context, kind entity.TaskKind, id int, fields *entity.PromptFields) (int, error) {
	if part := kind.SpeakingPart(); part > 0 && fields.Part == 0 {
		fields.Part = part
	}

	if id == 0 {
		newID, err := c.store.Create(ctx, kind, fields)
		if err != nil {
			return 0, err
		}
		id = newID
	} else if err := c.store.Update(ctx, kind, id, fields); err != nil {
		return 0, err
	}

	c.refreshAfterWrite(ctx, kind)
	return id, nil
}

func (c *Catalog) Remove(ctx context.Context, kind entity.TaskKind, id int) error {
	if err := c.store.Delete(ctx, kind, id); err != nil {
		return err
	}
	c.refreshAfterWrite(ctx, kind)
	return nil
}

func (c *Catalog) refreshAfterWrite(ctx context.Context, kind entity.TaskKind) {
	// The write already succeeded; a failed reload only leaves a stale list.
	_, _ = c.Refresh(ctx, kind)
}

func filterKind(kind entity.TaskKind, list []entity.Prompt) []entity.Prompt {
	part := kind.SpeakingPart()
	if part == 0 {
		return list
	}

	filtered := make([]entity.Prompt, 0, len(list))
	for _, p := range list {
		if p.Part == part {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
