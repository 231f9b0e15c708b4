package permissions

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hrportal/internal/platform/cache"
)

const cacheKey = "config:permissions"

type Service struct {
	store    StoreAPI
	cache    cache.Store
	cacheTTL time.Duration
}

func NewService(store StoreAPI, c cache.Store, cacheTTL time.Duration) *Service {
	return &Service{store: store, cache: c, cacheTTL: cacheTTL}
}

// Document returns the stored document laid over the compiled-in defaults,
// so callers always see every role and capability.
func (s *Service) Document(ctx context.Context) (Document, error) {
	if s.cache != nil {
		var cached Document
		found, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			slog.Warn("permissions cache read failed", "err", err)
		} else if found {
			return Defaults().Merge(cached), nil
		}
	}

	stored, err := s.store.LoadDocument(ctx)
	if errors.Is(err, ErrNotStored) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, err
	}
	doc := Defaults().Merge(stored)

	if s.cache != nil {
		// a Save that landed after our load has already written the cache
		if _, err := s.cache.Add(ctx, cacheKey, doc, s.cacheTTL); err != nil {
			slog.Warn("permissions cache write failed", "err", err)
		}
	}
	return doc, nil
}

// Save persists the whole document. Partial documents and documents that
// revoke a locked capability are rejected.
func (s *Service) Save(ctx context.Context, doc Document, updatedBy string) (Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if err := doc.Enforce(); err != nil {
		return nil, err
	}
	if err := s.store.SaveDocument(ctx, doc, updatedBy); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, Defaults().Merge(doc), s.cacheTTL); err != nil {
			slog.Warn("permissions cache write failed", "err", err)
			// a stale entry must not outlive the write
			_ = s.cache.Delete(ctx, cacheKey)
		}
	}
	return doc.Clone(), nil
}

func (s *Service) Policy(ctx context.Context) (Policy, error) {
	doc, err := s.Document(ctx)
	if err != nil {
		return nil, err
	}
	return NewPolicy(doc), nil
}
