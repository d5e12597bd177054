// Package settings persists the user's hourly rate and savings percentage.
// The values live in a single well-known document so every device reads and
// writes the same record.
package settings

import (
	"context"
	"errors"

	"winner/internal/core"
	"winner/internal/store"
)

// DocumentID is the fixed id of the settings record.
const DocumentID = "hourly"

type Service struct {
	repo store.Repository
}

func NewService(repo store.Repository) *Service {
	return &Service{repo: repo}
}

// Load returns the stored settings, or zero defaults when none exist yet.
func (s *Service) Load(ctx context.Context) (core.UserSettings, error) {
	rec, err := s.repo.Get(ctx, store.UserSettings, DocumentID)
	if errors.Is(err, core.ErrNotFound) {
		return core.UserSettings{}, nil
	}
	if err != nil {
		return core.UserSettings{}, err
	}
	return store.DecodeUserSettings(rec), nil
}

// Save normalizes and upserts the settings document.
func (s *Service) Save(ctx context.Context, in core.UserSettings) (core.UserSettings, error) {
	in = in.Normalize()
	if err := s.repo.Put(ctx, store.UserSettings, DocumentID, store.EncodeUserSettings(in)); err != nil {
		return core.UserSettings{}, err
	}
	return in, nil
}
