package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ecank/nebula/internal/common"
	"github.com/ecank/nebula/internal/studio/models"
	"github.com/ecank/nebula/internal/studio/repositories/settings"
)

// Actors returns the locally stored voice presets.
func (m *Manager) Actors(ctx context.Context) ([]models.Actor, error) {
	raw, err := m.repo.Get(ctx, settings.KeyActors)
	if err != nil {
		return nil, fmt.Errorf("failed to load actors: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	var actors []models.Actor
	if err := json.Unmarshal(raw, &actors); err != nil {
		return nil, fmt.Errorf("failed to decode actors: %w", err)
	}
	return actors, nil
}

// SaveActor inserts or replaces an actor by id.
func (m *Manager) SaveActor(ctx context.Context, actor models.Actor) (models.Actor, error) {
	if actor.ID == "" {
		actor.ID = uuid.New().String()
	}

	actors, err := m.Actors(ctx)
	if err != nil {
		return models.Actor{}, err
	}

	replaced := false
	for i := range actors {
		if actors[i].ID == actor.ID {
			actors[i] = actor
			replaced = true
			break
		}
	}
	if !replaced {
		actors = append(actors, actor)
	}

	if err := m.storeActors(ctx, actors); err != nil {
		return models.Actor{}, err
	}
	return actor, nil
}

// DeleteActor removes an actor by id.
func (m *Manager) DeleteActor(ctx context.Context, id string) error {
	actors, err := m.Actors(ctx)
	if err != nil {
		return err
	}

	kept := actors[:0]
	for _, a := range actors {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(actors) {
		return common.ErrNotFound
	}
	return m.storeActors(ctx, kept)
}

func (m *Manager) storeActors(ctx context.Context, actors []models.Actor) error {
	raw, err := json.Marshal(actors)
	if err != nil {
		return fmt.Errorf("failed to encode actors: %w", err)
	}
	return m.repo.Set(ctx, settings.KeyActors, raw)
}
