package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/workix/fieldsync/internal/crypto"
	"github.com/workix/fieldsync/internal/store"
	"github.com/workix/fieldsync/models"
)

type cacheService struct {
	cache  store.EntityCacheRepository
	cipher crypto.CipherService
}

// NewCacheService wires the decrypted read side of the entity cache.
func NewCacheService(storages *store.Storages, cipher crypto.CipherService) CacheService {
	return &cacheService{cache: storages.EntityCache, cipher: cipher}
}

func (s *cacheService) GetCachedEntity(ctx context.Context, id string) (models.EntitySnapshot, error) {
	entity, err := s.cache.GetEntity(ctx, id)
	if err != nil {
		return models.EntitySnapshot{}, fmt.Errorf("get cached entity %s: %w", id, err)
	}
	return s.decrypt(ctx, entity)
}

func (s *cacheService) ListCachedEntities(ctx context.Context, entityType string) ([]models.EntitySnapshot, error) {
	entities, err := s.cache.ListEntities(ctx, entityType)
	if err != nil {
		return nil, fmt.Errorf("list cached %s: %w", entityType, err)
	}

	snapshots := make([]models.EntitySnapshot, 0, len(entities))
	for _, entity := range entities {
		snapshot, err := s.decrypt(ctx, entity)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

func (s *cacheService) decrypt(ctx context.Context, entity models.CachedEntity) (models.EntitySnapshot, error) {
	var payload json.RawMessage
	if err := s.cipher.Decrypt(ctx, entity.Payload, &payload); err != nil {
		return models.EntitySnapshot{}, fmt.Errorf("decrypt cached entity %s: %w", entity.ID, err)
	}
	return models.EntitySnapshot{
		ID:        entity.ID,
		Payload:   payload,
		UpdatedAt: entity.UpdatedAt,
	}, nil
}
