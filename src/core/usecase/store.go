// Package usecase contains the application services behind the HTTP
// handlers. Services validate input, call the repository port, and keep all
// storage concerns behind it.
package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"lexbridge/src/core/domain"
	"lexbridge/src/core/ports"
)

// StoreService exposes the document-store operations: list, upsert, delete.
type StoreService struct {
	repo ports.DocumentRepository
	log  *slog.Logger
}

// NewStoreService creates a new StoreService.
func NewStoreService(repo ports.DocumentRepository, log *slog.Logger) *StoreService {
	return &StoreService{repo: repo, log: log}
}

// List returns the content of every record in the named store, newest
// update first. An empty store is an empty slice, not an error.
func (s *StoreService) List(ctx context.Context, store string) ([]json.RawMessage, error) {
	if !domain.ValidStoreName(store) {
		return nil, domain.NewValidationError("store", "invalid store name")
	}
	return s.repo.List(ctx, store)
}

// Upsert validates the document, then inserts or replaces the record keyed
// by its id. The id is client-supplied and globally unique across stores;
// re-upserting an id under a different store moves the record there.
func (s *StoreService) Upsert(ctx context.Context, store string, doc map[string]any) (string, error) {
	if !domain.ValidStoreName(store) {
		return "", domain.NewValidationError("store", "invalid store name")
	}
	id := documentID(doc)
	if id == "" {
		return "", domain.NewValidationError("id", "record id is required")
	}

	content, err := json.Marshal(doc)
	if err != nil {
		return "", domain.NewValidationError("content", "document is not serializable")
	}

	rec := domain.Record{
		ID:      id,
		Store:   store,
		Content: content,
	}
	if err := s.repo.Upsert(ctx, rec); err != nil {
		return "", err
	}
	s.log.Debug("record upserted", "store", store, "id", id)
	return id, nil
}

// Delete removes a record by id alone. Idempotent: deleting an id that does
// not exist still succeeds, and the caller cannot tell the difference.
func (s *StoreService) Delete(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", domain.NewValidationError("id", "record id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

// documentID extracts the record id from a decoded JSON document. The
// frontend sends string ids; numeric ids are tolerated and stringified.
func documentID(doc map[string]any) string {
	switch v := doc["id"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
