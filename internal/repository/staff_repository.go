package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spec-kit/safety-roster/internal/domain"
	"github.com/spec-kit/safety-roster/internal/persistence"
)

// StaffKeyPrefix namespaces staff records in the store.
const StaffKeyPrefix = "staff:"

// ErrNotFound is returned when no record is stored for an id.
var ErrNotFound = errors.New("staff record not found")

// StaffKey returns the store key for a canonical id.
func StaffKey(id string) string {
	return StaffKeyPrefix + id
}

// IDFromKey strips the namespace from a store key.
func IDFromKey(key string) string {
	return strings.TrimPrefix(key, StaffKeyPrefix)
}

// StaffRepository maps staff records onto the key-value store.
type StaffRepository interface {
	// Get returns ErrNotFound when absent and wraps ErrMalformedRecord when undecodable.
	Get(ctx context.Context, id string) (*domain.StaffRecord, error)
	// Put replaces whatever is stored for rec.ID.
	Put(ctx context.Context, rec domain.StaffRecord) error
	// Keys lists the store keys of every staff record.
	Keys(ctx context.Context) ([]string, error)
	// GetByKey behaves like Get for a raw store key.
	GetByKey(ctx context.Context, key string) (*domain.StaffRecord, error)
}

type staffRepository struct {
	store persistence.KVStore
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(store persistence.KVStore) StaffRepository {
	return &staffRepository{store: store}
}

func (r *staffRepository) Get(ctx context.Context, id string) (*domain.StaffRecord, error) {
	return r.GetByKey(ctx, StaffKey(id))
}

func (r *staffRepository) GetByKey(ctx context.Context, key string) (*domain.StaffRecord, error) {
	raw, found, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	if !found {
		return nil, ErrNotFound
	}
	rec, err := DecodeRecord(IDFromKey(key), raw)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *staffRepository) Put(ctx context.Context, rec domain.StaffRecord) error {
	encoded, err := EncodeRecord(rec)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, StaffKey(rec.ID), encoded); err != nil {
		return fmt.Errorf("set %s: %w", StaffKey(rec.ID), err)
	}
	return nil
}

func (r *staffRepository) Keys(ctx context.Context) ([]string, error) {
	keys, err := r.store.List(ctx, StaffKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", StaffKeyPrefix, err)
	}
	return keys, nil
}
