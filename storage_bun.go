package authcore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// SlotModel is the Bun model for persisted key/value slots.
type SlotModel struct {
	bun.BaseModel `bun:"table:auth_slots"`

	Key       string    `bun:"slot_key,pk"`
	Value     string    `bun:"slot_value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,default:current_timestamp"`
}

// BunStorage implements Storage on top of a single auth_slots table.
type BunStorage struct {
	db *bun.DB
}

var _ Storage = (*BunStorage)(nil)

// NewBunStorage creates a new slot store over db.
func NewBunStorage(db *bun.DB) *BunStorage {
	return &BunStorage{db: db}
}

// Init creates the backing table when it does not exist yet.
func (s *BunStorage) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*SlotModel)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create auth_slots table")
	}
	return nil
}

// Get implements Storage.
func (s *BunStorage) Get(ctx context.Context, key string) (string, error) {
	var model SlotModel
	err := s.db.NewSelect().
		Model(&model).
		Where("slot_key = ?", key).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrKeyNotFound.WithMetadata(map[string]any{
				"key": key,
			})
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read slot")
	}

	return model.Value, nil
}

// Set implements Storage. The slot is rewritten wholesale.
func (s *BunStorage) Set(ctx context.Context, key, value string) error {
	model := &SlotModel{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	_, err := s.db.NewInsert().
		Model(model).
		On("CONFLICT (slot_key) DO UPDATE").
		Set("slot_value = EXCLUDED.slot_value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to write slot")
	}

	return nil
}

// Delete implements Storage. Deleting an absent key is not an error.
func (s *BunStorage) Delete(ctx context.Context, key string) error {
	_, err := s.db.NewDelete().
		Model((*SlotModel)(nil)).
		Where("slot_key = ?", key).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete slot")
	}

	return nil
}
