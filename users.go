package authcore

import (
	"context"
	"encoding/json"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultUsersSlot is the storage key holding the full user collection.
const DefaultUsersSlot = "auravision.users"

// Users is the persistent user store: one storage slot holding the whole
// collection as a JSON document, deserialized fresh on every read and
// rewritten wholesale on every mutation.
type Users interface {
	Add(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByNickname(ctx context.Context, nickname string) (*User, error)
	FindByIdentifier(ctx context.Context, identifier string) (*User, error)
	Update(ctx context.Context, id string, fields UserUpdate) error
	All(ctx context.Context) ([]*User, error)
	Count(ctx context.Context) (int, error)
}

// ErrUserNotFound is the store's absence sentinel.
var ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
	WithTextCode("USER_NOT_FOUND").
	WithCode(goerrors.CodeNotFound)

// IsUserNotFound reports whether err is the store's absence sentinel.
func IsUserNotFound(err error) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == "USER_NOT_FOUND"
	}
	return false
}

type users struct {
	storage Storage
	slot    string
	logger  Logger
}

var _ Users = (*users)(nil)

// UsersOption customizes the repository.
type UsersOption func(*users)

// WithUsersSlot overrides the storage key holding the collection.
func WithUsersSlot(key string) UsersOption {
	return func(u *users) {
		if key != "" {
			u.slot = key
		}
	}
}

// WithUsersLogger overrides the logger used for degraded reads.
func WithUsersLogger(logger Logger) UsersOption {
	return func(u *users) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// NewUsersRepository returns a Users store backed by the given storage port.
func NewUsersRepository(storage Storage, opts ...UsersOption) Users {
	repo := &users{
		storage: storage,
		slot:    DefaultUsersSlot,
		logger:  defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(repo)
		}
	}

	return repo
}

// load reads and deserializes the full collection. Read or parse failures
// degrade to an empty collection: the store fails open, never fatal.
func (u *users) load(ctx context.Context) []*User {
	raw, err := u.storage.Get(ctx, u.slot)
	if err != nil {
		if !IsKeyNotFound(err) {
			u.logger.Warn("users slot read failed, treating as empty: %v", err)
		}
		return nil
	}

	var records []*User
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		u.logger.Warn("users slot corrupted, treating as empty: %v", err)
		return nil
	}

	for _, record := range records {
		if record != nil {
			record.EnsureRole()
		}
	}

	return records
}

func (u *users) save(ctx context.Context, records []*User) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to serialize user collection")
	}

	if err := u.storage.Set(ctx, u.slot, string(raw)); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist user collection")
	}

	return nil
}

// Add appends user to the collection. No uniqueness is enforced: duplicate
// emails and nicknames are persisted as-is.
func (u *users) Add(ctx context.Context, user *User) error {
	if user == nil {
		return goerrors.New("user must not be nil", goerrors.CategoryBadInput)
	}
	user.EnsureRole()

	records := u.load(ctx)
	records = append(records, user)

	return u.save(ctx, records)
}

// FindByEmail returns the first record with a matching email.
func (u *users) FindByEmail(ctx context.Context, email string) (*User, error) {
	return u.findBy(ctx, func(record *User) bool {
		return record.Email == email
	}, map[string]any{"email": email})
}

// FindByNickname returns the first record with a matching nickname.
func (u *users) FindByNickname(ctx context.Context, nickname string) (*User, error) {
	return u.findBy(ctx, func(record *User) bool {
		return record.Nickname == nickname
	}, map[string]any{"nickname": nickname})
}

// FindByIdentifier resolves by email first, falling back to nickname.
func (u *users) FindByIdentifier(ctx context.Context, identifier string) (*User, error) {
	user, err := u.FindByEmail(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !IsUserNotFound(err) {
		return nil, err
	}

	return u.FindByNickname(ctx, identifier)
}

func (u *users) findBy(ctx context.Context, match func(*User) bool, meta map[string]any) (*User, error) {
	for _, record := range u.load(ctx) {
		if record == nil {
			continue
		}
		if match(record) {
			return record, nil
		}
	}

	return nil, ErrUserNotFound.WithMetadata(meta)
}

// Update merges fields into the record with the given id. Absent ids are a
// no-op, not an error.
func (u *users) Update(ctx context.Context, id string, fields UserUpdate) error {
	records := u.load(ctx)

	updated := false
	for _, record := range records {
		if record == nil || record.ID != id {
			continue
		}
		fields.apply(record)
		updated = true
		break
	}

	if !updated {
		return nil
	}

	return u.save(ctx, records)
}

// All returns a snapshot of the collection.
func (u *users) All(ctx context.Context) ([]*User, error) {
	return u.load(ctx), nil
}

// Count returns the number of stored records.
func (u *users) Count(ctx context.Context) (int, error) {
	return len(u.load(ctx)), nil
}
