package repository

import (
	"context"
	"time"

	"github.com/shsharma-work/manhwa-translator/internal/models"
	"github.com/shsharma-work/manhwa-translator/internal/store"
)

// UserRepository is the typed wrapper over the document store's users
// collection. Uniqueness of email/username is checked by the service layer
// before Create; the store contract itself has no unique-constraint
// primitive.
type UserRepository struct {
	store      store.Store
	collection string
}

func NewUserRepository(s store.Store, collection string) *UserRepository {
	return &UserRepository{store: s, collection: collection}
}

// Create persists a new user keyed by its UserID.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	_, err := r.store.Create(ctx, r.collection, u.UserID, toDocument(u))
	return err
}

// GetByID returns the user with the given id, or nil if absent.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	doc, err := r.store.Get(ctx, r.collection, id)
	if err != nil || doc == nil {
		return nil, err
	}
	return fromDocument(doc), nil
}

// GetByEmail returns the first user with the given email, or nil.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getByField(ctx, "email", email)
}

// GetByUsername returns the first user with the given username, or nil.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getByField(ctx, "username", username)
}

func (r *UserRepository) getByField(ctx context.Context, field, value string) (*models.User, error) {
	docs, err := r.store.Query(ctx, r.collection, field, store.OpEqual, value, 1)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return fromDocument(docs[0]), nil
}

// Update applies the given fields to the user and bumps updated_at.
func (r *UserRepository) Update(ctx context.Context, id string, fields store.Document) error {
	patch := make(store.Document, len(fields)+1)
	for k, v := range fields {
		patch[k] = v
	}
	patch["updated_at"] = time.Now().UTC()
	return r.store.Update(ctx, r.collection, id, patch)
}

// Delete removes the user record entirely.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, r.collection, id)
}

// List returns up to limit users in store order.
func (r *UserRepository) List(ctx context.Context, limit int64) ([]*models.User, error) {
	docs, err := r.store.List(ctx, r.collection, limit)
	if err != nil {
		return nil, err
	}
	users := make([]*models.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, fromDocument(doc))
	}
	return users, nil
}

func toDocument(u *models.User) store.Document {
	return store.Document{
		"email":           u.Email,
		"username":        u.Username,
		"hashed_password": u.HashedPassword,
		"created_at":      u.CreatedAt,
		"updated_at":      u.UpdatedAt,
		"is_active":       u.IsActive,
		"is_verified":     u.IsVerified,
	}
}

func fromDocument(doc store.Document) *models.User {
	return &models.User{
		UserID:         asString(doc["id"]),
		Email:          asString(doc["email"]),
		Username:       asString(doc["username"]),
		HashedPassword: asString(doc["hashed_password"]),
		CreatedAt:      asTime(doc["created_at"]),
		UpdatedAt:      asTime(doc["updated_at"]),
		IsActive:       asBool(doc["is_active"]),
		IsVerified:     asBool(doc["is_verified"]),
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// asTime reconstructs a timestamp from the store-native value: either a
// time.Time or a numeric epoch (seconds).
func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case int64:
		return time.Unix(t, 0).UTC()
	case float64:
		return time.Unix(int64(t), 0).UTC()
	default:
		return time.Time{}
	}
}
