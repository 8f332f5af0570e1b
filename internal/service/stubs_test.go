package service

import (
	"context"
	"testing"

	"hearth/internal/cache"
	"hearth/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubUserRepo implements repository.UserRepository with overridable funcs.
// Nil funcs fall back to a sensible default so tests only set what they assert.
type stubUserRepo struct {
	getByID              func(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	getByEmail           func(ctx context.Context, email string) (*models.User, error)
	create               func(ctx context.Context, user *models.User) error
	update               func(ctx context.Context, user *models.User) error
	addFavorite          func(ctx context.Context, userID, propertyID primitive.ObjectID) error
	removeFavorite       func(ctx context.Context, userID, propertyID primitive.ObjectID) error
	appendRecommendation func(ctx context.Context, userID primitive.ObjectID, rec models.Recommendation) error
}

func (s *stubUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if s.getByID != nil {
		return s.getByID(ctx, id)
	}
	return nil, models.NewNotFoundError("User")
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.getByEmail != nil {
		return s.getByEmail(ctx, email)
	}
	return nil, nil
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	if s.create != nil {
		return s.create(ctx, user)
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	return nil
}

func (s *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	if s.update != nil {
		return s.update(ctx, user)
	}
	return nil
}

func (s *stubUserRepo) AddFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) error {
	if s.addFavorite != nil {
		return s.addFavorite(ctx, userID, propertyID)
	}
	return nil
}

func (s *stubUserRepo) RemoveFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) error {
	if s.removeFavorite != nil {
		return s.removeFavorite(ctx, userID, propertyID)
	}
	return nil
}

func (s *stubUserRepo) AppendRecommendation(ctx context.Context, userID primitive.ObjectID, rec models.Recommendation) error {
	if s.appendRecommendation != nil {
		return s.appendRecommendation(ctx, userID, rec)
	}
	return nil
}

// stubPropertyRepo implements repository.PropertyRepository with overridable funcs.
type stubPropertyRepo struct {
	create      func(ctx context.Context, property *models.Property) error
	createMany  func(ctx context.Context, properties []models.Property) error
	getByID     func(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	updateOwned func(ctx context.Context, id, ownerID primitive.ObjectID, patch *models.UpdatePropertyRequest) (*models.Property, error)
	deleteOwned func(ctx context.Context, id, ownerID primitive.ObjectID) (bool, error)
	search      func(ctx context.Context, q models.SearchQuery) ([]models.Property, int64, error)
}

func (s *stubPropertyRepo) Create(ctx context.Context, property *models.Property) error {
	if s.create != nil {
		return s.create(ctx, property)
	}
	if property.ID.IsZero() {
		property.ID = primitive.NewObjectID()
	}
	return nil
}

func (s *stubPropertyRepo) CreateMany(ctx context.Context, properties []models.Property) error {
	if s.createMany != nil {
		return s.createMany(ctx, properties)
	}
	return nil
}

func (s *stubPropertyRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	if s.getByID != nil {
		return s.getByID(ctx, id)
	}
	return nil, models.NewNotFoundError("Property")
}

func (s *stubPropertyRepo) UpdateOwned(ctx context.Context, id, ownerID primitive.ObjectID, patch *models.UpdatePropertyRequest) (*models.Property, error) {
	if s.updateOwned != nil {
		return s.updateOwned(ctx, id, ownerID, patch)
	}
	return nil, nil
}

func (s *stubPropertyRepo) DeleteOwned(ctx context.Context, id, ownerID primitive.ObjectID) (bool, error) {
	if s.deleteOwned != nil {
		return s.deleteOwned(ctx, id, ownerID)
	}
	return false, nil
}

func (s *stubPropertyRepo) Search(ctx context.Context, q models.SearchQuery) ([]models.Property, int64, error) {
	if s.search != nil {
		return s.search(ctx, q)
	}
	return []models.Property{}, 0, nil
}

// newTestCache returns a Cache backed by an in-process miniredis.
func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.New(client), mr
}
