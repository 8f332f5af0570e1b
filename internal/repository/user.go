// Package repository implements the data access layer on top of MongoDB.
package repository

import (
	"context"
	"errors"
	"time"

	"hearth/internal/database"
	"hearth/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	AddFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) error
	RemoveFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) error
	AppendRecommendation(ctx context.Context, userID primitive.ObjectID, rec models.Recommendation) error
}

type userRepository struct {
	col *mongo.Collection
}

// NewUserRepository returns a MongoDB-backed UserRepository.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{col: database.Users(db)}
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundError("User")
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no user has the given email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Favorites == nil {
		user.Favorites = []primitive.ObjectID{}
	}
	if user.RecommendationsReceived == nil {
		user.RecommendationsReceived = []models.Recommendation{}
	}

	if _, err := r.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewConflictError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewConflictError("Email already in use")
		}
		return models.NewInternalError(err)
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError("User")
	}
	return nil
}

// AddFavorite relies on $addToSet, so repeated adds of the same property are
// no-ops at the store level as well as in the service.
func (r *userRepository) AddFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, userID, bson.M{
		"$addToSet": bson.M{"favorites": propertyID},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) RemoveFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"favorites": propertyID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) AppendRecommendation(ctx context.Context, userID primitive.ObjectID, rec models.Recommendation) error {
	_, err := r.col.UpdateByID(ctx, userID, bson.M{
		"$push": bson.M{"recommendationsReceived": rec},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
