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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PropertyRepository defines persistence operations for property listings.
type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	CreateMany(ctx context.Context, properties []models.Property) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	// UpdateOwned applies the patch to the property only when it exists AND is
	// owned by ownerID; it returns (nil, nil) when no document matched, leaving
	// the not-found/not-owned distinction deliberately unresolved.
	UpdateOwned(ctx context.Context, id, ownerID primitive.ObjectID, patch *models.UpdatePropertyRequest) (*models.Property, error)
	// DeleteOwned reports whether a document scoped to (id, ownerID) was deleted.
	DeleteOwned(ctx context.Context, id, ownerID primitive.ObjectID) (bool, error)
	Search(ctx context.Context, q models.SearchQuery) ([]models.Property, int64, error)
}

type propertyRepository struct {
	col *mongo.Collection
}

// NewPropertyRepository returns a MongoDB-backed PropertyRepository.
func NewPropertyRepository(db *mongo.Database) PropertyRepository {
	return &propertyRepository{col: database.Properties(db)}
}

func (r *propertyRepository) Create(ctx context.Context, property *models.Property) error {
	if property.ID.IsZero() {
		property.ID = primitive.NewObjectID()
	}
	now := time.Now()
	property.CreatedAt = now
	property.UpdatedAt = now
	if property.Amenities == nil {
		property.Amenities = []string{}
	}
	if property.Tags == nil {
		property.Tags = []string{}
	}

	if _, err := r.col.InsertOne(ctx, property); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *propertyRepository) CreateMany(ctx context.Context, properties []models.Property) error {
	if len(properties) == 0 {
		return nil
	}
	docs := make([]any, 0, len(properties))
	now := time.Now()
	for i := range properties {
		if properties[i].ID.IsZero() {
			properties[i].ID = primitive.NewObjectID()
		}
		properties[i].CreatedAt = now
		properties[i].UpdatedAt = now
		docs = append(docs, properties[i])
	}
	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *propertyRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var property models.Property
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&property); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundError("Property")
		}
		return nil, models.NewInternalError(err)
	}
	return &property, nil
}

func (r *propertyRepository) UpdateOwned(ctx context.Context, id, ownerID primitive.ObjectID, patch *models.UpdatePropertyRequest) (*models.Property, error) {
	set := buildPatchDoc(patch)
	set["updatedAt"] = time.Now()

	var updated models.Property
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "createdBy": ownerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &updated, nil
}

func (r *propertyRepository) DeleteOwned(ctx context.Context, id, ownerID primitive.ObjectID) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "createdBy": ownerID})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return res.DeletedCount > 0, nil
}

func (r *propertyRepository) Search(ctx context.Context, q models.SearchQuery) ([]models.Property, int64, error) {
	filter := BuildSearchFilter(q)

	findOpts := options.Find().
		SetSkip(int64((q.Page - 1) * q.Limit)).
		SetLimit(int64(q.Limit))
	if sort := BuildSortDoc(q.SortBy); len(sort) > 0 {
		findOpts.SetSort(sort)
	}

	cursor, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	return properties, total, nil
}

// buildPatchDoc converts the typed patch into a $set document, skipping nil fields.
func buildPatchDoc(patch *models.UpdatePropertyRequest) bson.M {
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Type != nil {
		set["type"] = *patch.Type
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.State != nil {
		set["state"] = *patch.State
	}
	if patch.City != nil {
		set["city"] = *patch.City
	}
	if patch.AreaSqFt != nil {
		set["areaSqFt"] = *patch.AreaSqFt
	}
	if patch.Bedrooms != nil {
		set["bedrooms"] = *patch.Bedrooms
	}
	if patch.Bathrooms != nil {
		set["bathrooms"] = *patch.Bathrooms
	}
	if patch.Amenities != nil {
		set["amenities"] = patch.Amenities
	}
	if patch.Furnished != nil {
		set["furnished"] = *patch.Furnished
	}
	if patch.AvailableFrom != nil {
		set["availableFrom"] = *patch.AvailableFrom
	}
	if patch.ListedBy != nil {
		set["listedBy"] = *patch.ListedBy
	}
	if patch.Tags != nil {
		set["tags"] = patch.Tags
	}
	if patch.ColorTheme != nil {
		set["colorTheme"] = *patch.ColorTheme
	}
	if patch.Rating != nil {
		set["rating"] = *patch.Rating
	}
	if patch.IsVerified != nil {
		set["isVerified"] = *patch.IsVerified
	}
	if patch.ListingType != nil {
		set["listingType"] = *patch.ListingType
	}
	return set
}
