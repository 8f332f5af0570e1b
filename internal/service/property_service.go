package service

import (
	"context"

	"hearth/internal/cache"
	"hearth/internal/models"
	"hearth/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultSearchPage  = 1
	defaultSearchLimit = 10
)

// errPropertyNotOwned is the collapsed failure for update/delete: callers
// cannot tell whether the property does not exist or belongs to someone else.
func errPropertyNotOwned() *models.AppError {
	return models.NewValidationError("Property not found or not authorized")
}

// PropertyService handles listing CRUD and filtered search.
type PropertyService struct {
	props repository.PropertyRepository
	users repository.UserRepository
	cache *cache.Cache
}

// NewPropertyService returns a PropertyService with its dependencies injected.
func NewPropertyService(props repository.PropertyRepository, users repository.UserRepository, c *cache.Cache) *PropertyService {
	return &PropertyService{props: props, users: users, cache: c}
}

// Create persists a new listing owned by ownerID.
func (s *PropertyService) Create(ctx context.Context, req models.CreatePropertyRequest, ownerID primitive.ObjectID) (*models.Property, error) {
	if req.Title == "" {
		return nil, models.NewValidationError("title is required")
	}
	if req.Type == "" {
		return nil, models.NewValidationError("type is required")
	}

	property := &models.Property{
		Title:         req.Title,
		Type:          req.Type,
		Price:         req.Price,
		State:         req.State,
		City:          req.City,
		AreaSqFt:      req.AreaSqFt,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		Amenities:     req.Amenities,
		Furnished:     req.Furnished,
		AvailableFrom: req.AvailableFrom,
		ListedBy:      req.ListedBy,
		Tags:          req.Tags,
		ColorTheme:    req.ColorTheme,
		Rating:        req.Rating,
		IsVerified:    req.IsVerified,
		ListingType:   req.ListingType,
		CreatedBy:     ownerID,
	}
	if err := s.props.Create(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

// GetByID is a read-through cache lookup. On a miss the property is loaded
// with its owner's name/email joined in, and the composed document is cached
// for the entity TTL.
func (s *PropertyService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PropertyDetail, error) {
	var detail models.PropertyDetail
	key := cache.PropertyKey(id.Hex())

	err := s.cache.Aside(ctx, key, &detail, cache.EntityTTL, func() error {
		property, err := s.props.GetByID(ctx, id)
		if err != nil {
			return err
		}
		detail = s.withOwner(ctx, *property)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// Update applies the patch to the property scoped to (id, ownerID) and then
// refreshes the cache entry in place (overwrites rather than deletes, so
// readers see the update immediately).
func (s *PropertyService) Update(ctx context.Context, id, ownerID primitive.ObjectID, patch models.UpdatePropertyRequest) (*models.PropertyDetail, error) {
	updated, err := s.props.UpdateOwned(ctx, id, ownerID, &patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, errPropertyNotOwned()
	}

	detail := s.withOwner(ctx, *updated)
	_ = s.cache.SetJSON(ctx, cache.PropertyKey(id.Hex()), detail, cache.EntityTTL)
	return &detail, nil
}

// Delete removes the property scoped to (id, ownerID) and invalidates its
// cache entry.
func (s *PropertyService) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	deleted, err := s.props.DeleteOwned(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return errPropertyNotOwned()
	}

	s.cache.InvalidateProperty(ctx, id.Hex())
	return nil
}

// Search runs the filtered, sorted, paginated query and joins owner
// identities onto the result page. No upper bound is enforced on the limit.
func (s *PropertyService) Search(ctx context.Context, q models.SearchQuery) (*models.SearchResult, error) {
	if q.Page <= 0 {
		q.Page = defaultSearchPage
	}
	if q.Limit <= 0 {
		q.Limit = defaultSearchLimit
	}

	properties, total, err := s.props.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	// Owners repeat across a result page; resolve each one once.
	owners := map[primitive.ObjectID]*models.UserSummary{}
	details := make([]models.PropertyDetail, 0, len(properties))
	for _, property := range properties {
		owner, seen := owners[property.CreatedBy]
		if !seen {
			owner = s.ownerSummary(ctx, property.CreatedBy)
			owners[property.CreatedBy] = owner
		}
		details = append(details, models.PropertyDetail{Property: property, Owner: owner})
	}

	pages := int((total + int64(q.Limit) - 1) / int64(q.Limit))

	return &models.SearchResult{
		Properties: details,
		Page:       q.Page,
		Pages:      pages,
		Total:      total,
	}, nil
}

func (s *PropertyService) withOwner(ctx context.Context, property models.Property) models.PropertyDetail {
	return models.PropertyDetail{
		Property: property,
		Owner:    s.ownerSummary(ctx, property.CreatedBy),
	}
}

// ownerSummary resolves a user's name/email; a dangling owner reference
// yields nil rather than failing the property lookup.
func (s *PropertyService) ownerSummary(ctx context.Context, ownerID primitive.ObjectID) *models.UserSummary {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil
	}
	summary := owner.Summary()
	return &summary
}
