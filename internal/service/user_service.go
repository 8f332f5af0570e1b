// Package service implements the business logic between handlers and repositories.
package service

import (
	"context"
	"time"

	"hearth/internal/cache"
	"hearth/internal/models"
	"hearth/internal/repository"
	"hearth/internal/validation"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles accounts, favorites and recommendations.
type UserService struct {
	users repository.UserRepository
	props repository.PropertyRepository
	cache *cache.Cache
}

// NewUserService returns a UserService with its dependencies injected.
func NewUserService(users repository.UserRepository, props repository.PropertyRepository, c *cache.Cache) *UserService {
	return &UserService{users: users, props: props, cache: c}
}

// Register creates a new account. The password is hashed here, at the call
// site, rather than by a persistence-layer hook.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := validation.ValidateName(req.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("User already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the credentials and returns the user. Unknown email
// and wrong password produce the same error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}
	return user, nil
}

// GetProfile is a read-through cache lookup by user id. The cached and fresh
// representations both exclude the password hash.
func (s *UserService) GetProfile(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id.Hex())

	err := s.cache.Aside(ctx, key, &user, cache.EntityTTL, func() error {
		fresh, err := s.users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		user = *fresh
		user.Password = ""
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile shallow-merges the patch and persists it. The cache entry is
// deleted, not refreshed (deliberately asymmetric with property updates).
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, patch models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if err := validation.ValidateName(*patch.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		if err := validation.ValidateEmail(*patch.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = *patch.Email
	}
	if patch.Password != nil {
		if err := validation.ValidatePassword(*patch.Password); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, models.NewInternalError(hashErr)
		}
		user.Password = string(hashed)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.cache.InvalidateUser(ctx, id.Hex())
	return user, nil
}

// AddFavorite records the property in the user's favorites set. Adding an
// already-favorited property is a no-op, so the call is idempotent.
func (s *UserService) AddFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, models.NewNotFoundError("User or property")
	}
	if _, err := s.props.GetByID(ctx, propertyID); err != nil {
		return nil, models.NewNotFoundError("User or property")
	}

	if !user.HasFavorite(propertyID) {
		if err := s.users.AddFavorite(ctx, userID, propertyID); err != nil {
			return nil, err
		}
		user.Favorites = append(user.Favorites, propertyID)
	}

	s.cache.InvalidateUser(ctx, userID.Hex())
	return user, nil
}

// RemoveFavorite removes the property by value match. Removing a property
// that is not favorited still succeeds, and the cache is invalidated either way.
func (s *UserService) RemoveFavorite(ctx context.Context, userID, propertyID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.users.RemoveFavorite(ctx, userID, propertyID); err != nil {
		return nil, err
	}

	kept := user.Favorites[:0]
	for _, fav := range user.Favorites {
		if fav != propertyID {
			kept = append(kept, fav)
		}
	}
	user.Favorites = kept

	s.cache.InvalidateUser(ctx, userID.Hex())
	return user, nil
}

// Recommend appends a recommendation to the recipient identified by email.
// A second recommendation of the same property by the same sender is rejected.
func (s *UserService) Recommend(ctx context.Context, senderID primitive.ObjectID, recipientEmail string, propertyID primitive.ObjectID) error {
	recipient, err := s.users.GetByEmail(ctx, recipientEmail)
	if err != nil {
		return err
	}
	if recipient == nil {
		return models.NewNotFoundError("Recipient or property")
	}
	if _, err := s.props.GetByID(ctx, propertyID); err != nil {
		return models.NewNotFoundError("Recipient or property")
	}

	if recipient.HasRecommendation(propertyID, senderID) {
		return models.NewConflictError("Property already recommended to this user")
	}

	rec := models.Recommendation{
		Property:      propertyID,
		RecommendedBy: senderID,
		Date:          time.Now(),
	}
	if err := s.users.AppendRecommendation(ctx, recipient.ID, rec); err != nil {
		return err
	}

	s.cache.InvalidateUser(ctx, recipient.ID.Hex())
	return nil
}

// GetRecommendations returns the user's received recommendations with each
// property and recommender identity (name/email only) resolved.
func (s *UserService) GetRecommendations(ctx context.Context, userID primitive.ObjectID) ([]models.ResolvedRecommendation, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resolved := make([]models.ResolvedRecommendation, 0, len(user.RecommendationsReceived))
	for _, rec := range user.RecommendationsReceived {
		entry := models.ResolvedRecommendation{Date: rec.Date}

		if prop, err := s.props.GetByID(ctx, rec.Property); err == nil {
			entry.Property = prop
		}
		if sender, err := s.users.GetByID(ctx, rec.RecommendedBy); err == nil {
			entry.RecommendedBy = sender.Summary()
		} else {
			entry.RecommendedBy = models.UserSummary{ID: rec.RecommendedBy}
		}

		resolved = append(resolved, entry)
	}
	return resolved, nil
}
