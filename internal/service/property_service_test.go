package service

import (
	"context"
	"testing"

	"hearth/internal/cache"
	"hearth/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func fakeProperty(owner primitive.ObjectID) models.Property {
	return models.Property{
		ID:        primitive.NewObjectID(),
		Title:     gofakeit.Sentence(3),
		Type:      "apartment",
		Price:     gofakeit.Price(50000, 500000),
		State:     gofakeit.State(),
		City:      gofakeit.City(),
		CreatedBy: owner,
	}
}

func TestCreateRequiresTitleAndType(t *testing.T) {
	c, _ := newTestCache(t)
	svc := NewPropertyService(&stubPropertyRepo{}, &stubUserRepo{}, c)
	ownerID := primitive.NewObjectID()

	_, err := svc.Create(context.Background(), models.CreatePropertyRequest{Type: "villa"}, ownerID)
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	_, err = svc.Create(context.Background(), models.CreatePropertyRequest{Title: "Lake House"}, ownerID)
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
}

func TestCreateSetsOwner(t *testing.T) {
	var created *models.Property
	props := &stubPropertyRepo{
		create: func(_ context.Context, p *models.Property) error {
			p.ID = primitive.NewObjectID()
			created = p
			return nil
		},
	}
	c, _ := newTestCache(t)
	svc := NewPropertyService(props, &stubUserRepo{}, c)
	ownerID := primitive.NewObjectID()

	property, err := svc.Create(context.Background(), models.CreatePropertyRequest{
		Title: "Lake House",
		Type:  "villa",
		Price: 250000,
	}, ownerID)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, ownerID, property.CreatedBy)
}

func TestGetByIDReadsThroughCache(t *testing.T) {
	ownerID := primitive.NewObjectID()
	property := fakeProperty(ownerID)
	lookups := 0
	props := &stubPropertyRepo{
		getByID: func(context.Context, primitive.ObjectID) (*models.Property, error) {
			lookups++
			return &property, nil
		},
	}
	users := &stubUserRepo{
		getByID: func(context.Context, primitive.ObjectID) (*models.User, error) {
			return &models.User{ID: ownerID, Name: "Owner", Email: "owner@example.com"}, nil
		},
	}
	c, mr := newTestCache(t)
	svc := NewPropertyService(props, users, c)

	first, err := svc.GetByID(context.Background(), property.ID)
	require.NoError(t, err)
	require.NotNil(t, first.Owner)
	assert.Equal(t, "Owner", first.Owner.Name)
	assert.Equal(t, 1, lookups)
	assert.True(t, mr.Exists(cache.PropertyKey(property.ID.Hex())))

	second, err := svc.GetByID(context.Background(), property.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, lookups, "second lookup should be served from cache")
	assert.Equal(t, first.Title, second.Title)
}

func TestGetByIDMissing(t *testing.T) {
	c, _ := newTestCache(t)
	svc := NewPropertyService(&stubPropertyRepo{}, &stubUserRepo{}, c)

	_, err := svc.GetByID(context.Background(), primitive.NewObjectID())
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestUpdateRefreshesCache(t *testing.T) {
	ownerID := primitive.NewObjectID()
	property := fakeProperty(ownerID)
	props := &stubPropertyRepo{
		updateOwned: func(_ context.Context, _, _ primitive.ObjectID, patch *models.UpdatePropertyRequest) (*models.Property, error) {
			updated := property
			updated.Title = *patch.Title
			return &updated, nil
		},
	}
	c, mr := newTestCache(t)
	svc := NewPropertyService(props, &stubUserRepo{}, c)

	require.NoError(t, mr.Set(cache.PropertyKey(property.ID.Hex()), `{"title":"stale"}`))

	title := "Renovated Lake House"
	detail, err := svc.Update(context.Background(), property.ID, ownerID, models.UpdatePropertyRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, detail.Title)

	// The cache entry is overwritten in place, not deleted.
	var cached models.PropertyDetail
	found, err := c.GetJSON(context.Background(), cache.PropertyKey(property.ID.Hex()), &cached)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, title, cached.Title)
}

func TestUpdateNotOwnedCollapses(t *testing.T) {
	c, _ := newTestCache(t)
	svc := NewPropertyService(&stubPropertyRepo{}, &stubUserRepo{}, c)

	title := "nope"
	_, err := svc.Update(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(),
		models.UpdatePropertyRequest{Title: &title})
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	assert.Equal(t, "Property not found or not authorized", err.Error())
}

func TestDeleteInvalidatesCache(t *testing.T) {
	id := primitive.NewObjectID()
	props := &stubPropertyRepo{
		deleteOwned: func(context.Context, primitive.ObjectID, primitive.ObjectID) (bool, error) {
			return true, nil
		},
	}
	c, mr := newTestCache(t)
	svc := NewPropertyService(props, &stubUserRepo{}, c)

	require.NoError(t, mr.Set(cache.PropertyKey(id.Hex()), `{}`))

	require.NoError(t, svc.Delete(context.Background(), id, primitive.NewObjectID()))
	assert.False(t, mr.Exists(cache.PropertyKey(id.Hex())))
}

func TestDeleteNotOwnedCollapses(t *testing.T) {
	c, _ := newTestCache(t)
	svc := NewPropertyService(&stubPropertyRepo{}, &stubUserRepo{}, c)

	err := svc.Delete(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	require.Error(t, err)
	assert.Equal(t, "Property not found or not authorized", err.Error())
}

func TestSearchPaginationMath(t *testing.T) {
	ownerID := primitive.NewObjectID()
	props := &stubPropertyRepo{
		search: func(_ context.Context, q models.SearchQuery) ([]models.Property, int64, error) {
			assert.Equal(t, 1, q.Page, "zero page defaults to 1")
			assert.Equal(t, 10, q.Limit, "zero limit defaults to 10")
			page := make([]models.Property, 10)
			for i := range page {
				page[i] = fakeProperty(ownerID)
			}
			return page, 25, nil
		},
	}
	users := &stubUserRepo{
		getByID: func(context.Context, primitive.ObjectID) (*models.User, error) {
			return &models.User{ID: ownerID, Name: "Owner"}, nil
		},
	}
	c, _ := newTestCache(t)
	svc := NewPropertyService(props, users, c)

	result, err := svc.Search(context.Background(), models.SearchQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 3, result.Pages)
	assert.Equal(t, int64(25), result.Total)
	assert.Len(t, result.Properties, 10)
}

func TestSearchMemoizesOwnerLookups(t *testing.T) {
	ownerID := primitive.NewObjectID()
	lookups := 0
	props := &stubPropertyRepo{
		search: func(context.Context, models.SearchQuery) ([]models.Property, int64, error) {
			return []models.Property{fakeProperty(ownerID), fakeProperty(ownerID), fakeProperty(ownerID)}, 3, nil
		},
	}
	users := &stubUserRepo{
		getByID: func(context.Context, primitive.ObjectID) (*models.User, error) {
			lookups++
			return &models.User{ID: ownerID, Name: "Owner"}, nil
		},
	}
	c, _ := newTestCache(t)
	svc := NewPropertyService(props, users, c)

	result, err := svc.Search(context.Background(), models.SearchQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, result.Properties, 3)
	assert.Equal(t, 1, lookups, "one lookup per distinct owner")
}

func TestSearchToleratesDanglingOwner(t *testing.T) {
	props := &stubPropertyRepo{
		search: func(context.Context, models.SearchQuery) ([]models.Property, int64, error) {
			return []models.Property{fakeProperty(primitive.NewObjectID())}, 1, nil
		},
	}
	c, _ := newTestCache(t)
	svc := NewPropertyService(props, &stubUserRepo{}, c)

	result, err := svc.Search(context.Background(), models.SearchQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Properties, 1)
	assert.Nil(t, result.Properties[0].Owner)
}
