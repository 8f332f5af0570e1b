package repository

import (
	"testing"

	"hearth/internal/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestBuildSearchFilterEmpty(t *testing.T) {
	filter := BuildSearchFilter(models.SearchQuery{})
	assert.Empty(t, filter)
}

func TestBuildSearchFilterEquality(t *testing.T) {
	filter := BuildSearchFilter(models.SearchQuery{
		Type:        "villa",
		State:       "Goa",
		City:        "Panaji",
		Furnished:   "Furnished",
		ListingType: "rent",
	})

	assert.Equal(t, "villa", filter["type"])
	assert.Equal(t, "Goa", filter["state"])
	assert.Equal(t, "Panaji", filter["city"])
	assert.Equal(t, "Furnished", filter["furnished"])
	assert.Equal(t, "rent", filter["listingType"])
}

func TestBuildSearchFilterRanges(t *testing.T) {
	filter := BuildSearchFilter(models.SearchQuery{
		MinPrice: floatPtr(100000),
		MaxPrice: floatPtr(500000),
		MinArea:  floatPtr(800),
	})

	assert.Equal(t, bson.M{"$gte": 100000.0, "$lte": 500000.0}, filter["price"])
	assert.Equal(t, bson.M{"$gte": 800.0}, filter["areaSqFt"])
}

func TestBuildSearchFilterExactCounts(t *testing.T) {
	filter := BuildSearchFilter(models.SearchQuery{
		Bedrooms:  intPtr(3),
		Bathrooms: intPtr(2),
	})

	assert.Equal(t, 3, filter["bedrooms"])
	assert.Equal(t, 2, filter["bathrooms"])
}

func TestBuildSearchFilterAllOfSets(t *testing.T) {
	filter := BuildSearchFilter(models.SearchQuery{
		Amenities: []string{"gym", "pool"},
		Tags:      []string{"gated-community"},
	})

	assert.Equal(t, bson.M{"$all": []string{"gym", "pool"}}, filter["amenities"])
	assert.Equal(t, bson.M{"$all": []string{"gated-community"}}, filter["tags"])
}

func TestBuildSortDoc(t *testing.T) {
	cases := []struct {
		name   string
		sortBy string
		want   bson.D
	}{
		{"empty", "", nil},
		{"ascending", "price", bson.D{{Key: "price", Value: 1}}},
		{"descending", "-price", bson.D{{Key: "price", Value: -1}}},
		{"multiple", "-rating,price", bson.D{{Key: "rating", Value: -1}, {Key: "price", Value: 1}}},
		{"whitespace and blanks", " -rating , , price ", bson.D{{Key: "rating", Value: -1}, {Key: "price", Value: 1}}},
		{"bare dash dropped", "-", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BuildSortDoc(tc.sortBy))
		})
	}
}
