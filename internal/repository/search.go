package repository

import (
	"strings"

	"hearth/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// BuildSearchFilter translates the parsed query into a MongoDB filter document.
// Equality fields match exactly, price/area become $gte/$lte ranges,
// bedrooms/bathrooms are exact numeric matches, and amenities/tags require
// the document's set to contain every requested value ($all).
func BuildSearchFilter(q models.SearchQuery) bson.M {
	filter := bson.M{}

	if q.Type != "" {
		filter["type"] = q.Type
	}
	if q.State != "" {
		filter["state"] = q.State
	}
	if q.City != "" {
		filter["city"] = q.City
	}
	if q.Furnished != "" {
		filter["furnished"] = q.Furnished
	}
	if q.ListingType != "" {
		filter["listingType"] = q.ListingType
	}

	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		filter["price"] = price
	}

	if q.MinArea != nil || q.MaxArea != nil {
		area := bson.M{}
		if q.MinArea != nil {
			area["$gte"] = *q.MinArea
		}
		if q.MaxArea != nil {
			area["$lte"] = *q.MaxArea
		}
		filter["areaSqFt"] = area
	}

	if q.Bedrooms != nil {
		filter["bedrooms"] = *q.Bedrooms
	}
	if q.Bathrooms != nil {
		filter["bathrooms"] = *q.Bathrooms
	}

	if len(q.Amenities) > 0 {
		filter["amenities"] = bson.M{"$all": q.Amenities}
	}
	if len(q.Tags) > 0 {
		filter["tags"] = bson.M{"$all": q.Tags}
	}

	return filter
}

// BuildSortDoc converts a comma-delimited sort field list into an ordered sort
// document. A leading '-' on a field means descending.
func BuildSortDoc(sortBy string) bson.D {
	if sortBy == "" {
		return nil
	}

	var sort bson.D
	for _, field := range strings.Split(sortBy, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		order := 1
		if strings.HasPrefix(field, "-") {
			order = -1
			field = strings.TrimPrefix(field, "-")
		}
		if field == "" {
			continue
		}
		sort = append(sort, bson.E{Key: field, Value: order})
	}
	return sort
}
