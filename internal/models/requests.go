package models

import "time"

// RegisterRequest is the body of POST /api/users/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the body of PUT /api/users/profile.
// Nil fields are left unchanged; a non-nil password is re-hashed on save.
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// RecommendRequest is the body of POST /api/users/recommend.
type RecommendRequest struct {
	RecipientEmail string `json:"recipientEmail"`
	PropertyID     string `json:"propertyId"`
}

// CreatePropertyRequest is the body of POST /api/properties.
type CreatePropertyRequest struct {
	Title         string    `json:"title"`
	Type          string    `json:"type"`
	Price         float64   `json:"price"`
	State         string    `json:"state"`
	City          string    `json:"city"`
	AreaSqFt      float64   `json:"areaSqFt"`
	Bedrooms      int       `json:"bedrooms"`
	Bathrooms     int       `json:"bathrooms"`
	Amenities     []string  `json:"amenities"`
	Furnished     string    `json:"furnished"`
	AvailableFrom time.Time `json:"availableFrom"`
	ListedBy      string    `json:"listedBy"`
	Tags          []string  `json:"tags"`
	ColorTheme    string    `json:"colorTheme"`
	Rating        float64   `json:"rating"`
	IsVerified    bool      `json:"isVerified"`
	ListingType   string    `json:"listingType"`
}

// UpdatePropertyRequest is the body of PUT /api/properties/:id.
// Nil fields are left unchanged (shallow merge).
type UpdatePropertyRequest struct {
	Title         *string    `json:"title"`
	Type          *string    `json:"type"`
	Price         *float64   `json:"price"`
	State         *string    `json:"state"`
	City          *string    `json:"city"`
	AreaSqFt      *float64   `json:"areaSqFt"`
	Bedrooms      *int       `json:"bedrooms"`
	Bathrooms     *int       `json:"bathrooms"`
	Amenities     []string   `json:"amenities"`
	Furnished     *string    `json:"furnished"`
	AvailableFrom *time.Time `json:"availableFrom"`
	ListedBy      *string    `json:"listedBy"`
	Tags          []string   `json:"tags"`
	ColorTheme    *string    `json:"colorTheme"`
	Rating        *float64   `json:"rating"`
	IsVerified    *bool      `json:"isVerified"`
	ListingType   *string    `json:"listingType"`
}

// IsEmpty reports whether the patch changes nothing.
func (r *UpdatePropertyRequest) IsEmpty() bool {
	return r.Title == nil && r.Type == nil && r.Price == nil && r.State == nil &&
		r.City == nil && r.AreaSqFt == nil && r.Bedrooms == nil && r.Bathrooms == nil &&
		r.Amenities == nil && r.Furnished == nil && r.AvailableFrom == nil &&
		r.ListedBy == nil && r.Tags == nil && r.ColorTheme == nil && r.Rating == nil &&
		r.IsVerified == nil && r.ListingType == nil
}

// SearchQuery holds the parsed query parameters of GET /api/properties.
// Nil numeric fields mean "no constraint"; Amenities/Tags are all-of filters.
type SearchQuery struct {
	Type        string
	State       string
	City        string
	Furnished   string
	ListingType string
	MinPrice    *float64
	MaxPrice    *float64
	MinArea     *float64
	MaxArea     *float64
	Bedrooms    *int
	Bathrooms   *int
	Amenities   []string
	Tags        []string
	SortBy      string
	Page        int
	Limit       int
}
