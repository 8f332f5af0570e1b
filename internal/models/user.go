// Package models contains data structures for the application's domain documents.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role values for User.Role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a marketplace account. The password field holds a bcrypt
// hash and is never serialized to JSON, so cached and fresh representations
// both exclude it.
type User struct {
	ID                      primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name                    string               `bson:"name" json:"name"`
	Email                   string               `bson:"email" json:"email"`
	Password                string               `bson:"password" json:"-"`
	Role                    string               `bson:"role" json:"role"`
	Favorites               []primitive.ObjectID `bson:"favorites" json:"favorites"`
	RecommendationsReceived []Recommendation     `bson:"recommendationsReceived" json:"recommendationsReceived"`
	CreatedAt               time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt               time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Recommendation is one entry in a user's received-recommendations list.
// The (Property, RecommendedBy) pair is unique per recipient.
type Recommendation struct {
	Property      primitive.ObjectID `bson:"property" json:"property"`
	RecommendedBy primitive.ObjectID `bson:"recommendedBy" json:"recommendedBy"`
	Date          time.Time          `bson:"date" json:"date"`
}

// HasFavorite reports whether the property is already in the favorites set.
func (u *User) HasFavorite(propertyID primitive.ObjectID) bool {
	for _, fav := range u.Favorites {
		if fav == propertyID {
			return true
		}
	}
	return false
}

// HasRecommendation reports whether an identical (property, recommender)
// recommendation already exists for this user.
func (u *User) HasRecommendation(propertyID, recommenderID primitive.ObjectID) bool {
	for _, rec := range u.RecommendationsReceived {
		if rec.Property == propertyID && rec.RecommendedBy == recommenderID {
			return true
		}
	}
	return false
}

// UserSummary is the reduced identity (name/email) used when resolving
// recommenders and property owners.
type UserSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}

// Summary returns the reduced identity for this user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// ResolvedRecommendation is a recommendation with its property and recommender
// identities resolved for API responses.
type ResolvedRecommendation struct {
	Property      *Property   `json:"property"`
	RecommendedBy UserSummary `json:"recommendedBy"`
	Date          time.Time   `json:"date"`
}
