package handlers

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Akhalfstar/Realeaste-bakend/models"
)

// canCreateListing: plain users cannot create listings, agents and
// admins can.
func canCreateListing(role string) bool {
	return role != models.RoleUser
}

// canMutateProperty binds update/delete to the recorded owner. Admins get
// no bypass here: only the listing agent may touch the record.
func canMutateProperty(property *models.Property, userID primitive.ObjectID) bool {
	return property.Agent == userID
}
