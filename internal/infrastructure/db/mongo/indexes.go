package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection    = "users"
	agenciesCollection = "agencies"
	listingsCollection = "listings"
	imagesCollection   = "images"
)

func collectionIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		agenciesCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
			{Keys: bson.D{{Key: "parent_agency_id", Value: 1}}},
		},
		listingsCollection: {
			{Keys: bson.D{{Key: "city", Value: 1}, {Key: "suburb", Value: 1}}},
			{Keys: bson.D{{Key: "price", Value: 1}}},
			{Keys: bson.D{{Key: "listing_agent", Value: 1}}},
			{Keys: bson.D{{Key: "listing_agency", Value: 1}}},
		},
		imagesCollection: {
			{Keys: bson.D{{Key: "listing_id", Value: 1}}},
		},
	}
}
