package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/realtydir/directory-api/internal/core/domain"
	"github.com/realtydir/directory-api/internal/core/ports"
)

// ListingRepository implements ports.ListingRepository on MongoDB,
// including the aggregation pipelines backing the stats engine.
type ListingRepository struct {
	coll *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{coll: db.Collection(listingsCollection)}
}

type mongoListing struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	City        string             `bson:"city"`
	Suburb      string             `bson:"suburb"`
	Price       float64            `bson:"price"`
	AgentID     primitive.ObjectID `bson:"listing_agent"`
	AgencyID    primitive.ObjectID `bson:"listing_agency"`
	Description string             `bson:"description,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (ml *mongoListing) toDomain() *domain.Listing {
	return &domain.Listing{
		ID:          ml.ID.Hex(),
		Title:       ml.Title,
		City:        ml.City,
		Suburb:      ml.Suburb,
		Price:       ml.Price,
		AgentID:     ml.AgentID.Hex(),
		AgencyID:    ml.AgencyID.Hex(),
		Description: ml.Description,
		CreatedAt:   ml.CreatedAt,
		UpdatedAt:   ml.UpdatedAt,
	}
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	agentOID, err := objectID(listing.AgentID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed agent id", domain.ErrValidation)
	}
	agencyOID, err := objectID(listing.AgencyID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed agency id", domain.ErrValidation)
	}

	now := time.Now().UTC()
	doc := mongoListing{
		Title:       listing.Title,
		City:        listing.City,
		Suburb:      listing.Suburb,
		Price:       listing.Price,
		AgentID:     agentOID,
		AgencyID:    agencyOID,
		Description: listing.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert listing: %w", err)
	}

	created := *listing
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	var ml mongoListing
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ml); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return ml.toDomain(), nil
}

func (r *ListingRepository) List(ctx context.Context, filter ports.ListListingsFilter) ([]*domain.Listing, int64, error) {
	query := bson.M{}
	if filter.City != "" {
		query["city"] = primitive.Regex{Pattern: filter.City, Options: "i"}
	}
	if filter.Suburb != "" {
		query["suburb"] = primitive.Regex{Pattern: filter.Suburb, Options: "i"}
	}
	if filter.MinPrice > 0 || filter.MaxPrice > 0 {
		price := bson.M{}
		if filter.MinPrice > 0 {
			price["$gte"] = filter.MinPrice
		}
		if filter.MaxPrice > 0 {
			price["$lte"] = filter.MaxPrice
		}
		query["price"] = price
	}
	if filter.AgentID != "" {
		oid, err := objectID(filter.AgentID)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: malformed agent id", domain.ErrValidation)
		}
		query["listing_agent"] = oid
	}
	if filter.AgencyID != "" {
		oid, err := objectID(filter.AgencyID)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: malformed agency id", domain.ErrValidation)
		}
		query["listing_agency"] = oid
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}
	defer cur.Close(ctx)

	listings, err := decodeListings(ctx, cur)
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *ListingRepository) FindByAgent(ctx context.Context, agentID string) ([]*domain.Listing, error) {
	oid, err := objectID(agentID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed agent id", domain.ErrValidation)
	}
	return r.findAll(ctx, bson.M{"listing_agent": oid})
}

func (r *ListingRepository) FindByAgency(ctx context.Context, agencyID string) ([]*domain.Listing, error) {
	oid, err := objectID(agencyID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed agency id", domain.ErrValidation)
	}
	return r.findAll(ctx, bson.M{"listing_agency": oid})
}

func (r *ListingRepository) findAll(ctx context.Context, query bson.M) ([]*domain.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	defer cur.Close(ctx)
	return decodeListings(ctx, cur)
}

func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	oid, err := objectID(listing.ID)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}
	agencyOID, err := objectID(listing.AgencyID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed agency id", domain.ErrValidation)
	}

	update := bson.M{"$set": bson.M{
		"title":          listing.Title,
		"city":           listing.City,
		"suburb":         listing.Suburb,
		"price":          listing.Price,
		"listing_agency": agencyOID,
		"description":    listing.Description,
		"updated_at":     time.Now().UTC(),
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrListingNotFound
	}
	return r.FindByID(ctx, listing.ID)
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return domain.ErrListingNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

// AveragePrice computes the mean price with a $group/$avg pipeline. An
// empty collection yields no rows and reports 0.
func (r *ListingRepository) AveragePrice(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"avgPrice": bson.M{"$avg": "$price"},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("average price: %w", err)
	}
	defer cur.Close(ctx)

	if cur.Next(ctx) {
		var row struct {
			AvgPrice float64 `bson:"avgPrice"`
		}
		if err := cur.Decode(&row); err != nil {
			return 0, fmt.Errorf("decode average price: %w", err)
		}
		return row.AvgPrice, nil
	}
	return 0, cur.Err()
}

func (r *ListingRepository) CountByAgent(ctx context.Context, agentID string) (int64, error) {
	oid, err := objectID(agentID)
	if err != nil {
		return 0, nil
	}
	return r.coll.CountDocuments(ctx, bson.M{"listing_agent": oid})
}

// CountByAgentWithImages joins listings against images by listing id and
// counts the agent's listings with a non-empty match. Each listing counts
// once regardless of how many images it carries.
func (r *ListingRepository) CountByAgentWithImages(ctx context.Context, agentID string) (int64, error) {
	oid, err := objectID(agentID)
	if err != nil {
		return 0, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"listing_agent": oid}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         imagesCollection,
			"localField":   "_id",
			"foreignField": "listing_id",
			"as":           "images",
		}}},
		{{Key: "$match", Value: bson.M{"images.0": bson.M{"$exists": true}}}},
		{{Key: "$count", Value: "count"}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("count listings with images: %w", err)
	}
	defer cur.Close(ctx)

	if cur.Next(ctx) {
		var row struct {
			Count int64 `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return 0, fmt.Errorf("decode coverage count: %w", err)
		}
		return row.Count, nil
	}
	return 0, cur.Err()
}

func decodeListings(ctx context.Context, cur *mongo.Cursor) ([]*domain.Listing, error) {
	var listings []*domain.Listing
	for cur.Next(ctx) {
		var ml mongoListing
		if err := cur.Decode(&ml); err != nil {
			return nil, fmt.Errorf("decode listing: %w", err)
		}
		listings = append(listings, ml.toDomain())
	}
	return listings, cur.Err()
}
