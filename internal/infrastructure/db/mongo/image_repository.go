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
)

// ImageRepository implements ports.ImageRepository on MongoDB.
type ImageRepository struct {
	coll *mongo.Collection
}

func NewImageRepository(db *mongo.Database) *ImageRepository {
	return &ImageRepository{coll: db.Collection(imagesCollection)}
}

type mongoImage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ListingID primitive.ObjectID `bson:"listing_id"`
	URL       string             `bson:"url"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (mi *mongoImage) toDomain() *domain.Image {
	return &domain.Image{
		ID:        mi.ID.Hex(),
		ListingID: mi.ListingID.Hex(),
		URL:       mi.URL,
		CreatedAt: mi.CreatedAt,
		UpdatedAt: mi.UpdatedAt,
	}
}

func (r *ImageRepository) Create(ctx context.Context, image *domain.Image) (*domain.Image, error) {
	listingOID, err := objectID(image.ListingID)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	now := time.Now().UTC()
	doc := mongoImage{
		ListingID: listingOID,
		URL:       image.URL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert image: %w", err)
	}

	created := *image
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

func (r *ImageRepository) FindByID(ctx context.Context, id string) (*domain.Image, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, domain.ErrImageNotFound
	}

	var mi mongoImage
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mi); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrImageNotFound
		}
		return nil, fmt.Errorf("find image: %w", err)
	}
	return mi.toDomain(), nil
}

func (r *ImageRepository) FindByListing(ctx context.Context, listingID string) ([]*domain.Image, error) {
	oid, err := objectID(listingID)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"listing_id": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("find images: %w", err)
	}
	defer cur.Close(ctx)

	var images []*domain.Image
	for cur.Next(ctx) {
		var mi mongoImage
		if err := cur.Decode(&mi); err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		images = append(images, mi.toDomain())
	}
	return images, cur.Err()
}

func (r *ImageRepository) Update(ctx context.Context, image *domain.Image) (*domain.Image, error) {
	oid, err := objectID(image.ID)
	if err != nil {
		return nil, domain.ErrImageNotFound
	}

	update := bson.M{"$set": bson.M{
		"url":        image.URL,
		"updated_at": time.Now().UTC(),
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, fmt.Errorf("update image: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrImageNotFound
	}
	return r.FindByID(ctx, image.ID)
}

func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return domain.ErrImageNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrImageNotFound
	}
	return nil
}

// DeleteByListing removes every image attached to the listing and reports
// how many documents went away, so the caller can compare against the
// pre-delete count and surface orphans.
func (r *ImageRepository) DeleteByListing(ctx context.Context, listingID string) (int64, error) {
	oid, err := objectID(listingID)
	if err != nil {
		return 0, domain.ErrListingNotFound
	}

	res, err := r.coll.DeleteMany(ctx, bson.M{"listing_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete images by listing: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *ImageRepository) CountByListing(ctx context.Context, listingID string) (int64, error) {
	oid, err := objectID(listingID)
	if err != nil {
		return 0, domain.ErrListingNotFound
	}
	return r.coll.CountDocuments(ctx, bson.M{"listing_id": oid})
}

func (r *ImageRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
