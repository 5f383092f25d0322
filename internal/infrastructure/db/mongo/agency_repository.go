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

// AgencyRepository implements ports.AgencyRepository on MongoDB.
type AgencyRepository struct {
	coll *mongo.Collection
}

func NewAgencyRepository(db *mongo.Database) *AgencyRepository {
	return &AgencyRepository{coll: db.Collection(agenciesCollection)}
}

type mongoAgency struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty"`
	Name           string              `bson:"name"`
	Email          string              `bson:"email"`
	Phone          string              `bson:"phone,omitempty"`
	WhatsappNumber string              `bson:"whatsapp_number,omitempty"`
	Address        string              `bson:"address,omitempty"`
	PrimarySuburb  string              `bson:"primary_suburb,omitempty"`
	AllowedSuburbs []string            `bson:"allowed_suburbs,omitempty"`
	ParentAgencyID *primitive.ObjectID `bson:"parent_agency_id,omitempty"`
	Logo           string              `bson:"logo,omitempty"`
	CreatedAt      time.Time           `bson:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at"`
}

func (ma *mongoAgency) toDomain() *domain.Agency {
	a := &domain.Agency{
		ID:             ma.ID.Hex(),
		Name:           ma.Name,
		Email:          ma.Email,
		Phone:          ma.Phone,
		WhatsappNumber: ma.WhatsappNumber,
		Address:        ma.Address,
		PrimarySuburb:  ma.PrimarySuburb,
		AllowedSuburbs: ma.AllowedSuburbs,
		Logo:           ma.Logo,
		CreatedAt:      ma.CreatedAt,
		UpdatedAt:      ma.UpdatedAt,
	}
	if ma.ParentAgencyID != nil {
		a.ParentAgencyID = ma.ParentAgencyID.Hex()
	}
	return a
}

func fromDomainAgency(a *domain.Agency) (*mongoAgency, error) {
	ma := &mongoAgency{
		Name:           a.Name,
		Email:          a.Email,
		Phone:          a.Phone,
		WhatsappNumber: a.WhatsappNumber,
		Address:        a.Address,
		PrimarySuburb:  a.PrimarySuburb,
		AllowedSuburbs: a.AllowedSuburbs,
		Logo:           a.Logo,
	}
	if a.ParentAgencyID != "" {
		oid, err := objectID(a.ParentAgencyID)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed parent agency id", domain.ErrValidation)
		}
		ma.ParentAgencyID = &oid
	}
	return ma, nil
}

func (r *AgencyRepository) Create(ctx context.Context, agency *domain.Agency) (*domain.Agency, error) {
	ma, err := fromDomainAgency(agency)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	ma.CreatedAt = now
	ma.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, ma)
	if err != nil {
		return nil, fmt.Errorf("insert agency: %w", err)
	}

	created := *agency
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

func (r *AgencyRepository) FindByID(ctx context.Context, id string) (*domain.Agency, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, domain.ErrAgencyNotFound
	}

	var ma mongoAgency
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAgencyNotFound
		}
		return nil, fmt.Errorf("find agency: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *AgencyRepository) List(ctx context.Context, page, limit int) ([]*domain.Agency, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count agencies: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list agencies: %w", err)
	}
	defer cur.Close(ctx)

	var agencies []*domain.Agency
	for cur.Next(ctx) {
		var ma mongoAgency
		if err := cur.Decode(&ma); err != nil {
			return nil, 0, fmt.Errorf("decode agency: %w", err)
		}
		agencies = append(agencies, ma.toDomain())
	}
	return agencies, total, cur.Err()
}

func (r *AgencyRepository) FindChildren(ctx context.Context, parentID string) ([]*domain.Agency, error) {
	oid, err := objectID(parentID)
	if err != nil {
		return nil, domain.ErrAgencyNotFound
	}

	cur, err := r.coll.Find(ctx, bson.M{"parent_agency_id": oid})
	if err != nil {
		return nil, fmt.Errorf("find children: %w", err)
	}
	defer cur.Close(ctx)

	var children []*domain.Agency
	for cur.Next(ctx) {
		var ma mongoAgency
		if err := cur.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode agency: %w", err)
		}
		children = append(children, ma.toDomain())
	}
	return children, cur.Err()
}

func (r *AgencyRepository) Update(ctx context.Context, agency *domain.Agency) (*domain.Agency, error) {
	oid, err := objectID(agency.ID)
	if err != nil {
		return nil, domain.ErrAgencyNotFound
	}

	ma, err := fromDomainAgency(agency)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"name":            ma.Name,
		"email":           ma.Email,
		"phone":           ma.Phone,
		"whatsapp_number": ma.WhatsappNumber,
		"address":         ma.Address,
		"primary_suburb":  ma.PrimarySuburb,
		"allowed_suburbs": ma.AllowedSuburbs,
		"logo":            ma.Logo,
		"updated_at":      time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if ma.ParentAgencyID != nil {
		set["parent_agency_id"] = *ma.ParentAgencyID
	} else {
		update["$unset"] = bson.M{"parent_agency_id": ""}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, fmt.Errorf("update agency: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrAgencyNotFound
	}
	return r.FindByID(ctx, agency.ID)
}

func (r *AgencyRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return domain.ErrAgencyNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete agency: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAgencyNotFound
	}
	return nil
}

func (r *AgencyRepository) ReparentChildren(ctx context.Context, oldParentID, newParentID string) error {
	oldOID, err := objectID(oldParentID)
	if err != nil {
		return domain.ErrAgencyNotFound
	}

	var update bson.M
	if newParentID == "" {
		update = bson.M{"$unset": bson.M{"parent_agency_id": ""}}
	} else {
		newOID, err := objectID(newParentID)
		if err != nil {
			return fmt.Errorf("%w: malformed parent agency id", domain.ErrValidation)
		}
		update = bson.M{"$set": bson.M{"parent_agency_id": newOID}}
	}

	_, err = r.coll.UpdateMany(ctx, bson.M{"parent_agency_id": oldOID}, update)
	if err != nil {
		return fmt.Errorf("reparent children: %w", err)
	}
	return nil
}

func (r *AgencyRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
