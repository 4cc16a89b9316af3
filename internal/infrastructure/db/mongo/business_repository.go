package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
)

const collectionBusinesses = "businesses"

type BusinessRepository struct {
	col *mongo.Collection
}

func NewBusinessRepository(db *mongo.Database) *BusinessRepository {
	return &BusinessRepository{col: db.Collection(collectionBusinesses)}
}

// Create inserts a new business document. The unique slug index is the
// authority for slug collisions: a duplicate-key insert maps to
// domain.ErrSlugTaken and the service retries with a suffixed slug.
func (r *BusinessRepository) Create(ctx context.Context, b *domain.Business) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

func (r *BusinessRepository) FindByID(ctx context.Context, id string) (*domain.Business, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *BusinessRepository) FindBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *BusinessRepository) findOne(ctx context.Context, filter bson.M) (*domain.Business, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var b domain.Business
	if err := r.col.FindOne(ctx, filter).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBusinessNotFound
		}
		return nil, fmt.Errorf("find business: %w", err)
	}
	return &b, nil
}

func (r *BusinessRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Business, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("list businesses by owner: %w", err)
	}
	defer cur.Close(ctx)

	var items []*domain.Business
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode businesses: %w", err)
	}
	return items, nil
}

func (r *BusinessRepository) List(ctx context.Context, page, limit int) ([]*domain.Business, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count businesses: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list businesses: %w", err)
	}
	defer cur.Close(ctx)

	var items []*domain.Business
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode businesses: %w", err)
	}
	return items, total, nil
}

func (r *BusinessRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{"owner_id": ownerID})
}

func (r *BusinessRepository) CountByTemplate(ctx context.Context, templateID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{"template_id": templateID})
}

func (r *BusinessRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update business: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBusinessNotFound
	}
	return nil
}

func (r *BusinessRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete business: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBusinessNotFound
	}
	return nil
}

// ReserveServiceSlot increments service_count only while it is below limit.
// The filtered update is atomic per document, so two concurrent service
// creations cannot jointly exceed the quota.
func (r *BusinessRepository) ReserveServiceSlot(ctx context.Context, id string, limit int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "service_count": bson.M{"$lt": limit}}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"service_count": 1}})
	if err != nil {
		return fmt.Errorf("reserve service slot: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrServiceQuotaExceeded
	}
	return nil
}

// ReleaseServiceSlot decrements service_count, flooring at zero.
func (r *BusinessRepository) ReleaseServiceSlot(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "service_count": bson.M{"$gt": 0}}
	_, err := r.col.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"service_count": -1}})
	if err != nil {
		return fmt.Errorf("release service slot: %w", err)
	}
	return nil
}

// EnsureIndexes creates the indexes backing slug uniqueness and owner lookups.
func (r *BusinessRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "template_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
