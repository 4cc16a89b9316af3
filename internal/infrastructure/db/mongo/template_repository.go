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

const collectionTemplates = "templates"

type TemplateRepository struct {
	col *mongo.Collection
}

func NewTemplateRepository(db *mongo.Database) *TemplateRepository {
	return &TemplateRepository{col: db.Collection(collectionTemplates)}
}

func (r *TemplateRepository) Create(ctx context.Context, t *domain.Template) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*domain.Template, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Template
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("find template: %w", err)
	}
	return &t, nil
}

// FindBestFallback returns the best active public template ordered by
// (is_default desc, rating desc).
func (r *TemplateRepository) FindBestFallback(ctx context.Context) (*domain.Template, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"is_active": true, "is_public": true}
	opts := options.FindOne().SetSort(bson.D{
		{Key: "is_default", Value: -1},
		{Key: "rating", Value: -1},
	})

	var t domain.Template
	if err := r.col.FindOne(ctx, filter, opts).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoTemplatesAvailable
		}
		return nil, fmt.Errorf("find fallback template: %w", err)
	}
	return &t, nil
}

func (r *TemplateRepository) ListVisible(ctx context.Context, ownerID string, admin bool) ([]*domain.Template, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if !admin {
		filter = bson.M{
			"is_active": true,
			"$or": []bson.M{
				{"is_public": true},
				{"is_default": true},
				{"owner_id": ownerID},
			},
		}
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "is_default", Value: -1},
		{Key: "rating", Value: -1},
	})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer cur.Close(ctx)

	var items []*domain.Template
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}
	return items, nil
}

// RecordUsage bumps the popularity counter in a single atomic update. It is a
// metric, not a correctness-critical count; callers treat failures as
// non-fatal.
func (r *TemplateRepository) RecordUsage(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"times_used": 1},
		"$set": bson.M{"last_used_at": time.Now().UTC()},
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *TemplateRepository) SetRating(ctx context.Context, id string, rating float64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"rating": rating, "updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("set template rating: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

// EnsureIndexes creates the index backing the fallback query.
func (r *TemplateRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "is_active", Value: 1},
			{Key: "is_public", Value: 1},
			{Key: "is_default", Value: -1},
			{Key: "rating", Value: -1},
		}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
