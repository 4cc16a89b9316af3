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
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/ports"
)

const collectionReservations = "reservations"

// openStatuses are the non-terminal reservation states.
var openStatuses = []string{
	string(domain.ReservationPending),
	string(domain.ReservationConfirmed),
}

type ReservationRepository struct {
	col *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	return &ReservationRepository{col: db.Collection(collectionReservations)}
}

func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, res); err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var res domain.Reservation
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&res); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, fmt.Errorf("find reservation: %w", err)
	}
	return &res, nil
}

func buildListFilter(f ports.ListReservationsFilter) bson.M {
	filter := bson.M{}
	if len(f.BusinessIDs) == 1 {
		filter["business_id"] = f.BusinessIDs[0]
	} else if len(f.BusinessIDs) > 1 {
		filter["business_id"] = bson.M{"$in": f.BusinessIDs}
	}
	if f.ClientID != "" {
		filter["client.kind"] = domain.ClientKindRegistered
		filter["client.user_id"] = f.ClientID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	dateRange := bson.M{}
	if !f.DateFrom.IsZero() {
		dateRange["$gte"] = f.DateFrom.UTC()
	}
	if !f.DateTo.IsZero() {
		dateRange["$lte"] = f.DateTo.UTC()
	}
	if len(dateRange) > 0 {
		filter["starts_at"] = dateRange
	}
	return filter
}

// List returns a page of reservations matching filter and the total count.
func (r *ReservationRepository) List(ctx context.Context, f ports.ListReservationsFilter) ([]*domain.Reservation, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := buildListFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count reservations: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "starts_at", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}
	defer cur.Close(ctx)

	var items []*domain.Reservation
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode reservations: %w", err)
	}
	return items, total, nil
}

func (r *ReservationRepository) CountOpenByService(ctx context.Context, serviceID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{
		"service_id": serviceID,
		"status":     bson.M{"$in": openStatuses},
	})
}

func (r *ReservationRepository) CountOpenByBusiness(ctx context.Context, businessID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{
		"business_id": businessID,
		"status":      bson.M{"$in": openStatuses},
	})
}

// UpdateStatusCAS sets the new status only if the document still holds the
// expected current status. Each update is atomic on the document, so the
// loser of a concurrent update observes a stale-state conflict instead of
// silently overwriting the winner.
func (r *ReservationRepository) UpdateStatusCAS(ctx context.Context, id string, from, to domain.ReservationStatus, tsField string, ts time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"status": to, "updated_at": ts}
	if tsField != "" {
		set[tsField] = ts
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id, "status": from}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	if res.MatchedCount == 0 {
		// Either the reservation is gone or its status moved underneath us.
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return findErr
		}
		return domain.ErrStaleReservation
	}
	return nil
}

// Cancel performs the CAS into cancelled. An already-cancelled document is
// reported as such so the idempotency guard holds under concurrency.
func (r *ReservationRepository) Cancel(ctx context.Context, id string, from domain.ReservationStatus, reason string, ts time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"status":       domain.ReservationCancelled,
		"cancelled_at": ts,
		"updated_at":   ts,
	}
	if reason != "" {
		set["cancel_reason"] = reason
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id, "status": from}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("cancel reservation: %w", err)
	}
	if res.MatchedCount == 0 {
		current, findErr := r.FindByID(ctx, id)
		if findErr != nil {
			return findErr
		}
		if current.Status == domain.ReservationCancelled {
			return domain.ErrAlreadyCancelled
		}
		return domain.ErrStaleReservation
	}
	return nil
}

// EnsureIndexes creates the lookup indexes for role-scoped listings.
func (r *ReservationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "business_id", Value: 1}, {Key: "starts_at", Value: -1}}},
		{Keys: bson.D{{Key: "client.user_id", Value: 1}}},
		{Keys: bson.D{{Key: "service_id", Value: 1}, {Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
