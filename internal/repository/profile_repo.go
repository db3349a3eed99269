package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IdanZeman/fit-nutrition-web/internal/models"
)

// ErrProfileNotFound is returned by merge updates against a uid that has no
// profile document. Reads map a missing document to (nil, nil) instead: the
// caller treats absence as a normal state, not a failure.
var ErrProfileNotFound = errors.New("profile not found")

const profileCollection = "users"

// ProfileRepository is the client for the profile document store. One
// document per user, keyed by uid. No caching, no local mirror.
type ProfileRepository struct {
	col *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{col: db.Collection(profileCollection)}
}

func (r *ProfileRepository) Get(ctx context.Context, uid string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.col.FindOne(ctx, bson.M{"_id": uid}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Set overwrites the whole document (upserting when absent). Partial state is
// never written through here; the wizard validates completeness first.
func (r *ProfileRepository) Set(ctx context.Context, profile *models.UserProfile) error {
	_, err := r.col.ReplaceOne(ctx,
		bson.M{"_id": profile.UID},
		profile,
		options.Replace().SetUpsert(true))
	return err
}

// Update merge-updates individual fields. No upsert: editing a profile that
// was never created fails with ErrProfileNotFound.
func (r *ProfileRepository) Update(ctx context.Context, uid string, fields bson.M) (*models.UserProfile, error) {
	if len(fields) == 0 {
		return r.getRequired(ctx, uid)
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": fields})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrProfileNotFound
	}
	return r.getRequired(ctx, uid)
}

func (r *ProfileRepository) getRequired(ctx context.Context, uid string) (*models.UserProfile, error) {
	profile, err := r.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}
