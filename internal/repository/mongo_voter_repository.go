package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "evote/internal/errors"
	"evote/internal/model"
)

const (
	votersCollection    = "voters"
	electionsCollection = "elections"
)

// EnsureMongoIndexes creates the indexes the document backend relies on.
// The unique email index is what turns concurrent registrations into
// ErrDuplicateEmail.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(votersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("voter indexes: %w", err)
	}
	_, err = db.Collection(electionsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("election indexes: %w", err)
	}
	return nil
}

type mongoVoterRepository struct {
	coll *mongo.Collection
}

// NewMongoVoterRepository builds a MongoDB-backed voter repository.
func NewMongoVoterRepository(db *mongo.Database) VoterRepository {
	return &mongoVoterRepository{coll: db.Collection(votersCollection)}
}

func (r *mongoVoterRepository) Create(ctx context.Context, voter *model.Voter) error {
	voter.ApplyDefaults()
	now := time.Now().UTC()
	voter.CreatedAt = now
	voter.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, voter); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *mongoVoterRepository) FindByID(ctx context.Context, id string) (*model.Voter, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoVoterRepository) FindByEmail(ctx context.Context, email string) (*model.Voter, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoVoterRepository) List(ctx context.Context, filter model.VoterFilter) ([]model.Voter, error) {
	query := bson.M{}
	for field, value := range filter {
		if field == "id" {
			field = "_id"
		}
		query[field] = value
	}
	cur, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	voters := []model.Voter{}
	if err := cur.All(ctx, &voters); err != nil {
		return nil, err
	}
	return voters, nil
}

func (r *mongoVoterRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrVoterNotFound
	}
	return nil
}

// ToggleRole evaluates the flip on the server with an aggregation pipeline update.
func (r *mongoVoterRepository) ToggleRole(ctx context.Context, id string) (*model.Voter, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "role", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$role", string(model.RoleVoter)}}},
				string(model.RoleAdmin),
				string(model.RoleVoter),
			}}}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var voter model.Voter
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&voter); err != nil {
		return nil, mongoVoterError(err)
	}
	return &voter, nil
}

func (r *mongoVoterRepository) Promote(ctx context.Context, id string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"role": model.RoleAdmin, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrVoterNotFound
	}
	return nil
}

func (r *mongoVoterRepository) findOne(ctx context.Context, filter bson.M) (*model.Voter, error) {
	var voter model.Voter
	if err := r.coll.FindOne(ctx, filter).Decode(&voter); err != nil {
		return nil, mongoVoterError(err)
	}
	return &voter, nil
}

func mongoVoterError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.ErrVoterNotFound
	}
	return err
}
