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

// maxConditionalAttempts bounds how often a conditional update is retried
// when it misses but a re-read shows every precondition holding.
const maxConditionalAttempts = 3

var (
	errConflict  = errors.New("concurrent update conflict")
	errUnchanged = errors.New("unchanged")
)

type mongoElectionRepository struct {
	coll *mongo.Collection
}

// NewMongoElectionRepository builds a MongoDB-backed election repository.
// Candidates and voters are embedded arrays, so each mutation is a single
// document update.
func NewMongoElectionRepository(db *mongo.Database) ElectionRepository {
	return &mongoElectionRepository{coll: db.Collection(electionsCollection)}
}

func (r *mongoElectionRepository) Create(ctx context.Context, election *model.Election) error {
	election.Candidates = nil
	election.Voters = nil
	election.ApplyDefaults()
	now := time.Now().UTC()
	election.CreatedAt = now
	election.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, election)
	return err
}

func (r *mongoElectionRepository) FindByID(ctx context.Context, id string) (*model.Election, error) {
	var election model.Election
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&election); err != nil {
		return nil, mongoElectionError(err)
	}
	election.Normalize()
	return &election, nil
}

func (r *mongoElectionRepository) List(ctx context.Context) ([]model.Election, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	elections := []model.Election{}
	if err := cur.All(ctx, &elections); err != nil {
		return nil, err
	}
	for i := range elections {
		elections[i].Normalize()
	}
	return elections, nil
}

func (r *mongoElectionRepository) Complete(ctx context.Context, id string) (*model.Election, error) {
	filter := bson.M{"_id": id, "status": model.ElectionOngoing}
	update := bson.M{
		"$set": bson.M{"status": model.ElectionCompleted, "updatedAt": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	}
	return r.conditionalUpdate(ctx, id, filter, update, returnAfter(), func(e *model.Election) error {
		if e.IsCompleted() {
			return errUnchanged
		}
		return nil
	})
}

func (r *mongoElectionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrElectionNotFound
	}
	return nil
}

func (r *mongoElectionRepository) AddCandidate(ctx context.Context, electionID, candidateID string) (*model.Election, error) {
	filter := bson.M{
		"_id":            electionID,
		"status":         model.ElectionOngoing,
		"candidates._id": bson.M{"$ne": candidateID},
	}
	update := bson.M{
		"$push": bson.M{"candidates": model.Candidate{CandidateID: candidateID}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
		"$inc":  bson.M{"version": 1},
	}
	return r.conditionalUpdate(ctx, electionID, filter, update, returnAfter(), func(e *model.Election) error {
		if e.IsCompleted() {
			return apperrors.ErrElectionCompleted
		}
		if _, ok := e.FindCandidate(candidateID); ok {
			return apperrors.ErrCandidateExists
		}
		return nil
	})
}

func (r *mongoElectionRepository) RemoveCandidate(ctx context.Context, electionID, candidateID string) (*model.Election, error) {
	filter := bson.M{
		"_id":            electionID,
		"status":         model.ElectionOngoing,
		"candidates._id": candidateID,
	}
	update := bson.M{
		"$pull": bson.M{"candidates": bson.M{"_id": candidateID}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
		"$inc":  bson.M{"version": 1},
	}
	return r.conditionalUpdate(ctx, electionID, filter, update, returnAfter(), func(e *model.Election) error {
		if e.IsCompleted() {
			return apperrors.ErrElectionCompleted
		}
		if _, ok := e.FindCandidate(candidateID); !ok {
			return errUnchanged
		}
		return nil
	})
}

// CastVote increments the candidate and records the voter in one document
// update. The filter only matches while the election is ongoing, the voter is
// absent from the participation set and the candidate is present, so two
// racing votes from one voter cannot both match.
func (r *mongoElectionRepository) CastVote(ctx context.Context, electionID, candidateID, voterID string) (*model.Election, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"_id":            electionID,
		"status":         model.ElectionOngoing,
		"voters._id":     bson.M{"$ne": voterID},
		"candidates._id": candidateID,
	}
	update := bson.M{
		"$inc":  bson.M{"candidates.$[c].votes": 1, "version": 1},
		"$push": bson.M{"voters": model.Participation{VoterID: voterID, VotedAt: now}},
		"$set":  bson.M{"updatedAt": now},
	}
	// The filter traverses two arrays, so the positional $ operator is
	// ambiguous here; an array filter picks the candidate instead.
	opts := returnAfter().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"c._id": candidateID}},
	})
	return r.conditionalUpdate(ctx, electionID, filter, update, opts, func(e *model.Election) error {
		if e.IsCompleted() {
			return apperrors.ErrElectionCompleted
		}
		if e.HasVoted(voterID) {
			return apperrors.ErrAlreadyVoted
		}
		if _, ok := e.FindCandidate(candidateID); !ok {
			return apperrors.ErrCandidateNotFound
		}
		return nil
	})
}

// conditionalUpdate applies update to the election matching filter. When
// nothing matches, the election is re-read and classify names the failed
// precondition. errUnchanged from classify returns the current election as is;
// nil means a concurrent writer got in between and the update is retried.
func (r *mongoElectionRepository) conditionalUpdate(
	ctx context.Context,
	id string,
	filter, update bson.M,
	opts *options.FindOneAndUpdateOptions,
	classify func(*model.Election) error,
) (*model.Election, error) {
	for attempt := 0; attempt < maxConditionalAttempts; attempt++ {
		var election model.Election
		err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&election)
		if err == nil {
			election.Normalize()
			return &election, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}

		current, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		switch err := classify(current); {
		case errors.Is(err, errUnchanged):
			return current, nil
		case err != nil:
			return nil, err
		}
	}
	return nil, fmt.Errorf("election %s: %w", id, errConflict)
}

func returnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

func mongoElectionError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.ErrElectionNotFound
	}
	return err
}
