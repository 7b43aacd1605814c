package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "evote/internal/errors"
	"evote/internal/model"
)

// ElectionRepository defines election persistence operations. Every
// mutation is applied atomically against the election's current state and
// returns the election as stored afterwards.
type ElectionRepository interface {
	Create(ctx context.Context, election *model.Election) error
	FindByID(ctx context.Context, id string) (*model.Election, error)
	List(ctx context.Context) ([]model.Election, error)
	Complete(ctx context.Context, id string) (*model.Election, error)
	Delete(ctx context.Context, id string) error
	AddCandidate(ctx context.Context, electionID, candidateID string) (*model.Election, error)
	RemoveCandidate(ctx context.Context, electionID, candidateID string) (*model.Election, error)
	CastVote(ctx context.Context, electionID, candidateID, voterID string) (*model.Election, error)
}

type electionRepository struct {
	db *gorm.DB
}

// NewElectionRepository creates a new election repository.
func NewElectionRepository(db *gorm.DB) ElectionRepository {
	return &electionRepository{db: db}
}

// Create creates a new election with empty candidate and voter sets.
func (r *electionRepository) Create(ctx context.Context, election *model.Election) error {
	election.Candidates = nil
	election.Voters = nil
	if err := r.db.WithContext(ctx).Create(election).Error; err != nil {
		return err
	}
	election.Normalize()
	return nil
}

// FindByID loads an election with its candidates and voters.
func (r *electionRepository) FindByID(ctx context.Context, id string) (*model.Election, error) {
	return r.load(r.db.WithContext(ctx), id)
}

// List lists all elections.
func (r *electionRepository) List(ctx context.Context) ([]model.Election, error) {
	elections := []model.Election{}
	if err := preload(r.db.WithContext(ctx)).Order("created_at").Find(&elections).Error; err != nil {
		return nil, err
	}
	for i := range elections {
		elections[i].Normalize()
	}
	return elections, nil
}

// Complete marks an election as completed. Stopping a completed election is a no-op.
func (r *electionRepository) Complete(ctx context.Context, id string) (*model.Election, error) {
	err := r.WithTransaction(ctx, func(tx *gorm.DB) error {
		election, err := lockElection(tx, id)
		if err != nil {
			return err
		}
		if election.IsCompleted() {
			return nil
		}
		return tx.Model(&model.Election{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":     model.ElectionCompleted,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Delete removes an election together with its candidates and voters.
func (r *electionRepository) Delete(ctx context.Context, id string) error {
	return r.WithTransaction(ctx, func(tx *gorm.DB) error {
		if _, err := lockElection(tx, id); err != nil {
			return err
		}
		if err := tx.Where("election_id = ?", id).Delete(&model.Candidate{}).Error; err != nil {
			return err
		}
		if err := tx.Where("election_id = ?", id).Delete(&model.Participation{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Election{}).Error
	})
}

// AddCandidate appends a candidate with zero votes.
func (r *electionRepository) AddCandidate(ctx context.Context, electionID, candidateID string) (*model.Election, error) {
	err := r.WithTransaction(ctx, func(tx *gorm.DB) error {
		election, err := lockElection(tx, electionID)
		if err != nil {
			return err
		}
		if election.IsCompleted() {
			return apperrors.ErrElectionCompleted
		}

		var existing int64
		if err := tx.Model(&model.Candidate{}).
			Where("election_id = ? AND candidate_id = ?", electionID, candidateID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return apperrors.ErrCandidateExists
		}

		candidate := &model.Candidate{ElectionID: electionID, CandidateID: candidateID}
		if err := tx.Create(candidate).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrCandidateExists
			}
			return err
		}
		return bumpVersion(tx, electionID)
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, electionID)
}

// RemoveCandidate deletes the candidate entry if present.
func (r *electionRepository) RemoveCandidate(ctx context.Context, electionID, candidateID string) (*model.Election, error) {
	err := r.WithTransaction(ctx, func(tx *gorm.DB) error {
		election, err := lockElection(tx, electionID)
		if err != nil {
			return err
		}
		if election.IsCompleted() {
			return apperrors.ErrElectionCompleted
		}

		res := tx.Where("election_id = ? AND candidate_id = ?", electionID, candidateID).Delete(&model.Candidate{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return bumpVersion(tx, electionID)
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, electionID)
}

// CastVote records voterID as having voted and increments the candidate's
// count in one transaction. The election row stays locked from the
// has-voted check until commit, and the (election_id, voter_id) primary key
// rejects a second participation row even if the lock is not honoured.
func (r *electionRepository) CastVote(ctx context.Context, electionID, candidateID, voterID string) (*model.Election, error) {
	err := r.WithTransaction(ctx, func(tx *gorm.DB) error {
		election, err := lockElection(tx, electionID)
		if err != nil {
			return err
		}
		if election.IsCompleted() {
			return apperrors.ErrElectionCompleted
		}

		var voted int64
		if err := tx.Model(&model.Participation{}).
			Where("election_id = ? AND voter_id = ?", electionID, voterID).
			Count(&voted).Error; err != nil {
			return err
		}
		if voted > 0 {
			return apperrors.ErrAlreadyVoted
		}

		res := tx.Model(&model.Candidate{}).
			Where("election_id = ? AND candidate_id = ?", electionID, candidateID).
			UpdateColumn("votes", gorm.Expr("votes + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrCandidateNotFound
		}

		participation := &model.Participation{ElectionID: electionID, VoterID: voterID, VotedAt: time.Now()}
		if err := tx.Create(participation).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrAlreadyVoted
			}
			return err
		}
		return bumpVersion(tx, electionID)
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, electionID)
}

// WithTransaction executes a function within a database transaction.
func (r *electionRepository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *electionRepository) load(db *gorm.DB, id string) (*model.Election, error) {
	var election model.Election
	if err := preload(db).Where("id = ?", id).First(&election).Error; err != nil {
		return nil, electionError(err)
	}
	election.Normalize()
	return &election, nil
}

func preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Candidates", func(db *gorm.DB) *gorm.DB { return db.Order("candidate_id") }).
		Preload("Voters", func(db *gorm.DB) *gorm.DB { return db.Order("voted_at") })
}

// lockElection reads the election row with a row-level lock held until the
// transaction ends. SQLite ignores the locking clause; its single writer
// gives the same guarantee.
func lockElection(tx *gorm.DB, id string) (*model.Election, error) {
	var election model.Election
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&election).Error; err != nil {
		return nil, electionError(err)
	}
	return &election, nil
}

func bumpVersion(tx *gorm.DB, id string) error {
	return tx.Model(&model.Election{}).Where("id = ?", id).Updates(map[string]interface{}{
		"version":    gorm.Expr("version + 1"),
		"updated_at": time.Now(),
	}).Error
}

func electionError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrElectionNotFound
	}
	return err
}
