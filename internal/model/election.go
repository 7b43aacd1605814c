package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ElectionStatus represents the lifecycle state of an election.
type ElectionStatus string

const (
	ElectionOngoing   ElectionStatus = "ongoing"
	ElectionCompleted ElectionStatus = "completed"
)

// Election is a named voting event. It owns its candidate entries and the
// record of which voters have already voted.
type Election struct {
	ID     string         `json:"id" gorm:"type:char(36);primaryKey" bson:"_id"`
	Name   string         `json:"name" gorm:"size:255;not null" bson:"name"`
	Status ElectionStatus `json:"status" gorm:"type:varchar(20);not null;default:'ongoing';index" bson:"status"`
	// Version is bumped by every mutation.
	Version   int64     `json:"version" gorm:"not null;default:0" bson:"version"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`

	// Relations
	Candidates []Candidate     `json:"candidates" gorm:"foreignKey:ElectionID" bson:"candidates"`
	Voters     []Participation `json:"voters" gorm:"foreignKey:ElectionID" bson:"voters"`
}

// Candidate is an opaque candidate reference with its running vote count.
type Candidate struct {
	ElectionID  string `json:"-" gorm:"type:char(36);primaryKey" bson:"-"`
	CandidateID string `json:"candidateId" gorm:"column:candidate_id;size:255;primaryKey" bson:"_id"`
	Votes       int64  `json:"votes" gorm:"not null;default:0" bson:"votes"`
}

// Participation records that a voter has cast a vote in an election.
type Participation struct {
	ElectionID string    `json:"-" gorm:"type:char(36);primaryKey" bson:"-"`
	VoterID    string    `json:"voterId" gorm:"column:voter_id;size:255;primaryKey" bson:"_id"`
	VotedAt    time.Time `json:"votedAt" bson:"votedAt"`
}

// TableName keeps the participation table name readable.
func (Participation) TableName() string {
	return "election_voters"
}

// TableName groups candidate rows with their election.
func (Candidate) TableName() string {
	return "election_candidates"
}

// BeforeCreate sets UUID before creating the record.
func (e *Election) BeforeCreate(tx *gorm.DB) error {
	e.ApplyDefaults()
	return nil
}

// ApplyDefaults fills the id, status and empty collections when unset.
func (e *Election) ApplyDefaults() {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = ElectionOngoing
	}
	e.Normalize()
}

// Normalize replaces nil collections with empty ones so they encode as [] rather than null.
func (e *Election) Normalize() {
	if e.Candidates == nil {
		e.Candidates = []Candidate{}
	}
	if e.Voters == nil {
		e.Voters = []Participation{}
	}
}

// IsCompleted reports whether the election has been stopped.
func (e *Election) IsCompleted() bool {
	return e.Status == ElectionCompleted
}

// FindCandidate returns the candidate entry with the given id.
func (e *Election) FindCandidate(candidateID string) (*Candidate, bool) {
	for i := range e.Candidates {
		if e.Candidates[i].CandidateID == candidateID {
			return &e.Candidates[i], true
		}
	}
	return nil, false
}

// HasVoted reports whether voterID appears in the participation set.
func (e *Election) HasVoted(voterID string) bool {
	for _, p := range e.Voters {
		if p.VoterID == voterID {
			return true
		}
	}
	return false
}

// TotalVotes sums the vote counts of every candidate.
func (e *Election) TotalVotes() int64 {
	var total int64
	for _, c := range e.Candidates {
		total += c.Votes
	}
	return total
}
