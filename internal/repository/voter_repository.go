package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "evote/internal/errors"
	"evote/internal/model"
)

// VoterRepository defines voter persistence operations. Implementations
// report missing records as errors.ErrVoterNotFound and email collisions as
// errors.ErrDuplicateEmail.
type VoterRepository interface {
	Create(ctx context.Context, voter *model.Voter) error
	FindByID(ctx context.Context, id string) (*model.Voter, error)
	FindByEmail(ctx context.Context, email string) (*model.Voter, error)
	List(ctx context.Context, filter model.VoterFilter) ([]model.Voter, error)
	Delete(ctx context.Context, id string) error
	ToggleRole(ctx context.Context, id string) (*model.Voter, error)
	Promote(ctx context.Context, id string) error
}

type voterRepository struct {
	db *gorm.DB
}

// NewVoterRepository builds a GORM-backed repository.
func NewVoterRepository(db *gorm.DB) VoterRepository {
	return &voterRepository{db: db}
}

// Create inserts a new voter; the unique email index settles concurrent registrations.
func (r *voterRepository) Create(ctx context.Context, voter *model.Voter) error {
	err := r.db.WithContext(ctx).Create(voter).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrDuplicateEmail
	}
	return err
}

func (r *voterRepository) FindByID(ctx context.Context, id string) (*model.Voter, error) {
	var voter model.Voter
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&voter).Error; err != nil {
		return nil, voterError(err)
	}
	return &voter, nil
}

func (r *voterRepository) FindByEmail(ctx context.Context, email string) (*model.Voter, error) {
	var voter model.Voter
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&voter).Error; err != nil {
		return nil, voterError(err)
	}
	return &voter, nil
}

// List returns voters matching every field of filter. Field names must
// already be validated against model.VoterFilterFields.
func (r *voterRepository) List(ctx context.Context, filter model.VoterFilter) ([]model.Voter, error) {
	query := r.db.WithContext(ctx).Order("created_at")
	for field, value := range filter {
		query = query.Where(clause.Eq{Column: clause.Column{Name: field}, Value: value})
	}
	voters := []model.Voter{}
	if err := query.Find(&voters).Error; err != nil {
		return nil, err
	}
	return voters, nil
}

func (r *voterRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Voter{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrVoterNotFound
	}
	return nil
}

// ToggleRole flips voter and admin in a single UPDATE so concurrent toggles
// never read a stale role.
func (r *voterRepository) ToggleRole(ctx context.Context, id string) (*model.Voter, error) {
	res := r.db.WithContext(ctx).Model(&model.Voter{}).
		Where("id = ?", id).
		Update("role", gorm.Expr("CASE WHEN role = ? THEN ? ELSE ? END", model.RoleVoter, model.RoleAdmin, model.RoleVoter))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrVoterNotFound
	}
	return r.FindByID(ctx, id)
}

// Promote sets the admin role unconditionally.
func (r *voterRepository) Promote(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&model.Voter{}).
		Where("id = ?", id).
		Update("role", model.RoleAdmin)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// MySQL reports zero affected rows when the value is unchanged.
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func voterError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrVoterNotFound
	}
	return err
}
