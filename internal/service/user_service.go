package service

import (
	"context"

	"linkup/internal/models"
	"linkup/internal/repository"
)

// UserService provides directory and profile business logic.
type UserService struct {
	userRepo repository.UserRepository
}

// UpdateProfileInput carries the editable profile fields. Empty fields are
// left unchanged.
type UpdateProfileInput struct {
	UserID    uint
	FullName  string
	Bio       string
	Location  string
	Phone     string
	Skills    []string
	Education string
	Avatar    string
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile returns the user's full profile.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// SearchDirectory returns public projections of users matching the query,
// always excluding the acting user. An empty query browses the whole
// directory.
func (s *UserService) SearchDirectory(ctx context.Context, query string, excludeUserID uint) ([]models.UserSummary, error) {
	users, err := s.userRepo.Search(ctx, query, excludeUserID)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, u.Summary())
	}
	return summaries, nil
}

// UpdateProfile applies the non-empty fields of in to the user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxFullNameLen = 100

	if in.FullName != "" {
		if len(in.FullName) > maxFullNameLen {
			return nil, models.NewValidationError("Full name too long (max 100 characters)")
		}
		user.FullName = in.FullName
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Location != "" {
		user.Location = in.Location
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if in.Skills != nil {
		user.Skills = in.Skills
	}
	if in.Education != "" {
		user.Education = in.Education
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
