package user

import (
	"context"
	"encoding/json"
	"io"

	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/api"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/model"

	"github.com/rs/zerolog"
)

// Service reads and updates the signed-in user's profile.
type Service struct {
	client *api.Client
	logger zerolog.Logger
}

// NewService creates a user service.
func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.With().Str("service", "user").Logger(),
	}
}

// Profile returns the current user's profile. Checkout pre-fills its
// customer fields from this.
func (s *Service) Profile(ctx context.Context) (*model.User, error) {
	return api.Get[*model.User](ctx, s.client, "/user/profile")
}

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	Fullname string `json:"fullname"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// UpdateProfile updates the editable profile fields.
func (s *Service) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*model.User, error) {
	updated, err := api.Put[*model.User](ctx, s.client, "/user/profile", req)
	if err != nil {
		s.logger.Warn().Err(err).Msg("profile update failed")
		return nil, err
	}
	s.logger.Info().Msg("profile updated")
	return updated, nil
}

// UploadAvatar uploads a new avatar image and returns the updated profile.
func (s *Service) UploadAvatar(ctx context.Context, filename string, file io.Reader) (*model.User, error) {
	env, err := s.client.Upload(ctx, "/user/upload-avatar", "file", filename, file)
	if err != nil {
		s.logger.Warn().Err(err).Msg("avatar upload failed")
		return nil, err
	}

	var user *model.User
	if len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, &user); err != nil {
			return nil, model.ErrInvalidResponse
		}
	}
	return user, nil
}

// ChangePassword changes the account password.
func (s *Service) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	_, err := s.client.Do(ctx, "PUT", "/user/change-password", map[string]string{
		"oldPassword": oldPassword,
		"newPassword": newPassword,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("password change failed")
	}
	return err
}
