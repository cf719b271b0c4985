package services

import (
	"log"

	"todosync/internal/models"
	"todosync/internal/repositories"
)

// GoogleProfile is what the OAuth callback hands us about the federated
// identity.
type GoogleProfile struct {
	ID    string
	Email string
}

// IdentityService reconciles a Google identity with a local account.
// Linking never creates users: an unknown email fails with
// ErrNoLinkableAccount.
type IdentityService interface {
	Link(profile GoogleProfile, accessToken, refreshToken string) (*models.User, error)
	Disconnect(userID int) error
}

type identityService struct {
	users repositories.UserRepository
}

func NewIdentityService(users repositories.UserRepository) IdentityService {
	return &identityService{users: users}
}

func (s *identityService) Link(profile GoogleProfile, accessToken, refreshToken string) (*models.User, error) {
	// уже привязан — только обновляем токены
	user, err := s.users.GetByGoogleID(profile.ID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if err := s.users.UpdateGoogleTokens(user.ID, accessToken, refreshToken); err != nil {
			return nil, err
		}
		user.AccessToken = &accessToken
		user.RefreshToken = &refreshToken
		log.Printf("[oauth][link] tokens refreshed userID=%d", user.ID)
		return user, nil
	}

	// привязка по email к существующему аккаунту
	user, err = s.users.GetByEmail(NormalizeEmail(profile.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNoLinkableAccount
	}

	if err := s.users.UpdateGoogleLink(user.ID, profile.ID, accessToken, refreshToken); err != nil {
		return nil, err
	}
	gid := profile.ID
	user.GoogleID = &gid
	user.AccessToken = &accessToken
	user.RefreshToken = &refreshToken
	log.Printf("[oauth][link] account linked userID=%d", user.ID)
	return user, nil
}

// Disconnect clears stored Google tokens; safe to call repeatedly.
func (s *identityService) Disconnect(userID int) error {
	return s.users.ClearGoogleTokens(userID)
}
