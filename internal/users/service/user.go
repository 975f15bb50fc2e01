package service

import (
	"context"
	"errors"
	userserrors "guesthouse/internal/users/errors"
	"guesthouse/internal/users/repository"
	"guesthouse/internal/users/validator"
	"guesthouse/pkg/auth"
	"guesthouse/pkg/config"
	apperrors "guesthouse/pkg/errors"
	"guesthouse/pkg/model"
	"guesthouse/pkg/sanitizer"
	"strings"
)

type UserService interface {
	// Sync upserts the caller's user record from the verified token claims.
	// Non-empty fields of req override the claims.
	Sync(ctx context.Context, req *model.SyncUserRequest) (*model.User, error)
	Me(ctx context.Context) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	phones    *sanitizer.PhoneNormalizer
	cfg       *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	validator *validator.UserValidator,
	phones *sanitizer.PhoneNormalizer,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:      repo,
		validator: validator,
		phones:    phones,
		cfg:       cfg,
	}
}

func (s *userService) Sync(ctx context.Context, req *model.SyncUserRequest) (*model.User, error) {
	identity, err := auth.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if req == nil {
		req = &model.SyncUserRequest{}
	}
	if err := s.validator.ValidateSync(req); err != nil {
		s.cfg.Log.Warn("User sync validation failed", "token_identifier", identity.TokenIdentifier, "error", err)
		return nil, apperrors.Validation("Invalid profile input", map[string]any{"error": err.Error()})
	}

	user, err := s.fromIdentity(identity, req)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(user); err != nil {
		s.cfg.Log.Warn("User validation failed", "token_identifier", identity.TokenIdentifier, "error", err)
		return nil, apperrors.Validation("User validation failed", map[string]any{"error": err.Error()})
	}

	stored, err := s.repo.Upsert(ctx, user)
	if err != nil {
		if errors.Is(err, userserrors.ErrEmailTaken) {
			return nil, apperrors.Conflict("Email is already registered to another account")
		}
		s.cfg.Log.Error("Failed to sync user", "token_identifier", identity.TokenIdentifier, "error", err)
		return nil, apperrors.Internal("Failed to sync user", err)
	}

	s.cfg.Log.Info("User synced", "id", stored.ID, "token_identifier", stored.TokenIdentifier)
	return stored, nil
}

func (s *userService) Me(ctx context.Context) (*model.User, error) {
	identity, err := auth.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByTokenIdentifier(ctx, identity.TokenIdentifier)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFound("User")
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}
	return user, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if _, err := auth.RequireIdentity(ctx); err != nil {
		return nil, err
	}

	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.InvalidInput("Email cannot be empty")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFound("User")
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}
	return user, nil
}

// --- Helpers ---

func (s *userService) fromIdentity(id *auth.Identity, req *model.SyncUserRequest) (*model.User, error) {
	user := &model.User{
		TokenIdentifier: id.TokenIdentifier,
		Subject:         id.Subject,
		Issuer:          id.Issuer,
		Name:            firstNonEmpty(req.Name, id.Name, strings.TrimSpace(id.GivenName+" "+id.FamilyName), emailLocalPart(id.Email)),
		GivenName:       firstNonEmpty(req.GivenName, id.GivenName),
		FamilyName:      firstNonEmpty(req.FamilyName, id.FamilyName),
		Email:           sanitizer.NormalizeEmail(id.Email),
		EmailVerified:   id.EmailVerified,
		PictureURL:      sanitizer.NormalizeURL(firstNonEmpty(req.PictureURL, id.PictureURL)),
	}
	user.Name = sanitizer.NormalizeName(user.Name)
	user.GivenName = sanitizer.NormalizeName(user.GivenName)
	user.FamilyName = sanitizer.NormalizeName(user.FamilyName)

	if user.Email == "" {
		return nil, apperrors.Validation("User validation failed", map[string]any{"email": "token carries no email claim"})
	}

	rawPhone := firstNonEmpty(req.Phone, id.PhoneNumber)
	if rawPhone != "" {
		user.Phone = s.phones.Normalize(rawPhone)
		if user.Phone == "" {
			return nil, apperrors.Validation("User validation failed", map[string]any{"phone": "phone must be a valid phone number"})
		}
		// Only the number the identity provider vouched for keeps its verified flag.
		user.PhoneVerified = id.PhoneVerified && user.Phone == s.phones.Normalize(id.PhoneNumber)
	}

	return user, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func emailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
