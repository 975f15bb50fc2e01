package service

import (
	"context"
	"errors"
	userserrors "guesthouse/internal/users/errors"
	"guesthouse/internal/users/validator"
	"guesthouse/pkg/auth"
	"guesthouse/pkg/config"
	apperrors "guesthouse/pkg/errors"
	"guesthouse/pkg/logger"
	"guesthouse/pkg/model"
	"guesthouse/pkg/sanitizer"
	"testing"
	"time"
)

type mockUserRepository struct {
	findByTokenFunc func(ctx context.Context, tokenIdentifier string) (*model.User, error)
	findByEmailFunc func(ctx context.Context, email string) (*model.User, error)
	upsertFunc      func(ctx context.Context, user *model.User) (*model.User, error)
}

func (m *mockUserRepository) FindByTokenIdentifier(ctx context.Context, tokenIdentifier string) (*model.User, error) {
	if m.findByTokenFunc != nil {
		return m.findByTokenFunc(ctx, tokenIdentifier)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) Upsert(ctx context.Context, user *model.User) (*model.User, error) {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, user)
	}
	stored := *user
	stored.ID = "65f1a2b3c4d5e6f7a8b9c0d1"
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	return &stored, nil
}

func newTestService(repo *mockUserRepository) UserService {
	log := logger.Discard()
	cfg := &config.Config{Log: log}
	return NewUserService(repo, validator.NewUserValidator(log), sanitizer.NewPhoneNormalizer([]string{"IN", "US"}), cfg)
}

func withIdentity(id *auth.Identity) context.Context {
	return auth.WithIdentity(context.Background(), id)
}

func guest() *auth.Identity {
	return &auth.Identity{
		Subject:         "user_2abc",
		Issuer:          "https://clerk.example.com",
		TokenIdentifier: "clerk:user_2abc",
		Email:           "Asha.Rao@Example.com",
		EmailVerified:   true,
		Name:            "  Asha   Rao ",
		GivenName:       "Asha",
		FamilyName:      "Rao",
		PhoneNumber:     "+91 98765 43210",
		PhoneVerified:   true,
	}
}

func TestSync_FromClaims(t *testing.T) {
	var upserted *model.User
	repo := &mockUserRepository{
		upsertFunc: func(_ context.Context, user *model.User) (*model.User, error) {
			upserted = user
			return user, nil
		},
	}

	user, err := newTestService(repo).Sync(withIdentity(guest()), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if upserted.TokenIdentifier != "clerk:user_2abc" {
		t.Errorf("TokenIdentifier = %q", upserted.TokenIdentifier)
	}
	if user.Name != "Asha Rao" {
		t.Errorf("Name = %q, want normalized", user.Name)
	}
	if user.Email != "asha.rao@example.com" {
		t.Errorf("Email = %q, want lowercased", user.Email)
	}
	if user.Phone != "+919876543210" || !user.PhoneVerified {
		t.Errorf("Phone = %q verified=%v", user.Phone, user.PhoneVerified)
	}
}

func TestSync_RequestOverridesClaims(t *testing.T) {
	repo := &mockUserRepository{
		upsertFunc: func(_ context.Context, user *model.User) (*model.User, error) { return user, nil },
	}

	user, err := newTestService(repo).Sync(withIdentity(guest()), &model.SyncUserRequest{
		Name:  "Asha R.",
		Phone: "+1 650 253 0000",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Name != "Asha R." {
		t.Errorf("Name = %q", user.Name)
	}
	if user.Phone != "+16502530000" {
		t.Errorf("Phone = %q", user.Phone)
	}
	if user.PhoneVerified {
		t.Error("a phone number that differs from the verified claim must not be marked verified")
	}
}

func TestSync_NameFallsBackToEmail(t *testing.T) {
	id := guest()
	id.Name, id.GivenName, id.FamilyName = "", "", ""
	repo := &mockUserRepository{
		upsertFunc: func(_ context.Context, user *model.User) (*model.User, error) { return user, nil },
	}

	user, err := newTestService(repo).Sync(withIdentity(id), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Name != "Asha.Rao" {
		t.Errorf("Name = %q", user.Name)
	}
}

func TestSync_Errors(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		req      *model.SyncUserRequest
		repoErr  error
		wantCode string
	}{
		{name: "anonymous", ctx: context.Background(), wantCode: apperrors.CodeUnauthorized},
		{name: "invalid phone", ctx: withIdentity(guest()), req: &model.SyncUserRequest{Phone: "not-a-phone"}, wantCode: apperrors.CodeValidation},
		{name: "invalid picture url", ctx: withIdentity(guest()), req: &model.SyncUserRequest{PictureURL: "nope"}, wantCode: apperrors.CodeValidation},
		{name: "email collision", ctx: withIdentity(guest()), repoErr: userserrors.ErrEmailTaken, wantCode: apperrors.CodeConflict},
		{name: "database failure", ctx: withIdentity(guest()), repoErr: errors.New("boom"), wantCode: apperrors.CodeInternal},
		{
			name: "missing email claim",
			ctx: withIdentity(&auth.Identity{
				Subject: "user_2abc", TokenIdentifier: "clerk:user_2abc", Name: "Asha",
			}),
			wantCode: apperrors.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepository{}
			if tt.repoErr != nil {
				repo.upsertFunc = func(context.Context, *model.User) (*model.User, error) { return nil, tt.repoErr }
			}

			_, err := newTestService(repo).Sync(tt.ctx, tt.req)
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("expected code %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestMe(t *testing.T) {
	repo := &mockUserRepository{
		findByTokenFunc: func(_ context.Context, tokenIdentifier string) (*model.User, error) {
			if tokenIdentifier != "clerk:user_2abc" {
				return nil, userserrors.ErrNotFound
			}
			return &model.User{ID: "u1", TokenIdentifier: tokenIdentifier}, nil
		},
	}
	svc := newTestService(repo)

	user, err := svc.Me(withIdentity(guest()))
	if err != nil || user.ID != "u1" {
		t.Fatalf("Me() = %v, %v", user, err)
	}

	other := guest()
	other.TokenIdentifier = "clerk:someone_else"
	if _, err := svc.Me(withIdentity(other)); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected not found for unsynced identity, got %v", err)
	}

	if _, err := svc.Me(context.Background()); !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestGetByEmail(t *testing.T) {
	var looked string
	repo := &mockUserRepository{
		findByEmailFunc: func(_ context.Context, email string) (*model.User, error) {
			looked = email
			return &model.User{Email: email}, nil
		},
	}
	svc := newTestService(repo)

	if _, err := svc.GetByEmail(withIdentity(guest()), "  Guest@Example.COM "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if looked != "guest@example.com" {
		t.Errorf("looked up %q, want normalized email", looked)
	}

	if _, err := svc.GetByEmail(withIdentity(guest()), "   "); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
	if _, err := svc.GetByEmail(context.Background(), "guest@example.com"); !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
}
