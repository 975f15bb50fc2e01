package repository

import (
	"context"
	"errors"
	"fmt"
	userserrors "guesthouse/internal/users/errors"
	"guesthouse/pkg/config"
	"guesthouse/pkg/model"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Users"
)

type UserRepository interface {
	FindByTokenIdentifier(ctx context.Context, tokenIdentifier string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// Upsert creates or refreshes the user keyed by TokenIdentifier and returns the stored document.
	Upsert(ctx context.Context, user *model.User) (*model.User, error)
}

type mongoUserRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoUserRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoUserRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoUserRepository) FindByTokenIdentifier(ctx context.Context, tokenIdentifier string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"token_identifier": tokenIdentifier})
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var user model.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, userserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *mongoUserRepository) Upsert(ctx context.Context, user *model.User) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"name":           user.Name,
			"given_name":     user.GivenName,
			"family_name":    user.FamilyName,
			"email":          user.Email,
			"email_verified": user.EmailVerified,
			"phone":          user.Phone,
			"phone_verified": user.PhoneVerified,
			"picture_url":    user.PictureURL,
			"issuer":         user.Issuer,
			"updated_at":     now,
		},
		"$setOnInsert": bson.M{
			"subject":    user.Subject,
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	filter := bson.M{"token_identifier": user.TokenIdentifier}

	// Two first-time syncs of one identity race on the token_identifier index;
	// the loser retries once and lands on the update path.
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		var stored model.User
		err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
		if err == nil {
			return &stored, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("failed to upsert user: %w", err)
		}
		if strings.Contains(err.Error(), "email") {
			return nil, userserrors.ErrEmailTaken
		}
	}

	return nil, fmt.Errorf("failed to upsert user: %w", err)
}
