package repository

import (
	"context"
	"fmt"
	"guesthouse/pkg/config"
	"guesthouse/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const MenuCollectionName = "FoodMenu"

type MenuRepository interface {
	// Find lists menu items, optionally restricted to one category.
	Find(ctx context.Context, category model.MenuCategory, availableOnly bool) ([]*model.MenuItem, error)
	// FindByIDs returns the items matching ids. Unknown or malformed ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]*model.MenuItem, error)
}

type mongoMenuRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoMenuRepository(cfg *config.Config) MenuRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMenuRepository{
		cfg:        cfg,
		collection: db.Collection(MenuCollectionName),
	}
}

func (r *mongoMenuRepository) Find(ctx context.Context, category model.MenuCategory, availableOnly bool) ([]*model.MenuItem, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, MenuFilter(category, availableOnly), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find menu items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []*model.MenuItem{}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode menu items: %w", err)
	}
	return items, nil
}

func (r *mongoMenuRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.MenuItem, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			objectIDs = append(objectIDs, oid)
		}
	}
	if len(objectIDs) == 0 {
		return []*model.MenuItem{}, nil
	}

	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find menu items by ids: %w", err)
	}
	defer cursor.Close(ctx)

	items := []*model.MenuItem{}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode menu items: %w", err)
	}
	return items, nil
}

func MenuFilter(category model.MenuCategory, availableOnly bool) bson.M {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if availableOnly {
		filter["is_available"] = true
	}
	return filter
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}
