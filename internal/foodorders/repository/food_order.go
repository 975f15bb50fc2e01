package repository

import (
	"context"
	"errors"
	"fmt"
	foodordererrors "guesthouse/internal/foodorders/errors"
	"guesthouse/pkg/config"
	"guesthouse/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const OrdersCollectionName = "FoodOrders"

type FoodOrderRepository interface {
	Create(ctx context.Context, order *model.FoodOrder) error
	FindByID(ctx context.Context, id string) (*model.FoodOrder, error)
	FindByBooking(ctx context.Context, bookingID string) ([]*model.FoodOrder, error)
}

type mongoFoodOrderRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoFoodOrderRepository(cfg *config.Config) FoodOrderRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoFoodOrderRepository{
		cfg:        cfg,
		collection: db.Collection(OrdersCollectionName),
	}
}

func (r *mongoFoodOrderRepository) Create(ctx context.Context, order *model.FoodOrder) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("failed to create food order: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid.Hex()
	}
	return nil
}

func (r *mongoFoodOrderRepository) FindByID(ctx context.Context, id string) (*model.FoodOrder, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", foodordererrors.ErrInvalidID, id)
	}

	var order model.FoodOrder
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, foodordererrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find food order: %w", err)
	}
	return &order, nil
}

func (r *mongoFoodOrderRepository) FindByBooking(ctx context.Context, bookingID string) ([]*model.FoodOrder, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find food orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []*model.FoodOrder{}
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode food orders: %w", err)
	}
	return orders, nil
}
