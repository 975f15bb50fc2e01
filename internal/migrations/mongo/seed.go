package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"guesthouse/pkg/logger"
	"guesthouse/pkg/model"
	"guesthouse/pkg/sanitizer"
)

// SeedRoomsData is the reference catalogue. Rooms are matched by name.
var SeedRoomsData = []model.Room{
	{
		Name: "Mountain View Suite",
		Description: "Luxurious suite with a breathtaking view of the mountains. The room features a king-size bed, " +
			"a spacious seating area, and a private balcony where you can enjoy your morning coffee while watching " +
			"the sunrise over the hills.",
		ShortDescription: "Luxury suite with mountain views and private balcony",
		Type:             model.RoomTypeSuite,
		Price:            299,
		Capacity:         2,
		Size:             500,
		Amenities:        []string{"King Bed", "Mountain View", "Private Balcony", "Mini Bar", "Room Service", "Air Conditioning", "Free Wi-Fi"},
		Images:           []string{"/images/suite1.jpg", "/images/suite2.jpg", "/images/suite3.jpg"},
		Featured:         true,
		IsAvailable:      true,
	},
	{
		Name: "Deluxe Valley Room",
		Description: "Comfortable deluxe room overlooking the valley. The room comes with a queen-size bed, a work desk, " +
			"and large windows that offer panoramic views of the lush valley below.",
		ShortDescription: "Comfortable room with valley views",
		Type:             model.RoomTypeDeluxe,
		Price:            199,
		Capacity:         2,
		Size:             400,
		Amenities:        []string{"Queen Bed", "Valley View", "Work Desk", "Air Conditioning", "Free Wi-Fi", "Tea/Coffee Maker"},
		Images:           []string{"/images/deluxe1.jpg", "/images/deluxe2.jpg"},
		Featured:         true,
		IsAvailable:      true,
	},
	{
		Name: "Standard Garden Room",
		Description: "Cozy standard room with garden access. This room features two single beds, a small seating area, " +
			"and direct access to our beautiful garden area.",
		ShortDescription: "Cozy room with garden access",
		Type:             model.RoomTypeStandard,
		Price:            149,
		Capacity:         2,
		Size:             300,
		Amenities:        []string{"Twin Beds", "Garden View", "Air Conditioning", "Free Wi-Fi", "Tea/Coffee Maker"},
		Images:           []string{"/images/standard1.jpg", "/images/standard2.jpg"},
		Featured:         false,
		IsAvailable:      true,
	},
}

// SeedRoomUpdate builds the upsert for one reference room. booking_version and
// created_at are only written on insert so re-seeding never resets them.
func SeedRoomUpdate(room model.Room, now time.Time) bson.M {
	set := bson.M{
		"description":       room.Description,
		"short_description": room.ShortDescription,
		"type":              room.Type,
		"price":             room.Price,
		"capacity":          room.Capacity,
		"size":              room.Size,
		"amenities":         sanitizer.NormalizeAmenities(room.Amenities),
		"images":            room.Images,
		"featured":          room.Featured,
		"is_available":      room.IsAvailable,
		"updated_at":        now,
	}
	if room.Discount != nil {
		set["discount"] = *room.Discount
	}

	return bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"booking_version": int64(0),
			"created_at":      now,
		},
	}
}

func SeedRooms(ctx context.Context, coll *mongo.Collection, log *logger.Logger) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	opts := options.Update().SetUpsert(true)

	for _, room := range SeedRoomsData {
		result, err := coll.UpdateOne(ctx, bson.M{"name": room.Name}, SeedRoomUpdate(room, now), opts)
		if err != nil {
			return fmt.Errorf("failed to seed room %q: %w", room.Name, err)
		}
		log.Info("Seeded room",
			"name", room.Name,
			"inserted", result.UpsertedCount > 0,
			"updated", result.ModifiedCount > 0,
		)
	}
	return nil
}

// SeedMenuData is the kitchen's standing menu. Items are matched by name.
var SeedMenuData = []model.MenuItem{
	{Name: "Aloo Paratha", Description: "Whole wheat flatbread stuffed with spiced potato, served with curd and pickle.", Price: 6, Category: model.MenuCategoryBreakfast, Vegetarian: true, PreparationTime: 20},
	{Name: "Masala Omelette", Description: "Three-egg omelette with onion, tomato and green chilli, with buttered toast.", Price: 7.5, Category: model.MenuCategoryBreakfast, PreparationTime: 15},
	{Name: "Kumaoni Thali", Description: "Local lentils, seasonal greens, bhaang chutney, rice and rotis.", Price: 14, Category: model.MenuCategoryLunch, Vegetarian: true, PreparationTime: 30},
	{Name: "Chicken Curry with Rice", Description: "Slow-cooked hill-style chicken curry with steamed rice.", Price: 16, Category: model.MenuCategoryDinner, PreparationTime: 35},
	{Name: "Vegetable Momos", Description: "Steamed dumplings with a spicy tomato dip.", Price: 5, Category: model.MenuCategorySnacks, Vegetarian: true, PreparationTime: 15},
	{Name: "Ginger Chai", Description: "Milk tea brewed with fresh ginger and cardamom.", Price: 2, Category: model.MenuCategoryBeverages, Vegetarian: true, PreparationTime: 5},
	{Name: "Rhododendron Juice", Description: "Chilled juice from local buransh flowers.", Price: 3, Category: model.MenuCategoryBeverages, Vegetarian: true, PreparationTime: 5},
}

// SeedMenuUpdate builds the upsert for one menu item. Availability is only set on
// insert so the kitchen can take an item off the menu without a re-seed undoing it.
func SeedMenuUpdate(item model.MenuItem, now time.Time) bson.M {
	set := bson.M{
		"description":      item.Description,
		"price":            item.Price,
		"category":         item.Category,
		"vegetarian":       item.Vegetarian,
		"preparation_time": item.PreparationTime,
		"updated_at":       now,
	}
	if item.Image != "" {
		set["image"] = item.Image
	}

	return bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"is_available": true,
			"created_at":   now,
		},
	}
}

func SeedMenu(ctx context.Context, coll *mongo.Collection, log *logger.Logger) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	opts := options.Update().SetUpsert(true)

	for _, item := range SeedMenuData {
		result, err := coll.UpdateOne(ctx, bson.M{"name": item.Name}, SeedMenuUpdate(item, now), opts)
		if err != nil {
			return fmt.Errorf("failed to seed menu item %q: %w", item.Name, err)
		}
		log.Info("Seeded menu item",
			"name", item.Name,
			"inserted", result.UpsertedCount > 0,
			"updated", result.ModifiedCount > 0,
		)
	}
	return nil
}
