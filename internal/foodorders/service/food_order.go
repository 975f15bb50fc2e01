package service

import (
	"context"
	"errors"
	foodordererrors "guesthouse/internal/foodorders/errors"
	"guesthouse/internal/foodorders/repository"
	"guesthouse/internal/foodorders/validator"
	"guesthouse/pkg/config"
	apperrors "guesthouse/pkg/errors"
	"guesthouse/pkg/model"
	"guesthouse/pkg/sanitizer"
	"time"
)

// BookingReader loads a booking on behalf of the request identity. It fails with
// UNAUTHORIZED, FORBIDDEN or NOT_FOUND when the caller may not see the booking.
type BookingReader interface {
	GetByID(ctx context.Context, id string) (*model.Booking, error)
}

type FoodOrderService interface {
	Menu(ctx context.Context, category string) ([]*model.MenuItem, error)
	Create(ctx context.Context, req *model.CreateFoodOrderRequest) (*model.FoodOrder, error)
	GetByID(ctx context.Context, id string) (*model.FoodOrder, error)
	ListForBooking(ctx context.Context, bookingID string) ([]*model.FoodOrder, error)
}

type foodOrderService struct {
	repo      repository.FoodOrderRepository
	menu      repository.MenuRepository
	bookings  BookingReader
	validator *validator.FoodOrderValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewFoodOrderService(
	repo repository.FoodOrderRepository,
	menu repository.MenuRepository,
	bookings BookingReader,
	validator *validator.FoodOrderValidator,
	cfg *config.Config,
) FoodOrderService {
	return &foodOrderService{
		repo:      repo,
		menu:      menu,
		bookings:  bookings,
		validator: validator,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (s *foodOrderService) Menu(ctx context.Context, category string) ([]*model.MenuItem, error) {
	c := model.MenuCategory(sanitizer.NormalizeLabel(category))
	if c != "" && !c.IsValid() {
		return nil, apperrors.Validation("Invalid menu category", map[string]any{
			"category": "category must be one of: breakfast lunch dinner snacks beverages",
		})
	}

	items, err := s.menu.Find(ctx, c, true)
	if err != nil {
		s.cfg.Log.Error("Failed to list menu", "category", c, "error", err)
		return nil, apperrors.Internal("Failed to retrieve menu", err)
	}
	return items, nil
}

func (s *foodOrderService) Create(ctx context.Context, req *model.CreateFoodOrderRequest) (*model.FoodOrder, error) {
	s.sanitize(req)
	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Food order validation failed", "error", err)
		return nil, apperrors.Validation("Food order validation failed", map[string]any{"error": err.Error()})
	}

	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.BookingStatusPending && booking.Status != model.BookingStatusConfirmed {
		return nil, apperrors.Conflict("Food can only be ordered for pending or confirmed bookings")
	}

	items, err := s.priceItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &model.FoodOrder{
		UserID:           booking.UserID,
		BookingID:        booking.ID,
		Items:            items,
		TotalPrice:       model.PriceFoodOrder(items),
		Status:           model.FoodOrderStatusPending,
		DeliveryLocation: req.DeliveryLocation,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		s.cfg.Log.Error("Failed to create food order", "booking_id", booking.ID, "error", err)
		return nil, apperrors.Internal("Failed to create food order", err)
	}

	s.cfg.Log.Info("Food order created successfully",
		"id", order.ID,
		"booking_id", order.BookingID,
		"user_id", order.UserID,
		"items", len(order.Items),
		"total_price", order.TotalPrice,
	)
	return order, nil
}

func (s *foodOrderService) GetByID(ctx context.Context, id string) (*model.FoodOrder, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Food order ID cannot be empty")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, foodordererrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Food order", id)
		}
		if errors.Is(err, foodordererrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid food order ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve food order", err)
	}

	// Orders are visible to whoever may see the booking they belong to.
	if _, err := s.bookings.GetByID(ctx, order.BookingID); err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.Forbidden("Not authorized to view this food order")
		}
		return nil, err
	}
	return order, nil
}

func (s *foodOrderService) ListForBooking(ctx context.Context, bookingID string) ([]*model.FoodOrder, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("booking_id is required")
	}

	if _, err := s.bookings.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}

	orders, err := s.repo.FindByBooking(ctx, bookingID)
	if err != nil {
		s.cfg.Log.Error("Failed to list food orders", "booking_id", bookingID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve food orders", err)
	}
	return orders, nil
}

// priceItems resolves every requested menu item with one lookup and snapshots its price.
func (s *foodOrderService) priceItems(ctx context.Context, requested []model.FoodOrderItemRequest) ([]model.FoodOrderItem, error) {
	seen := make(map[string]bool, len(requested))
	ids := make([]string, 0, len(requested))
	for _, r := range requested {
		if !seen[r.MenuItemID] {
			seen[r.MenuItemID] = true
			ids = append(ids, r.MenuItemID)
		}
	}

	found, err := s.menu.FindByIDs(ctx, ids)
	if err != nil {
		s.cfg.Log.Error("Failed to load menu items", "ids", ids, "error", err)
		return nil, apperrors.Internal("Failed to retrieve menu items", err)
	}
	byID := make(map[string]*model.MenuItem, len(found))
	for _, item := range found {
		byID[item.ID] = item
	}

	items := make([]model.FoodOrderItem, 0, len(requested))
	for _, r := range requested {
		menuItem, ok := byID[r.MenuItemID]
		if !ok {
			return nil, apperrors.NotFoundWithID("Menu item", r.MenuItemID)
		}
		if !menuItem.IsAvailable {
			return nil, apperrors.Validation("Food order validation failed", map[string]any{
				"menu_item_id": r.MenuItemID,
				"error":        menuItem.Name + " is not available",
			})
		}
		items = append(items, model.FoodOrderItem{
			MenuItemID:          r.MenuItemID,
			Name:                menuItem.Name,
			Quantity:            r.Quantity,
			UnitPrice:           menuItem.Price,
			SpecialInstructions: r.SpecialInstructions,
		})
	}
	return items, nil
}

func (s *foodOrderService) sanitize(req *model.CreateFoodOrderRequest) {
	req.DeliveryLocation = sanitizer.NormalizeLabel(req.DeliveryLocation)
	for i := range req.Items {
		req.Items[i].SpecialInstructions = sanitizer.NormalizeFreeText(req.Items[i].SpecialInstructions)
	}
}
