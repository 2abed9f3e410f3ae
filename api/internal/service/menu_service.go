package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tablebooker/api/internal/domain"
)

type MenuService struct {
	repository  MenuRepository
	restaurants RestaurantRepository
}

func NewMenuService(repository MenuRepository, restaurants RestaurantRepository) *MenuService {
	return &MenuService{
		repository:  repository,
		restaurants: restaurants,
	}
}

func (s *MenuService) List(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	if _, err := activeRestaurant(ctx, s.restaurants, restaurantID); err != nil {
		return nil, err
	}
	items, err := s.repository.ListMenuItems(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	if items == nil {
		items = []domain.MenuItem{}
	}
	return items, nil
}

func (s *MenuService) Get(ctx context.Context, restaurantID, itemID int) (*domain.MenuItem, error) {
	item, err := s.repository.GetMenuItem(ctx, restaurantID, itemID)
	if err != nil {
		return nil, menuLookupError(err)
	}
	return item, nil
}

func (s *MenuService) Create(ctx context.Context, user domain.User, item *domain.MenuItem) error {
	if _, err := ownedRestaurant(ctx, s.restaurants, user, item.RestaurantID); err != nil {
		return err
	}
	if err := validateMenuItem(item); err != nil {
		return err
	}
	if err := s.repository.CreateMenuItem(ctx, item); err != nil {
		return fmt.Errorf("create menu item: %w", err)
	}
	return nil
}

func (s *MenuService) Update(ctx context.Context, user domain.User, restaurantID, itemID int, patch domain.MenuItemPatch) (*domain.MenuItem, error) {
	if _, err := ownedRestaurant(ctx, s.restaurants, user, restaurantID); err != nil {
		return nil, err
	}
	item, err := s.repository.GetMenuItem(ctx, restaurantID, itemID)
	if err != nil {
		return nil, menuLookupError(err)
	}
	patch.Apply(item)
	if err := validateMenuItem(item); err != nil {
		return nil, err
	}
	if err := s.repository.UpdateMenuItem(ctx, item); err != nil {
		return nil, menuLookupError(err)
	}
	return item, nil
}

func (s *MenuService) Delete(ctx context.Context, user domain.User, restaurantID, itemID int) error {
	if _, err := ownedRestaurant(ctx, s.restaurants, user, restaurantID); err != nil {
		return err
	}
	rows, err := s.repository.DeleteMenuItem(ctx, restaurantID, itemID)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	if rows == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

func (s *MenuService) UpdateImage(ctx context.Context, user domain.User, restaurantID, itemID int, imageURL string) error {
	if _, err := ownedRestaurant(ctx, s.restaurants, user, restaurantID); err != nil {
		return err
	}
	if err := s.repository.UpdateMenuItemImage(ctx, restaurantID, itemID, imageURL); err != nil {
		return menuLookupError(err)
	}
	return nil
}

func menuLookupError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return ErrMenuItemNotFound
	}
	return fmt.Errorf("load menu item: %w", err)
}

func validateMenuItem(item *domain.MenuItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return invalid("name", "name is required")
	}
	if len(item.Name) > maxNameLength {
		return invalid("name", fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}
	if item.Price < 0 {
		return invalid("price", "price must not be negative")
	}
	item.Category = strings.TrimSpace(item.Category)
	return nil
}
