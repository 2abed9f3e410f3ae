package service

import (
	"context"
	"errors"
	"fmt"

	"tablebooker/api/internal/domain"
)

type FavoriteService struct {
	repository  FavoriteRepository
	restaurants RestaurantRepository
}

func NewFavoriteService(repository FavoriteRepository, restaurants RestaurantRepository) *FavoriteService {
	return &FavoriteService{
		repository:  repository,
		restaurants: restaurants,
	}
}

func (s *FavoriteService) Add(ctx context.Context, user domain.User, restaurantID int) error {
	if err := requireAuthenticated(user); err != nil {
		return err
	}
	if _, err := activeRestaurant(ctx, s.restaurants, restaurantID); err != nil {
		return err
	}
	if err := s.repository.AddFavorite(ctx, user.ID, restaurantID); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return ErrDuplicateFavorite
		}
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (s *FavoriteService) Remove(ctx context.Context, user domain.User, restaurantID int) error {
	if err := requireAuthenticated(user); err != nil {
		return err
	}
	rows, err := s.repository.RemoveFavorite(ctx, user.ID, restaurantID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	if rows == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

func (s *FavoriteService) List(ctx context.Context, user domain.User) ([]domain.FavoriteRestaurant, error) {
	if err := requireAuthenticated(user); err != nil {
		return nil, err
	}
	favorites, err := s.repository.ListFavorites(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	if favorites == nil {
		favorites = []domain.FavoriteRestaurant{}
	}
	return favorites, nil
}

func (s *FavoriteService) IsFavorite(ctx context.Context, user domain.User, restaurantID int) (bool, error) {
	if err := requireAuthenticated(user); err != nil {
		return false, err
	}
	ok, err := s.repository.IsFavorite(ctx, user.ID, restaurantID)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return ok, nil
}
