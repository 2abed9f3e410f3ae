package service

import (
	"context"
	"fmt"
	"strconv"

	"tablebooker/api/internal/domain"
)

type StatsService struct {
	repository  StatsRepository
	restaurants RestaurantRepository
	reviews     ReviewRepository
	leaderboard Leaderboard
	opts        settings
}

func NewStatsService(repository StatsRepository, restaurants RestaurantRepository, reviews ReviewRepository, leaderboard Leaderboard, opts ...Option) *StatsService {
	return &StatsService{
		repository:  repository,
		restaurants: restaurants,
		reviews:     reviews,
		leaderboard: leaderboard,
		opts:        newSettings(opts),
	}
}

func (s *StatsService) RestaurantStats(ctx context.Context, user domain.User, restaurantID int) (*domain.RestaurantStats, error) {
	if _, err := ownedRestaurant(ctx, s.restaurants, user, restaurantID); err != nil {
		return nil, err
	}

	counts, err := s.repository.BookingStatusCounts(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("booking counts: %w", err)
	}
	stats := &domain.RestaurantStats{
		RestaurantID:     restaurantID,
		BookingsByStatus: make(map[domain.BookingStatus]int, 4),
	}
	for _, status := range []domain.BookingStatus{domain.BookingConfirmed, domain.BookingPending, domain.BookingCancelled, domain.BookingCompleted} {
		stats.BookingsByStatus[status] = 0
	}
	for _, c := range counts {
		stats.BookingsByStatus[c.Status] += c.Count
		stats.TotalBookings += c.Count
		if c.Status != domain.BookingCancelled {
			stats.TotalGuests += c.Guests
		}
	}

	today := s.opts.now().Format(domain.DateLayout)
	if stats.UpcomingBookings, err = s.repository.UpcomingBookings(ctx, restaurantID, today); err != nil {
		return nil, fmt.Errorf("upcoming bookings: %w", err)
	}
	if stats.FavoritesCount, err = s.repository.FavoriteCount(ctx, restaurantID); err != nil {
		return nil, fmt.Errorf("favorite count: %w", err)
	}
	ratings, err := s.reviews.RatingCounts(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("rating counts: %w", err)
	}
	stats.Reviews = domain.NewReviewSummary(ratings)
	return stats, nil
}

// TopRated reads the rating leaderboard kept by the aggregation worker and
// falls back to the stored averages when it is empty or unreachable.
func (s *StatsService) TopRated(ctx context.Context, limit int) ([]domain.RestaurantScore, error) {
	_, limit = normalizePage(1, limit)
	if scores := s.fromLeaderboard(ctx, TopRatedKey, limit); len(scores) > 0 {
		return scores, nil
	}
	scores, err := s.repository.TopRatedRestaurants(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("top rated: %w", err)
	}
	return nonNilScores(scores), nil
}

// PopularToday ranks restaurants by bookings made for today.
func (s *StatsService) PopularToday(ctx context.Context, limit int) ([]domain.RestaurantScore, error) {
	_, limit = normalizePage(1, limit)
	today := s.opts.now().Format(domain.DateLayout)
	if scores := s.fromLeaderboard(ctx, PopularKey(today), limit); len(scores) > 0 {
		return scores, nil
	}
	scores, err := s.repository.PopularRestaurants(ctx, today, limit)
	if err != nil {
		return nil, fmt.Errorf("popular today: %w", err)
	}
	return nonNilScores(scores), nil
}

func (s *StatsService) fromLeaderboard(ctx context.Context, key string, limit int) []domain.RestaurantScore {
	if s.leaderboard == nil {
		return nil
	}
	members, err := s.leaderboard.TopMembers(ctx, key, limit)
	if err != nil {
		s.opts.logger.WithError(err).WithField("key", key).Warn("leaderboard unavailable")
		return nil
	}
	if len(members) == 0 {
		return nil
	}

	ids := make([]int, 0, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(m.Member)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	restaurants, err := s.restaurants.RestaurantsByIDs(ctx, ids)
	if err != nil {
		s.opts.logger.WithError(err).Warn("leaderboard restaurants lookup failed")
		return nil
	}
	byID := make(map[int]domain.Restaurant, len(restaurants))
	for _, r := range restaurants {
		byID[r.ID] = r
	}

	scores := make([]domain.RestaurantScore, 0, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(m.Member)
		if err != nil {
			continue
		}
		r, ok := byID[id]
		if !ok || !r.IsActive {
			continue
		}
		scores = append(scores, domain.RestaurantScore{Restaurant: r, Score: m.Score})
	}
	return scores
}

func nonNilScores(scores []domain.RestaurantScore) []domain.RestaurantScore {
	if scores == nil {
		return []domain.RestaurantScore{}
	}
	return scores
}
