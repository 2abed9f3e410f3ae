package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"tablebooker/api/internal/domain"
	"tablebooker/events"
)

type ReviewService struct {
	repository  ReviewRepository
	restaurants RestaurantRepository
	publisher   EventPublisher
	opts        settings
}

func NewReviewService(repository ReviewRepository, restaurants RestaurantRepository, publisher EventPublisher, opts ...Option) *ReviewService {
	return &ReviewService{
		repository:  repository,
		restaurants: restaurants,
		publisher:   publisher,
		opts:        newSettings(opts),
	}
}

// Create stores the customer's only review of a restaurant. Uniqueness is
// enforced by the store.
func (s *ReviewService) Create(ctx context.Context, user domain.User, review *domain.Review) error {
	if err := requireCustomer(user); err != nil {
		return err
	}
	if err := validateReview(review.Rating, &review.Comment); err != nil {
		return err
	}
	if _, err := activeRestaurant(ctx, s.restaurants, review.RestaurantID); err != nil {
		return err
	}
	review.CustomerID = user.ID

	if err := s.repository.CreateReview(ctx, review); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return ErrDuplicateReview
		}
		return fmt.Errorf("create review: %w", err)
	}

	s.publish(review, events.TypeReviewCreated)
	s.opts.logger.WithFields(logrus.Fields{
		"review_id":     review.ID,
		"restaurant_id": review.RestaurantID,
		"rating":        review.Rating,
	}).Info("review created")
	return nil
}

func (s *ReviewService) Get(ctx context.Context, id int) (*domain.Review, error) {
	review, err := s.repository.GetReview(ctx, id)
	if err != nil {
		return nil, reviewLookupError(err)
	}
	return review, nil
}

func (s *ReviewService) Update(ctx context.Context, user domain.User, id, rating int, comment string) (*domain.Review, error) {
	review, err := s.authored(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if err := validateReview(rating, &comment); err != nil {
		return nil, err
	}
	review.Rating = rating
	review.Comment = comment

	if err := s.repository.UpdateReview(ctx, review); err != nil {
		return nil, reviewLookupError(err)
	}
	s.publish(review, events.TypeReviewUpdated)
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, user domain.User, id int) error {
	review, err := s.authored(ctx, user, id)
	if err != nil {
		return err
	}
	if err := s.repository.DeleteReview(ctx, id); err != nil {
		return reviewLookupError(err)
	}
	s.publish(review, events.TypeReviewDeleted)
	return nil
}

// Reply attaches the restaurant owner's answer to a review.
func (s *ReviewService) Reply(ctx context.Context, user domain.User, id int, reply string) (*domain.Review, error) {
	if err := requireOwner(user); err != nil {
		return nil, err
	}
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.OwnerID != user.ID && !user.IsAdmin() {
		return nil, ErrForbidden
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, invalid("reply", "reply is required")
	}
	if utf8.RuneCountInString(reply) > domain.MaxCommentLength {
		return nil, invalid("reply", fmt.Sprintf("reply must be at most %d characters", domain.MaxCommentLength))
	}

	at := s.opts.now()
	if err := s.repository.ReplyToReview(ctx, id, reply, at); err != nil {
		return nil, reviewLookupError(err)
	}
	review.OwnerReply = reply
	review.RepliedAt = &at
	return review, nil
}

func (s *ReviewService) ListForRestaurant(ctx context.Context, restaurantID, page, limit int) (*domain.ReviewPage, error) {
	if _, err := activeRestaurant(ctx, s.restaurants, restaurantID); err != nil {
		return nil, err
	}
	page, limit = normalizePage(page, limit)

	reviews, err := s.repository.ListRestaurantReviews(ctx, restaurantID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	counts, err := s.repository.RatingCounts(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("rating counts: %w", err)
	}

	return &domain.ReviewPage{
		Reviews: reviews,
		Summary: domain.NewReviewSummary(counts),
		Page:    page,
		Limit:   limit,
	}, nil
}

func (s *ReviewService) ListMine(ctx context.Context, user domain.User) ([]domain.Review, error) {
	if err := requireAuthenticated(user); err != nil {
		return nil, err
	}
	reviews, err := s.repository.ListCustomerReviews(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

func (s *ReviewService) authored(ctx context.Context, user domain.User, id int) (*domain.Review, error) {
	if err := requireAuthenticated(user); err != nil {
		return nil, err
	}
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.CustomerID != user.ID && !user.IsAdmin() {
		return nil, ErrForbidden
	}
	return review, nil
}

func (s *ReviewService) publish(review *domain.Review, eventType string) {
	if s.publisher == nil {
		return
	}
	msg := events.ReviewMessage{
		ID:           events.NewID(),
		Type:         eventType,
		ReviewID:     review.ID,
		RestaurantID: review.RestaurantID,
		CustomerID:   review.CustomerID,
		Rating:       review.Rating,
		Timestamp:    s.opts.now(),
	}
	s.opts.background("publish "+eventType, logrus.Fields{"review_id": review.ID}, func(ctx context.Context) error {
		return s.publisher.PublishReview(ctx, msg)
	})
}

func validateReview(rating int, comment *string) error {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return invalid("rating", fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	*comment = strings.TrimSpace(*comment)
	if utf8.RuneCountInString(*comment) > domain.MaxCommentLength {
		return invalid("comment", fmt.Sprintf("comment must be at most %d characters", domain.MaxCommentLength))
	}
	return nil
}

func reviewLookupError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return ErrReviewNotFound
	}
	return fmt.Errorf("load review: %w", err)
}
