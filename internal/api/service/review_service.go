package service

import (
	"context"
	"errors"
	"net/http"

	"critichub/internal/api/dto"
	"critichub/internal/api/models"
	"critichub/internal/api/permission"
	"critichub/internal/api/repository"

	"gorm.io/gorm"
)

// ReviewService manages reviews scoped under a title. Mutations resolve the
// target first and then defer the allow/deny decision to the permission
// evaluator.
type ReviewService interface {
	List(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, authorID string, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	Update(ctx context.Context, actor *permission.Actor, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, actor *permission.Actor, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, titleRepo: titleRepo}
}

func (s *reviewService) List(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.ListByTitle(ctx, titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	return dto.NewPaginatedReviewResponse(responses, int(total), page, pageSize), nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

// Create resolves the parent title from the path and attaches the requester
// as author. A second review by the same author for the same title trips the
// unique index and surfaces as a validation error.
func (s *reviewService) Create(ctx context.Context, authorID string, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	review := &models.Review{
		AuthorID: authorID,
		TitleID:  titleID,
		Text:     req.Text,
		Score:    req.Score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	created, err := s.reviewRepo.FindByIDAndTitle(ctx, review.ID, titleID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(created), nil
}

func (s *reviewService) Update(ctx context.Context, actor *permission.Actor, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !permission.OwnerOrModeratorOrAdminOrReadOnly(http.MethodPatch, actor, review.AuthorID) {
		return nil, ErrPermissionDenied
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Delete(ctx context.Context, actor *permission.Actor, titleID, reviewID int64) error {
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if !permission.OwnerOrModeratorOrAdminOrReadOnly(http.MethodDelete, actor, review.AuthorID) {
		return ErrPermissionDenied
	}
	return s.reviewRepo.Delete(ctx, review.ID)
}

func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	_, err := s.titleRepo.FindByID(ctx, titleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTitleNotFound
	}
	return err
}

func (s *reviewService) findReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.FindByIDAndTitle(ctx, reviewID, titleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return review, nil
}
