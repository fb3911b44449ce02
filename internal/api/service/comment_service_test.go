package service

import (
	"context"
	"testing"

	"critichub/internal/api/dto"
	"critichub/internal/api/models"
	"critichub/internal/api/permission"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentService_Create(t *testing.T) {
	review := &models.Review{ID: 10, TitleID: 1, AuthorID: "reviewer"}

	t.Run("creates under the resolved review", func(t *testing.T) {
		reviewRepo := new(MockReviewRepo)
		commentRepo := new(MockCommentRepo)
		svc := NewCommentService(commentRepo, reviewRepo)

		reviewRepo.On("FindByIDAndTitle", mock.Anything, int64(10), int64(1)).Return(review, nil)

		var created *models.Comment
		commentRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Comment")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*models.Comment)
				created.ID = 100
			}).
			Return(nil)
		commentRepo.On("FindByIDAndReview", mock.Anything, int64(100), int64(10)).
			Return(&models.Comment{ID: 100, ReviewID: 10, AuthorID: "u1", Text: "agreed",
				Author: models.User{ID: "u1", Username: "alice"}}, nil)

		resp, err := svc.Create(context.Background(), "u1", 1, 10, dto.CreateCommentRequest{Text: "agreed"})

		require.NoError(t, err)
		assert.Equal(t, int64(10), created.ReviewID)
		assert.Equal(t, "alice", resp.Author)
	})

	t.Run("review id under the wrong title is not found", func(t *testing.T) {
		reviewRepo := new(MockReviewRepo)
		commentRepo := new(MockCommentRepo)
		svc := NewCommentService(commentRepo, reviewRepo)

		reviewRepo.On("FindByIDAndTitle", mock.Anything, int64(10), int64(2)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Create(context.Background(), "u1", 2, 10, dto.CreateCommentRequest{Text: "?"})

		assert.ErrorIs(t, err, ErrReviewNotFound)
		commentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCommentService_Update(t *testing.T) {
	review := &models.Review{ID: 10, TitleID: 1}
	existing := func() *models.Comment {
		return &models.Comment{ID: 100, ReviewID: 10, AuthorID: "owner", Text: "old",
			Author: models.User{ID: "owner", Username: "owner"}}
	}

	run := func(t *testing.T, actor *permission.Actor) (*dto.CommentResponse, error, *MockCommentRepo) {
		t.Helper()
		reviewRepo := new(MockReviewRepo)
		commentRepo := new(MockCommentRepo)
		svc := NewCommentService(commentRepo, reviewRepo)

		reviewRepo.On("FindByIDAndTitle", mock.Anything, int64(10), int64(1)).Return(review, nil)
		commentRepo.On("FindByIDAndReview", mock.Anything, int64(100), int64(10)).Return(existing(), nil)
		commentRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Comment")).Return(nil).Maybe()

		resp, err := svc.Update(context.Background(), actor, 1, 10, 100, dto.UpdateCommentRequest{Text: strPtr("new")})
		return resp, err, commentRepo
	}

	t.Run("author may edit", func(t *testing.T) {
		resp, err, _ := run(t, &permission.Actor{ID: "owner", Role: models.RoleUser})
		require.NoError(t, err)
		assert.Equal(t, "new", resp.Text)
	})

	t.Run("moderator may edit", func(t *testing.T) {
		_, err, _ := run(t, &permission.Actor{ID: "mod", Role: models.RoleModerator})
		assert.NoError(t, err)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		_, err, commentRepo := run(t, &permission.Actor{ID: "someone", Role: models.RoleUser})
		assert.ErrorIs(t, err, ErrPermissionDenied)
		commentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("anonymous is denied", func(t *testing.T) {
		_, err, _ := run(t, nil)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestCommentService_Delete(t *testing.T) {
	review := &models.Review{ID: 10, TitleID: 1}
	existing := &models.Comment{ID: 100, ReviewID: 10, AuthorID: "owner"}

	t.Run("staff may delete", func(t *testing.T) {
		reviewRepo := new(MockReviewRepo)
		commentRepo := new(MockCommentRepo)
		svc := NewCommentService(commentRepo, reviewRepo)

		reviewRepo.On("FindByIDAndTitle", mock.Anything, int64(10), int64(1)).Return(review, nil)
		commentRepo.On("FindByIDAndReview", mock.Anything, int64(100), int64(10)).Return(existing, nil)
		commentRepo.On("Delete", mock.Anything, int64(100)).Return(nil)

		err := svc.Delete(context.Background(), &permission.Actor{ID: "admin", Role: models.RoleAdmin, Staff: true}, 1, 10, 100)

		assert.NoError(t, err)
	})

	t.Run("missing comment", func(t *testing.T) {
		reviewRepo := new(MockReviewRepo)
		commentRepo := new(MockCommentRepo)
		svc := NewCommentService(commentRepo, reviewRepo)

		reviewRepo.On("FindByIDAndTitle", mock.Anything, int64(10), int64(1)).Return(review, nil)
		commentRepo.On("FindByIDAndReview", mock.Anything, int64(404), int64(10)).Return(nil, gorm.ErrRecordNotFound)

		err := svc.Delete(context.Background(), &permission.Actor{ID: "owner", Role: models.RoleUser}, 1, 10, 404)

		assert.ErrorIs(t, err, ErrCommentNotFound)
	})
}
