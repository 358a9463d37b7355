package usecase

import (
	"context"
	"strings"

	"storefront/internal/api"
	"storefront/internal/domain/model"
)

type ReviewAPI interface {
	Reviews(ctx context.Context, productID string) ([]model.Review, error)
	AddReview(ctx context.Context, token, productID string, in api.AddReviewRequest) error
	MarkReviewHelpful(ctx context.Context, token, productID, reviewID string) error
}

type ReviewValidator interface {
	ValidateReview(rating int, comment string) error
}

type ReviewList struct {
	Reviews []model.Review      `json:"reviews"`
	Summary model.RatingSummary `json:"summary"`
}

type ReviewUsecase struct {
	remote    ReviewAPI
	validator ReviewValidator
	session   *SessionUsecase
}

func NewReviewUsecase(remote ReviewAPI, validator ReviewValidator, session *SessionUsecase) *ReviewUsecase {
	return &ReviewUsecase{remote: remote, validator: validator, session: session}
}

func (u *ReviewUsecase) List(ctx context.Context, productID string) (ReviewList, error) {
	reviews, err := u.remote.Reviews(ctx, productID)
	if err != nil {
		return ReviewList{}, remoteError(err)
	}
	return ReviewList{Reviews: reviews, Summary: model.SummarizeReviews(reviews)}, nil
}

// Add はログイン必須。追加後の一覧を返す。
func (u *ReviewUsecase) Add(ctx context.Context, productID string, rating int, comment string) (ReviewList, error) {
	sess, err := u.session.Require(ctx, "Please login to add a review")
	if err != nil {
		return ReviewList{}, err
	}

	comment = strings.TrimSpace(comment)
	if err := u.validator.ValidateReview(rating, comment); err != nil {
		return ReviewList{}, validationError(err)
	}

	if err := u.remote.AddReview(ctx, sess.Token, productID, api.AddReviewRequest{Rating: rating, Comment: comment}); err != nil {
		return ReviewList{}, u.session.RemoteError(ctx, err)
	}
	return u.List(ctx, productID)
}

func (u *ReviewUsecase) MarkHelpful(ctx context.Context, productID, reviewID string) (ReviewList, error) {
	sess, err := u.session.Require(ctx, "Please login to mark review as helpful")
	if err != nil {
		return ReviewList{}, err
	}

	if err := u.remote.MarkReviewHelpful(ctx, sess.Token, productID, reviewID); err != nil {
		return ReviewList{}, u.session.RemoteError(ctx, err)
	}
	return u.List(ctx, productID)
}
