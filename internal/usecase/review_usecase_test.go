package usecase

import (
	"errors"
	"net/http"
	"testing"

	"storefront/internal/api"
	"storefront/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReviews_ListSummarizes(t *testing.T) {
	f := newFixture(t)
	remote := new(MockReviewAPI)
	remote.On("Reviews", mock.Anything, "p1").Return([]model.Review{{Rating: 5}, {Rating: 4}}, nil)

	out, err := NewReviewUsecase(remote, stubValidator{}, f.session).List(f.ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, out.Summary.Count)
	assert.InDelta(t, 4.5, out.Summary.Average, 0.001)
}

func TestReviews_AddNeedsLogin(t *testing.T) {
	f := newFixture(t)
	remote := new(MockReviewAPI)

	_, err := NewReviewUsecase(remote, stubValidator{}, f.session).Add(f.ctx, "p1", 5, "great")
	assert.ErrorIs(t, err, ErrLoginRequired)
	remote.AssertNotCalled(t, "AddReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviews_Add(t *testing.T) {
	f := newFixture(t)
	f.login(t, "tok")
	remote := new(MockReviewAPI)
	remote.On("AddReview", mock.Anything, "tok", "p1", api.AddReviewRequest{Rating: 5, Comment: "great"}).Return(nil)
	remote.On("Reviews", mock.Anything, "p1").Return([]model.Review{{Rating: 5, Comment: "great"}}, nil)

	out, err := NewReviewUsecase(remote, stubValidator{}, f.session).Add(f.ctx, "p1", 5, "  great ")
	require.NoError(t, err)
	assert.Len(t, out.Reviews, 1)
	remote.AssertExpectations(t)
}

func TestReviews_AddInvalid(t *testing.T) {
	f := newFixture(t)
	f.login(t, "tok")
	remote := new(MockReviewAPI)

	_, err := NewReviewUsecase(remote, stubValidator{err: errors.New("Please add a comment")}, f.session).Add(f.ctx, "p1", 5, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReviews_HelpfulAuthRejected(t *testing.T) {
	f := newFixture(t)
	f.login(t, "tok")
	remote := new(MockReviewAPI)
	remote.On("MarkReviewHelpful", mock.Anything, "tok", "p1", "r1").
		Return(&api.APIError{Status: http.StatusUnauthorized, Message: "Unauthorized"})

	_, err := NewReviewUsecase(remote, stubValidator{}, f.session).MarkHelpful(f.ctx, "p1", "r1")
	assert.ErrorIs(t, err, ErrSessionRejected)
	assert.False(t, f.session.Authenticated(f.ctx))
}
