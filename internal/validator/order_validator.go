package validator

import (
	"errors"
	"strings"
	"unicode/utf8"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"
)

var (
	ErrRatingRequired  = errors.New("Please select a rating")
	ErrCommentRequired = errors.New("Please add a comment")
	ErrCommentTooLong  = errors.New("Comment must be at most 1000 characters")
	ErrPaymentMethod   = errors.New("Please select a payment method")
	ErrAddressRequired = errors.New("Please enter a delivery address")
)

const maxCommentLength = 1000

type reviewValidator struct{}

func NewReviewValidator() usecase.ReviewValidator {
	return &reviewValidator{}
}

// 評価は1〜5、コメント必須
func (v *reviewValidator) ValidateReview(rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return ErrRatingRequired
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return ErrCommentRequired
	}
	if utf8.RuneCountInString(comment) > maxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}

type orderValidator struct{}

func NewOrderValidator() usecase.OrderValidator {
	return &orderValidator{}
}

func (v *orderValidator) ValidateOrder(method model.PaymentMethod, address string) error {
	if !method.Valid() {
		return ErrPaymentMethod
	}
	if strings.TrimSpace(address) == "" {
		return ErrAddressRequired
	}
	return nil
}
