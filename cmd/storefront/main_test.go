package main

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPaymentMethod(t *testing.T) {
	assert.Equal(t, model.PaymentCashOnDelivery, paymentMethod("COD"))
	assert.Equal(t, model.PaymentCashOnDelivery, paymentMethod("Cash On Delivery"))
	assert.Equal(t, model.PaymentOnline, paymentMethod("online"))
	assert.False(t, paymentMethod("bitcoin").Valid())
}

func TestReport_PrintsNextStep(t *testing.T) {
	logger = zap.NewNop()
	cmd := &cobra.Command{}
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)

	err := report(cmd, fmt.Errorf("wrapped: %w", &usecase.HTTPError{
		Status:  401,
		Message: "Please login first",
		Next:    usecase.DestLogin,
	}))
	assert.EqualError(t, err, "Please login first")
	assert.Contains(t, stderr.String(), "storefront login")

	plain := errors.New("boom")
	assert.Same(t, plain, report(cmd, plain))
	assert.NoError(t, report(cmd, nil))
}

func TestRootCmd_HasCommands(t *testing.T) {
	for _, name := range []string{"serve", "watch", "cart", "checkout", "buy-now", "order", "login", "register", "verify-otp", "logout", "whoami", "products", "product", "review"} {
		c, _, err := rootCmd.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, c.Name())
		}
	}
}
