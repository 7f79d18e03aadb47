package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{New(ErrNotFound, "Product not found"), http.StatusNotFound},
		{New(ErrForbidden, "Not yours"), http.StatusForbidden},
		{New(ErrUnauthorized, "Token revoked"), http.StatusUnauthorized},
		{New(ErrConflict, "Already in cart"), http.StatusConflict},
		{New(ErrOutOfStock, "Only 2 left"), http.StatusConflict},
		{New(ErrEmptyCart, "Cart is empty"), http.StatusConflict},
		{New(ErrValidation, "Bad price"), http.StatusUnprocessableEntity},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, Status(c.err), c.err.Error())
	}
}

func TestDetailStripsKindPrefix(t *testing.T) {
	err := New(ErrConflict, "Product is already in the cart")
	assert.Equal(t, "Product is already in the cart", Detail(err))

	// Wrapping preserves both the kind and the detail.
	wrapped := fmt.Errorf("add item: %w", err)
	assert.True(t, errors.Is(wrapped, ErrConflict))
	assert.Equal(t, http.StatusConflict, Status(wrapped))

	// Errors without a kind prefix pass through untouched.
	plain := errors.New("boom")
	assert.Equal(t, "boom", Detail(plain))
}

func TestNewfFormats(t *testing.T) {
	err := Newf(ErrValidation, "Invalid %s", "id")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "Invalid id", Detail(err))
}
