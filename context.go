package marketplace

import (
	"context"
	"errors"
)

// ErrNoCartProvider is returned when a cart store is requested from a
// context that was never given one with WithCart.
var ErrNoCartProvider = errors.New("cart store must be used within a context carrying a cart provider")

type cartKey struct{}

func WithCart(ctx context.Context, svc Service) context.Context {
	return context.WithValue(ctx, cartKey{}, svc)
}

func FromContext(ctx context.Context) (Service, error) {
	svc, ok := ctx.Value(cartKey{}).(Service)
	if !ok || svc == nil {
		return nil, ErrNoCartProvider
	}
	return svc, nil
}

func MustFromContext(ctx context.Context) Service {
	svc, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return svc
}
