package middleware

import (
	"context"
	"fmt"

	"connectrpc.com/connect"
)

// Validatable is implemented by request structs in internal/transport. There
// is no generated protobuf here (see DESIGN.md), so validation can't hang off
// protovalidate's descriptor-driven rules; each request type owns its own
// invariant checks instead.
type Validatable interface {
	Validate() error
}

// HTTPValidator is a Connect interceptor that calls Validate on any request
// message implementing Validatable, rejecting the call with CodeInvalidArgument
// on failure. Messages that don't implement Validatable pass through
// unchecked, same as the protobuf-typed predecessor skipped non-proto ones.
func HTTPValidator() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if v, ok := req.Any().(Validatable); ok {
				if err := v.Validate(); err != nil {
					return nil, connect.NewError(connect.CodeInvalidArgument,
						fmt.Errorf("validation failed: %w", err))
				}
			}
			return next(ctx, req)
		}
	}
}
