package middleware

import (
	"context"
	"errors"
	"testing"

	"connectrpc.com/connect"
)

type fakeValidatable struct {
	err error
}

func (f fakeValidatable) Validate() error { return f.err }

type fakeNonValidatable struct {
	Value string
}

func TestHTTPValidatorRejectsInvalidRequest(t *testing.T) {
	wantErr := errors.New("boom")
	wrapped := HTTPValidator()(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		t.Fatal("next should not be called when validation fails")
		return nil, nil
	})

	req := connect.NewRequest(&fakeValidatable{err: wantErr})
	_, err := wrapped(context.Background(), req)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected a *connect.Error, got %T: %v", err, err)
	}
	if connectErr.Code() != connect.CodeInvalidArgument {
		t.Fatalf("expected CodeInvalidArgument, got %v", connectErr.Code())
	}
}

func TestHTTPValidatorPassesValidRequest(t *testing.T) {
	called := false
	wrapped := HTTPValidator()(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		called = true
		return connect.NewResponse(&struct{}{}), nil
	})

	req := connect.NewRequest(&fakeValidatable{})
	if _, err := wrapped(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("expected next to be called for a valid request")
	}
}

func TestHTTPValidatorSkipsNonValidatableMessages(t *testing.T) {
	called := false
	wrapped := HTTPValidator()(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		called = true
		return connect.NewResponse(&struct{}{}), nil
	})

	req := connect.NewRequest(&fakeNonValidatable{Value: "x"})
	if _, err := wrapped(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("expected next to be called for a message without Validate()")
	}
}
