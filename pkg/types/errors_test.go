package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorUnwrap(t *testing.T) {
	err := Errorf(KindInvalidArgument, "set_name", "%w", ErrNameEmpty)

	if !errors.Is(err, ErrNameEmpty) {
		t.Fatalf("errors.Is(%v, ErrNameEmpty) = false", err)
	}
	if got, want := err.Error(), "set_name: name cannot be empty"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil error", err: nil, want: 0},
		{name: "plain error", err: errors.New("boom"), want: 0},
		{name: "direct", err: Errorf(KindTruncation, "greet", "%w", ErrBufferTooSmall), want: KindTruncation},
		{name: "wrapped", err: fmt.Errorf("outer: %w", Errorf(KindUseAfterDestroy, "greet", "%w", ErrUseAfterDestroy)), want: KindUseAfterDestroy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTruncation(t *testing.T) {
	if !IsTruncation(Errorf(KindTruncation, "greet", "%w", ErrBufferTooSmall)) {
		t.Fatal("truncation error not recognised")
	}
	if IsTruncation(Errorf(KindInvalidArgument, "greet", "%w", ErrInvalidBuffer)) {
		t.Fatal("invalid argument reported as truncation")
	}
}

func TestKindString(t *testing.T) {
	if got := KindInvalidArgument.String(); got != "invalid argument" {
		t.Fatalf("String() = %q", got)
	}
	if got := Kind(42).String(); got != "kind(42)" {
		t.Fatalf("String() = %q", got)
	}
}
