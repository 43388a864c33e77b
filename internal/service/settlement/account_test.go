package settlement

import (
	"errors"
	"testing"

	"github.com/valetnat/e-commerce/internal/domain"
)

func TestNormalizeBankAccount(t *testing.T) {
	cases := []struct {
		input string
		want  int64
		ok    bool
	}{
		{"1234 1234", 12341234, true},
		{"0000 0002", 2, true},
		{"12341234", 0, false},
		{"1234qwe1234", 0, false},
		{"1234  1234", 0, false},
		{"123 41234", 0, false},
		{" 1234 1234", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		got, err := NormalizeBankAccount(tc.input)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q: unexpected error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("%q: expected %d, got %d", tc.input, tc.want, got)
			}
			continue
		}
		if !errors.Is(err, domain.ErrInvalidBankAccount) {
			t.Fatalf("%q: expected ErrInvalidBankAccount, got %v", tc.input, err)
		}
	}
}
