package format_test

import (
	"testing"

	"github.com/smallbiznis/giftcert/internal/ledger/format"
)

func TestSerial(t *testing.T) {
	cases := []struct {
		seq  int64
		want string
	}{
		{1, "0001"},
		{9, "0009"},
		{42, "0042"},
		{999, "0999"},
		{1000, "1000"},
		{9999, "9999"},
		{10000, "10000"},
	}

	for _, tc := range cases {
		got, err := format.Serial(tc.seq)
		if err != nil {
			t.Fatalf("Serial(%d): %v", tc.seq, err)
		}
		if got != tc.want {
			t.Fatalf("Serial(%d) = %q, want %q", tc.seq, got, tc.want)
		}
	}
}

func TestSerialRejectsNonPositive(t *testing.T) {
	for _, seq := range []int64{0, -1} {
		if _, err := format.Serial(seq); err == nil {
			t.Fatalf("Serial(%d): expected error", seq)
		}
	}
}
