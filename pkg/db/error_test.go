package db

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{gorm.ErrDuplicatedKey, true},
		{fmt.Errorf("issue: %w", gorm.ErrDuplicatedKey), true},
		{errors.New(`duplicate key value violates unique constraint "ux_certificate_requests_serial"`), true},
		{errors.New("Error 1062 (23000): Duplicate entry '0001' for key 'ux_certificate_requests_serial'"), true},
		{errors.New("UNIQUE constraint failed: certificate_requests.serial"), true},
		{errors.New("connection refused"), false},
	}

	for _, tc := range cases {
		if got := IsDuplicateKeyErr(tc.err); got != tc.want {
			t.Fatalf("IsDuplicateKeyErr(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
