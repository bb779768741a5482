package core

// convert.go maps between domain values and pgtype values.
//
// Nil pointers and empty strings become NULL (Valid=false); NULLs read
// back as nil pointers or empty strings.

import (
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgFloat8 converts an optional number to pgtype.Float8.
func ToPgFloat8(v *float64) pgtype.Float8 {
	if v == nil {
		return pgtype.Float8{Valid: false}
	}
	return pgtype.Float8{Float64: *v, Valid: true}
}

// ToPgInt4 converts an optional int to pgtype.Int4.
func ToPgInt4(v *int) pgtype.Int4 {
	if v == nil {
		return pgtype.Int4{Valid: false}
	}
	return pgtype.Int4{Int32: int32(*v), Valid: true}
}

// ToPgBool converts a bool to a non-null pgtype.Bool.
func ToPgBool(b bool) pgtype.Bool {
	return pgtype.Bool{Bool: b, Valid: true}
}

// ToPgTimestamptz converts a time to pgtype.Timestamptz. The zero time is NULL.
func ToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// FromPgFloat8 returns nil for NULL.
func FromPgFloat8(v pgtype.Float8) *float64 {
	if !v.Valid {
		return nil
	}
	return Float64(v.Float64)
}

// FromPgInt4 returns nil for NULL.
func FromPgInt4(v pgtype.Int4) *int {
	if !v.Valid {
		return nil
	}
	return Int(int(v.Int32))
}

// FromPgBool returns nil for NULL.
func FromPgBool(v pgtype.Bool) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Bool
	return &b
}

// FromPgTimestamptz returns nil for NULL.
func FromPgTimestamptz(v pgtype.Timestamptz) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
