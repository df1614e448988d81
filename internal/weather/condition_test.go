package weather

import "testing"

func TestMapCategory(t *testing.T) {
	cases := []struct {
		code int
		want Category
	}{
		{199, CategoryClear}, // below every known group
		{200, CategoryThunderstorm},
		{299, CategoryThunderstorm},
		{300, CategoryRainy}, // boundary belongs to the lower group
		{500, CategoryRainy},
		{599, CategoryRainy},
		{600, CategorySnowy},
		{699, CategorySnowy},
		{700, CategoryClear}, // atmosphere group is unmapped, falls back
		{800, CategoryClear},
		{801, CategoryCloudy},
		{804, CategoryCloudy},
		{0, CategoryClear},
		{-1, CategoryClear},
	}

	for _, tc := range cases {
		if got := MapCategory(tc.code); got != tc.want {
			t.Errorf("MapCategory(%d) = %q, want %q", tc.code, got, tc.want)
		}
	}
}
