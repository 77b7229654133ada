package league

import "testing"

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := League{ID: "4328", Name: "English Premier League", CountryCode: "GB"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []League{
		{Name: "x", CountryCode: "GB"},
		{ID: "4328", CountryCode: "GB"},
		{ID: "4328", Name: "x"},
	}
	for _, tc := range cases {
		if err := tc.Validate(); err == nil {
			t.Fatalf("expected validation error for %+v", tc)
		}
	}
}

func TestDefaultOf(t *testing.T) {
	t.Parallel()

	if _, ok := DefaultOf(nil); ok {
		t.Fatalf("expected no default for empty catalog")
	}

	leagues := []League{{ID: "4328"}, {ID: "4335", IsDefault: true}}
	if got, _ := DefaultOf(leagues); got.ID != "4335" {
		t.Fatalf("expected flagged default, got=%s", got.ID)
	}
	if got, _ := DefaultOf(leagues[:1]); got.ID != "4328" {
		t.Fatalf("expected first league fallback, got=%s", got.ID)
	}
}
