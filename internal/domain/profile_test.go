package domain

import "testing"

func TestProfileValid(t *testing.T) {
	base := Profile{Sex: SexFemale, Age: 34, ActivityLevel: ActivityModerate, WeightKg: 62, HeightCm: 165}
	if !base.Valid() {
		t.Fatalf("expected base profile to be valid: %+v", base)
	}

	cases := map[string]Profile{
		"unknown sex":      {Sex: "f", Age: 34, ActivityLevel: ActivityModerate, WeightKg: 62, HeightCm: 165},
		"unknown activity": {Sex: SexMale, Age: 34, ActivityLevel: "sedentary", WeightKg: 62, HeightCm: 165},
		"zero age":         {Sex: SexOther, Age: 0, ActivityLevel: ActivityNone, WeightKg: 62, HeightCm: 165},
		"negative weight":  {Sex: SexMale, Age: 34, ActivityLevel: ActivityIntense, WeightKg: -1, HeightCm: 165},
		"zero height":      {Sex: SexFemale, Age: 34, ActivityLevel: ActivityProfessional, WeightKg: 62, HeightCm: 0},
		"empty":            {},
	}
	for name, p := range cases {
		if p.Valid() {
			t.Errorf("%s: expected invalid, got valid: %+v", name, p)
		}
	}
}

func TestProfileZero(t *testing.T) {
	if !(Profile{}).Zero() {
		t.Fatalf("empty profile should be zero")
	}
	if (Profile{Age: 1}).Zero() {
		t.Fatalf("non-empty profile should not be zero")
	}
}

func TestProfileOf(t *testing.T) {
	if got := ProfileOf(nil); !got.Zero() {
		t.Fatalf("ProfileOf(nil) = %+v; want zero", got)
	}
	u := &User{Sex: SexMale, Age: 40, ActivityLevel: ActivityIntense, WeightKg: 80, HeightCm: 180}
	got := ProfileOf(u)
	want := Profile{Sex: SexMale, Age: 40, ActivityLevel: ActivityIntense, WeightKg: 80, HeightCm: 180}
	if got != want {
		t.Fatalf("ProfileOf = %+v; want %+v", got, want)
	}
}
