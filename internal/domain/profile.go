package domain

// Allowed enum values for Profile fields.
const (
	SexFemale = "female"
	SexMale   = "male"
	SexOther  = "other"

	ActivityNone         = "none"
	ActivityModerate     = "moderate"
	ActivityIntense      = "intense"
	ActivityProfessional = "professional"
)

// Profile is the nutritional profile snapshot taken at analysis time. It is a
// plain value type: the authoritative copy lives on the User row, and a copy
// travels with each analyze call so a concurrent profile update cannot change
// an in-flight analysis.
type Profile struct {
	Sex           string  `json:"sex"            binding:"required"`
	Age           int     `json:"age"            binding:"required"`
	ActivityLevel string  `json:"activity_level" binding:"required"`
	WeightKg      float64 `json:"weight_kg"      binding:"required"`
	HeightCm      float64 `json:"height_cm"      binding:"required"`
}

// Valid reports whether every profile field is inside its allowed domain:
// known sex and activity enums, positive age, weight, and height.
func (p Profile) Valid() bool {
	switch p.Sex {
	case SexFemale, SexMale, SexOther:
	default:
		return false
	}
	switch p.ActivityLevel {
	case ActivityNone, ActivityModerate, ActivityIntense, ActivityProfessional:
	default:
		return false
	}
	return p.Age > 0 && p.WeightKg > 0 && p.HeightCm > 0
}

// Zero reports whether the profile carries no data at all.
func (p Profile) Zero() bool {
	return p == Profile{}
}

// ProfileOf extracts the stored profile from a user row.
func ProfileOf(u *User) Profile {
	if u == nil {
		return Profile{}
	}
	return Profile{
		Sex:           u.Sex,
		Age:           u.Age,
		ActivityLevel: u.ActivityLevel,
		WeightKg:      u.WeightKg,
		HeightCm:      u.HeightCm,
	}
}
