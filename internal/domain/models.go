// Package domain defines the persistence models for users and their
// nutritional analyses. These types are mapped with GORM and form the core
// data layer of the application.
package domain

import "time"

// User represents an account that owns analysis records. The nutritional
// profile lives directly on the user row and serves as the snapshot source
// for analyses; it is mutated only through the explicit profile-update
// operation.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Email / Name / Picture: identity attributes issued elsewhere.
//   - Sex / Age / ActivityLevel / WeightKg / HeightCm: nutritional profile.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type User struct {
	ID      string `json:"id"      gorm:"type:char(36);primaryKey"`
	Email   string `json:"email"   gorm:"type:varchar(255);not null;index:idx_user_email"`
	Name    string `json:"name"    gorm:"type:varchar(255)"`
	Picture string `json:"picture" gorm:"type:varchar(512)"`

	Sex           string  `json:"sex"            gorm:"type:varchar(16)"`
	Age           int     `json:"age"`
	ActivityLevel string  `json:"activity_level" gorm:"type:varchar(16)"`
	WeightKg      float64 `json:"weight_kg"`
	HeightCm      float64 `json:"height_cm"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// AnalysisRecord is one completed product analysis owned by a user. Records
// are insert-only: never updated after creation, and deletion is a hard
// delete (no soft-delete marker), either by id or by owning-user cascade.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID: foreign key to the owning user (indexed, cascade delete).
//   - Score: numeric verdict in [0,100]; 0 when the generated response
//     carried no score line (including non-food rejections).
//   - AnalysisText: sanitized verdict text shown to the user.
//   - ProductText: the combined OCR text the verdict was produced from.
//   - Summary: short display label derived from the product text.
//   - CreatedAt: insertion timestamp; drives the retention window filter.
type AnalysisRecord struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	UserID       string    `json:"user_id"       gorm:"type:char(36);not null;index:idx_user_analyses,priority:1"`
	Score        int       `json:"score"         gorm:"not null;check:score >= 0 AND score <= 100"`
	AnalysisText string    `json:"analysis_text" gorm:"type:text;not null"`
	ProductText  string    `json:"product_text"  gorm:"type:text"`
	Summary      string    `json:"summary"       gorm:"type:varchar(255)"`
	CreatedAt    time.Time `json:"created_at"    gorm:"index:idx_user_analyses,priority:2"`

	// User is the owner. Records are cascade-deleted when the user is removed.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for AnalysisRecord.
func (AnalysisRecord) TableName() string { return "analyses" }
