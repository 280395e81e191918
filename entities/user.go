package entities

import "time"

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Email     string `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username  string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName string `gorm:"size:150" json:"first_name"`
	LastName  string `gorm:"size:150" json:"last_name"`
	Avatar    string `json:"avatar,omitempty"`
	Password  string `json:"-"`

	Timestamp
}

// RevokedToken keeps the jti of a logged out token until the token would
// have expired anyway.
type RevokedToken struct {
	JTI       string    `gorm:"primaryKey;size:36" json:"jti"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}
