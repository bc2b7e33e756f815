package models

// User is an administrator able to sign in. Users are created by the admin
// CLI and never modified through the API.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// UserResponse is the client facing projection of a user
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
	}
}
