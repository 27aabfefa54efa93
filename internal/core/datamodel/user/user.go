package user

import "time"

type User struct {
	ID           string    `gorm:"primaryKey;type:text"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	FirstName    string    `gorm:"column:first_name;not null"`
	LastName     string    `gorm:"column:last_name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;not null"`
	ManagerID    *string   `gorm:"column:manager_id;index"`
	DepartmentID *string   `gorm:"column:department_id"`
	TeamID       *string   `gorm:"column:team_id"`
	Status       string    `gorm:"column:status;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
