package leadership

// Role is a grantable role row in the roles table.
type Role struct {
	ID          uint   `gorm:"column:id;primaryKey"`
	Name        string `gorm:"column:name"`
	Description string `gorm:"column:description"`
}

// TableName ensures consistent table naming.
func (Role) TableName() string {
	return "roles"
}

// Account is a user account row in the users table.
type Account struct {
	ID          uint   `gorm:"column:id;primaryKey"`
	PublicID    string `gorm:"column:public_id"`
	Username    string `gorm:"column:username"`
	Email       string `gorm:"column:email"`
	DisplayName string `gorm:"column:display_name"`
}

// TableName ensures consistent table naming.
func (Account) TableName() string {
	return "users"
}

// AccountRole links an account to a role.
type AccountRole struct {
	ID     uint `gorm:"column:id;primaryKey"`
	UserID uint `gorm:"column:user_id"`
	RoleID uint `gorm:"column:role_id"`
}

// TableName ensures consistent table naming.
func (AccountRole) TableName() string {
	return "user_roles"
}
