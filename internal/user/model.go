package user

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID       int
	Email    string
	Password string
	Name     string
	Phone    *string
	Role     Role
}
