package users

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already exists")
	ErrUsernameTaken = errors.New("username already exists")
)

type UserRepo interface {
	Create(user *User) error
	GetByEmail(email string) (*User, error)
	GetByID(ID string) (*User, error)
	List() ([]*User, error)
	SetActive(ID string, active bool) (*User, error)
}
