package config

type AuthConfig interface {
	GetLoginRoute() string
	GetRegisterRoute() string
	GetRootRoute() string
}

type Auth struct{}

var _ AuthConfig = Auth{}

func (Auth) GetLoginRoute() string {
	return "/auth/login"
}

func (Auth) GetRegisterRoute() string {
	return "/auth/register"
}

func (Auth) GetRootRoute() string {
	return "/"
}
