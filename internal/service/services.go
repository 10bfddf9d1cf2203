package service

import (
	"github.com/mreid/group-session-website/internal/cache"
	"github.com/mreid/group-session-website/internal/config"
	"github.com/mreid/group-session-website/internal/identity"
	"github.com/mreid/group-session-website/internal/repository"
)

type Services struct {
	User      *UserService
	Provision *ProvisionService
	Join      *JoinService
}

func NewServices(repos *repository.Repositories, provider identity.Provider, invalidator cache.Invalidator, cfg *config.Config) *Services {
	userService := NewUserService(repos.User, invalidator)
	provisionService := NewProvisionService(repos.User, provider, cfg.TempEmailDomain)

	return &Services{
		User:      userService,
		Provision: provisionService,
		Join: NewJoinService(
			repos.Session,
			repos.User,
			userService,
			provisionService,
			provider,
			cfg.TempEmailDomain,
		),
	}
}
