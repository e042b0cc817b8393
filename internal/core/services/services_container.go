package services

import (
	portsrepo "github.com/vidtube/vidtube_backend/internal/core/ports/repositories"
	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, uploader portssvc.Uploader, publisher portssvc.Publisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{
		Uploader:  uploader,
		Publisher: publisher,
	}

	container.User = NewUserService(
		repos.UserRepo,
		repos.SubscriptionRepo,
		repos.VideoRepo,
		uploader,
		publisher,
	)

	container.Token = NewTokenService(cfg, repos.UserRepo)

	container.GoogleOAuth = NewGoogleOAuthService(cfg)

	return container
}
