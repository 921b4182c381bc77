package router

import (
	identityapp "github.com/eventnest/identity-service/internal/application"
	"github.com/eventnest/identity-service/internal/container"
	repouser "github.com/eventnest/identity-service/internal/domain/repository"
	pginfra "github.com/eventnest/identity-service/internal/infrastructure/postgres"
	handlers "github.com/eventnest/identity-service/internal/interface/http"
	"github.com/eventnest/identity-service/internal/router/modules"
)

type IdentityModuleDeps struct {
	Repo        repouser.UserRepository
	Service     *identityapp.Service
	AuthHandler *handlers.AuthHandler
	UserHandler *handlers.UserHandler
}

func buildIdentityDeps() IdentityModuleDeps {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	// Optional collaborators stay nil when not configured; the service
	// degrades per endpoint instead of failing startup.
	var images identityapp.ImageStore
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		images = identityapp.NewGCSImageStore(gcs, cfg.GCSBucket)
	}
	var mail identityapp.MailQueue
	if pub := container.GetRabbitPub(); pub != nil {
		mail = pub
	}

	service := identityapp.NewService(
		repo,
		container.GetJWT(),
		images,
		mail,
		container.GetLogger(),
		container.GetES(),
		cfg.ESUsersIndex,
		cfg.AppName,
		identityapp.OTPPolicy{
			Alphabet: cfg.OTPAlphabet,
			Length:   cfg.OTPLength,
			TTL:      cfg.OTPTTL,
		},
		cfg.MaxImageBytes,
	)

	return IdentityModuleDeps{
		Repo:        repo,
		Service:     service,
		AuthHandler: handlers.NewAuthHandler(service, container.GetLogger()),
		UserHandler: handlers.NewUserHandler(service, container.GetLogger()),
	}
}

// InitModules builds the identity module graph and registers every feature
// module with the registry. Called once during startup.
func InitModules(r *Registry) {
	deps := buildIdentityDeps()
	r.Add(modules.NewAuthModule(deps.AuthHandler, container.GetJWT()))
	r.Add(modules.NewUserModule(deps.UserHandler, container.GetJWT()))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
