package router

import (
	"github.com/careview/careview/internal/application"
	"github.com/careview/careview/internal/container"
	pginfra "github.com/careview/careview/internal/infrastructure/postgres"
	handlers "github.com/careview/careview/internal/interface/http"
	"github.com/careview/careview/internal/router/modules"
)

func buildAuthModule() *modules.AuthModule {
	repo := pginfra.NewUserRepository(container.GetPGPool())
	svc := application.NewAuthService(repo, container.GetJWT(), container.GetLogger())
	h := handlers.NewAuthHandler(svc, container.GetDenylist(), container.GetLogger())
	return modules.NewAuthModule(h, container.GetJWT())
}

func buildReviewModule() *modules.ReviewModule {
	repo := pginfra.NewReviewRepository(container.GetPGPool())

	// a nil *RabbitPublisher must stay a nil Publisher interface,
	// otherwise the service would call through it
	var events application.Publisher
	if pub := container.GetRabbitPub(); pub != nil {
		events = pub
	}

	svc := application.NewReviewService(repo, events, container.GetLogger())
	h := handlers.NewReviewHandler(svc, container.GetLogger())
	return modules.NewReviewModule(h, container.GetJWT())
}

// InitModules initializes all application modules and registers them with
// the router registry. Called once during startup after the container is
// populated.
func InitModules(r *Registry) {
	r.Add(buildAuthModule())
	r.Add(buildReviewModule())
}
