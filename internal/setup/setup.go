package setup

import (
	"github.com/ideahub-dev/ideahub/internal/config"
	"github.com/ideahub-dev/ideahub/internal/handler"
	"github.com/ideahub-dev/ideahub/internal/jwt"
	"github.com/ideahub-dev/ideahub/internal/middleware"
	"github.com/ideahub-dev/ideahub/internal/notify"
	"github.com/ideahub-dev/ideahub/internal/service"
	"github.com/ideahub-dev/ideahub/internal/storage/blob"
	"github.com/ideahub-dev/ideahub/internal/storage/pg"
	"github.com/ideahub-dev/ideahub/internal/validation"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Storage        *pg.Storage
	Handler        *handler.Handler
	Jwt            jwt.JwtService
	AuthMiddleware *middleware.Auth
	Config         *config.Config
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	blobs, err := blob.New(cfg.Private.Blob)
	if err != nil {
		storage.Cleanup()
		return nil, err
	}

	email := notify.New(&cfg.Private.Email)
	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	closure := service.NewClosure(storage)
	post := service.NewPost(storage, storage, storage, storage, storage, blobs, email)
	comment := service.NewComment(service.CommentDeps{
		Storage:  storage,
		Posts:    storage,
		Users:    storage,
		Closures: storage,
		Notifier: email,
	})
	category := service.NewCategory(storage)
	user := service.NewUser(storage)
	overview := service.NewOverview(storage)

	h := handler.New(handler.Deps{
		Closure:   closure,
		Post:      post,
		Comment:   comment,
		Category:  category,
		User:      user,
		Overview:  overview,
		Jwt:       jwtService,
		Validator: validation.New(&cfg.Public),
		Health:    storage,
		Cfg:       cfg,
	})

	return &Dependencies{
		Storage:        storage,
		Handler:        h,
		Jwt:            jwtService,
		AuthMiddleware: middleware.NewAuth(jwtService),
		Config:         cfg,
	}, nil
}
