package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ideahub-dev/ideahub/internal/config"
	"github.com/ideahub-dev/ideahub/internal/jwt"
	"github.com/ideahub-dev/ideahub/internal/logger"
	"github.com/ideahub-dev/ideahub/internal/service"
	"github.com/ideahub-dev/ideahub/internal/validation"
)

// Pinger reports storage readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	closure   service.ClosureService
	post      service.PostService
	comment   service.CommentService
	category  service.CategoryService
	user      service.UserService
	overview  service.OverviewService
	jwt       jwt.JwtService
	validator *validation.Validator
	health    Pinger
	cfg       *config.Config
}

type Deps struct {
	Closure   service.ClosureService
	Post      service.PostService
	Comment   service.CommentService
	Category  service.CategoryService
	User      service.UserService
	Overview  service.OverviewService
	Jwt       jwt.JwtService
	Validator *validation.Validator
	Health    Pinger
	Cfg       *config.Config
}

func New(d Deps) *Handler {
	return &Handler{
		closure:   d.Closure,
		post:      d.Post,
		comment:   d.Comment,
		category:  d.Category,
		user:      d.User,
		overview:  d.Overview,
		jwt:       d.Jwt,
		validator: d.Validator,
		health:    d.Health,
		cfg:       d.Cfg,
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("can't encode response", "error", err)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
}

func writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("can't encode response", "error", err)
	}
}
