package service

import (
	"github.com/dom/plantally/internal/clock"
	"github.com/dom/plantally/internal/config"
	"github.com/dom/plantally/internal/repository"
)

type Services struct {
	Sessions *SessionService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, clk clock.Clock) *Services {
	return &Services{
		Sessions: NewSessionService(repos.Session, cfg, clk),
	}
}
