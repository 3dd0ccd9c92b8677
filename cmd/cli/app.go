package main

import (
	"context"
	"errors"
	"log"

	"github.com/atotto/clipboard"
	"github.com/wadjakorntonsri/linklet-dashboard/pkg/adapters/gateway"
	"github.com/wadjakorntonsri/linklet-dashboard/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/linklet-dashboard/pkg/config"
	"github.com/wadjakorntonsri/linklet-dashboard/pkg/core/domain"
	"github.com/wadjakorntonsri/linklet-dashboard/pkg/core/services"
	"github.com/wadjakorntonsri/linklet-dashboard/pkg/ports"
)

var errLoggedOut = errors.New("not logged in, run `linklet login` first")

type systemClipboard struct{}

func (systemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

type app struct {
	repo    *sqlite.SQLiteRepository
	session *services.SessionService
	dash    *services.Dashboard
}

func newApp(ctx context.Context, cfg *config.Config, clip ports.Clipboard) (*app, error) {
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// auth endpoints never carry a token
	authAPI := gateway.NewHTTPGateway(cfg.APIBaseURL, nil, cfg.RequestTimeout)
	session := services.NewSessionService(repo, authAPI)
	api := gateway.NewHTTPGateway(cfg.APIBaseURL, session, cfg.RequestTimeout)

	links := services.NewLinkService(api)
	dash := services.NewDashboard(
		session,
		links,
		services.NewAnalyticsService(api),
		services.NewFlagScheduler(links, services.SystemClock{}, cfg.CopyFeedback),
		clip,
	)

	if err := session.Restore(ctx); err != nil {
		log.Printf("Failed to restore session: %v", err)
	}

	return &app{repo: repo, session: session, dash: dash}, nil
}

// requireDashboard mounts the dashboard if the route guard lets us in
func (a *app) requireDashboard(ctx context.Context) error {
	if a.dash.View(domain.ViewDashboard) != domain.ViewDashboard {
		return errLoggedOut
	}
	a.dash.Mount(ctx)
	return nil
}

func (a *app) Close() {
	a.dash.Unmount()
	if err := a.repo.Close(); err != nil {
		log.Printf("Failed to close token store: %v", err)
	}
}
