package internal

import (
	"github.com/kejiahp/QRcode-event-manager/config"
	"github.com/kejiahp/QRcode-event-manager/internal/service"
	"github.com/kejiahp/QRcode-event-manager/pkg/security"

	"gorm.io/gorm"
)

// Deps holds everything handlers need. It's built once at startup and never
// changed afterwards
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Argon   *security.ArgonHash
	Tokens  *security.TokenIssuer
	Images  service.ImageStore
	Mailer  service.Mailer
	Users   *service.UserService
	Events  *service.EventService
	Invites *service.InviteService
}

// NewDeps wires the services on top of the given infrastructure
func NewDeps(cfg *config.Config, db *gorm.DB, images service.ImageStore, mailer service.Mailer) *Deps {
	d := &Deps{
		Config: cfg,
		DB:     db,
		Argon:  security.New(),
		Tokens: security.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL),
		Images: images,
		Mailer: mailer,
	}

	d.Users = service.NewUserService(db, d.Argon, d.Tokens, mailer, cfg)
	d.Events = service.NewEventService(db, images)
	d.Invites = service.NewInviteService(db, d.Events, images, mailer, cfg.Host.PublicURL)

	return d
}
