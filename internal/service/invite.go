package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kejiahp/QRcode-event-manager/internal/model"
	"github.com/kejiahp/QRcode-event-manager/pkg/qrcode"
	"github.com/kejiahp/QRcode-event-manager/pkg/util"
	"github.com/kejiahp/QRcode-event-manager/pkg/validators"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	invitePrefix   = "INVITE_"
	inviteCodeSize = 24 // 144 bits

	// Users carry no display name, invitation mails sign off with this
	organiserName = "Organiser"
)

// ImageStore keeps QR code images in durable storage
type ImageStore interface {
	// Upload stores data and returns its public URL together with the key
	// needed to delete it
	Upload(ctx context.Context, name string, data []byte) (url, key string, err error)
	Delete(ctx context.Context, key string) error
}

type CreateInviteInput struct {
	Email    string
	Fullname string
}

type InviteService struct {
	db     *gorm.DB
	events *EventService
	images ImageStore
	mailer Mailer
	// Base URL verification links are built on, without a trailing slash
	publicURL string
	now       func() time.Time
}

func NewInviteService(db *gorm.DB, events *EventService, images ImageStore, mailer Mailer, publicURL string) *InviteService {
	return &InviteService{
		db:        db,
		events:    events,
		images:    images,
		mailer:    mailer,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

// VerificationURL is the link encoded into an invite's QR code
func (s *InviteService) VerificationURL(code string) string {
	return s.publicURL + "/events/verify-invite/" + code
}

// Create invites a guest to one of the owner's events. The QR image is
// uploaded before the record is written so no invite ever exists without
// one. When the invite was stored but the email couldn't be delivered both
// the invite and ErrEmailDeliveryFailure are returned.
func (s *InviteService) Create(ctx context.Context, owner *model.User, eventID string, in CreateInviteInput) (*model.Invite, error) {
	email := validators.NormalizeEmail(in.Email)
	fullname := strings.TrimSpace(in.Fullname)

	if err := validators.EmailValidator(email); err != nil {
		return nil, ValidationError(err)
	}

	if err := validators.FullnameValidator(fullname); err != nil {
		return nil, ValidationError(err)
	}

	event, err := s.events.Get(ctx, owner, eventID)
	if err != nil {
		return nil, err
	}

	var exists int64
	err = s.db.WithContext(ctx).
		Model(model.Invite{}).
		Where("event_invited_to = ? AND email = ?", event.ID, email).
		Count(&exists).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing invite, %w", err)
	}

	if exists > 0 {
		return nil, ErrDuplicateInvite
	}

	token, err := util.URLSafeStr(inviteCodeSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code, %w", err)
	}
	code := invitePrefix + token

	img, err := qrcode.PNG(s.VerificationURL(code))
	if err != nil {
		return nil, fmt.Errorf("%w, %w", ErrUploadFailure, err)
	}

	imgURL, imgKey, err := s.images.Upload(ctx, code+".png", img)
	if err != nil {
		return nil, fmt.Errorf("%w, %w", ErrUploadFailure, err)
	}

	invite := &model.Invite{
		ID:                 util.RandStr(16),
		Email:              email,
		Fullname:           fullname,
		EventInvitedTo:     event.ID,
		Code:               code,
		InviteAccepted:     false,
		QRCodeImgURL:       imgURL,
		QRCodeImgPublicKey: imgKey,
		CreatedBy:          owner.ID,
		CreatedAt:          s.now(),
	}

	if err := s.db.WithContext(ctx).Create(invite).Error; err != nil {
		// Don't leave an image behind that no invite points to
		if derr := s.images.Delete(ctx, imgKey); derr != nil {
			zap.L().Error("Failed to cleanup qr code after failed insert", zap.String("key", imgKey), zap.Error(derr))
		}

		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateInvite
		}

		return nil, fmt.Errorf("failed to save invite, %w", err)
	}

	subject, html, err := renderInvitationMail(invitationMail{
		Fullname:             invite.Fullname,
		QRCodeImgURL:         invite.QRCodeImgURL,
		EventName:            event.Name,
		OrganiserName:        organiserName,
		OrganiserContactInfo: owner.Email,
	})
	if err != nil {
		return invite, fmt.Errorf("%w, %w", ErrEmailDeliveryFailure, err)
	}

	if err := s.mailer.Send(invite.Email, subject, html); err != nil {
		return invite, fmt.Errorf("%w, %w", ErrEmailDeliveryFailure, err)
	}

	return invite, nil
}

// Verify accepts the owner's invite identified by code. Acceptance is a
// single conditional update on invite_accepted = false, so out of any number
// of concurrent calls for the same code exactly one succeeds.
func (s *InviteService) Verify(ctx context.Context, owner *model.User, code string) (*model.Invite, error) {
	var invite model.Invite

	err := s.db.WithContext(ctx).
		Scopes(ownedBy(owner.ID)).
		Where("code = ?", code).
		First(&invite).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}

		return nil, fmt.Errorf("failed to fetch invite, %w", err)
	}

	if invite.InviteAccepted || invite.InviteAcceptedAt != nil {
		return nil, ErrInviteAlreadyAccepted
	}

	var updated model.Invite

	r := s.db.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{}).
		Scopes(ownedBy(owner.ID)).
		Where("id = ? AND invite_accepted = ?", invite.ID, false).
		Updates(map[string]any{
			"invite_accepted":    true,
			"invite_accepted_at": s.now(),
		})
	if r.Error != nil {
		return nil, fmt.Errorf("failed to accept invite, %w", r.Error)
	}

	if r.RowsAffected == 0 {
		// Someone else accepted it between the read and the update
		return nil, ErrInviteAlreadyAccepted
	}

	return &updated, nil
}

// Get returns one of the owner's invites. It never modifies the record
func (s *InviteService) Get(ctx context.Context, owner *model.User, inviteID string) (*model.Invite, error) {
	var invite model.Invite

	err := s.db.WithContext(ctx).
		Scopes(ownedBy(owner.ID)).
		Where("id = ?", inviteID).
		First(&invite).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}

		return nil, fmt.Errorf("failed to fetch invite, %w", err)
	}

	return &invite, nil
}

// ListForEvent returns the invites of one of the owner's events
func (s *InviteService) ListForEvent(ctx context.Context, owner *model.User, eventID string) ([]model.Invite, error) {
	var invites []model.Invite

	err := s.db.WithContext(ctx).
		Scopes(ownedBy(owner.ID)).
		Where("event_invited_to = ?", eventID).
		Order("created_at asc").
		Limit(1000).
		Find(&invites).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list invites, %w", err)
	}

	return invites, nil
}

// Delete removes the invite and then its QR image. A failed image delete
// is logged, the invite is gone either way
func (s *InviteService) Delete(ctx context.Context, owner *model.User, inviteID string) (*model.Invite, error) {
	invite, err := s.Get(ctx, owner, inviteID)
	if err != nil {
		return nil, err
	}

	r := s.db.WithContext(ctx).
		Scopes(ownedBy(owner.ID)).
		Where("id = ?", invite.ID).
		Delete(&model.Invite{})
	if r.Error != nil {
		return nil, fmt.Errorf("failed to delete invite, %w", r.Error)
	}

	if r.RowsAffected == 0 {
		return nil, ErrInviteNotFound
	}

	if err := s.images.Delete(ctx, invite.QRCodeImgPublicKey); err != nil {
		zap.L().Error("Failed to delete qr code image", zap.String("key", invite.QRCodeImgPublicKey), zap.Error(err))
	}

	return invite, nil
}
