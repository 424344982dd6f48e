package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kejiahp/QRcode-event-manager/internal/model"
	"github.com/kejiahp/QRcode-event-manager/pkg/util"
	"github.com/kejiahp/QRcode-event-manager/pkg/validators"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const eventCodeSize = 7

type EventInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
}

func (in *EventInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	if err := validators.EventNameValidator(in.Name); err != nil {
		return ValidationError(err)
	}

	if in.Description == "" {
		return ValidationError(validators.ErrDescriptionEmpty)
	}

	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return ValidationError(validators.ErrEventDatesMissing)
	}

	if !in.EndDate.After(in.StartDate) {
		return ValidationError(validators.ErrEventDatesNotSorted)
	}

	return nil
}

// ownedBy limits a query to rows created by userID. Every event and invite
// query goes through it, an ID alone never grants access
func ownedBy(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_by = ?", userID)
	}
}

type EventService struct {
	db     *gorm.DB
	images ImageStore
}

func NewEventService(db *gorm.DB, images ImageStore) *EventService {
	return &EventService{
		db:     db,
		images: images,
	}
}

func (s *EventService) Create(ctx context.Context, owner *model.User, in EventInput) (*model.Event, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	code, err := util.URLSafeStr(eventCodeSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate event code, %w", err)
	}

	event := &model.Event{
		ID:          util.RandStr(16),
		Name:        in.Name,
		Code:        code,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		IsActive:    true,
		CreatedBy:   owner.ID,
		CreatedAt:   time.Now(),
	}

	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to create event, %w", err)
	}

	return event, nil
}

// List returns the owner's events, newest first
func (s *EventService) List(ctx context.Context, owner *model.User) ([]model.Event, error) {
	var events []model.Event

	err := s.db.WithContext(ctx).
		Scopes(ownedBy(owner.ID)).
		Order("created_at desc").
		Limit(1000).
		Find(&events).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events, %w", err)
	}

	return events, nil
}

func (s *EventService) Get(ctx context.Context, owner *model.User, eventID string) (*model.Event, error) {
	var event model.Event

	err := s.db.WithContext(ctx).
		Scopes(ownedBy(owner.ID)).
		Where("id = ?", eventID).
		First(&event).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}

		return nil, fmt.Errorf("failed to fetch event, %w", err)
	}

	return &event, nil
}

func (s *EventService) Update(ctx context.Context, owner *model.User, eventID string, in EventInput) (*model.Event, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	r := s.db.WithContext(ctx).
		Model(model.Event{}).
		Scopes(ownedBy(owner.ID)).
		Where("id = ?", eventID).
		Updates(map[string]any{
			"name":        in.Name,
			"description": in.Description,
			"start_date":  in.StartDate,
			"end_date":    in.EndDate,
		})
	if r.Error != nil {
		return nil, fmt.Errorf("failed to update event, %w", r.Error)
	}

	if r.RowsAffected == 0 {
		return nil, ErrEventNotFound
	}

	return s.Get(ctx, owner, eventID)
}

// Delete removes the event together with its invites. QR images are removed
// from storage after the records are gone; failures there are only logged
func (s *EventService) Delete(ctx context.Context, owner *model.User, eventID string) error {
	var keys []string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		err := tx.Model(model.Event{}).
			Scopes(ownedBy(owner.ID)).
			Where("id = ?", eventID).
			Count(&n).
			Error
		if err != nil {
			return err
		}

		if n == 0 {
			return ErrEventNotFound
		}

		err = tx.Model(model.Invite{}).
			Scopes(ownedBy(owner.ID)).
			Where("event_invited_to = ?", eventID).
			Pluck("qr_code_img_public_key", &keys).
			Error
		if err != nil {
			return err
		}

		err = tx.Scopes(ownedBy(owner.ID)).
			Where("event_invited_to = ?", eventID).
			Delete(&model.Invite{}).
			Error
		if err != nil {
			return err
		}

		return tx.Scopes(ownedBy(owner.ID)).
			Where("id = ?", eventID).
			Delete(&model.Event{}).
			Error
	})
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return err
		}

		return fmt.Errorf("failed to delete event, %w", err)
	}

	for _, k := range keys {
		if err := s.images.Delete(ctx, k); err != nil {
			zap.L().Error("Failed to delete qr code image", zap.String("key", k), zap.Error(err))
		}
	}

	return nil
}
