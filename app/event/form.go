// Package event contains the handlers managing events
package event

import (
	"time"

	"github.com/kejiahp/QRcode-event-manager/internal/service"
)

// eventBody accepts both datetime-local form values and RFC 3339 JSON
type eventBody struct {
	Name        string    `form:"name" json:"name" binding:"required,max=255"`
	Description string    `form:"description" json:"description" binding:"required"`
	StartDate   time.Time `form:"start_date" json:"start_date" time_format:"2006-01-02T15:04" binding:"required"`
	EndDate     time.Time `form:"end_date" json:"end_date" time_format:"2006-01-02T15:04" binding:"required"`
}

func (b eventBody) input() service.EventInput {
	return service.EventInput{
		Name:        b.Name,
		Description: b.Description,
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
	}
}
