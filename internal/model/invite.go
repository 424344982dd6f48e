package model

import "time"

// Invite is a guest's invitation to an event. InviteAccepted and
// InviteAcceptedAt only ever change together, once.
type Invite struct {
	ID                 string     `gorm:"primaryKey" json:"id"`
	Email              string     `gorm:"size:255;not null;uniqueIndex:idx_invite_event_email" json:"email"`
	Fullname           string     `gorm:"not null" json:"fullname"`
	EventInvitedTo     string     `gorm:"not null;uniqueIndex:idx_invite_event_email" json:"event_invited_to"`
	Code               string     `gorm:"uniqueIndex;not null" json:"code"`
	InviteAccepted     bool       `gorm:"not null;default:false" json:"invite_accepted"`
	InviteAcceptedAt   *time.Time `json:"invite_accepted_at"`
	QRCodeImgURL       string     `gorm:"column:qr_code_img_url;not null" json:"qr_code_img_url"`
	QRCodeImgPublicKey string     `gorm:"column:qr_code_img_public_key;not null" json:"qr_code_img_public_key"`
	CreatedBy          string     `gorm:"index;not null" json:"created_by"`
	CreatedAt          time.Time  `gorm:"not null" json:"created_at"`
}

// Status returns a human readable state of the invite
func (i Invite) Status() string {
	if i.InviteAccepted {
		return "accepted"
	}

	return "pending"
}
