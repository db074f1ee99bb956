package models

import "time"

type ContextKey string

const (
	RoleContextKey ContextKey = "role_context"
)

// LeadType classifies what kind of customer interaction a lead records.
// The string values are the wire/storage values and must not change.
type LeadType string

const (
	LeadTypeGeneral             LeadType = "general"
	LeadTypeLossOfSale          LeadType = "lossOfSale"
	LeadTypeRentOutFeedback     LeadType = "rentOutFeedback"
	LeadTypeBookingConfirmation LeadType = "bookingConfirmation"
	LeadTypeJustDial            LeadType = "justDial"
)

func (t LeadType) Valid() bool {
	switch t {
	case LeadTypeGeneral, LeadTypeLossOfSale, LeadTypeRentOutFeedback,
		LeadTypeBookingConfirmation, LeadTypeJustDial:
		return true
	}
	return false
}

// SyncType identifies an ingestion channel. Each channel has its own
// identity rule and its own watermark history.
type SyncType string

const (
	SyncTypeBooking    SyncType = "booking"
	SyncTypeReturn     SyncType = "return"
	SyncTypeRentOut    SyncType = "rentout"
	SyncTypeWalkIn     SyncType = "walkin"
	SyncTypeLossOfSale SyncType = "lossofsale"
	SyncTypeStore      SyncType = "store"
)

func (t SyncType) Valid() bool {
	switch t {
	case SyncTypeBooking, SyncTypeReturn, SyncTypeRentOut,
		SyncTypeWalkIn, SyncTypeLossOfSale, SyncTypeStore:
		return true
	}
	return false
}

// LeadType returns the lead classification produced by this channel.
func (t SyncType) LeadType() LeadType {
	switch t {
	case SyncTypeBooking:
		return LeadTypeBookingConfirmation
	case SyncTypeReturn, SyncTypeRentOut:
		return LeadTypeRentOutFeedback
	case SyncTypeLossOfSale:
		return LeadTypeLossOfSale
	default:
		return LeadTypeGeneral
	}
}

type SyncTrigger string

const (
	SyncTriggerManual SyncTrigger = "manual"
	SyncTriggerAuto   SyncTrigger = "auto"
)

type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusPartial SyncStatus = "partial"
	SyncStatusFailed  SyncStatus = "failed"
)

// Role determines lead visibility. Admins see everything, telecallers are
// restricted to their own store, agents only to leads assigned to them.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTelecaller Role = "telecaller"
	RoleAgent      Role = "agent"
)

// RoleContext is the caller identity the query builder scopes by.
type RoleContext struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
	Store  string `json:"store"` // canonical form, set for telecallers
}

// Log is the document shape the async zap tee writes to the logs collection.
type Log struct {
	Message      string    `bson:"message" json:"message"`
	Level        string    `bson:"level" json:"level"`
	Caller       string    `bson:"caller,omitempty" json:"caller,omitempty"`
	Channel      string    `bson:"channel,omitempty" json:"channel,omitempty"`
	Store        string    `bson:"store,omitempty" json:"store,omitempty"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
