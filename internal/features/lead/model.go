package lead

import (
	"time"

	common_models "go-telecrm/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lead is one customer interaction. For booking/rentout/return channels one
// lead is one real-world transaction; for walk-in/loss-of-sale one lead is
// one visit, so the same customer may appear multiple times.
type Lead struct {
	ID    primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Phone string             `json:"phone" bson:"phone"` // exactly 10 digits
	Name  string             `json:"name" bson:"name"`
	Store string             `json:"store" bson:"store"` // canonical "<Brand> - <Location>"

	LeadType common_models.LeadType `json:"lead_type" bson:"lead_type"`
	Source   string                 `json:"source" bson:"source"`

	BookingNo      string     `json:"booking_no,omitempty" bson:"booking_no,omitempty"`
	SecurityAmount float64    `json:"security_amount,omitempty" bson:"security_amount,omitempty"`
	EnquiryDate    *time.Time `json:"enquiry_date,omitempty" bson:"enquiry_date,omitempty"`
	FunctionDate   *time.Time `json:"function_date,omitempty" bson:"function_date,omitempty"`
	ReturnDate     *time.Time `json:"return_date,omitempty" bson:"return_date,omitempty"`
	Reason         string     `json:"reason,omitempty" bson:"reason,omitempty"`
	ClosingStatus  string     `json:"closing_status,omitempty" bson:"closing_status,omitempty"`

	// Telecaller-owned fields. These are human work product: an automated
	// re-sync may only touch them when the incoming record explicitly
	// carries a new value.
	CallStatus   string     `json:"call_status,omitempty" bson:"call_status,omitempty"`
	LeadStatus   string     `json:"lead_status,omitempty" bson:"lead_status,omitempty"`
	Remarks      string     `json:"remarks,omitempty" bson:"remarks,omitempty"`
	FollowUpDate *time.Time `json:"follow_up_date,omitempty" bson:"follow_up_date,omitempty"`
	AssignedTo   string     `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	AssignedAt   *time.Time `json:"assigned_at,omitempty" bson:"assigned_at,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Candidate is a mapped upstream row on its way into the resolver.
type Candidate struct {
	Channel  common_models.SyncType
	Reimport bool // manual re-import of a previously imported file

	Phone string
	Name  string
	Store string

	LeadType common_models.LeadType
	Source   string

	BookingNo      string
	SecurityAmount float64
	EnquiryDate    *time.Time
	FunctionDate   *time.Time
	ReturnDate     *time.Time
	Reason         string
	ClosingStatus  string

	CallStatus   string
	LeadStatus   string
	Remarks      string
	FollowUpDate *time.Time
	AssignedTo   string
	AssignedAt   *time.Time
}
