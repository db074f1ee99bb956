package lead

import (
	"context"
	"fmt"
	"time"

	common_models "go-telecrm/internal/common/models"
	"go-telecrm/internal/features/store"

	"go.mongodb.org/mongo-driver/bson"
)

// ListOptions are the non-store filters the read side accepts.
type ListOptions struct {
	LeadType   common_models.LeadType
	CallStatus string
	From       *time.Time
	To         *time.Time
	Page       int64
	PageSize   int64
}

// TelecallerUpdate carries the human-owned fields a caller may edit.
type TelecallerUpdate struct {
	CallStatus   string     `json:"call_status"`
	LeadStatus   string     `json:"lead_status"`
	Remarks      string     `json:"remarks"`
	FollowUpDate *time.Time `json:"follow_up_date"`
}

type LeadService interface {
	ListLeads(ctx context.Context, caller common_models.RoleContext, rawStoreFilter string, opts ListOptions) ([]Lead, int64, error)
	UpdateTelecallerFields(ctx context.Context, caller common_models.RoleContext, id string, update TelecallerUpdate) (*Lead, error)
	AssignLead(ctx context.Context, caller common_models.RoleContext, id string, assignTo string) (*Lead, error)
}

type LeadServiceImpl struct {
	Repo LeadRepository
}

func NewLeadService(repo LeadRepository) LeadService {
	return &LeadServiceImpl{Repo: repo}
}

// ListLeads runs a raw human-entered store string through the variant
// matcher, scopes it by the caller and pages the result. Callers never need
// to know the alias tables.
func (s *LeadServiceImpl) ListLeads(ctx context.Context, caller common_models.RoleContext, rawStoreFilter string, opts ListOptions) ([]Lead, int64, error) {
	filter := ScopeFilter(store.BuildFilter(rawStoreFilter), caller)

	if opts.LeadType != "" {
		if !opts.LeadType.Valid() {
			return nil, 0, fmt.Errorf("unknown lead type %q", opts.LeadType)
		}
		filter["lead_type"] = opts.LeadType
	}
	if opts.CallStatus != "" {
		filter["call_status"] = opts.CallStatus
	}
	if opts.From != nil || opts.To != nil {
		dateRange := bson.M{}
		if opts.From != nil {
			dateRange["$gte"] = *opts.From
		}
		if opts.To != nil {
			dateRange["$lte"] = *opts.To
		}
		filter["created_at"] = dateRange
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	size := opts.PageSize
	if size < 1 || size > 200 {
		size = 50
	}

	return s.Repo.List(ctx, filter, size, (page-1)*size)
}

// UpdateTelecallerFields lets a caller edit the human-owned fields of a lead
// they are allowed to see.
func (s *LeadServiceImpl) UpdateTelecallerFields(ctx context.Context, caller common_models.RoleContext, id string, update TelecallerUpdate) (*Lead, error) {
	existing, err := s.visibleLead(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if update.CallStatus != "" {
		set["call_status"] = update.CallStatus
	}
	if update.LeadStatus != "" {
		set["lead_status"] = update.LeadStatus
	}
	if update.Remarks != "" {
		set["remarks"] = update.Remarks
	}
	if update.FollowUpDate != nil {
		set["follow_up_date"] = *update.FollowUpDate
	}
	if len(set) == 0 {
		return existing, nil
	}

	if err := s.Repo.UpdateFields(ctx, existing.ID, set); err != nil {
		return nil, err
	}
	return s.Repo.FindByID(ctx, id)
}

// AssignLead hands a lead to a telecaller/agent.
func (s *LeadServiceImpl) AssignLead(ctx context.Context, caller common_models.RoleContext, id string, assignTo string) (*Lead, error) {
	existing, err := s.visibleLead(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	set := bson.M{
		"assigned_to": assignTo,
		"assigned_at": now,
	}
	if err := s.Repo.UpdateFields(ctx, existing.ID, set); err != nil {
		return nil, err
	}
	return s.Repo.FindByID(ctx, id)
}

// visibleLead loads a lead and enforces the caller's scope on the write path
// too: the store restriction holds for updates, not just listings.
func (s *LeadServiceImpl) visibleLead(ctx context.Context, caller common_models.RoleContext, id string) (*Lead, error) {
	existing, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch caller.Role {
	case common_models.RoleTelecaller:
		if existing.Store != caller.Store {
			return nil, fmt.Errorf("lead %s is outside caller's store", id)
		}
	case common_models.RoleAgent:
		if existing.AssignedTo != caller.UserID {
			return nil, fmt.Errorf("lead %s is not assigned to caller", id)
		}
	}

	return existing, nil
}
