package lead

import (
	"context"
	"fmt"
	"testing"
	"time"

	common_models "go-telecrm/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeLeadRepo is an in-memory LeadRepository good enough to evaluate the
// identity filters the resolver builds.
type fakeLeadRepo struct {
	leads   []*Lead
	failOps bool
}

func (f *fakeLeadRepo) Insert(ctx context.Context, lead *Lead) error {
	if f.failOps {
		return fmt.Errorf("write refused")
	}
	lead.ID = primitive.NewObjectID()
	lead.CreatedAt = time.Now()
	lead.UpdatedAt = lead.CreatedAt
	copied := *lead
	f.leads = append(f.leads, &copied)
	return nil
}

func (f *fakeLeadRepo) FindOne(ctx context.Context, filter bson.M) (*Lead, error) {
	for _, l := range f.leads {
		if matchesFilter(l, filter) {
			copied := *l
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeLeadRepo) FindByID(ctx context.Context, id string) (*Lead, error) {
	for _, l := range f.leads {
		if l.ID.Hex() == id {
			copied := *l
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeLeadRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	if f.failOps {
		return fmt.Errorf("write refused")
	}
	for _, l := range f.leads {
		if l.ID == id {
			applySet(l, set)
			l.UpdatedAt = time.Now()
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeLeadRepo) List(ctx context.Context, filter bson.M, limit, offset int64) ([]Lead, int64, error) {
	var out []Lead
	for _, l := range f.leads {
		if matchesFilter(l, filter) {
			out = append(out, *l)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeLeadRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }
func (f *fakeLeadRepo) EnsureIndexes(ctx context.Context) error                 { return nil }

func matchesFilter(l *Lead, filter bson.M) bool {
	for key, want := range filter {
		var got interface{}
		switch key {
		case "phone":
			got = l.Phone
		case "name":
			got = l.Name
		case "store":
			got = l.Store
		case "booking_no":
			got = l.BookingNo
		case "lead_type":
			got = l.LeadType
		case "enquiry_date":
			if l.EnquiryDate == nil {
				got = nil
			} else {
				got = *l.EnquiryDate
			}
		default:
			return false
		}
		if want == nil || got == nil {
			if want != got {
				return false
			}
			continue
		}
		if wt, ok := want.(time.Time); ok {
			gt, ok := got.(time.Time)
			if !ok || !wt.Equal(gt) {
				return false
			}
			continue
		}
		if fmt.Sprintf("%v", got) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}

func applySet(l *Lead, set bson.M) {
	for key, v := range set {
		switch key {
		case "name":
			l.Name = v.(string)
		case "store":
			l.Store = v.(string)
		case "lead_type":
			l.LeadType = v.(common_models.LeadType)
		case "source":
			l.Source = v.(string)
		case "booking_no":
			l.BookingNo = v.(string)
		case "security_amount":
			l.SecurityAmount = v.(float64)
		case "enquiry_date":
			t := v.(time.Time)
			l.EnquiryDate = &t
		case "function_date":
			t := v.(time.Time)
			l.FunctionDate = &t
		case "return_date":
			t := v.(time.Time)
			l.ReturnDate = &t
		case "reason":
			l.Reason = v.(string)
		case "closing_status":
			l.ClosingStatus = v.(string)
		case "call_status":
			l.CallStatus = v.(string)
		case "lead_status":
			l.LeadStatus = v.(string)
		case "remarks":
			l.Remarks = v.(string)
		case "follow_up_date":
			t := v.(time.Time)
			l.FollowUpDate = &t
		case "assigned_to":
			l.AssignedTo = v.(string)
		case "assigned_at":
			t := v.(time.Time)
			l.AssignedAt = &t
		}
	}
}

type fakeArchive struct {
	entries []bson.M
}

func (f *fakeArchive) Exists(ctx context.Context, filter bson.M) (bool, error) {
	for _, e := range f.entries {
		match := true
		for k, v := range filter {
			if fmt.Sprintf("%v", e[k]) != fmt.Sprintf("%v", v) {
				match = false
				break
			}
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}

func newTestResolver(repo *fakeLeadRepo, archive *fakeArchive) *Resolver {
	if archive == nil {
		archive = &fakeArchive{}
	}
	return NewResolver(repo, archive, nil)
}

func bookingCandidate() *Candidate {
	return &Candidate{
		Channel:   common_models.SyncTypeBooking,
		LeadType:  common_models.LeadTypeBookingConfirmation,
		Name:      "Anand",
		Phone:     "9998881111",
		Store:     "Suitor Guy - Kottakkal",
		BookingNo: "BK-1001",
		Source:    "booking-api",
	}
}

func TestResolveBookingDedupIdempotence(t *testing.T) {
	repo := &fakeLeadRepo{}
	resolver := newTestResolver(repo, nil)
	ctx := context.Background()

	first := resolver.Resolve(ctx, bookingCandidate())
	if first.Status != ResolutionCreated {
		t.Fatalf("first resolve = %v, want created", first.Status)
	}

	// a telecaller works the lead between syncs
	repo.leads[0].CallStatus = "contacted"
	repo.leads[0].Remarks = "asked to call back friday"

	second := resolver.Resolve(ctx, bookingCandidate())
	if second.Status != ResolutionUpdated {
		t.Fatalf("second resolve = %v, want updated", second.Status)
	}

	if len(repo.leads) != 1 {
		t.Fatalf("expected exactly one stored lead, got %d", len(repo.leads))
	}
	if repo.leads[0].CallStatus != "contacted" || repo.leads[0].Remarks != "asked to call back friday" {
		t.Errorf("telecaller-owned fields were clobbered by re-sync: %+v", repo.leads[0])
	}
}

func TestResolveBookingExplicitValueWins(t *testing.T) {
	repo := &fakeLeadRepo{}
	resolver := newTestResolver(repo, nil)
	ctx := context.Background()

	resolver.Resolve(ctx, bookingCandidate())
	repo.leads[0].CallStatus = "contacted"

	cand := bookingCandidate()
	cand.CallStatus = "booking cancelled"
	if res := resolver.Resolve(ctx, cand); res.Status != ResolutionUpdated {
		t.Fatalf("resolve = %v, want updated", res.Status)
	}
	if repo.leads[0].CallStatus != "booking cancelled" {
		t.Errorf("explicit incoming value must overwrite, got %q", repo.leads[0].CallStatus)
	}
}

func TestResolveBookingFallbackIdentity(t *testing.T) {
	repo := &fakeLeadRepo{}
	resolver := newTestResolver(repo, nil)
	ctx := context.Background()

	cand := bookingCandidate()
	cand.BookingNo = ""
	if res := resolver.Resolve(ctx, cand); res.Status != ResolutionCreated {
		t.Fatalf("resolve = %v, want created", res.Status)
	}

	// same (phone, name, leadType, store) without a booking number updates
	again := bookingCandidate()
	again.BookingNo = ""
	if res := resolver.Resolve(ctx, again); res.Status != ResolutionUpdated {
		t.Fatalf("resolve = %v, want updated", res.Status)
	}
	if len(repo.leads) != 1 {
		t.Errorf("expected one lead, got %d", len(repo.leads))
	}
}

func TestResolveVisitMultiplicity(t *testing.T) {
	repo := &fakeLeadRepo{}
	resolver := newTestResolver(repo, nil)
	ctx := context.Background()

	d1 := time.Date(2025, 12, 13, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 12, 17, 0, 0, 0, 0, time.UTC)

	for _, d := range []time.Time{d1, d2} {
		date := d
		res := resolver.Resolve(ctx, &Candidate{
			Channel:     common_models.SyncTypeLossOfSale,
			LeadType:    common_models.LeadTypeLossOfSale,
			Name:        "A",
			Phone:       "9998881111",
			Store:       "Suitor Guy - Kottakkal",
			EnquiryDate: &date,
		})
		if res.Status != ResolutionCreated {
			t.Fatalf("resolve = %v (%s), want created", res.Status, res.Reason)
		}
	}

	if len(repo.leads) != 2 {
		t.Errorf("two visits must produce two leads, got %d", len(repo.leads))
	}
}

func TestResolveReimportDedup(t *testing.T) {
	repo := &fakeLeadRepo{}
	resolver := newTestResolver(repo, nil)
	ctx := context.Background()

	date := time.Date(2025, 12, 13, 0, 0, 0, 0, time.UTC)
	cand := func() *Candidate {
		return &Candidate{
			Channel:     common_models.SyncTypeLossOfSale,
			LeadType:    common_models.LeadTypeLossOfSale,
			Name:        "A",
			Phone:       "9998881111",
			Store:       "Suitor Guy - Kottakkal",
			EnquiryDate: &date,
			Reimport:    true,
		}
	}

	if res := resolver.Resolve(ctx, cand()); res.Status != ResolutionCreated {
		t.Fatalf("first import = %v, want created", res.Status)
	}
	if res := resolver.Resolve(ctx, cand()); res.Status != ResolutionUpdated {
		t.Fatalf("re-import = %v, want updated", res.Status)
	}
	if len(repo.leads) != 1 {
		t.Errorf("re-importing the same sheet must not duplicate rows, got %d leads", len(repo.leads))
	}
}

func TestResolveReimportSkipsArchived(t *testing.T) {
	repo := &fakeLeadRepo{}
	date := time.Date(2025, 12, 13, 0, 0, 0, 0, time.UTC)
	archive := &fakeArchive{entries: []bson.M{{
		"phone":        "9998881111",
		"name":         "A",
		"store":        "Suitor Guy - Kottakkal",
		"enquiry_date": date,
	}}}
	resolver := newTestResolver(repo, archive)

	res := resolver.Resolve(context.Background(), &Candidate{
		Channel:     common_models.SyncTypeLossOfSale,
		LeadType:    common_models.LeadTypeLossOfSale,
		Name:        "A",
		Phone:       "9998881111",
		Store:       "Suitor Guy - Kottakkal",
		EnquiryDate: &date,
		Reimport:    true,
	})

	if res.Status != ResolutionSkipped || res.Reason != SkipAlreadyArchived {
		t.Errorf("archived identity must be skipped, got %v (%s)", res.Status, res.Reason)
	}
	if len(repo.leads) != 0 {
		t.Errorf("archived identity must not be resurrected")
	}
}

func TestResolveValidation(t *testing.T) {
	resolver := newTestResolver(&fakeLeadRepo{}, nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*Candidate)
		reason string
	}{
		{"Missing Name", func(c *Candidate) { c.Name = "  " }, SkipMissingName},
		{"Missing Store", func(c *Candidate) { c.Store = "" }, SkipMissingStore},
		{"Short Phone", func(c *Candidate) { c.Phone = "12345" }, SkipInvalidPhone},
		{"Long Phone", func(c *Candidate) { c.Phone = "99988811112" }, SkipInvalidPhone},
		{"Alpha Phone", func(c *Candidate) { c.Phone = "99988811ab" }, SkipInvalidPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cand := bookingCandidate()
			tt.mutate(cand)
			res := resolver.Resolve(ctx, cand)
			if res.Status != ResolutionSkipped || res.Reason != tt.reason {
				t.Errorf("resolve = %v (%s), want skipped (%s)", res.Status, res.Reason, tt.reason)
			}
		})
	}
}

func TestResolvePersistenceErrorIsFailed(t *testing.T) {
	repo := &fakeLeadRepo{failOps: true}
	resolver := newTestResolver(repo, nil)

	res := resolver.Resolve(context.Background(), bookingCandidate())
	if res.Status != ResolutionFailed {
		t.Fatalf("resolve = %v, want failed", res.Status)
	}
	if res.Err == nil {
		t.Error("failed resolution must carry the error")
	}
}
