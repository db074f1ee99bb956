package lead

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	common_models "go-telecrm/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type ResolutionStatus string

const (
	ResolutionCreated ResolutionStatus = "created"
	ResolutionUpdated ResolutionStatus = "updated"
	ResolutionSkipped ResolutionStatus = "skipped"
	ResolutionFailed  ResolutionStatus = "failed"
)

// Resolution is the outcome of feeding one candidate through the resolver.
type Resolution struct {
	Status ResolutionStatus
	Reason string // machine-readable skip reason
	Err    error
}

// Machine-readable skip reasons.
const (
	SkipMissingName     = "missing_name"
	SkipMissingStore    = "missing_store"
	SkipInvalidPhone    = "invalid_phone"
	SkipAlreadyArchived = "already_archived"
)

// ArchiveIndex answers whether an identity has been moved to the report
// archive and must not be resurrected by a re-import.
type ArchiveIndex interface {
	Exists(ctx context.Context, filter bson.M) (bool, error)
}

// identityRule is the per-channel dedup policy. Transactional channels treat
// one lead as one real-world transaction and update in place; visit channels
// create a new lead per row unless the batch is a re-import.
type identityRule struct {
	transactional bool
}

// identityRules is the single place channel dedup behavior is defined.
var identityRules = map[common_models.SyncType]identityRule{
	common_models.SyncTypeBooking:    {transactional: true},
	common_models.SyncTypeRentOut:    {transactional: true},
	common_models.SyncTypeReturn:     {transactional: true},
	common_models.SyncTypeWalkIn:     {transactional: false},
	common_models.SyncTypeLossOfSale: {transactional: false},
}

// Resolver decides, for every incoming candidate, whether it is a brand-new
// lead, an update to an existing one, or a duplicate to discard.
type Resolver struct {
	Repo    LeadRepository
	Archive ArchiveIndex
	Logger  *zap.Logger

	keys keyedMutex
}

func NewResolver(repo LeadRepository, archive ArchiveIndex, logger *zap.Logger) *Resolver {
	return &Resolver{
		Repo:    repo,
		Archive: archive,
		Logger:  logger,
	}
}

// Resolve runs one candidate through validation, identity matching and
// persistence. Writes for the same identity serialize on a keyed mutex so
// two channels racing on one booking cannot interleave read and write.
func (r *Resolver) Resolve(ctx context.Context, cand *Candidate) Resolution {
	if reason := validate(cand); reason != "" {
		return Resolution{Status: ResolutionSkipped, Reason: reason}
	}

	key := identityKey(cand)
	r.keys.Lock(key)
	defer r.keys.Unlock(key)

	var res Resolution
	if identityRules[cand.Channel].transactional {
		res = r.resolveTransactional(ctx, cand)
	} else {
		res = r.resolveVisit(ctx, cand)
	}

	if res.Status == ResolutionFailed && r.Logger != nil {
		r.Logger.Warn("lead resolution failed",
			zap.String("channel", string(cand.Channel)),
			zap.String("store", cand.Store),
			zap.Error(res.Err))
	}
	return res
}

// resolveTransactional handles booking/rentout/return: one lead per
// real-world transaction, matched records are merged in place.
func (r *Resolver) resolveTransactional(ctx context.Context, cand *Candidate) Resolution {
	existing, err := r.Repo.FindOne(ctx, transactionalFilter(cand))
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return Resolution{Status: ResolutionFailed, Err: fmt.Errorf("identity lookup: %w", err)}
	}

	if existing != nil {
		if err := r.Repo.UpdateFields(ctx, existing.ID, mergeSet(cand)); err != nil {
			return Resolution{Status: ResolutionFailed, Err: fmt.Errorf("update lead: %w", err)}
		}
		return Resolution{Status: ResolutionUpdated}
	}

	if err := r.Repo.Insert(ctx, fromCandidate(cand)); err != nil {
		return Resolution{Status: ResolutionFailed, Err: fmt.Errorf("insert lead: %w", err)}
	}
	return Resolution{Status: ResolutionCreated}
}

// resolveVisit handles walk-in/loss-of-sale/general: every row is a distinct
// visit, except on re-import where the visit identity dedups against both
// the active pipeline and the report archive.
func (r *Resolver) resolveVisit(ctx context.Context, cand *Candidate) Resolution {
	if cand.Reimport {
		filter := visitFilter(cand)

		archived, err := r.Archive.Exists(ctx, filter)
		if err != nil {
			return Resolution{Status: ResolutionFailed, Err: fmt.Errorf("archive lookup: %w", err)}
		}
		if archived {
			return Resolution{Status: ResolutionSkipped, Reason: SkipAlreadyArchived}
		}

		existing, err := r.Repo.FindOne(ctx, filter)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return Resolution{Status: ResolutionFailed, Err: fmt.Errorf("identity lookup: %w", err)}
		}
		if existing != nil {
			if err := r.Repo.UpdateFields(ctx, existing.ID, mergeSet(cand)); err != nil {
				return Resolution{Status: ResolutionFailed, Err: fmt.Errorf("update lead: %w", err)}
			}
			return Resolution{Status: ResolutionUpdated}
		}
	}

	if err := r.Repo.Insert(ctx, fromCandidate(cand)); err != nil {
		return Resolution{Status: ResolutionFailed, Err: fmt.Errorf("insert lead: %w", err)}
	}
	return Resolution{Status: ResolutionCreated}
}

// validate enforces the required-field rules; phone must already be
// normalized to bare digits by the row mapper.
func validate(cand *Candidate) string {
	if strings.TrimSpace(cand.Name) == "" {
		return SkipMissingName
	}
	if strings.TrimSpace(cand.Store) == "" {
		return SkipMissingStore
	}
	if len(cand.Phone) != 10 {
		return SkipInvalidPhone
	}
	for _, r := range cand.Phone {
		if r < '0' || r > '9' {
			return SkipInvalidPhone
		}
	}
	return ""
}

// transactionalFilter is the identity key for booking/rentout/return:
// (bookingNo, phone, leadType) when a booking number exists, otherwise
// (phone, name, leadType, store).
func transactionalFilter(cand *Candidate) bson.M {
	if cand.BookingNo != "" {
		return bson.M{
			"booking_no": cand.BookingNo,
			"phone":      cand.Phone,
			"lead_type":  cand.LeadType,
		}
	}
	return bson.M{
		"phone":     cand.Phone,
		"name":      cand.Name,
		"lead_type": cand.LeadType,
		"store":     cand.Store,
	}
}

// visitFilter is the re-import identity key: (phone, name, store, enquiryDate).
func visitFilter(cand *Candidate) bson.M {
	f := bson.M{
		"phone": cand.Phone,
		"name":  cand.Name,
		"store": cand.Store,
	}
	if cand.EnquiryDate != nil {
		f["enquiry_date"] = *cand.EnquiryDate
	} else {
		f["enquiry_date"] = nil
	}
	return f
}

// identityKey serializes concurrent writes touching the same real-world
// identity, across channels.
func identityKey(cand *Candidate) string {
	if cand.BookingNo != "" {
		return "b:" + cand.BookingNo + ":" + cand.Phone
	}
	return "p:" + cand.Phone + ":" + strings.ToLower(cand.Name) + ":" + cand.Store
}

// mergeSet builds the update document for an identity match. Incoming wins
// only when it actually carries a value; telecaller-owned fields in
// particular survive any re-sync that omits them.
func mergeSet(cand *Candidate) bson.M {
	set := bson.M{
		"name":      cand.Name,
		"store":     cand.Store,
		"lead_type": cand.LeadType,
	}

	if cand.Source != "" {
		set["source"] = cand.Source
	}
	if cand.BookingNo != "" {
		set["booking_no"] = cand.BookingNo
	}
	if cand.SecurityAmount != 0 {
		set["security_amount"] = cand.SecurityAmount
	}
	if cand.EnquiryDate != nil {
		set["enquiry_date"] = *cand.EnquiryDate
	}
	if cand.FunctionDate != nil {
		set["function_date"] = *cand.FunctionDate
	}
	if cand.ReturnDate != nil {
		set["return_date"] = *cand.ReturnDate
	}
	if cand.Reason != "" {
		set["reason"] = cand.Reason
	}
	if cand.ClosingStatus != "" {
		set["closing_status"] = cand.ClosingStatus
	}

	// telecaller-owned: only an explicit incoming value may overwrite
	if cand.CallStatus != "" {
		set["call_status"] = cand.CallStatus
	}
	if cand.LeadStatus != "" {
		set["lead_status"] = cand.LeadStatus
	}
	if cand.Remarks != "" {
		set["remarks"] = cand.Remarks
	}
	if cand.FollowUpDate != nil {
		set["follow_up_date"] = *cand.FollowUpDate
	}
	if cand.AssignedTo != "" {
		set["assigned_to"] = cand.AssignedTo
	}
	if cand.AssignedAt != nil {
		set["assigned_at"] = *cand.AssignedAt
	}

	return set
}

func fromCandidate(cand *Candidate) *Lead {
	return &Lead{
		Phone:          cand.Phone,
		Name:           cand.Name,
		Store:          cand.Store,
		LeadType:       cand.LeadType,
		Source:         cand.Source,
		BookingNo:      cand.BookingNo,
		SecurityAmount: cand.SecurityAmount,
		EnquiryDate:    cand.EnquiryDate,
		FunctionDate:   cand.FunctionDate,
		ReturnDate:     cand.ReturnDate,
		Reason:         cand.Reason,
		ClosingStatus:  cand.ClosingStatus,
		CallStatus:     cand.CallStatus,
		LeadStatus:     cand.LeadStatus,
		Remarks:        cand.Remarks,
		FollowUpDate:   cand.FollowUpDate,
		AssignedTo:     cand.AssignedTo,
		AssignedAt:     cand.AssignedAt,
	}
}

// keyedMutex is a per-key lock with reference counting so idle keys do not
// accumulate.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
}

func (k *keyedMutex) Unlock(key string) {
	k.mu.Lock()
	l := k.locks[key]
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	l.mu.Unlock()
}
