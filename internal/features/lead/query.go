package lead

import (
	common_models "go-telecrm/internal/common/models"
	"go-telecrm/internal/features/store"

	"go.mongodb.org/mongo-driver/bson"
)

// ScopeFilter composes a store filter with the caller's visibility scope.
// Admins pass through untouched; telecallers are pinned to their own store on
// every disjunct of the base filter; agents only ever see leads assigned to
// them, regardless of any store filter.
func ScopeFilter(base *store.StoreFilter, caller common_models.RoleContext) bson.M {
	switch caller.Role {
	case common_models.RoleAgent:
		return bson.M{"assigned_to": caller.UserID}
	case common_models.RoleTelecaller:
		return restrictToStore(base, caller.Store).BSON()
	default:
		if base == nil {
			return bson.M{}
		}
		return base.BSON()
	}
}

// restrictToStore conjoins the caller's store into every disjunct. Applying
// the restriction per clause, not around the outer expression, is what keeps
// a disjunctive base filter from widening the caller's visibility.
func restrictToStore(base *store.StoreFilter, storeName string) *store.StoreFilter {
	if base == nil || len(base.Clauses) == 0 {
		return &store.StoreFilter{Clauses: []store.Clause{{ExactStore: storeName}}}
	}

	restricted := &store.StoreFilter{Clauses: make([]store.Clause, len(base.Clauses))}
	for i, clause := range base.Clauses {
		clause.ExactStore = storeName
		restricted.Clauses[i] = clause
	}
	return restricted
}
