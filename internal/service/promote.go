package service

import (
	"github.com/google/uuid"

	"github.com/saadjs/nutri/internal/model"
)

// NewEntryID returns a fresh entry identifier.
func NewEntryID() string {
	return uuid.NewString()
}

// PromotePlan copies the plan entries for dateKey into the logged ledger under
// new ids, after any entries already logged that day. The plan is left as is,
// so promoting twice logs everything twice. The returned ledger shares no
// slices with either input.
func PromotePlan(plan, logged model.Ledger, dateKey string, newID func() string) (model.Ledger, []string) {
	planned := plan.Entries(dateKey)
	if len(planned) == 0 {
		return logged, []string{}
	}
	if newID == nil {
		newID = NewEntryID
	}

	out := logged.Clone()
	existing := out[dateKey]
	merged := make([]model.FoodEntry, 0, len(existing)+len(planned))
	merged = append(merged, existing...)

	ids := make([]string, 0, len(planned))
	for _, p := range planned {
		e := p
		e.ID = newID()
		merged = append(merged, e)
		ids = append(ids, e.ID)
	}
	out[dateKey] = merged
	return out, ids
}
