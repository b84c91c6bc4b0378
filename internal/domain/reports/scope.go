package reports

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"storebooks/internal/core/id"
	"storebooks/internal/core/types"
)

// maxDateRange is the largest accepted DateRange: one day or a from/to pair.
const maxDateRange = 2

// Scope is a validated request scope whose branch set has been resolved.
// It is immutable once built and may be shared by concurrent fetches.
type Scope struct {
	branchID  *id.ID
	branchIDs []id.ID
	from      *types.Date // inclusive
	to        *types.Date // inclusive
	loc       *time.Location
}

// BranchIDs returns a copy of the resolved branch set (empty for an explicit branch).
func (s *Scope) BranchIDs() []id.ID {
	return slices.Clone(s.branchIDs)
}

// Compose builds the predicate for a source filtered on dateKey.
// Every call returns fresh slices so a source can never alter what
// the other sources see.
func (s *Scope) Compose(dateKey string) Predicate {
	p := Predicate{DateKey: dateKey}

	if s.branchID != nil {
		branch := *s.branchID
		p.BranchID = &branch
	} else {
		p.BranchIDs = slices.Clone(s.branchIDs)
		if p.BranchIDs == nil {
			p.BranchIDs = []id.ID{}
		}
	}

	if s.from != nil {
		from := s.from.Start(s.loc)
		until := s.to.AddDays(1).Start(s.loc)
		p.From = &from
		p.Until = &until
	}

	return p
}

// Composer validates scope requests and resolves the actor's branches.
type Composer struct {
	branches BranchResolver
	loc      *time.Location
}

// NewComposer creates a Composer. Day boundaries are taken in loc.
func NewComposer(branches BranchResolver, loc *time.Location) *Composer {
	if loc == nil {
		loc = time.UTC
	}
	return &Composer{branches: branches, loc: loc}
}

// ValidateScope rejects malformed requests without calling any collaborator.
func ValidateScope(req ScopeRequest) error {
	if len(req.DateRange) > maxDateRange {
		return invalidScope("date range accepts at most %d dates, got %d", maxDateRange, len(req.DateRange))
	}
	for i, d := range req.DateRange {
		if d.IsZero() {
			return invalidScope("date range entry %d is empty", i)
		}
		if !d.Valid() {
			return invalidScope("date range entry %d is not a calendar day: %s", i, d)
		}
	}
	if req.BranchID != nil && id.IsNil(*req.BranchID) {
		return invalidScope("branch id must not be the nil UUID")
	}
	return nil
}

// Resolve validates req and produces a Scope. The actor's branches are looked up
// at most once: to build the branch set when req has no explicit branch, or to
// check that a non-admin actor may see the explicit one.
func (c *Composer) Resolve(ctx context.Context, actor Actor, req ScopeRequest) (*Scope, error) {
	if err := ValidateScope(req); err != nil {
		return nil, err
	}

	s := &Scope{loc: c.loc}

	switch len(req.DateRange) {
	case 1:
		day := req.DateRange[0]
		s.from, s.to = &day, &day
	case 2:
		lo, hi := req.DateRange[0], req.DateRange[1]
		if hi.Before(lo) {
			lo, hi = hi, lo
		}
		s.from, s.to = &lo, &hi
	}

	if req.BranchID != nil {
		branch := *req.BranchID
		if !actor.IsAdmin {
			if err := c.authorize(ctx, actor, branch); err != nil {
				return nil, err
			}
		}
		s.branchID = &branch
		return s, nil
	}

	ids, err := c.branches.ResolveBranchIDs(ctx, actor)
	if err != nil {
		return nil, resolutionFailed(err)
	}
	s.branchIDs = slices.Clone(ids)

	return s, nil
}

func (c *Composer) authorize(ctx context.Context, actor Actor, branch id.ID) error {
	visible, err := c.branches.ResolveBranchIDs(ctx, actor)
	if err != nil {
		return resolutionFailed(err)
	}
	if !slices.Contains(visible, branch) {
		return forbiddenBranch(branch)
	}
	return nil
}

// ParseScopeRequest builds a ScopeRequest from transport values.
// An empty branchID means all branches of the actor.
func ParseScopeRequest(branchID string, dates []string) (ScopeRequest, error) {
	var req ScopeRequest

	if branchID = strings.TrimSpace(branchID); branchID != "" {
		parsed, err := id.Parse(branchID)
		if err != nil {
			return ScopeRequest{}, invalidScope("invalid branch id %q", branchID)
		}
		req.BranchID = &parsed
	}

	for _, raw := range dates {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		d, err := types.ParseDate(raw)
		if err != nil {
			return ScopeRequest{}, invalidScope("invalid date %q, expected YYYY-MM-DD", raw)
		}
		req.DateRange = append(req.DateRange, d)
	}

	if err := ValidateScope(req); err != nil {
		return ScopeRequest{}, err
	}

	return req, nil
}

// ParseSalesFilter builds a SalesFilter from transport values.
// An empty customerID keeps every customer.
func ParseSalesFilter(customerID string) (SalesFilter, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return SalesFilter{}, nil
	}
	parsed, err := strconv.ParseInt(customerID, 10, 64)
	if err != nil || parsed <= 0 {
		return SalesFilter{}, invalidScope("invalid customer id %q", customerID)
	}
	return SalesFilter{CustomerID: &parsed}, nil
}
