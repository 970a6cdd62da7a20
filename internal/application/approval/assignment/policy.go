// Package assignment chooses which manager approves a permit once its PIC has
// signed it off.
package assignment

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/orris-inc/permitgate/internal/domain/approval"
	"github.com/orris-inc/permitgate/internal/domain/directory"
	"github.com/orris-inc/permitgate/internal/domain/permit"
	"github.com/orris-inc/permitgate/internal/shared/config"
)

const (
	PolicyFirst       = "first"
	PolicyRoundRobin  = "round_robin"
	PolicyLeastLoaded = "least_loaded"
	PolicyRouting     = "routing"
)

// Policy picks a manager for p. It returns nil when no manager is available.
type Policy interface {
	Assign(ctx context.Context, p *permit.Permit) (*directory.Person, error)
}

// New builds the policy named in cfg.ManagerPolicy.
func New(cfg config.ApprovalConfig, dir directory.Directory, approvals approval.QueryRepository) (Policy, error) {
	switch strings.ToLower(cfg.ManagerPolicy) {
	case PolicyFirst:
		return NewFirst(dir), nil
	case PolicyRoundRobin:
		return NewRoundRobin(dir), nil
	case PolicyLeastLoaded, "":
		return NewLeastLoaded(dir, approvals), nil
	case PolicyRouting:
		return NewRouting(cfg.Routes, dir, NewLeastLoaded(dir, approvals)), nil
	default:
		return nil, fmt.Errorf("unknown manager policy %q", cfg.ManagerPolicy)
	}
}

func managers(ctx context.Context, dir directory.Directory) ([]*directory.Person, error) {
	list, err := dir.ListByRole(ctx, directory.RoleManager)
	if err != nil {
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	return list, nil
}

// First always picks the manager with the lowest id.
type First struct {
	dir directory.Directory
}

func NewFirst(dir directory.Directory) *First {
	return &First{dir: dir}
}

func (f *First) Assign(ctx context.Context, p *permit.Permit) (*directory.Person, error) {
	list, err := managers(ctx, f.dir)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// RoundRobin cycles through managers in id order. The cursor lives in memory.
type RoundRobin struct {
	dir  directory.Directory
	mu   sync.Mutex
	next int
}

func NewRoundRobin(dir directory.Directory) *RoundRobin {
	return &RoundRobin{dir: dir}
}

func (r *RoundRobin) Assign(ctx context.Context, p *permit.Permit) (*directory.Person, error) {
	list, err := managers(ctx, r.dir)
	if err != nil || len(list) == 0 {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	picked := list[r.next%len(list)]
	r.next = (r.next + 1) % len(list)
	return picked, nil
}

// LeastLoaded picks the manager with the fewest pending manager approvals, the
// lowest id winning ties.
type LeastLoaded struct {
	dir       directory.Directory
	approvals approval.QueryRepository
}

func NewLeastLoaded(dir directory.Directory, approvals approval.QueryRepository) *LeastLoaded {
	return &LeastLoaded{dir: dir, approvals: approvals}
}

func (l *LeastLoaded) Assign(ctx context.Context, p *permit.Permit) (*directory.Person, error) {
	list, err := managers(ctx, l.dir)
	if err != nil || len(list) == 0 {
		return nil, err
	}

	ids := make([]uint, len(list))
	for i, m := range list {
		ids[i] = m.ID
	}
	load, err := l.approvals.CountPendingByApprover(ctx, approval.LevelManagerApproval, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending approvals: %w", err)
	}

	best := list[0]
	for _, m := range list[1:] {
		if load[m.ID] < load[best.ID] {
			best = m
		}
	}
	return best, nil
}

// Routing maps a permit location to a fixed manager and defers to fallback
// for unmapped locations or when the mapped person is not a manager.
type Routing struct {
	routes   map[string]uint
	dir      directory.Directory
	fallback Policy
}

func NewRouting(routes map[string]uint, dir directory.Directory, fallback Policy) *Routing {
	normalized := make(map[string]uint, len(routes))
	for loc, id := range routes {
		normalized[strings.ToUpper(loc)] = id
	}
	return &Routing{routes: normalized, dir: dir, fallback: fallback}
}

func (r *Routing) Assign(ctx context.Context, p *permit.Permit) (*directory.Person, error) {
	if managerID, ok := r.routes[strings.ToUpper(p.Location())]; ok {
		person, err := r.dir.GetPerson(ctx, managerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get routed manager: %w", err)
		}
		if person != nil && person.HasRole(directory.RoleManager) {
			return person, nil
		}
	}
	if r.fallback == nil {
		return nil, nil
	}
	return r.fallback.Assign(ctx, p)
}
