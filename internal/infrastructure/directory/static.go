// Package directory provides a Directory backed by the people listed in
// configuration. It stands in for the external identity service.
package directory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	domain "github.com/orris-inc/permitgate/internal/domain/directory"
	"github.com/orris-inc/permitgate/internal/shared/config"
)

type StaticDirectory struct {
	mu     sync.RWMutex
	people map[uint]*domain.Person
}

func NewStaticDirectory(people ...*domain.Person) (*StaticDirectory, error) {
	d := &StaticDirectory{people: make(map[uint]*domain.Person, len(people))}
	for _, p := range people {
		if err := d.Add(p); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// NewFromConfig builds the directory from the directory.people section.
func NewFromConfig(cfg config.DirectoryConfig) (*StaticDirectory, error) {
	people := make([]*domain.Person, 0, len(cfg.People))
	for _, pc := range cfg.People {
		roles := make([]domain.Role, 0, len(pc.Roles))
		for _, r := range pc.Roles {
			roles = append(roles, domain.Role(strings.ToLower(strings.TrimSpace(r))))
		}
		people = append(people, &domain.Person{
			ID:      pc.ID,
			Name:    pc.Name,
			Email:   pc.Email,
			Phone:   pc.Phone,
			Company: pc.Company,
			Roles:   roles,
		})
	}
	return NewStaticDirectory(people...)
}

func (d *StaticDirectory) Add(p *domain.Person) error {
	if p == nil {
		return fmt.Errorf("person is nil")
	}
	if err := p.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.people[p.ID]; exists {
		return fmt.Errorf("duplicate person ID %d", p.ID)
	}
	cp := *p
	d.people[p.ID] = &cp
	return nil
}

func (d *StaticDirectory) GetPerson(ctx context.Context, personID uint) (*domain.Person, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.people[personID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// ListByRole returns matching people ordered by id.
func (d *StaticDirectory) ListByRole(ctx context.Context, role domain.Role) ([]*domain.Person, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*domain.Person, 0)
	for _, p := range d.people {
		if p.HasRole(role) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
