// Package memory is a process-local implementation of the repository
// interfaces. It backs DATABASE_DRIVER=memory and the service tests, and
// enforces the same uniqueness and cascade rules as the postgres schema.
package memory

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"cafehere/model"
	"cafehere/repository"

	"github.com/google/uuid"
)

// DB holds every table behind one lock.
type DB struct {
	mu sync.RWMutex

	lastID map[string]uint

	users      map[uint]model.User
	cafes      map[uint]model.Cafe
	categories map[uint]model.Category
	groups     map[uint]model.OptionGroup
	options    map[uint]model.Option
	products   map[uint]model.Product
	// links maps product id to linked option group ids.
	links map[uint][]uint
}

func New() *DB {
	return &DB{
		lastID:     map[string]uint{},
		users:      map[uint]model.User{},
		cafes:      map[uint]model.Cafe{},
		categories: map[uint]model.Category{},
		groups:     map[uint]model.OptionGroup{},
		options:    map[uint]model.Option{},
		products:   map[uint]model.Product{},
		links:      map[uint][]uint{},
	}
}

// NewStore returns a Store backed by a fresh DB.
func NewStore() *repository.Store {
	return New().Store()
}

func (db *DB) Store() *repository.Store {
	return &repository.Store{
		Users:        &users{db},
		Cafes:        &cafes{db},
		Categories:   &categories{db},
		OptionGroups: &optionGroups{db},
		Products:     &products{db},
	}
}

func (db *DB) nextID(table string) uint {
	db.lastID[table]++
	return db.lastID[table]
}

func now() time.Time { return time.Now().UTC() }

func sortedIDs[V any](m map[uint]V) []uint {
	return slices.Sorted(maps.Keys(m))
}

// ---- users

type users struct{ db *DB }

var _ repository.UserRepository = (*users)(nil)

func (r *users) Create(_ context.Context, u *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.users {
		if existing.Mobile == u.Mobile {
			return repository.ErrDuplicate
		}
	}
	_ = u.BeforeCreate(nil)
	u.ID = r.db.nextID("users")
	u.CreatedAt, u.UpdatedAt = now(), now()
	r.db.users[u.ID] = *u
	return nil
}

func (r *users) find(match func(model.User) bool) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, u := range r.db.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *users) FindByMobile(_ context.Context, mobile string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Mobile == mobile })
}

func (r *users) FindByUUID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.UUID == id })
}

func (r *users) ExistsByMobile(ctx context.Context, mobile string) (bool, error) {
	_, err := r.FindByMobile(ctx, mobile)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *users) Update(_ context.Context, u *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.db.users {
		if id != u.ID && existing.Mobile == u.Mobile {
			return repository.ErrDuplicate
		}
	}
	u.UpdatedAt = now()
	r.db.users[u.ID] = *u
	return nil
}

// ---- cafes

type cafes struct{ db *DB }

var _ repository.CafeRepository = (*cafes)(nil)

func (r *cafes) nameTaken(ownerID uint, name string, excludeID uint) bool {
	for id, c := range r.db.cafes {
		if id != excludeID && c.OwnerID == ownerID && c.Name == name {
			return true
		}
	}
	return false
}

func (r *cafes) Create(_ context.Context, c *model.Cafe) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[c.OwnerID]; !ok {
		return repository.ErrNotFound
	}
	if r.nameTaken(c.OwnerID, c.Name, 0) {
		return repository.ErrDuplicate
	}
	_ = c.BeforeCreate(nil)
	c.ID = r.db.nextID("cafes")
	c.CreatedAt, c.UpdatedAt = now(), now()
	stored := *c
	stored.Owner = nil
	r.db.cafes[c.ID] = stored
	return nil
}

func (r *cafes) FindByUUID(_ context.Context, id uuid.UUID) (*model.Cafe, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, c := range r.db.cafes {
		if c.UUID == id {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *cafes) ListByOwner(_ context.Context, ownerID uint) ([]model.Cafe, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []model.Cafe{}
	for _, id := range sortedIDs(r.db.cafes) {
		if c := r.db.cafes[id]; c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *cafes) ExistsByName(_ context.Context, ownerID uint, name string, excludeID uint) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.nameTaken(ownerID, name, excludeID), nil
}

func (r *cafes) Update(_ context.Context, c *model.Cafe) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.cafes[c.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.nameTaken(c.OwnerID, c.Name, c.ID) {
		return repository.ErrDuplicate
	}
	c.UpdatedAt = now()
	stored := *c
	stored.Owner = nil
	r.db.cafes[c.ID] = stored
	return nil
}

func (r *cafes) Delete(_ context.Context, c *model.Cafe) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.cafes[c.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, cat := range r.db.categories {
		if cat.CafeID == c.ID {
			r.db.deleteCategory(id)
		}
	}
	for id, g := range r.db.groups {
		if g.CafeID == c.ID {
			r.db.deleteGroup(id)
		}
	}
	delete(r.db.cafes, c.ID)
	return nil
}

// deleteCategory cascades to products. Caller holds the write lock.
func (db *DB) deleteCategory(id uint) {
	for pid, p := range db.products {
		if p.CategoryID == id {
			delete(db.products, pid)
			delete(db.links, pid)
		}
	}
	delete(db.categories, id)
}

// deleteGroup cascades to options and product links. Caller holds the write lock.
func (db *DB) deleteGroup(id uint) {
	for oid, o := range db.options {
		if o.OptionGroupID == id {
			delete(db.options, oid)
		}
	}
	for pid, ids := range db.links {
		db.links[pid] = slices.DeleteFunc(ids, func(gid uint) bool { return gid == id })
	}
	delete(db.groups, id)
}
