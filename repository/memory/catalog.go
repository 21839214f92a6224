package memory

import (
	"context"
	"slices"
	"strings"

	"cafehere/model"
	"cafehere/repository"
)

// ---- categories

type categories struct{ db *DB }

var _ repository.CategoryRepository = (*categories)(nil)

func (r *categories) nameTaken(cafeID uint, name string, excludeID uint) bool {
	for id, c := range r.db.categories {
		if id != excludeID && c.CafeID == cafeID && c.Name == name {
			return true
		}
	}
	return false
}

// withProducts returns a copy of the category with its products attached.
func (db *DB) withProducts(c model.Category) model.Category {
	c.Products = []model.Product{}
	for _, id := range sortedIDs(db.products) {
		if p := db.products[id]; p.CategoryID == c.ID {
			c.Products = append(c.Products, p)
		}
	}
	return c
}

func (r *categories) Create(_ context.Context, c *model.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.cafes[c.CafeID]; !ok {
		return repository.ErrNotFound
	}
	if r.nameTaken(c.CafeID, c.Name, 0) {
		return repository.ErrDuplicate
	}
	_ = c.BeforeCreate(nil)
	c.ID = r.db.nextID("categories")
	stored := *c
	stored.Cafe, stored.Products = nil, nil
	r.db.categories[c.ID] = stored
	return nil
}

func (r *categories) FindInCafe(_ context.Context, cafeID, id uint) (*model.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.categories[id]
	if !ok || c.CafeID != cafeID {
		return nil, repository.ErrNotFound
	}
	c = r.db.withProducts(c)
	return &c, nil
}

func (r *categories) FindByNameInCafe(_ context.Context, cafeID uint, name string) (*model.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, c := range r.db.categories {
		if c.CafeID == cafeID && c.Name == name {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *categories) ListByCafe(_ context.Context, cafeID uint) ([]model.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []model.Category{}
	for _, id := range sortedIDs(r.db.categories) {
		if c := r.db.categories[id]; c.CafeID == cafeID {
			out = append(out, r.db.withProducts(c))
		}
	}
	return out, nil
}

func (r *categories) ExistsByName(_ context.Context, cafeID uint, name string, excludeID uint) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.nameTaken(cafeID, name, excludeID), nil
}

func (r *categories) Update(_ context.Context, c *model.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.categories[c.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.nameTaken(c.CafeID, c.Name, c.ID) {
		return repository.ErrDuplicate
	}
	stored := *c
	stored.Cafe, stored.Products = nil, nil
	r.db.categories[c.ID] = stored
	return nil
}

func (r *categories) Delete(_ context.Context, c *model.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.categories[c.ID]; !ok {
		return repository.ErrNotFound
	}
	r.db.deleteCategory(c.ID)
	return nil
}

// ---- option groups

type optionGroups struct{ db *DB }

var _ repository.OptionGroupRepository = (*optionGroups)(nil)

func (r *optionGroups) nameTaken(cafeID uint, name string, excludeID uint) bool {
	for id, g := range r.db.groups {
		if id != excludeID && g.CafeID == cafeID && g.Name == name {
			return true
		}
	}
	return false
}

func (db *DB) withOptions(g model.OptionGroup) model.OptionGroup {
	g.Options = []model.Option{}
	for _, id := range sortedIDs(db.options) {
		if o := db.options[id]; o.OptionGroupID == g.ID {
			g.Options = append(g.Options, o)
		}
	}
	return g
}

func hasDuplicateNames(options []model.Option) bool {
	seen := make(map[string]struct{}, len(options))
	for _, o := range options {
		if _, ok := seen[o.Name]; ok {
			return true
		}
		seen[o.Name] = struct{}{}
	}
	return false
}

func (r *optionGroups) Create(_ context.Context, g *model.OptionGroup) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.cafes[g.CafeID]; !ok {
		return repository.ErrNotFound
	}
	if r.nameTaken(g.CafeID, g.Name, 0) || hasDuplicateNames(g.Options) {
		return repository.ErrDuplicate
	}
	_ = g.BeforeCreate(nil)
	g.ID = r.db.nextID("option_groups")
	for i := range g.Options {
		g.Options[i].ID = r.db.nextID("options")
		g.Options[i].OptionGroupID = g.ID
		g.Options[i].OptionGroup = nil
		r.db.options[g.Options[i].ID] = g.Options[i]
	}
	stored := *g
	stored.Cafe, stored.Options = nil, nil
	r.db.groups[g.ID] = stored
	return nil
}

func (r *optionGroups) FindInCafe(_ context.Context, cafeID, id uint) (*model.OptionGroup, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	g, ok := r.db.groups[id]
	if !ok || g.CafeID != cafeID {
		return nil, repository.ErrNotFound
	}
	g = r.db.withOptions(g)
	return &g, nil
}

func (r *optionGroups) FindManyInCafe(_ context.Context, cafeID uint, ids []uint) ([]model.OptionGroup, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []model.OptionGroup{}
	for _, id := range sortedIDs(r.db.groups) {
		if g := r.db.groups[id]; g.CafeID == cafeID && slices.Contains(ids, id) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *optionGroups) ListByCafe(_ context.Context, cafeID uint) ([]model.OptionGroup, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []model.OptionGroup{}
	for _, id := range sortedIDs(r.db.groups) {
		if g := r.db.groups[id]; g.CafeID == cafeID {
			out = append(out, r.db.withOptions(g))
		}
	}
	return out, nil
}

func (r *optionGroups) ExistsByName(_ context.Context, cafeID uint, name string, excludeID uint) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.nameTaken(cafeID, name, excludeID), nil
}

// Update validates the resulting option set before touching any row.
func (r *optionGroups) Update(_ context.Context, g *model.OptionGroup, changes repository.OptionChanges) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.groups[g.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.nameTaken(g.CafeID, g.Name, g.ID) {
		return repository.ErrDuplicate
	}

	deleted := map[uint]bool{}
	for _, o := range changes.Delete {
		deleted[o.ID] = true
	}
	result := []model.Option{}
	for _, o := range r.db.withOptions(r.db.groups[g.ID]).Options {
		if !deleted[o.ID] {
			result = append(result, o)
		}
	}
	result = append(result, changes.Create...)
	if hasDuplicateNames(result) {
		return repository.ErrDuplicate
	}

	for id := range deleted {
		delete(r.db.options, id)
	}
	for _, o := range changes.Update {
		if stored, ok := r.db.options[o.ID]; ok && stored.OptionGroupID == g.ID {
			stored.AddPrice = o.AddPrice
			r.db.options[o.ID] = stored
		}
	}
	for _, o := range changes.Create {
		o.ID = r.db.nextID("options")
		o.OptionGroupID = g.ID
		o.OptionGroup = nil
		r.db.options[o.ID] = o
	}
	stored := r.db.groups[g.ID]
	stored.Name = g.Name
	r.db.groups[g.ID] = stored
	g.Options = r.db.withOptions(stored).Options
	return nil
}

func (r *optionGroups) Delete(_ context.Context, g *model.OptionGroup) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.groups[g.ID]; !ok {
		return repository.ErrNotFound
	}
	r.db.deleteGroup(g.ID)
	return nil
}

// ---- products

type products struct{ db *DB }

var _ repository.ProductRepository = (*products)(nil)

func (r *products) nameTaken(categoryID uint, name string, excludeID uint) bool {
	for id, p := range r.db.products {
		if id != excludeID && p.CategoryID == categoryID && p.Name == name {
			return true
		}
	}
	return false
}

// hydrate attaches the category and linked option groups, as the gorm
// implementation does with a join and a preload.
func (db *DB) hydrate(p model.Product) model.Product {
	if c, ok := db.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	p.OptionGroups = []model.OptionGroup{}
	ids := slices.Clone(db.links[p.ID])
	slices.Sort(ids)
	for _, id := range ids {
		if g, ok := db.groups[id]; ok {
			p.OptionGroups = append(p.OptionGroups, g)
		}
	}
	return p
}

func (db *DB) storeProduct(p *model.Product) {
	ids := make([]uint, 0, len(p.OptionGroups))
	for _, g := range p.OptionGroups {
		if _, ok := db.groups[g.ID]; ok && !slices.Contains(ids, g.ID) {
			ids = append(ids, g.ID)
		}
	}
	db.links[p.ID] = ids
	stored := *p
	stored.Category, stored.OptionGroups = nil, nil
	db.products[p.ID] = stored
}

func (r *products) prepareCreate(p *model.Product) error {
	if _, ok := r.db.categories[p.CategoryID]; !ok {
		return repository.ErrNotFound
	}
	if r.nameTaken(p.CategoryID, p.Name, 0) {
		return repository.ErrDuplicate
	}
	return nil
}

func (r *products) insert(p *model.Product) {
	_ = p.BeforeCreate(nil)
	p.SyncInitialConsonant()
	p.ID = r.db.nextID("products")
	p.CreatedAt, p.UpdatedAt = now(), now()
	r.db.storeProduct(p)
}

func (r *products) Create(_ context.Context, p *model.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.prepareCreate(p); err != nil {
		return err
	}
	r.insert(p)
	return nil
}

func (r *products) CreateBatch(_ context.Context, batch []*model.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	seen := map[uint]map[string]bool{}
	for _, p := range batch {
		if err := r.prepareCreate(p); err != nil {
			return err
		}
		if seen[p.CategoryID] == nil {
			seen[p.CategoryID] = map[string]bool{}
		}
		if seen[p.CategoryID][p.Name] {
			return repository.ErrDuplicate
		}
		seen[p.CategoryID][p.Name] = true
	}
	for _, p := range batch {
		r.insert(p)
	}
	return nil
}

func (r *products) inCafe(p model.Product, cafeID uint) bool {
	c, ok := r.db.categories[p.CategoryID]
	return ok && c.CafeID == cafeID
}

func (r *products) FindInCafe(_ context.Context, cafeID, id uint) (*model.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.products[id]
	if !ok || !r.inCafe(p, cafeID) {
		return nil, repository.ErrNotFound
	}
	p = r.db.hydrate(p)
	return &p, nil
}

func (r *products) ListByCafe(_ context.Context, cafeID uint, filter repository.ProductFilter) ([]model.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	search := strings.ToLower(filter.Search)
	out := []model.Product{}
	ids := sortedIDs(r.db.products)
	slices.Reverse(ids)
	for _, id := range ids {
		p := r.db.products[id]
		if !r.inCafe(p, cafeID) {
			continue
		}
		if filter.Category != "" && r.db.categories[p.CategoryID].Name != filter.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.InitialConsonant), search) {
			continue
		}
		out = append(out, r.db.hydrate(p))
	}
	return out, nil
}

func (r *products) ExistsByName(_ context.Context, categoryID uint, name string, excludeID uint) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.nameTaken(categoryID, name, excludeID), nil
}

func (r *products) Update(_ context.Context, p *model.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.db.categories[p.CategoryID]; !ok {
		return repository.ErrNotFound
	}
	if r.nameTaken(p.CategoryID, p.Name, p.ID) {
		return repository.ErrDuplicate
	}
	p.SyncInitialConsonant()
	p.UpdatedAt = now()
	r.db.storeProduct(p)
	return nil
}

func (r *products) Delete(_ context.Context, p *model.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.products, p.ID)
	delete(r.db.links, p.ID)
	return nil
}
