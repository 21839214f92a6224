package service

import (
	"context"

	"cafehere/apperr"
	"cafehere/dto"
	"cafehere/model"
	"cafehere/repository"
)

type OptionGroupService struct {
	groups repository.OptionGroupRepository
}

func NewOptionGroupService(groups repository.OptionGroupRepository) *OptionGroupService {
	return &OptionGroupService{groups: groups}
}

func (s *OptionGroupService) List(ctx context.Context, cafe *model.Cafe) ([]model.OptionGroup, error) {
	groups, err := s.groups.ListByCafe(ctx, cafe.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return groups, nil
}

func (s *OptionGroupService) Get(ctx context.Context, cafe *model.Cafe, id uint) (*model.OptionGroup, error) {
	g, err := s.groups.FindInCafe(ctx, cafe.ID, id)
	if err != nil {
		return nil, storeError(err, "", "")
	}
	return g, nil
}

// Create stores the group and its options in one transaction.
func (s *OptionGroupService) Create(ctx context.Context, cafe *model.Cafe, req dto.OptionGroupRequest) (*model.OptionGroup, error) {
	if err := checkOptionNames(req.Options); err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, cafe.ID, req.Name, 0); err != nil {
		return nil, err
	}
	g := &model.OptionGroup{Name: req.Name, CafeID: cafe.ID, Options: make([]model.Option, 0, len(req.Options))}
	for _, o := range req.Options {
		g.Options = append(g.Options, model.Option{Name: o.Name, AddPrice: *o.AddPrice})
	}
	if err := s.groups.Create(ctx, g); err != nil {
		return nil, storeError(err, "name", msgOptionGroupNameTaken)
	}
	return g, nil
}

// Update renames the group and reconciles its options against the payload by name.
func (s *OptionGroupService) Update(ctx context.Context, cafe *model.Cafe, id uint, req dto.OptionGroupRequest) (*model.OptionGroup, error) {
	if err := checkOptionNames(req.Options); err != nil {
		return nil, err
	}
	g, err := s.Get(ctx, cafe, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, cafe.ID, req.Name, g.ID); err != nil {
		return nil, err
	}
	g.Name = req.Name
	if err := s.groups.Update(ctx, g, planOptionChanges(g.Options, req.Options)); err != nil {
		return nil, storeError(err, "name", msgOptionGroupNameTaken)
	}
	return g, nil
}

func (s *OptionGroupService) Delete(ctx context.Context, cafe *model.Cafe, id uint) error {
	g, err := s.Get(ctx, cafe, id)
	if err != nil {
		return err
	}
	return storeError(s.groups.Delete(ctx, g), "", "")
}

func (s *OptionGroupService) checkName(ctx context.Context, cafeID uint, name string, excludeID uint) error {
	taken, err := s.groups.ExistsByName(ctx, cafeID, name, excludeID)
	if err != nil {
		return apperr.Internal(err)
	}
	if taken {
		return apperr.Field("name", msgOptionGroupNameTaken)
	}
	return nil
}

func checkOptionNames(options []dto.OptionRequest) error {
	seen := make(map[string]bool, len(options))
	for _, o := range options {
		if seen[o.Name] {
			return apperr.Field("options", msgOptionNameRepeated)
		}
		seen[o.Name] = true
	}
	return nil
}

// planOptionChanges diffs stored options against the requested set by name:
// names only in the request are created, names only in storage are deleted,
// and names in both get the requested add_price.
func planOptionChanges(stored []model.Option, requested []dto.OptionRequest) repository.OptionChanges {
	wanted := make(map[string]int, len(requested))
	for _, o := range requested {
		wanted[o.Name] = *o.AddPrice
	}
	have := make(map[string]bool, len(stored))

	var changes repository.OptionChanges
	for _, o := range stored {
		have[o.Name] = true
		price, keep := wanted[o.Name]
		switch {
		case !keep:
			changes.Delete = append(changes.Delete, o)
		case price != o.AddPrice:
			o.AddPrice = price
			changes.Update = append(changes.Update, o)
		}
	}
	for _, o := range requested {
		if !have[o.Name] {
			changes.Create = append(changes.Create, model.Option{Name: o.Name, AddPrice: *o.AddPrice})
		}
	}
	return changes
}
