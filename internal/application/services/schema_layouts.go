package services

import (
	"context"

	"github.com/nexuscrm/builder/internal/domain/layout"
	"github.com/nexuscrm/builder/internal/domain/object"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/models"
)

// ResolveLayout renders the layout with layoutID for the form collaborator
func (s *SchemaStore) ResolveLayout(objectAPIName, layoutID string) (layout.RenderTree, error) {
	var tree layout.RenderTree
	err := s.read(func(schema *models.OrgSchema) error {
		obj, _, err := findLayout(schema, objectAPIName, layoutID)
		if err != nil {
			return err
		}
		clone := obj.Clone()
		tree, err = layout.Resolve(&clone, *clone.FindLayout(layoutID))
		return err
	})
	return tree, err
}

// EffectiveLayout renders the layout used for default record entry
func (s *SchemaStore) EffectiveLayout(objectAPIName string, layoutType models.LayoutType, recordTypeID string) (layout.RenderTree, error) {
	var tree layout.RenderTree
	err := s.read(func(schema *models.OrgSchema) error {
		obj, err := findObject(schema, objectAPIName)
		if err != nil {
			return err
		}
		clone := obj.Clone()
		tree, err = layout.Effective(&clone, layoutType, recordTypeID)
		return err
	})
	return tree, err
}

// CreateLayout adds a page layout. The layout gets a fresh id; tabs and
// sections keep ids given by the caller and get fresh ones otherwise.
func (s *SchemaStore) CreateLayout(ctx context.Context, objectAPIName string, l models.PageLayout) (models.PageLayout, error) {
	var created models.PageLayout
	l = l.Clone()
	err := s.mutate(ctx, "CreateLayout", func(draft *models.OrgSchema) error {
		obj, err := findObject(draft, objectAPIName)
		if err != nil {
			return err
		}
		l.ID = s.newID()
		s.assignLayoutIDs(&l)
		if err := layout.Validate(obj, l); err != nil {
			return err
		}
		obj.PageLayouts = append(obj.PageLayouts, l)
		s.touch(obj)
		created = l.Clone()
		return nil
	})
	return created, err
}

// UpdateLayout replaces the layout with l.ID
func (s *SchemaStore) UpdateLayout(ctx context.Context, objectAPIName string, l models.PageLayout) (models.PageLayout, error) {
	var updated models.PageLayout
	l = l.Clone()
	err := s.mutate(ctx, "UpdateLayout", func(draft *models.OrgSchema) error {
		obj, existing, err := findLayout(draft, objectAPIName, l.ID)
		if err != nil {
			return err
		}
		s.assignLayoutIDs(&l)
		if err := layout.Validate(obj, l); err != nil {
			return err
		}
		*existing = l
		s.touch(obj)
		updated = l.Clone()
		return nil
	})
	return updated, err
}

// DeleteLayout removes a layout. Record types selecting it block the deletion
// unless cascade is set, which clears their pageLayoutId; the names of the
// cleared record types are returned.
func (s *SchemaStore) DeleteLayout(ctx context.Context, objectAPIName, layoutID string, cascade bool) ([]string, error) {
	var cleared []string
	err := s.mutate(ctx, "DeleteLayout", func(draft *models.OrgSchema) error {
		obj, _, err := findLayout(draft, objectAPIName, layoutID)
		if err != nil {
			return err
		}
		users := object.RecordTypesUsingLayout(obj, layoutID)
		if len(users) > 0 && !cascade {
			refs := make([]string, len(users))
			for i, name := range users {
				refs[i] = "record type '" + name + "'"
			}
			return appErrors.NewLayoutInUseError(layoutID, refs)
		}
		for i := range obj.RecordTypes {
			if obj.RecordTypes[i].PageLayoutID == layoutID {
				obj.RecordTypes[i].PageLayoutID = ""
			}
		}
		for i := range obj.PageLayouts {
			if obj.PageLayouts[i].ID == layoutID {
				obj.PageLayouts = append(obj.PageLayouts[:i], obj.PageLayouts[i+1:]...)
				break
			}
		}
		s.touch(obj)
		cleared = users
		return nil
	})
	return cleared, err
}

// AddTab appends a tab to a layout
func (s *SchemaStore) AddTab(ctx context.Context, objectAPIName, layoutID string, tab models.PageTab) (models.PageTab, error) {
	var added models.PageTab
	tab = tab.Clone()
	err := s.mutate(ctx, "AddTab", func(draft *models.OrgSchema) error {
		obj, l, err := findLayout(draft, objectAPIName, layoutID)
		if err != nil {
			return err
		}
		tab.ID = s.newID()
		s.assignTabIDs(&tab)
		if err := layout.AddTab(obj, l, tab); err != nil {
			return err
		}
		s.touch(obj)
		added = tab.Clone()
		return nil
	})
	return added, err
}

// AddSection appends a section to a tab of a layout
func (s *SchemaStore) AddSection(ctx context.Context, objectAPIName, layoutID, tabID string, sec models.PageSection) (models.PageSection, error) {
	var added models.PageSection
	sec = sec.Clone()
	err := s.mutate(ctx, "AddSection", func(draft *models.OrgSchema) error {
		obj, l, err := findLayout(draft, objectAPIName, layoutID)
		if err != nil {
			return err
		}
		sec.ID = s.newID()
		if sec.Fields == nil {
			sec.Fields = []models.PageField{}
		}
		if err := layout.AddSection(obj, l, tabID, sec); err != nil {
			return err
		}
		s.touch(obj)
		added = sec.Clone()
		return nil
	})
	return added, err
}

// PlaceField places an existing field into a section
func (s *SchemaStore) PlaceField(ctx context.Context, objectAPIName, layoutID, sectionID string, pf models.PageField) error {
	return s.mutate(ctx, "PlaceField", func(draft *models.OrgSchema) error {
		obj, l, err := findLayout(draft, objectAPIName, layoutID)
		if err != nil {
			return err
		}
		if err := layout.PlaceField(obj, l, sectionID, pf); err != nil {
			return err
		}
		s.touch(obj)
		return nil
	})
}

// RemovePlacement takes a field off a layout; the field itself is kept
func (s *SchemaStore) RemovePlacement(ctx context.Context, objectAPIName, layoutID, fieldAPIName string) error {
	return s.mutate(ctx, "RemovePlacement", func(draft *models.OrgSchema) error {
		obj, l, err := findLayout(draft, objectAPIName, layoutID)
		if err != nil {
			return err
		}
		if !layout.RemovePlacement(l, fieldAPIName) {
			return appErrors.NewNotFoundError("Placement", layoutID+"/"+fieldAPIName)
		}
		s.touch(obj)
		return nil
	})
}

func findLayout(schema *models.OrgSchema, objectAPIName, layoutID string) (*models.ObjectDef, *models.PageLayout, error) {
	obj, err := findObject(schema, objectAPIName)
	if err != nil {
		return nil, nil, err
	}
	l := obj.FindLayout(layoutID)
	if l == nil {
		return nil, nil, appErrors.NewNotFoundError("Page layout", layoutID)
	}
	return obj, l, nil
}

func (s *SchemaStore) assignLayoutIDs(l *models.PageLayout) {
	if l.Tabs == nil {
		l.Tabs = []models.PageTab{}
	}
	for i := range l.Tabs {
		if l.Tabs[i].ID == "" {
			l.Tabs[i].ID = s.newID()
		}
		s.assignTabIDs(&l.Tabs[i])
	}
}

func (s *SchemaStore) assignTabIDs(tab *models.PageTab) {
	if tab.Sections == nil {
		tab.Sections = []models.PageSection{}
	}
	for i := range tab.Sections {
		sec := &tab.Sections[i]
		if sec.ID == "" {
			sec.ID = s.newID()
		}
		if sec.Fields == nil {
			sec.Fields = []models.PageField{}
		}
	}
}
