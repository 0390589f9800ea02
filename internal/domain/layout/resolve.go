package layout

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nexuscrm/builder/internal/domain/object"
	"github.com/nexuscrm/builder/pkg/constants"
	"github.com/nexuscrm/builder/pkg/models"
)

// RenderField is a placed field with its resolved definition
type RenderField struct {
	Column int             `json:"column"`
	Order  int             `json:"order"`
	Field  models.FieldDef `json:"field"`
}

// RenderSection is a section with fields grouped by column
type RenderSection struct {
	ID          string                 `json:"id"`
	Label       string                 `json:"label"`
	ColumnCount int                    `json:"columnCount"`
	VisibleIf   []models.ConditionExpr `json:"visibleIf,omitempty"`
	Columns     [][]RenderField        `json:"columns"`
}

// RenderTab is a tab with its sections in display order
type RenderTab struct {
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Sections []RenderSection `json:"sections"`
}

// RenderTree is the input of form rendering
type RenderTree struct {
	ObjectAPIName string            `json:"objectApiName"`
	LayoutID      string            `json:"layoutId"`
	LayoutName    string            `json:"layoutName"`
	LayoutType    models.LayoutType `json:"layoutType"`
	Fallback      bool              `json:"fallback"`
	Tabs          []RenderTab       `json:"tabs"`
}

// Fields returns every rendered field in tab, section, column, order sequence
func (t RenderTree) Fields() []models.FieldDef {
	var out []models.FieldDef
	for _, tab := range t.Tabs {
		for _, sec := range tab.Sections {
			for _, col := range sec.Columns {
				for _, rf := range col {
					out = append(out, rf.Field)
				}
			}
		}
	}
	return out
}

// Resolve orders layout for rendering. Tabs and sections sort by order, fields
// group by column then sort by order; ties keep declaration order. An invalid
// layout is rejected rather than rendered partially. Resolve does not modify
// its inputs.
func Resolve(obj *models.ObjectDef, layout models.PageLayout) (RenderTree, error) {
	if errs := ValidateLayout(obj, layout); len(errs) > 0 {
		return RenderTree{}, fmt.Errorf("resolve layout '%s': %w", layout.ID, errors.Join(errs...))
	}

	tree := RenderTree{
		ObjectAPIName: obj.APIName,
		LayoutID:      layout.ID,
		LayoutName:    layout.Name,
		LayoutType:    layout.LayoutType,
		Tabs:          make([]RenderTab, 0, len(layout.Tabs)),
	}

	tabs := make([]models.PageTab, len(layout.Tabs))
	copy(tabs, layout.Tabs)
	sort.SliceStable(tabs, func(i, j int) bool { return tabs[i].Order < tabs[j].Order })

	for _, tab := range tabs {
		rt := RenderTab{ID: tab.ID, Label: tab.Label, Sections: make([]RenderSection, 0, len(tab.Sections))}

		sections := make([]models.PageSection, len(tab.Sections))
		copy(sections, tab.Sections)
		sort.SliceStable(sections, func(i, j int) bool { return sections[i].Order < sections[j].Order })

		for _, sec := range sections {
			rs := RenderSection{
				ID:          sec.ID,
				Label:       sec.Label,
				ColumnCount: sec.Columns,
				VisibleIf:   sec.VisibleIf,
				Columns:     make([][]RenderField, sec.Columns),
			}
			for i := range rs.Columns {
				rs.Columns[i] = []RenderField{}
			}
			for _, pf := range sec.Fields {
				def, _ := object.ResolveField(obj, pf.FieldAPIName)
				rs.Columns[pf.Column] = append(rs.Columns[pf.Column], RenderField{Column: pf.Column, Order: pf.Order, Field: def})
			}
			for _, col := range rs.Columns {
				sort.SliceStable(col, func(i, j int) bool { return col[i].Order < col[j].Order })
			}
			rt.Sections = append(rt.Sections, rs)
		}
		tree.Tabs = append(tree.Tabs, rt)
	}
	return tree, nil
}

// Select picks the layout used for default record entry: the record type's
// layout when it has the requested type, else the first declared layout of
// that type. It returns nil when nothing matches.
func Select(obj *models.ObjectDef, layoutType models.LayoutType, recordTypeID string) *models.PageLayout {
	if recordTypeID != "" {
		if rt := obj.FindRecordType(recordTypeID); rt != nil && rt.PageLayoutID != "" {
			if l := obj.FindLayout(rt.PageLayoutID); l != nil && l.LayoutType == layoutType {
				return l
			}
		}
	}
	for i := range obj.PageLayouts {
		if obj.PageLayouts[i].LayoutType == layoutType {
			return &obj.PageLayouts[i]
		}
	}
	return nil
}

// Fallback builds a one-tab, one-section layout holding every custom field
// in declaration order, alternating across two columns.
func Fallback(obj *models.ObjectDef, layoutType models.LayoutType) models.PageLayout {
	base := "default_" + obj.APIName + "_" + string(layoutType)
	section := models.PageSection{
		ID:      base + "_section",
		Label:   constants.FallbackSectionLabel,
		Columns: constants.FallbackColumns,
		Fields:  []models.PageField{},
	}
	for i, f := range object.CustomFields(obj) {
		section.Fields = append(section.Fields, models.PageField{
			FieldAPIName: f.APIName,
			Column:       i % constants.FallbackColumns,
			Order:        i / constants.FallbackColumns,
		})
	}
	return models.PageLayout{
		ID:         base,
		Name:       constants.FallbackLayoutName,
		LayoutType: layoutType,
		Tabs: []models.PageTab{{
			ID:       base + "_tab",
			Label:    constants.FallbackTabLabel,
			Sections: []models.PageSection{section},
		}},
	}
}

// Effective resolves the layout a form should render for layoutType. With no
// matching layout the fallback is rendered, so an object without authored
// layouts still renders.
func Effective(obj *models.ObjectDef, layoutType models.LayoutType, recordTypeID string) (RenderTree, error) {
	if l := Select(obj, layoutType, recordTypeID); l != nil {
		return Resolve(obj, *l)
	}
	tree, err := Resolve(obj, Fallback(obj, layoutType))
	tree.Fallback = true
	return tree, err
}
