package layout

import (
	"fmt"

	"github.com/nexuscrm/builder/internal/domain/object"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/models"
)

// PlaceField adds a placement to section sectionID. A field already placed
// elsewhere in the layout is rejected; move it with RemovePlacement first.
func PlaceField(obj *models.ObjectDef, l *models.PageLayout, sectionID string, pf models.PageField) error {
	_, sec := l.FindSection(sectionID)
	if sec == nil {
		return appErrors.NewNotFoundError("Section", sectionID)
	}
	if _, ok := object.ResolveField(obj, pf.FieldAPIName); !ok {
		return appErrors.NewReasonedValidationError(appErrors.ReasonDanglingFieldReference, pf.FieldAPIName,
			fmt.Sprintf("field '%s' does not exist on object '%s'", pf.FieldAPIName, obj.APIName)).WithPath(sectionPath(*l, *sec))
	}
	if pf.Column < 0 || pf.Column >= sec.Columns {
		return appErrors.NewReasonedValidationError(appErrors.ReasonColumnOutOfRange, pf.FieldAPIName,
			fmt.Sprintf("column %d is outside 0..%d", pf.Column, sec.Columns-1)).WithPath(sectionPath(*l, *sec))
	}
	if where := placementOf(l, pf.FieldAPIName); where != "" {
		return appErrors.NewReasonedValidationError(appErrors.ReasonDuplicateFieldPlacement, pf.FieldAPIName,
			fmt.Sprintf("field is already placed in section '%s'", where)).WithPath(sectionPath(*l, *sec))
	}
	sec.Fields = append(sec.Fields, pf)
	return nil
}

// RemovePlacement removes fieldAPIName from every section of l and reports
// whether anything was removed
func RemovePlacement(l *models.PageLayout, fieldAPIName string) bool {
	removed := false
	for ti := range l.Tabs {
		for si := range l.Tabs[ti].Sections {
			sec := &l.Tabs[ti].Sections[si]
			kept := sec.Fields[:0]
			for _, pf := range sec.Fields {
				if pf.FieldAPIName == fieldAPIName {
					removed = true
					continue
				}
				kept = append(kept, pf)
			}
			sec.Fields = kept
		}
	}
	return removed
}

// AddTab appends a tab. Its sections are validated with the rest of the layout.
func AddTab(obj *models.ObjectDef, l *models.PageLayout, tab models.PageTab) error {
	if tab.Label == "" {
		return appErrors.NewValidationError("label", "tab label is required").WithPath(layoutPath(*l))
	}
	candidate := l.Clone()
	candidate.Tabs = append(candidate.Tabs, tab)
	if err := Validate(obj, candidate); err != nil {
		return err
	}
	l.Tabs = candidate.Tabs
	return nil
}

// AddSection appends a section to tab tabID
func AddSection(obj *models.ObjectDef, l *models.PageLayout, tabID string, sec models.PageSection) error {
	candidate := l.Clone()
	var tab *models.PageTab
	for i := range candidate.Tabs {
		if candidate.Tabs[i].ID == tabID {
			tab = &candidate.Tabs[i]
		}
	}
	if tab == nil {
		return appErrors.NewNotFoundError("Tab", tabID)
	}
	tab.Sections = append(tab.Sections, sec)
	if err := Validate(obj, candidate); err != nil {
		return err
	}
	l.Tabs = candidate.Tabs
	return nil
}

func placementOf(l *models.PageLayout, fieldAPIName string) string {
	for _, tab := range l.Tabs {
		for _, sec := range tab.Sections {
			for _, pf := range sec.Fields {
				if pf.FieldAPIName == fieldAPIName {
					return sec.ID
				}
			}
		}
	}
	return ""
}
