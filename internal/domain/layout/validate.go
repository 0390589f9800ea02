// Package layout validates page layouts against their object and resolves
// them into render trees.
package layout

import (
	"errors"
	"fmt"

	"github.com/nexuscrm/builder/internal/domain/object"
	"github.com/nexuscrm/builder/pkg/constants"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/models"
)

// MaxColumns is the widest section supported
const MaxColumns = 3

// ValidateLayout returns every problem found in layout: dangling and duplicate
// field placements, out-of-range columns, malformed sections and visibility
// conditions. An empty result means the layout is valid for obj.
func ValidateLayout(obj *models.ObjectDef, layout models.PageLayout) []error {
	var errs []error
	if layout.Name == "" {
		errs = append(errs, appErrors.NewValidationError("name", "layout name is required").WithPath(layoutPath(layout)))
	}
	if !constants.IsValidLayoutType(layout.LayoutType) {
		errs = append(errs, appErrors.NewValidationError("layoutType",
			fmt.Sprintf("layout type must be '%s' or '%s', got '%s'", constants.LayoutTypeCreate, constants.LayoutTypeEdit, layout.LayoutType)).
			WithPath(layoutPath(layout)))
	}

	ids := make(map[string]struct{})
	placed := make(map[string]string)
	for _, tab := range layout.Tabs {
		if dupID(ids, tab.ID) {
			errs = append(errs, appErrors.NewValidationError("id", fmt.Sprintf("duplicate tab id '%s'", tab.ID)).WithPath(layoutPath(layout)))
		}
		for _, sec := range tab.Sections {
			path := sectionPath(layout, sec)
			if dupID(ids, sec.ID) {
				errs = append(errs, appErrors.NewValidationError("id", fmt.Sprintf("duplicate section id '%s'", sec.ID)).WithPath(path))
			}
			if sec.Columns < 1 || sec.Columns > MaxColumns {
				errs = append(errs, appErrors.NewValidationError("columns",
					fmt.Sprintf("section columns must be between 1 and %d, got %d", MaxColumns, sec.Columns)).WithPath(path))
			}
			if err := object.ValidateConditions(obj, sec.VisibleIf, path); err != nil {
				errs = append(errs, err)
			}
			for _, pf := range sec.Fields {
				if _, ok := object.ResolveField(obj, pf.FieldAPIName); !ok {
					errs = append(errs, appErrors.NewReasonedValidationError(appErrors.ReasonDanglingFieldReference, pf.FieldAPIName,
						fmt.Sprintf("field '%s' does not exist on object '%s'", pf.FieldAPIName, obj.APIName)).WithPath(path))
				}
				if pf.Column < 0 || pf.Column >= sec.Columns {
					errs = append(errs, appErrors.NewReasonedValidationError(appErrors.ReasonColumnOutOfRange, pf.FieldAPIName,
						fmt.Sprintf("column %d is outside 0..%d", pf.Column, sec.Columns-1)).WithPath(path))
				}
				if prev, dup := placed[pf.FieldAPIName]; dup {
					errs = append(errs, appErrors.NewReasonedValidationError(appErrors.ReasonDuplicateFieldPlacement, pf.FieldAPIName,
						fmt.Sprintf("field is already placed in section '%s'", prev)).WithPath(path))
					continue
				}
				placed[pf.FieldAPIName] = sec.ID
			}
		}
	}
	return errs
}

// Validate is ValidateLayout combined into a single error
func Validate(obj *models.ObjectDef, layout models.PageLayout) error {
	return errors.Join(ValidateLayout(obj, layout)...)
}

// ValidateAll validates every layout of obj, checking layout ids are unique
func ValidateAll(obj *models.ObjectDef) error {
	var errs []error
	ids := make(map[string]struct{}, len(obj.PageLayouts))
	for _, l := range obj.PageLayouts {
		if dupID(ids, l.ID) {
			errs = append(errs, appErrors.NewValidationError("id", fmt.Sprintf("duplicate layout id '%s'", l.ID)).WithPath(layoutPath(l)))
		}
		errs = append(errs, ValidateLayout(obj, l)...)
	}
	return errors.Join(errs...)
}

func dupID(seen map[string]struct{}, id string) bool {
	if id == "" {
		return false
	}
	if _, ok := seen[id]; ok {
		return true
	}
	seen[id] = struct{}{}
	return false
}

func layoutPath(l models.PageLayout) string {
	return "layout:" + l.ID
}

func sectionPath(l models.PageLayout, s models.PageSection) string {
	return "layout:" + l.ID + "/section:" + s.ID
}
