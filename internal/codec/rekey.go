package codec

import (
	"time"

	"github.com/nexuscrm/builder/pkg/models"
	"github.com/nexuscrm/builder/pkg/utils"
)

// Rekey replaces every identifier in schema with a fresh one from newID,
// rewrites record-type layout references and default record-type ids to
// match, resets version to 1 and stamps all timestamps with now.
func Rekey(schema *models.OrgSchema, newID utils.IDGenerator, now time.Time) {
	for i := range schema.Objects {
		rekeyObject(&schema.Objects[i], newID, now)
	}
	for i := range schema.PermissionSets {
		schema.PermissionSets[i].ID = newID()
	}
	schema.Version = 1
	schema.UpdatedAt = now
}

func rekeyObject(obj *models.ObjectDef, newID utils.IDGenerator, now time.Time) {
	obj.ID = newID()
	obj.CreatedAt = now
	obj.UpdatedAt = now

	for i := range obj.Fields {
		obj.Fields[i].ID = newID()
	}

	layoutIDs := make(map[string]string, len(obj.PageLayouts))
	for li := range obj.PageLayouts {
		l := &obj.PageLayouts[li]
		fresh := newID()
		layoutIDs[l.ID] = fresh
		l.ID = fresh
		for ti := range l.Tabs {
			tab := &l.Tabs[ti]
			tab.ID = newID()
			for si := range tab.Sections {
				tab.Sections[si].ID = newID()
			}
		}
	}

	recordTypeIDs := make(map[string]string, len(obj.RecordTypes))
	for i := range obj.RecordTypes {
		rt := &obj.RecordTypes[i]
		fresh := newID()
		recordTypeIDs[rt.ID] = fresh
		rt.ID = fresh
		if rt.PageLayoutID != "" {
			if mapped, ok := layoutIDs[rt.PageLayoutID]; ok {
				rt.PageLayoutID = mapped
			}
		}
	}
	if obj.DefaultRecordTypeID != "" {
		if mapped, ok := recordTypeIDs[obj.DefaultRecordTypeID]; ok {
			obj.DefaultRecordTypeID = mapped
		}
	}

	for i := range obj.ValidationRules {
		obj.ValidationRules[i].ID = newID()
	}
}

// Import decodes a document and re-keys it. format may be empty to detect it.
func Import(data []byte, format Format, newID utils.IDGenerator, now time.Time) (*models.OrgSchema, error) {
	if format == "" {
		format = DetectFormat(data)
	}
	schema, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	Rekey(schema, newID, now)
	return schema, nil
}
