package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrgSchemaClone_IsDeep(t *testing.T) {
	maxLen := 80
	def := TextArray("a")
	orig := &OrgSchema{
		Version: 3,
		Objects: []ObjectDef{{
			APIName: "Account",
			Fields: []FieldDef{{
				APIName: "Stage", MaxLength: &maxLen, PicklistValues: []string{"Open"},
				DefaultValue: &def,
				DependentValues: map[string][]string{"Open": {"x"}},
				VisibleIf: []ConditionExpr{{Left: "Type", Op: "IN", Right: TextArray("A")}},
			}},
			PageLayouts: []PageLayout{{ID: "L1", Tabs: []PageTab{{ID: "T1", Sections: []PageSection{{
				ID: "S1", Fields: []PageField{{FieldAPIName: "Stage"}},
			}}}}}},
			RecordTypes: []RecordType{{ID: "RT1", Default: true}},
		}},
		PermissionSets: []PermissionSet{{ID: "P1", ObjectPermissions: map[string]ObjectAccess{"Account": {Read: true}}}},
	}

	cp := orig.Clone()
	cp.Objects[0].Fields[0].PicklistValues[0] = "Closed"
	*cp.Objects[0].Fields[0].MaxLength = 10
	cp.Objects[0].Fields[0].DependentValues["Open"][0] = "y"
	cp.Objects[0].PageLayouts[0].Tabs[0].Sections[0].Fields[0].FieldAPIName = "Other"
	cp.Objects[0].RecordTypes[0].Default = false
	cp.PermissionSets[0].ObjectPermissions["Account"] = ObjectAccess{}

	o := orig.Objects[0]
	assert.Equal(t, "Open", o.Fields[0].PicklistValues[0])
	assert.Equal(t, 80, *o.Fields[0].MaxLength)
	assert.Equal(t, "x", o.Fields[0].DependentValues["Open"][0])
	assert.Equal(t, "Stage", o.PageLayouts[0].Tabs[0].Sections[0].Fields[0].FieldAPIName)
	assert.True(t, o.RecordTypes[0].Default)
	assert.True(t, orig.PermissionSets[0].ObjectPermissions["Account"].Read)

	var nilSchema *OrgSchema
	assert.Nil(t, nilSchema.Clone())
}

func TestPageLayoutCounts(t *testing.T) {
	l := PageLayout{Tabs: []PageTab{
		{Sections: []PageSection{{Fields: []PageField{{}, {}}}, {Fields: []PageField{{}}}}},
		{Sections: []PageSection{{}}},
	}}
	assert.Equal(t, 3, l.FieldCount())
	assert.Equal(t, 3, l.SectionCount())
	tab, sec := l.FindSection("nope")
	assert.Nil(t, tab)
	assert.Nil(t, sec)
}
