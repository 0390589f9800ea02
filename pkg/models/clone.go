package models

// Deep copies. The store mutates a clone and swaps it in, so every slice and
// map reachable from OrgSchema must be copied here.

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneConditions(in []ConditionExpr) []ConditionExpr {
	if in == nil {
		return nil
	}
	out := make([]ConditionExpr, len(in))
	copy(out, in)
	for i := range out {
		if arr, ok := in[i].Right.AsTextArray(); ok {
			out[i].Right = TextArray(arr...)
		}
	}
	return out
}

// Clone returns a deep copy of the field
func (f FieldDef) Clone() FieldDef {
	out := f
	out.Precision = cloneInt(f.Precision)
	out.Scale = cloneInt(f.Scale)
	out.Min = cloneFloat(f.Min)
	out.Max = cloneFloat(f.Max)
	out.MaxLength = cloneInt(f.MaxLength)
	out.MinLength = cloneInt(f.MinLength)
	out.StartingNumber = cloneInt(f.StartingNumber)
	out.PicklistValues = cloneStrings(f.PicklistValues)
	out.VisibleIf = cloneConditions(f.VisibleIf)
	if f.DefaultValue != nil {
		v := *f.DefaultValue
		if arr, ok := v.AsTextArray(); ok {
			v = TextArray(arr...)
		}
		out.DefaultValue = &v
	}
	if f.DependentValues != nil {
		out.DependentValues = make(map[string][]string, len(f.DependentValues))
		for k, vals := range f.DependentValues {
			out.DependentValues[k] = cloneStrings(vals)
		}
	}
	return out
}

// Clone returns a deep copy of the section
func (s PageSection) Clone() PageSection {
	out := s
	out.VisibleIf = cloneConditions(s.VisibleIf)
	if s.Fields != nil {
		out.Fields = make([]PageField, len(s.Fields))
		copy(out.Fields, s.Fields)
	}
	return out
}

// Clone returns a deep copy of the tab
func (t PageTab) Clone() PageTab {
	out := t
	if t.Sections != nil {
		out.Sections = make([]PageSection, len(t.Sections))
		for i := range t.Sections {
			out.Sections[i] = t.Sections[i].Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the layout
func (l PageLayout) Clone() PageLayout {
	out := l
	if l.Tabs != nil {
		out.Tabs = make([]PageTab, len(l.Tabs))
		for i := range l.Tabs {
			out.Tabs[i] = l.Tabs[i].Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the object
func (o ObjectDef) Clone() ObjectDef {
	out := o
	if o.Fields != nil {
		out.Fields = make([]FieldDef, len(o.Fields))
		for i := range o.Fields {
			out.Fields[i] = o.Fields[i].Clone()
		}
	}
	if o.RecordTypes != nil {
		out.RecordTypes = make([]RecordType, len(o.RecordTypes))
		copy(out.RecordTypes, o.RecordTypes)
	}
	if o.PageLayouts != nil {
		out.PageLayouts = make([]PageLayout, len(o.PageLayouts))
		for i := range o.PageLayouts {
			out.PageLayouts[i] = o.PageLayouts[i].Clone()
		}
	}
	if o.ValidationRules != nil {
		out.ValidationRules = make([]ValidationRule, len(o.ValidationRules))
		copy(out.ValidationRules, o.ValidationRules)
	}
	return out
}

// Clone returns a deep copy of the permission set
func (p PermissionSet) Clone() PermissionSet {
	out := p
	if p.ObjectPermissions != nil {
		out.ObjectPermissions = make(map[string]ObjectAccess, len(p.ObjectPermissions))
		for k, v := range p.ObjectPermissions {
			out.ObjectPermissions[k] = v
		}
	}
	if p.FieldPermissions != nil {
		out.FieldPermissions = make(map[string]FieldAccess, len(p.FieldPermissions))
		for k, v := range p.FieldPermissions {
			out.FieldPermissions[k] = v
		}
	}
	return out
}

// Clone returns a deep copy of the schema
func (s *OrgSchema) Clone() *OrgSchema {
	if s == nil {
		return nil
	}
	out := *s
	if s.Objects != nil {
		out.Objects = make([]ObjectDef, len(s.Objects))
		for i := range s.Objects {
			out.Objects[i] = s.Objects[i].Clone()
		}
	}
	if s.PermissionSets != nil {
		out.PermissionSets = make([]PermissionSet, len(s.PermissionSets))
		for i := range s.PermissionSets {
			out.PermissionSets[i] = s.PermissionSets[i].Clone()
		}
	}
	return &out
}
