package bootstrap

import (
	"testing"
	"time"

	"github.com/nexuscrm/builder/internal/domain/layout"
	"github.com/nexuscrm/builder/internal/domain/object"
	"github.com/nexuscrm/builder/pkg/expression"
	"github.com/nexuscrm/builder/pkg/models"
	"github.com/nexuscrm/builder/pkg/utils"
	"github.com/nexuscrm/builder/pkg/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func TestDefaultSchema_IsValid(t *testing.T) {
	schema, err := DefaultSchema(utils.SequenceGenerator("seed"), now)
	require.NoError(t, err)

	assert.Equal(t, 0, schema.Version)
	require.Len(t, schema.Objects, 3)

	engine := expression.NewEngine()
	for i := range schema.Objects {
		obj := &schema.Objects[i]
		t.Run(obj.APIName, func(t *testing.T) {
			assert.NoError(t, object.Validate(engine, obj))
			assert.NoError(t, layout.ValidateAll(obj))
			assert.NoError(t, object.ValidateLookups(schema, obj))
			assert.True(t, now.Equal(obj.CreatedAt))
		})
	}
}

func TestDefaultSchema_ReferencesSurviveRekey(t *testing.T) {
	schema, err := DefaultSchema(utils.SequenceGenerator("seed"), now)
	require.NoError(t, err)

	opp := schema.FindObject("Opportunity")
	require.NotNil(t, opp)
	rt := object.DefaultRecordType(opp)
	require.NotNil(t, rt)
	assert.Equal(t, rt.ID, opp.DefaultRecordTypeID)
	assert.NotNil(t, opp.FindLayout(rt.PageLayoutID))

	tree, err := layout.Effective(opp, "edit", rt.ID)
	require.NoError(t, err)
	assert.False(t, tree.Fallback)
	assert.Equal(t, "Opportunity Layout", tree.LayoutName)
}

func TestDefaultSchema_AppliesTypeDefaults(t *testing.T) {
	schema, err := DefaultSchema(utils.SequenceGenerator("seed"), now)
	require.NoError(t, err)

	amount := schema.FindObject("Opportunity").FindField("Amount")
	require.NotNil(t, amount)
	require.NotNil(t, amount.Precision)
	assert.Equal(t, 18, *amount.Precision)

	phone := schema.FindObject("Account").FindField("Phone")
	require.NotNil(t, phone.MaxLength)
	assert.Equal(t, 40, *phone.MaxLength)
}

func TestDefaultSchema_LossReasonVisibility(t *testing.T) {
	schema, err := DefaultSchema(utils.SequenceGenerator("seed"), now)
	require.NoError(t, err)

	reason := schema.FindObject("Opportunity").FindField("LossReason")
	require.NotNil(t, reason)
	assert.True(t, visibility.Visible(reason.VisibleIf, models.Record{"Stage": models.Text("Closed Lost")}))
	assert.False(t, visibility.Visible(reason.VisibleIf, models.Record{"Stage": models.Text("Negotiation")}))
}

func TestSeed_FreshIdentifiersPerCall(t *testing.T) {
	seed := Seed(utils.SequenceGenerator("s"), func() time.Time { return now })
	a := seed()
	b := seed()
	assert.NotEqual(t, a.Objects[0].ID, b.Objects[0].ID)
}
