package expression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Evaluate(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name     string
		expr     string
		env      map[string]interface{}
		expected interface{}
		wantErr  bool
	}{
		{
			name:     "Simple Math",
			expr:     "1 + 1",
			env:      nil,
			expected: 2,
		},
		{
			name:     "Comparison",
			expr:     "Amount > 1000",
			env:      map[string]interface{}{"Amount": 2500.0},
			expected: true,
		},
		{
			name:     "Missing Field Is Nil",
			expr:     "LossReason == nil",
			env:      map[string]interface{}{"Stage": "Closed Lost"},
			expected: true,
		},
		{
			name:     "Membership",
			expr:     "Stage in ['Negotiation', 'Closed Won']",
			env:      map[string]interface{}{"Stage": "Negotiation"},
			expected: true,
		},
		{
			name:     "Date Function",
			expr:     "TODAY()",
			env:      nil,
			expected: time.Now().Format("2006-01-02"),
		},
		{
			name:     "String Function",
			expr:     "LEN(Name)",
			env:      map[string]interface{}{"Name": "Nexus"},
			expected: 5,
		},
		{
			name:     "Blank Check",
			expr:     "ISBLANK(Phone) && !ISBLANK(Name)",
			env:      map[string]interface{}{"Name": "Acme", "Phone": ""},
			expected: true,
		},
		{
			name:    "Syntax Error",
			expr:    "Amount > * 3",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := e.Evaluate(tt.expr, tt.env)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestEngine_ProgramCacheServesDifferentRecords(t *testing.T) {
	e := NewEngine()
	cond := "Stage == 'Closed Lost' && ISBLANK(LossReason)"

	blocked, err := e.EvaluateBool(cond, map[string]interface{}{"Stage": "Closed Lost"})
	require.NoError(t, err)
	assert.True(t, blocked)

	blocked, err = e.EvaluateBool(cond, map[string]interface{}{"Stage": "Closed Lost", "LossReason": "Price"})
	require.NoError(t, err)
	assert.False(t, blocked)

	e.mu.RLock()
	assert.Len(t, e.programCache, 1)
	e.mu.RUnlock()
}

func TestEngine_EvaluateBoolRejectsNonBool(t *testing.T) {
	_, err := NewEngine().EvaluateBool("1 + 1", nil)
	assert.Error(t, err)
}

func TestEngine_RegisterFunction(t *testing.T) {
	e := NewEngine()
	e.RegisterFunction("DOUBLE", func(params ...interface{}) (interface{}, error) {
		return params[0].(float64) * 2, nil
	})
	out, err := e.Evaluate("DOUBLE(Amount)", map[string]interface{}{"Amount": 21.0})
	require.NoError(t, err)
	assert.Equal(t, 42.0, out)
}

func TestEngine_ValidateCondition(t *testing.T) {
	e := NewEngine()
	sample := map[string]interface{}{"Amount": 0.0, "Stage": "", "IsActive": false}

	assert.NoError(t, e.ValidateCondition("Amount > 1000 && Stage == 'Open'", sample))
	assert.NoError(t, e.ValidateCondition("ISBLANK(Stage) || !IsActive", sample))
	assert.Error(t, e.ValidateCondition("Ghost > 1", sample), "unknown identifier")
	assert.Error(t, e.ValidateCondition("Amount + 1", sample), "non-boolean result")
	assert.Error(t, e.ValidateCondition("", sample))
}
