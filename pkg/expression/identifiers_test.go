package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifiers(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []string
	}{
		{"single", "Amount > 10", []string{"Amount"}},
		{"deduplicated", "Amount > 10 && Amount < 100", []string{"Amount"}},
		{"function names skipped", "ISBLANK(Name) || UPPER(Stage) == 'OPEN'", []string{"Name", "Stage"}},
		{"membership", "Stage in ['A', 'B'] && Region != nil", []string{"Stage", "Region"}},
		{"literals only", "1 == 1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Identifiers(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentifiers_ParseError(t *testing.T) {
	_, err := Identifiers("Amount >")
	assert.Error(t, err)
	assert.Error(t, CheckSyntax("Amount >"))
	assert.NoError(t, CheckSyntax("Amount > 1"))
}

func TestReferences(t *testing.T) {
	assert.True(t, References("Stage == 'Won' && Amount > 0", "Amount"))
	assert.False(t, References("Stage == 'Won'", "Amount"))
	assert.False(t, References("Stage == 'Won'", "Won"))
}
