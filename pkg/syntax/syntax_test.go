package syntax

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineCountsAdd(t *testing.T) {
	total := LineCounts{Total: 100, Logical: 60, Source: 80, Comment: 5}
	total.Add(LineCounts{Total: 74, Logical: 72, Source: 46, Comment: 0})

	assert.Equal(t, 174, total.Total)
	assert.Equal(t, 132, total.Logical)
	assert.Equal(t, 126, total.Source)
	assert.Equal(t, 5, total.Comment)
}

func TestMethodDeclJSONRoundTrip(t *testing.T) {
	decl := MethodDecl{
		Name: "register_course",
		Line: 12,
		Body: []Node{
			AttributeAccess{Name: "courses", Line: 13},
			IdentifierRef{Name: "Course", Line: 13},
			Decision{Kind: DecisionConditional, Line: 14},
			Decision{Kind: DecisionBoolOp, Line: 14},
		},
	}

	data, err := json.Marshal(decl)
	require.NoError(t, err)

	var got MethodDecl
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, decl, got)
}

func TestMethodDeclUnmarshalRejectsUnknownTag(t *testing.T) {
	raw := `{"name":"m","line":1,"body":[{"tag":"mystery","line":2}]}`

	var got MethodDecl
	err := json.Unmarshal([]byte(raw), &got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mystery")
}
