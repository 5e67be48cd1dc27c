package syntax

import (
	"encoding/json"
	"fmt"
)

// Body nodes are interface values, so JSON round-trips (used by the analysis
// cache) go through a tagged envelope carrying the concrete kind.

const (
	tagAttribute  = "attr"
	tagIdentifier = "ident"
	tagDecision   = "decision"
)

type nodeEnvelope struct {
	Tag  string       `json:"tag"`
	Name string       `json:"name,omitempty"`
	Kind DecisionKind `json:"kind,omitempty"`
	Line int          `json:"line"`
}

// MarshalJSON encodes the body as a list of tagged envelopes.
func (m MethodDecl) MarshalJSON() ([]byte, error) {
	out := struct {
		Name string         `json:"name"`
		Line int            `json:"line"`
		Body []nodeEnvelope `json:"body,omitempty"`
	}{Name: m.Name, Line: m.Line}

	for _, n := range m.Body {
		switch n := n.(type) {
		case AttributeAccess:
			out.Body = append(out.Body, nodeEnvelope{Tag: tagAttribute, Name: n.Name, Line: n.Line})
		case IdentifierRef:
			out.Body = append(out.Body, nodeEnvelope{Tag: tagIdentifier, Name: n.Name, Line: n.Line})
		case Decision:
			out.Body = append(out.Body, nodeEnvelope{Tag: tagDecision, Kind: n.Kind, Line: n.Line})
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the tagged envelope form produced by MarshalJSON.
func (m *MethodDecl) UnmarshalJSON(data []byte) error {
	var in struct {
		Name string         `json:"name"`
		Line int            `json:"line"`
		Body []nodeEnvelope `json:"body"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	m.Name = in.Name
	m.Line = in.Line
	m.Body = nil
	for _, e := range in.Body {
		switch e.Tag {
		case tagAttribute:
			m.Body = append(m.Body, AttributeAccess{Name: e.Name, Line: e.Line})
		case tagIdentifier:
			m.Body = append(m.Body, IdentifierRef{Name: e.Name, Line: e.Line})
		case tagDecision:
			m.Body = append(m.Body, Decision{Kind: e.Kind, Line: e.Line})
		default:
			return fmt.Errorf("unknown body node tag %q", e.Tag)
		}
	}
	return nil
}
