package graph

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/canopy/pkg/domain"
	treegraph "github.com/aretw0/canopy/pkg/graph"
)

// Overlay contains analysis results to visualize on the graph.
type Overlay struct {
	// Chosen lists the vertex IDs of branches selected by a decision policy.
	Chosen []string
}

// Mermaid renders a tree description as a Mermaid flowchart.
type Mermaid struct {
	Overlay *Overlay
}

var _ treegraph.Renderer = Mermaid{}

// Render writes the flowchart to w.
func (m Mermaid) Render(w io.Writer, g treegraph.Graph) error {
	_, err := io.WriteString(w, GenerateMermaid(g, m.Overlay))
	return err
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a tree description.
// It applies semantic styling:
// - Decision: [Rectangle]
// - Chance: ((Circle))
// - Leaf (terminal outcome): ([Stadium])
// Edges into chance nodes are labelled with their probability.
// It also applies overlay styles (Chosen) if provided.
func GenerateMermaid(g treegraph.Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, v := range g.Vertices {
		opener, closer := "[", "]"
		switch {
		case v.Kind == domain.KindChance && v.Leaf:
			opener, closer = "([", "])"
		case v.Kind == domain.KindChance:
			opener, closer = "((", "))"
		}

		label := escapeLabel(v.Label)
		if v.Cost != nil && v.Utility != nil && (*v.Cost != 0 || *v.Utility != 0) {
			label = fmt.Sprintf("%s <br/> cost %s, utility %s", label, formatNumber(*v.Cost), formatNumber(*v.Utility))
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", v.ID, opener, label, closer))
	}

	for _, e := range g.Edges {
		arrow := "-->"
		if e.Probability != nil {
			arrow = fmt.Sprintf("-- \"p=%s\" -->", formatNumber(*e.Probability))
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", e.From, arrow, e.To))
	}

	if overlay != nil && len(overlay.Chosen) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef chosen fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Chosen {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			sb.WriteString(fmt.Sprintf("    class %s chosen;\n", id))
		}
	}

	return sb.String()
}

func escapeLabel(s string) string {
	// Double quotes would end the Mermaid label early.
	return strings.ReplaceAll(s, "\"", "'")
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Selector picks the vertices to highlight in a description.
type Selector interface {
	Chosen(g treegraph.Graph) ([]string, error)
}

// Diagram describes root and renders it as Mermaid. The tree is only
// evaluated when sel is non-nil, to highlight the branches it selects.
func Diagram(root domain.Node, sel Selector) (string, error) {
	g, err := treegraph.Describe(root)
	if err != nil {
		return "", err
	}
	var overlay *Overlay
	if sel != nil {
		chosen, err := sel.Chosen(g)
		if err != nil {
			return "", err
		}
		overlay = &Overlay{Chosen: chosen}
	}
	return GenerateMermaid(g, overlay), nil
}
