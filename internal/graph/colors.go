package graph

import (
	"fmt"
	"strings"

	"grafo/internal/layer"
)

// layerColors is the fixed per-layer color used for Layer nodes and, in its
// pastel variant, for that layer's cluster.
var layerColors = map[layer.Kind]string{
	layer.Presentation:   "#2563eb",
	layer.Services:       "#7c3aed",
	layer.Business:       "#d97706",
	layer.Data:           "#059669",
	layer.Shared:         "#6b7280",
	layer.Infrastructure: "#dc2626",
	layer.Test:           "#9ca3af",
}

// layerGradient is the canonical architectural gradient C6 walks to wire
// Layer -> Layer "dependsOn" edges between adjacent layers.
var layerGradient = []layer.Kind{
	layer.Presentation,
	layer.Services,
	layer.Business,
	layer.Data,
	layer.Infrastructure,
}

func colorForLayer(k layer.Kind) string {
	if c, ok := layerColors[k]; ok {
		return c
	}
	return "#9ca3af"
}

// pastel lightens a "#rrggbb" color by blending it toward white, for
// cluster coloring.
func pastel(hex string) string {
	if len(hex) != 7 || hex[0] != '#' {
		return hex
	}
	var r, g, b int
	if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return hex
	}
	blend := func(c int) int {
		return c + (255-c)*3/5
	}
	return fmt.Sprintf("#%02x%02x%02x", blend(r), blend(g), blend(b))
}

// fileImportanceAndColor derives a File node's importance/color from its
// filename, giving entry points and conventionally significant files a
// higher baseline than plain source files.
func fileImportanceAndColor(filename string) (float64, string) {
	lower := strings.ToLower(filename)
	switch {
	case lower == "program.cs", lower == "startup.cs":
		return 8, "#1d4ed8"
	case strings.Contains(lower, "controller"):
		return 6, "#2563eb"
	case strings.Contains(lower, "service"):
		return 5, "#7c3aed"
	default:
		return 3, "#9ca3af"
	}
}
