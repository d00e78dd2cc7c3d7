package sink

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/rangeplot/pkg/render/scene"
)

// RenderJSON exports the figure as a pretty-printed JSON document.
func RenderJSON(fig *scene.Figure) ([]byte, error) {
	return json.MarshalIndent(fig, "", "  ")
}

// ReadJSON parses a document written by [RenderJSON].
func ReadJSON(data []byte) (*scene.Figure, error) {
	var fig scene.Figure
	if err := json.Unmarshal(data, &fig); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &fig, nil
}
