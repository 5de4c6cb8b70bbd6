package render

import (
	"encoding/json"

	"github.com/matzehuels/ringplace/pkg/placement"
)

// Document is the JSON encoding of a result. Points are [x, y] pairs with
// the offset applied; slot points stay in the centered frame.
type Document struct {
	Request    placement.Request `json:"request"`
	Points     [][2]int          `json:"points"`
	Slots      []placement.Slot  `json:"slots"`
	Stats      placement.Stats   `json:"stats"`
	Duplicates [][]int           `json:"duplicates,omitempty"`
}

// NewDocument builds the JSON document for res.
func NewDocument(res *placement.Result) Document {
	pts := res.Points()
	pairs := make([][2]int, len(pts))
	for i, p := range pts {
		pairs[i] = [2]int{p.X, p.Y}
	}
	return Document{
		Request:    res.Request,
		Points:     pairs,
		Slots:      res.Slots,
		Stats:      res.Stats(),
		Duplicates: res.Duplicates(),
	}
}

// RenderJSON encodes res as an indented [Document].
func RenderJSON(res *placement.Result) ([]byte, error) {
	data, err := json.MarshalIndent(NewDocument(res), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
