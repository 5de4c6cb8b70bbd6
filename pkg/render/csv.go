package render

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/matzehuels/ringplace/pkg/placement"
)

// RenderCSV writes a "slot,x,y" header followed by one row per slot, with
// the offset applied.
func RenderCSV(res *placement.Result) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"slot", "x", "y"}); err != nil {
		return nil, err
	}
	for i, p := range res.Points() {
		row := []string{strconv.Itoa(i), strconv.Itoa(p.X), strconv.Itoa(p.Y)}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
