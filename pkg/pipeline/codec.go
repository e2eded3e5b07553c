package pipeline

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/sankeyflow/pkg/render/sankey/layout"
)

// Layouts are cached as BSON rather than JSON. Colours marshal to 8-bit hex
// text in JSON, and a cached layout must be bit-identical to a fresh one so
// it renders the same. The artifact key still hashes the JSON form, whose
// map keys are sorted.

func encodeLayout(l layout.Layout) ([]byte, error) {
	return bson.Marshal(l)
}

func decodeLayout(data []byte) (layout.Layout, error) {
	var l layout.Layout
	err := bson.Unmarshal(data, &l)
	return l, err
}
