package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

//go:embed data/creatures.json
var embedded embed.FS

// FileSource reads the catalog from a JSON file, or from the embedded sample when Path is empty.
// The file is read on every call; pool initialization is the only consumer.
type FileSource struct {
	Path string
}

var _ Source = (*FileSource)(nil)

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (src *FileSource) ListCreatures(_ context.Context) ([]Creature, error) {
	var (
		data []byte
		err  error
	)
	if src.Path == "" {
		data, err = embedded.ReadFile("data/creatures.json")
	} else {
		data, err = os.ReadFile(src.Path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading catalog")
	}
	return Decode(data)
}

// Decode parses a JSON array of creatures and checks it.
func Decode(data []byte) ([]Creature, error) {
	var creatures []Creature
	if err := json.Unmarshal(data, &creatures); err != nil {
		return nil, errors.Wrap(err, "decoding catalog")
	}
	if err := Check(creatures); err != nil {
		return nil, err
	}
	return creatures, nil
}

// StaticSource serves a fixed list.
type StaticSource []Creature

func (src StaticSource) ListCreatures(context.Context) ([]Creature, error) {
	out := make([]Creature, len(src))
	copy(out, src)
	return out, nil
}

// FirstNonEmpty serves the first source that lists any creature.
// An error from a source is returned as is; only an empty list falls through.
func FirstNonEmpty(sources ...Source) Source {
	return chain(sources)
}

type chain []Source

func (c chain) ListCreatures(ctx context.Context) ([]Creature, error) {
	for _, src := range c {
		creatures, err := src.ListCreatures(ctx)
		if err != nil {
			return nil, err
		}
		if len(creatures) > 0 {
			return creatures, nil
		}
	}
	return nil, nil
}
