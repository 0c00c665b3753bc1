package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRarity_CoinValue(t *testing.T) {
	tests := []struct {
		rarity Rarity
		want   int64
	}{
		{RarityLegendary, 50},
		{RarityRare, 20},
		{RarityUncommon, 10},
		{RarityCommon, 5},
		{Rarity("mythic"), 5},
	}
	for _, tt := range tests {
		t.Run(string(tt.rarity), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rarity.CoinValue())
		})
	}
}

func TestFileSource_embedded(t *testing.T) {
	creatures, err := NewFileSource("").ListCreatures(context.Background())
	require.NoError(t, err)
	assert.Len(t, creatures, 24)
	for _, c := range creatures {
		assert.True(t, c.Rarity.IsValid(), "creature %s has rarity %q", c.Name, c.Rarity)
	}
}

func TestFileSource_path(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "creatures.json")
	data := `[{"id":"c1","name":"Pikachu","rarity":"uncommon"},{"id":"c2","name":"Mewtwo","rarity":"legendary"}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	creatures, err := NewFileSource(path).ListCreatures(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Creature{
		{ID: "c1", Name: "Pikachu", Rarity: RarityUncommon},
		{ID: "c2", Name: "Mewtwo", Rarity: RarityLegendary},
	}, creatures)

	_, err = NewFileSource(filepath.Join(dir, "missing.json")).ListCreatures(context.Background())
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "empty list", data: `[]`},
		{name: "malformed", data: `{`, wantErr: true},
		{name: "missing name", data: `[{"id":"c1","rarity":"common"}]`, wantErr: true},
		{name: "duplicate id", data: `[{"id":"c1","name":"A"},{"id":"c1","name":"B"}]`, wantErr: true},
		{name: "duplicate name", data: `[{"id":"c1","name":"A"},{"id":"c2","name":"A"}]`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}

	_, err := Decode([]byte(`[{"id":"c1","name":"A"},{"id":"c1","name":"B"}]`))
	assert.Equal(t, ErrInvalidCatalog, errors.Cause(err))
}

type failingSource struct{}

func (failingSource) ListCreatures(context.Context) ([]Creature, error) {
	return nil, errors.New("down")
}

func TestFirstNonEmpty(t *testing.T) {
	ctx := context.Background()
	pika := Creature{ID: "pikachu", Name: "Pikachu", Rarity: RarityUncommon}
	mew := Creature{ID: "mew", Name: "Mew", Rarity: RarityLegendary}

	got, err := FirstNonEmpty(StaticSource(nil), StaticSource{pika}, StaticSource{mew}).ListCreatures(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Creature{pika}, got)

	got, err = FirstNonEmpty(StaticSource(nil)).ListCreatures(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = FirstNonEmpty(failingSource{}, StaticSource{pika}).ListCreatures(ctx)
	assert.Error(t, err, "errors do not fall through")
}
