package episodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mugiwarahub/mugiwara/pkg/types"
)

func TestWatchID_String(t *testing.T) {
	w := WatchID{
		PaheID0:   "4f3a",
		PaheID1:   "9bc1",
		ZoroID:    "one-piece-100?ep=2142",
		Episode:   7,
		AnimeID:   21,
		AnimeName: "Fate/Zero + Extra",
	}

	assert.Equal(t, "4f3a+9bc1+one-piece-100?ep=2142+7+21+Fate%2FZero%20%2B%20Extra", w.String())

	parsed, err := ParseWatchID(w.String())
	require.NoError(t, err)
	assert.Equal(t, w, parsed)
}

func TestParseWatchID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    WatchID
		wantErr bool
	}{
		{
			name:  "full",
			input: "a+b+z1+3+21+One%20Piece",
			want:  WatchID{PaheID0: "a", PaheID1: "b", ZoroID: "z1", Episode: 3, AnimeID: 21, AnimeName: "One Piece"},
		},
		{
			name:  "missing name",
			input: "a+b+z1+3+21",
			want:  WatchID{PaheID0: "a", PaheID1: "b", ZoroID: "z1", Episode: 3, AnimeID: 21, AnimeName: "Anime Episode"},
		},
		{
			name:  "missing episode",
			input: "a+b+z1++21+Bebop",
			want:  WatchID{PaheID0: "a", PaheID1: "b", ZoroID: "z1", Episode: 1, AnimeID: 21, AnimeName: "Bebop"},
		},
		{
			name:  "null placeholders",
			input: "null+null+z1+2+5+Bebop",
			want:  WatchID{ZoroID: "z1", Episode: 2, AnimeID: 5, AnimeName: "Bebop"},
		},
		{name: "too short", input: "a+b+z1+3", wantErr: true},
		{name: "bad anime id", input: "a+b+z1+3+x", wantErr: true},
		{name: "bad episode", input: "a+b+z1+x+21", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWatchID(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrInvalidWatchID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWatchID_EpisodeID(t *testing.T) {
	w := WatchID{PaheID0: "a", PaheID1: "b", ZoroID: "z", Episode: 2, AnimeName: "Bebop"}
	assert.Equal(t, "a/b", w.EpisodeID(types.ProviderPahe))
	assert.Equal(t, "z", w.EpisodeID(types.ProviderZoro))
	assert.Equal(t, "", w.EpisodeID("other"))
	assert.Equal(t, "Bebop - Episode 2", w.Title())

	w.PaheID1 = ""
	assert.Equal(t, "", w.EpisodeID(types.ProviderPahe))
}
