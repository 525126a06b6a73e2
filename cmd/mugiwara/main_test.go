package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mugiwarahub/mugiwara/internal/anilist"
	"github.com/mugiwarahub/mugiwara/internal/backend"
	"github.com/mugiwarahub/mugiwara/internal/episodes"
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

func TestWatchTarget(t *testing.T) {
	byNumber := func(animeID, ep int) (episodes.WatchID, error) {
		return episodes.WatchID{AnimeID: animeID, Episode: ep, AnimeName: "Frieren"}, nil
	}

	id, err := watchTarget("", []string{"154587", "3"}, byNumber)
	require.NoError(t, err)
	assert.Equal(t, 154587, id.AnimeID)
	assert.Equal(t, 3, id.Episode)

	id, err = watchTarget("aaa+bbb+frieren-18542?ep=107257+3+154587+Frieren", nil, byNumber)
	require.NoError(t, err)
	assert.Equal(t, "aaa", id.PaheID0)
	assert.Equal(t, "frieren-18542?ep=107257", id.ZoroID)

	tests := []struct {
		name  string
		rawID string
		args  []string
	}{
		{"both forms", "a+b+c+1+2+x", []string{"1", "2"}},
		{"missing episode", "", []string{"154587"}},
		{"bad anime id", "", []string{"frieren", "3"}},
		{"bad episode", "", []string{"154587", "0"}},
		{"bad watch id", "nope", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := watchTarget(tt.rawID, tt.args, byNumber)
			assert.Error(t, err)
		})
	}

	_, err = watchTarget("nope", nil, byNumber)
	assert.ErrorIs(t, err, types.ErrInvalidWatchID)
}

func TestPrintEpisodes(t *testing.T) {
	entries := make([]episodes.Entry, 30)
	for i := range entries {
		entries[i] = episodes.Entry{ZoroID: "x?ep=" + string(rune('a'+i%26)), Number: i + 1}
	}
	entries[0].PaheID0, entries[0].PaheID1 = "sess", "ep1"

	var buf bytes.Buffer
	require.NoError(t, printEpisodes(&buf, entries, 0, 24, 1, "Test"))
	out := buf.String()
	assert.Contains(t, out, "Episodes 1-24 (1/2)")
	assert.Contains(t, out, "   1  Episode 1 [pahe,zoro]")
	assert.Contains(t, out, "sess+ep1+x?ep=a+1+1+Test")
	assert.NotContains(t, out, "Episode 25 ")
	assert.Contains(t, out, "2) 25-30")

	buf.Reset()
	require.NoError(t, printEpisodes(&buf, entries, 1, 24, 1, "Test"))
	assert.Contains(t, buf.String(), "  25  Episode 25 [zoro]")

	assert.Error(t, printEpisodes(&buf, entries, 2, 24, 1, "Test"))
}

func TestPrintEpisodesSingleGroup(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printEpisodes(&buf, []episodes.Entry{{ZoroID: "z", Number: 1, Title: "Pilot"}}, 0, 24, 1, "Test"))
	assert.Contains(t, buf.String(), "All Episodes (1/1)")
	assert.Contains(t, buf.String(), "Pilot")
	assert.NotContains(t, buf.String(), "Groups:")
}

func TestPrintCards(t *testing.T) {
	var buf bytes.Buffer
	printPage(&buf, "Fantasy", &anilist.Page{
		Items:       []anilist.Card{{ID: 154587, Title: "Frieren", Rating: 9.1, Episodes: 28, Year: 2023, Genres: []string{"Adventure", "Fantasy"}}},
		HasNextPage: true,
		CurrentPage: 1,
	})
	out := buf.String()
	assert.Contains(t, out, "Fantasy, page 1 (1)")
	assert.Contains(t, out, "1. Frieren [154587]")
	assert.Contains(t, out, "★ 9.1 • 28 eps • 2023 • Adventure, Fantasy")
	assert.Contains(t, out, "--page 2")
}

func TestPrintContinue(t *testing.T) {
	var buf bytes.Buffer
	printContinue(&buf, []backend.ContinueItem{
		{AnimeID: 154587, Title: "Frieren", EpisodeID: "aaa+bbb+z+3+154587+Frieren"},
		{AnimeID: 1, Title: "Broken", EpisodeID: "garbage"},
	})
	out := buf.String()
	assert.Contains(t, out, "episode 3: mugiwara watch --id 'aaa+bbb+z+3+154587+Frieren'")
	assert.Contains(t, out, "Broken [1]")

	buf.Reset()
	printContinue(&buf, nil)
	assert.Equal(t, "Nothing to continue\n", buf.String())
}

func TestPrompter(t *testing.T) {
	var out bytes.Buffer
	p := &prompter{in: bufio.NewReader(strings.NewReader("luffy@example.com\r\nsecret")), out: &out}

	email, err := p.ask("Email", "")
	require.NoError(t, err)
	assert.Equal(t, "luffy@example.com", email)

	// the last line may lack a newline
	password, err := p.ask("Password", "")
	require.NoError(t, err)
	assert.Equal(t, "secret", password)

	preset, err := p.ask("Name", "Luffy")
	require.NoError(t, err)
	assert.Equal(t, "Luffy", preset)
	assert.Equal(t, "Email: Password: ", out.String())

	_, err = p.ask("Confirm password", "")
	assert.Error(t, err)
}

func TestPrompter_AskSecret(t *testing.T) {
	var out bytes.Buffer
	p := &prompter{in: bufio.NewReader(strings.NewReader("piped\n")), out: &out}

	// no terminal: read like a normal answer
	secret, err := p.askSecret("Password", "")
	require.NoError(t, err)
	assert.Equal(t, "piped", secret)

	reads := 0
	p.readSecret = func() ([]byte, error) {
		reads++
		return []byte("gomu gomu"), nil
	}
	out.Reset()
	secret, err = p.askSecret("Password", "")
	require.NoError(t, err)
	assert.Equal(t, "gomu gomu", secret)
	assert.Equal(t, "Password: \n", out.String())

	secret, err = p.askSecret("Confirm password", "flag")
	require.NoError(t, err)
	assert.Equal(t, "flag", secret)
	assert.Equal(t, 1, reads)
}

func TestParseAnimeID(t *testing.T) {
	id, err := parseAnimeID(" 21 ")
	require.NoError(t, err)
	assert.Equal(t, 21, id)

	for _, s := range []string{"", "0", "-3", "one"} {
		_, err := parseAnimeID(s)
		assert.Error(t, err, s)
	}
}
