package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mugiwarahub/mugiwara/internal/audio"
	"github.com/mugiwarahub/mugiwara/internal/clipboard"
	"github.com/mugiwarahub/mugiwara/internal/episodes"
	"github.com/mugiwarahub/mugiwara/internal/playback"
)

type watchOptions struct {
	quality string
	dub     bool
	player  string
	// before runs once the source is chosen, right before playback
	before func(*playback.Session)
}

var watchCmd = &cobra.Command{
	Use:   "watch <anilist-id> <episode> | watch --id <watch-id>",
	Short: "Play an episode",
	Long: `Play an episode by AniList id and episode number, or resume one from a
watch id as printed by the episodes and continue commands.

Sources are tried in provider order (pahe, then zoro). The highest sub
quality is picked unless --quality or --dub say otherwise.`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		rawID, _ := cmd.Flags().GetString("id")
		id, err := watchTarget(rawID, args, func(animeID, ep int) (episodes.WatchID, error) {
			return a.watchByNumber(ctx, animeID, ep)
		})
		if err != nil {
			return err
		}

		opts := watchOptions{}
		opts.quality, _ = cmd.Flags().GetString("quality")
		opts.dub, _ = cmd.Flags().GetBool("dub")
		opts.player, _ = cmd.Flags().GetString("player")
		copyURL, _ := cmd.Flags().GetBool("copy")

		out := cmd.OutOrStdout()
		opts.before = func(s *playback.Session) {
			printNowPlaying(out, s)
			if !copyURL {
				return
			}
			cb := clipboard.NewService(a.cfg.Advanced.Clipboard.Command, logger)
			if err := cb.Copy(ctx, s.StreamURL()); err != nil {
				logger.Warn("failed to copy stream URL", "error", err)
				fmt.Fprintf(out, "Could not copy the stream URL: %v\n", err)
				return
			}
			fmt.Fprintln(out, "Stream URL copied to clipboard")
		}

		s, err := a.play(ctx, id, opts)
		if err != nil {
			return err
		}

		if next, ok := s.Next(); ok {
			fmt.Fprintf(out, "\nNext: mugiwara watch --id '%s'\n", next)
		} else if s.IsLast() {
			fmt.Fprintln(out, "\nThat was the last episode")
		}
		if prev, ok := s.Previous(); ok {
			fmt.Fprintf(out, "Previous: mugiwara watch --id '%s'\n", prev)
		}
		return nil
	},
}

// watchTarget turns the --id flag or the <anilist-id> <episode> pair into a WatchID
func watchTarget(rawID string, args []string, byNumber func(animeID, ep int) (episodes.WatchID, error)) (episodes.WatchID, error) {
	if rawID != "" {
		if len(args) > 0 {
			return episodes.WatchID{}, fmt.Errorf("use either --id or <anilist-id> <episode>, not both")
		}
		return episodes.ParseWatchID(rawID)
	}

	if len(args) != 2 {
		return episodes.WatchID{}, fmt.Errorf("expected <anilist-id> <episode> or --id <watch-id>")
	}
	animeID, err := parseAnimeID(args[0])
	if err != nil {
		return episodes.WatchID{}, err
	}
	ep, err := strconv.Atoi(args[1])
	if err != nil || ep < 1 {
		return episodes.WatchID{}, fmt.Errorf("invalid episode number %q", args[1])
	}
	return byNumber(animeID, ep)
}

func printNowPlaying(w io.Writer, s *playback.Session) {
	sel := s.Selector()
	fmt.Fprintf(w, "Playing %s\n", s.Title)
	fmt.Fprintf(w, "  source: %s %s\n", s.Resolved.Provider, audio.Label(sel.Current()))
	if q := sel.AvailableQualities(); len(q) > 1 {
		fmt.Fprintf(w, "  qualities: %v\n", q)
	}
}

func init() {
	watchCmd.Flags().String("id", "", "watch id to play")
	watchCmd.Flags().StringP("quality", "q", "", "preferred quality, e.g. 1080p")
	watchCmd.Flags().Bool("dub", false, "prefer the dubbed audio track")
	watchCmd.Flags().String("player", "", "player to use: mpv, browser or print (default from config)")
	watchCmd.Flags().Bool("copy", false, "copy the stream URL to the clipboard")

	rootCmd.AddCommand(watchCmd)
}
