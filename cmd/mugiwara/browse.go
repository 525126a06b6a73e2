package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mugiwarahub/mugiwara/internal/anilist"
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show the home feeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		out := cmd.OutOrStdout()
		feeds := []struct {
			title string
			fetch func(context.Context) ([]anilist.Card, error)
		}{
			{"Featured", a.catalog.Featured},
			{"Airing Now", a.catalog.Airing},
			{"Recommended", a.catalog.Recommended},
			{"Movies", a.catalog.Movies},
		}

		failed := 0
		for _, f := range feeds {
			cards, err := f.fetch(ctx)
			if err != nil {
				logger.Error("failed to load home feed", "feed", f.title, "error", err)
				failed++
				continue
			}
			printCards(out, f.title, cards)
			fmt.Fprintln(out)
		}
		if failed == len(feeds) {
			return fmt.Errorf("could not load any feed, check your connection")
		}

		if a.sessions.LoggedIn() {
			fmt.Fprintln(out, "Watchlist")
			printWatchlist(out, a.backend.HomeWatchlist(ctx))
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search anime on AniList",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		query := strings.Join(args, " ")
		page, _ := cmd.Flags().GetInt("page")

		logger.Info("searching", "query", query, "page", page)
		res, err := a.catalog.Search(ctx, query, page)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		printPage(cmd.OutOrStdout(), fmt.Sprintf("Results for %q", query), res)
		return nil
	},
}

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the genres available for browsing",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, g := range anilist.Genres() {
			fmt.Fprintln(out, g.Name)
		}
	},
}

var genreCmd = &cobra.Command{
	Use:   "genre <name>",
	Short: "Browse the most popular anime of a genre",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		input := strings.Join(args, " ")
		genre, ok := anilist.MatchGenre(input)
		if !ok {
			return fmt.Errorf("unknown genre %q, see `mugiwara genres`", input)
		}
		page, _ := cmd.Flags().GetInt("page")

		res, err := a.catalog.ByGenre(ctx, genre.Name, page)
		if err != nil {
			return fmt.Errorf("failed to browse %s: %w", genre.Name, err)
		}
		printPage(cmd.OutOrStdout(), genre.Name, res)
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <anilist-id>",
	Short: "Show the details of an anime",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseAnimeID(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		details, err := a.proxy.Details(ctx, id)
		if err != nil {
			return err
		}

		// Opening details is what lets continue watching show the anime later
		if a.sessions.LoggedIn() {
			if _, err := a.details.SaveDetails(id, details.Info.Title.Preferred(), details.Info.Image); err != nil {
				logger.Warn("failed to save anime details", "anime_id", id, "error", err)
			}
		}

		out := cmd.OutOrStdout()
		printDetails(out, details)

		if a.sessions.LoggedIn() {
			if in, err := a.backend.InWatchlist(ctx, id); err == nil && in {
				fmt.Fprintln(out, "\n✓ In your watchlist")
			}
		}

		group, _ := cmd.Flags().GetInt("group")
		if group <= 0 {
			return nil
		}
		entries, err := a.episodes.Load(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		return printEpisodes(out, entries, group-1, a.cfg.UI.EpisodeGroupSize, id, details.Info.Title.Preferred())
	},
}

var episodesCmd = &cobra.Command{
	Use:   "episodes <anilist-id>",
	Short: "List the episodes of an anime with their watch ids",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseAnimeID(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		entries, err := a.episodes.Load(ctx, id)
		if err != nil {
			return err
		}

		name := "Anime Episode"
		if info, err := a.proxy.Info(ctx, id); err == nil {
			name = info.Title.Preferred()
		}

		group, _ := cmd.Flags().GetInt("group")
		return printEpisodes(cmd.OutOrStdout(), entries, max(group, 1)-1, a.cfg.UI.EpisodeGroupSize, id, name)
	},
}

func parseAnimeID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid AniList id %q", s)
	}
	return id, nil
}

func init() {
	searchCmd.Flags().IntP("page", "p", 1, "result page")
	genreCmd.Flags().IntP("page", "p", 1, "result page")
	infoCmd.Flags().IntP("group", "g", 0, "also list this episode group (1-based)")
	episodesCmd.Flags().IntP("group", "g", 1, "episode group to list (1-based)")

	rootCmd.AddCommand(homeCmd, searchCmd, genresCmd, genreCmd, infoCmd, episodesCmd)
}
