package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mugiwarahub/mugiwara/internal/backend"
	"github.com/mugiwarahub/mugiwara/internal/database"
	"github.com/mugiwarahub/mugiwara/internal/history"
	"github.com/mugiwarahub/mugiwara/internal/providers/utils"
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

const watchlistSynopsisRunes = 500

// prompter reads answers line by line
type prompter struct {
	in  *bufio.Reader
	out io.Writer
	// readSecret reads without echo; nil when input is not a terminal
	readSecret func() ([]byte, error)
}

func newPrompter(cmd *cobra.Command) *prompter {
	p := &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		p.readSecret = func() ([]byte, error) { return term.ReadPassword(fd) }
	}
	return p
}

// ask returns preset when set, otherwise prompts for the value
func (p *prompter) ask(label, preset string) (string, error) {
	if preset != "" {
		return preset, nil
	}
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// askSecret is ask with echo turned off on a terminal. Piped input is read
// like any other answer.
func (p *prompter) askSecret(label, preset string) (string, error) {
	if preset != "" || p.readSecret == nil {
		return p.ask(label, preset)
	}
	fmt.Fprintf(p.out, "%s: ", label)
	secret, err := p.readSecret()
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return string(secret), nil
}

// requireSession fails early with a readable message when nobody is logged in
func requireSession() error {
	if _, err := a.sessions.Current(); err != nil {
		if errors.Is(err, types.ErrSessionExpired) {
			return err
		}
		return fmt.Errorf("%w, run `mugiwara login` first", types.ErrNotAuthenticated)
	}
	return nil
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to your mugiwara account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		p := newPrompter(cmd)
		emailFlag, _ := cmd.Flags().GetString("email")
		passwordFlag, _ := cmd.Flags().GetString("password")

		email, err := p.ask("Email", emailFlag)
		if err != nil {
			return err
		}
		password, err := p.askSecret("Password", passwordFlag)
		if err != nil {
			return err
		}

		token, err := a.backend.Login(ctx, strings.TrimSpace(email), password)
		if err != nil {
			return err
		}
		if _, err := a.sessions.Save(token); err != nil {
			return err
		}

		name := "back"
		if profile, err := a.backend.Me(ctx); err == nil {
			name = profile.DisplayName()
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Welcome %s!\n", name)
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a mugiwara account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		p := newPrompter(cmd)
		var req backend.SignupRequest
		var err error

		nameFlag, _ := cmd.Flags().GetString("name")
		emailFlag, _ := cmd.Flags().GetString("email")
		passwordFlag, _ := cmd.Flags().GetString("password")

		if req.Name, err = p.ask("Name", nameFlag); err != nil {
			return err
		}
		if req.Email, err = p.ask("Email", emailFlag); err != nil {
			return err
		}
		if req.Password, err = p.askSecret("Password", passwordFlag); err != nil {
			return err
		}
		if req.ConfirmPassword, err = p.askSecret("Confirm password", passwordFlag); err != nil {
			return err
		}
		req.Name, req.Email = strings.TrimSpace(req.Name), strings.TrimSpace(req.Email)

		token, err := a.backend.Signup(ctx, req)
		if err != nil {
			return err
		}
		if _, err := a.sessions.Save(token); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Account created, welcome %s!\n", req.Name)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := a.sessions.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your profile and watch stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		profile, err := a.backend.Me(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, profile.DisplayName())
		if profile.Email != "" {
			fmt.Fprintf(out, "  %s\n", profile.Email)
		}

		stats, err := a.history.GetStats()
		if err != nil {
			logger.Warn("failed to read history stats", "error", err)
			return nil
		}
		fmt.Fprintf(out, "\nAnime started: %d\nEpisodes watched: %d\nCompleted: %d\nTime watched: %s\n",
			stats.AnimeCount, stats.TotalItems, stats.CompletedCount, stats.TotalWatchTime.Round(time.Minute))
		return nil
	},
}

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Show your watchlist",
	RunE:  runWatchlistList,
}

var watchlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your watchlist",
	RunE:  runWatchlistList,
}

// runWatchlistList refreshes the local copy of the watchlist and falls back to
// it when the backend is unreachable
func runWatchlistList(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	out := cmd.OutOrStdout()
	items, err := a.backend.Watchlist(ctx)
	if err != nil {
		cached, cacheErr := a.history.CachedWatchlist()
		if cacheErr != nil || len(cached) == 0 {
			return err
		}
		logger.Warn("watchlist unavailable, showing the cached copy", "error", err)
		fmt.Fprintln(out, "(offline, showing the last synced watchlist)")
		for _, row := range cached {
			items = append(items, backend.WatchlistItemFromCache(row))
		}
		printWatchlist(out, items)
		return nil
	}

	rows := make([]database.WatchlistCache, 0, len(items))
	for _, it := range items {
		rows = append(rows, it.CacheRow())
	}
	if err := a.history.ReplaceWatchlist(rows); err != nil {
		logger.Warn("failed to cache watchlist", "error", err)
	}
	printWatchlist(out, items)
	return nil
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add <anilist-id>",
	Short: "Add an anime to your watchlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseAnimeID(args[0])
		if err != nil {
			return err
		}
		if err := requireSession(); err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		item, err := watchlistItem(ctx, id)
		if err != nil {
			return err
		}
		if err := a.backend.AddToWatchlist(ctx, item); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s to your watchlist\n", item.Title())
		return nil
	},
}

var watchlistRemoveCmd = &cobra.Command{
	Use:   "remove <anilist-id>",
	Short: "Remove an anime from your watchlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseAnimeID(args[0])
		if err != nil {
			return err
		}
		if err := requireSession(); err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		if err := a.backend.RemoveFromWatchlist(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Removed from your watchlist")
		return nil
	},
}

var watchlistCheckCmd = &cobra.Command{
	Use:   "check <anilist-id>",
	Short: "Check whether an anime is on your watchlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseAnimeID(args[0])
		if err != nil {
			return err
		}
		if err := requireSession(); err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		in, err := a.backend.InWatchlist(ctx, id)
		if err != nil {
			return err
		}
		if in {
			fmt.Fprintln(cmd.OutOrStdout(), "In your watchlist")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Not in your watchlist")
		}
		return nil
	},
}

// watchlistItem builds the watchlist entry of an anime from its info
func watchlistItem(ctx context.Context, id int) (backend.WatchlistItem, error) {
	info, err := a.proxy.Info(ctx, id)
	if err != nil {
		return backend.WatchlistItem{}, err
	}
	return backend.WatchlistItem{
		AnimeID:       backend.FlexInt(id),
		EnglishTitle:  utils.DefaultString(info.Title.English, info.Title.Romaji),
		JapaneseTitle: info.Title.Romaji,
		ImageURL:      info.Image,
		Synopsis:      utils.CardSynopsis(info.Description, watchlistSynopsisRunes),
	}, nil
}

var continueCmd = &cobra.Command{
	Use:   "continue",
	Short: "Show the anime you are watching",
	RunE:  runContinueList,
}

var continueListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the anime you are watching",
	RunE:  runContinueList,
}

// runContinueList reads the backend when logged in and the local history otherwise
func runContinueList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	out := cmd.OutOrStdout()
	if a.sessions.LoggedIn() {
		items, err := a.backend.ContinueWatching(ctx)
		if err == nil {
			printContinue(out, items)
			return nil
		}
		logger.Warn("continue watching unavailable, using local history", "error", err)
	}

	recent, err := a.history.Recent(10)
	if err != nil {
		return err
	}
	items := make([]backend.ContinueItem, 0, len(recent))
	for _, h := range recent {
		items = append(items, backend.ContinueItem{
			AnimeID:   backend.FlexInt(h.AnimeID),
			Title:     h.AnimeTitle,
			Image:     h.Image,
			EpisodeID: h.WatchID,
		})
	}
	printContinue(out, items)
	return nil
}

var continueRemoveCmd = &cobra.Command{
	Use:   "remove <anilist-id>",
	Short: "Drop an anime from continue watching",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseAnimeID(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		if a.sessions.LoggedIn() {
			if err := a.backend.DeleteContinueWatching(ctx, id); err != nil {
				return err
			}
		}
		if err := a.history.DeleteByMediaID(id); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Removed from continue watching")
		return nil
	},
}

var commentsCmd = &cobra.Command{
	Use:   "comments <anilist-id>",
	Short: "Read or post comments on an anime",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseAnimeID(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		text, _ := cmd.Flags().GetString("add")
		var comments []backend.Comment
		if cmd.Flags().Changed("add") {
			comments, err = a.backend.AddComment(ctx, id, text)
		} else {
			comments, err = a.backend.Comments(ctx, id)
		}
		if err != nil {
			return err
		}
		printComments(cmd.OutOrStdout(), comments)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the local watch history",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := history.FilterOptions{}
		filter.AnimeID, _ = cmd.Flags().GetInt("anime")
		filter.SearchQuery, _ = cmd.Flags().GetString("search")
		filter.ProviderName, _ = cmd.Flags().GetString("provider")
		filter.Limit, _ = cmd.Flags().GetInt("limit")

		rows, err := a.history.GetHistory(filter)
		if err != nil {
			return err
		}
		printHistory(cmd.OutOrStdout(), rows)
		return nil
	},
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete unfinished history older than a given age",
	RunE: func(cmd *cobra.Command, args []string) error {
		age, _ := cmd.Flags().GetDuration("older-than")
		n, err := a.history.Cleanup(age)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d entries\n", n)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password")
	signupCmd.Flags().String("name", "", "display name")
	signupCmd.Flags().String("email", "", "account email")
	signupCmd.Flags().String("password", "", "account password")

	watchlistCmd.AddCommand(watchlistListCmd, watchlistAddCmd, watchlistRemoveCmd, watchlistCheckCmd)
	continueCmd.AddCommand(continueListCmd, continueRemoveCmd)

	commentsCmd.Flags().String("add", "", "post a comment")

	historyCmd.Flags().Int("anime", 0, "only this AniList id")
	historyCmd.Flags().String("search", "", "filter by title")
	historyCmd.Flags().String("provider", "", "filter by provider")
	historyCmd.Flags().Int("limit", 20, "maximum entries")
	historyCleanCmd.Flags().Duration("older-than", 90*24*time.Hour, "age of the entries to delete")
	historyCmd.AddCommand(historyCleanCmd)

	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, profileCmd, watchlistCmd, continueCmd, commentsCmd, historyCmd)
}
