package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"moviewatch/internal/models"
	"moviewatch/internal/service"

	"github.com/spf13/cobra"
)

var errNotLoggedIn = errors.New("not logged in; run 'moviewatch login' first")

func (c *cli) signupCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			var err error
			if name, err = c.prompt("Name", name); err != nil {
				return err
			}
			if email, err = c.prompt("Email", email); err != nil {
				return err
			}
			if password, err = c.password(password); err != nil {
				return err
			}

			if _, err := c.client.Flow.SubmitSignup(cmd.Context(), name, email, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account created successfully! Log in with 'moviewatch login'.")
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted without echo when omitted)")
	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in on this device",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			if u, ok := c.client.Flow.User(); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Already logged in as %s.\n", u.Username)
				return nil
			}

			var err error
			if email, err = c.prompt("Email", email); err != nil {
				return err
			}
			if password, err = c.password(password); err != nil {
				return err
			}

			u, err := c.client.Flow.SubmitLogin(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome back, %s!\n", u.Username)
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted without echo when omitted)")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session on this device",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			if c.client.Flow.State() != service.StateAuthenticated {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			if err := c.client.Flow.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		}),
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			u, ok := c.client.Flow.User()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\nsaved movies: %d\n", u.Username, u.Email, len(u.MovieIDs))
			return nil
		}),
	}
}

func (c *cli) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search movies by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			movies, err := c.client.Services.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(movies) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No movies found.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tRATING")
			for _, m := range movies {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\n", m.ID, m.Title, models.ReleaseYear(m.ReleaseDate), m.VoteAverage)
			}
			return tw.Flush()
		}),
	}
}

func (c *cli) movieCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "movie <id>",
		Short: "Show movie details",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			id := service.NormalizeMovieID(args[0])
			m, err := c.client.Services.Details(cmd.Context(), id)
			if err != nil {
				return err
			}
			printMovie(cmd, m)
			if u, ok := c.client.Flow.User(); ok {
				state := "not saved"
				if c.client.Services.IsSaved(u, id) {
					state = "saved"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Watchlist: %s\n", state)
			}
			return nil
		}),
	}
}

func (c *cli) saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <id>",
		Short: "Add a movie to your saved list, or remove it if already saved",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			u, ok := c.client.Flow.User()
			if !ok {
				return errNotLoggedIn
			}
			id := service.NormalizeMovieID(args[0])

			updated, saved, err := c.client.Services.Toggle(cmd.Context(), u, id)
			if errors.Is(err, models.ErrConflict) {
				// changed from another device since launch; toggle against the fresh record
				fresh, rerr := c.client.Services.Resolve(cmd.Context(), u.ID)
				if rerr != nil {
					return rerr
				}
				updated, saved, err = c.client.Services.Toggle(cmd.Context(), fresh, id)
			}
			if err != nil {
				return err
			}
			c.client.Flow.SetUser(updated)

			if saved {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved movie %s.\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed movie %s.\n", id)
			}
			return nil
		}),
	}
}

func (c *cli) savedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "saved",
		Short: "List your saved movies",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			u, ok := c.client.Flow.User()
			if !ok {
				return errNotLoggedIn
			}
			if len(u.MovieIDs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved movies yet.")
				return nil
			}

			movies, err := c.client.Services.SavedMovies(cmd.Context(), u)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tRUNTIME")
			for _, m := range movies {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%dm\n", m.ID, m.Title, models.ReleaseYear(m.ReleaseDate), m.Runtime)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if missing := len(u.MovieIDs) - len(movies); missing > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "(%d saved movie(s) could not be loaded)\n", missing)
			}
			return nil
		}),
	}
}

func printMovie(cmd *cobra.Command, m models.MovieDetail) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", m.Title, models.ReleaseYear(m.ReleaseDate))
	if m.Tagline != "" {
		fmt.Fprintf(out, "%q\n", m.Tagline)
	}
	fmt.Fprintf(out, "Rating: %d/10 (%d votes)  Runtime: %dm  Status: %s\n",
		m.RoundedVote(), m.VoteCount, m.Runtime, m.Status)
	if genres := m.GenreNames(); len(genres) > 0 {
		fmt.Fprintf(out, "Genres: %s\n", strings.Join(genres, ", "))
	}
	fmt.Fprintf(out, "Budget: $%.1fM  Revenue: $%dM\n", m.BudgetMillions(), m.RevenueMillions())
	if companies := m.CompanyNames(); len(companies) > 0 {
		fmt.Fprintf(out, "Production: %s\n", strings.Join(companies, ", "))
	}
	if poster := models.PosterURL(m.PosterPath); poster != "" {
		fmt.Fprintf(out, "Poster: %s\n", poster)
	}
	if m.Overview != "" {
		fmt.Fprintf(out, "\n%s\n", m.Overview)
	}
}

// describe turns service errors into the one-line messages users see.
func describe(err error) string {
	switch {
	case errors.Is(err, service.ErrNameRequired):
		return "Name is required"
	case errors.Is(err, service.ErrEmailRequired):
		return "Email is required"
	case errors.Is(err, service.ErrPasswordRequired):
		return "Password is required"
	case errors.Is(err, service.ErrInvalidEmail):
		return "Please enter a valid email address"
	case errors.Is(err, service.ErrEmailTaken):
		return "Email already registered"
	case errors.Is(err, service.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, service.ErrInvalidPassword):
		return "Incorrect password"
	case errors.Is(err, service.ErrWatchlistUpdate):
		return "Could not update saved movies. Try again."
	case errors.Is(err, service.ErrLookupFailed) && errors.Is(err, models.ErrNotFound):
		return "Movie not found"
	case errors.Is(err, service.ErrLookupFailed):
		return "Could not load movies. Try again."
	default:
		return err.Error()
	}
}
