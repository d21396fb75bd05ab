package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/mmcdole/brickwork/internal/catalog"
	"github.com/mmcdole/brickwork/internal/domain"
	"github.com/mmcdole/brickwork/internal/service"
	"github.com/mmcdole/brickwork/internal/shelf"
	"github.com/mmcdole/brickwork/internal/tui"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *appEnv) *cli.App {
	app := &cli.App{
		Name:    "brickwork",
		Usage:   "Browse the LEGO catalog and keep track of your sets",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Config file (default ~/.config/brickwork/config.yaml)"},
			&cli.BoolFlag{Name: "json", Usage: "Print JSON instead of tables"},
		},
		Before: func(c *cli.Context) error {
			return env.init(c.String("config"))
		},
		After: func(*cli.Context) error {
			return env.Close()
		},
		Action: browseAction(env),
		Commands: []*cli.Command{
			browseCmd(env),
			setupCmd(env),
			searchCmd(env),
			newCmd(env),
			setCmd(env),
			themesCmd(env),
			ownCmd(env),
			wishCmd(env),
			listCmd(env, shelf.KeyCollection, "Show owned sets"),
			listCmd(env, shelf.KeyWishlist, "Show wishlisted sets"),
			sellCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// browseCmd creates the browse command.
func browseCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:   "browse",
		Usage:  "Open the interactive browser (default)",
		Action: browseAction(env),
	}
}

func browseAction(env *appEnv) cli.ActionFunc {
	return func(c *cli.Context) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return cli.Exit("the interactive browser needs a terminal; see `brickwork help` for commands", 1)
		}
		if !env.cfg.IsConfigured() {
			if err := runSetupFlow(env, c.App.Writer); err != nil {
				return err
			}
		}

		sess, err := env.Session()
		if err != nil {
			return err
		}

		env.logger.Info("starting TUI", "version", Version)
		p := tea.NewProgram(tui.NewModel(sess, env.logger), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			env.logger.Error("TUI error", "error", err)
			return fmt.Errorf("TUI error: %w", err)
		}
		env.logger.Info("shutting down")
		return nil
	}
}

// setupCmd creates the setup command.
func setupCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Store a Rebrickable API key",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "key", Usage: "API key (prompted for when omitted)"},
		},
		Action: func(c *cli.Context) error {
			key := strings.TrimSpace(c.String("key"))
			if key == "" {
				return runSetupFlow(env, c.App.Writer)
			}
			if err := verifyWithSpinner(env.cfg.API, key, c.App.Writer); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return saveKey(env, key, c.App.Writer)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the catalog",
		ArgsUsage: "[words...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "theme", Aliases: []string{"t"}, Usage: "Theme id"},
			&cli.StringFlag{Name: "year", Aliases: []string{"y"}, Usage: "Exact release year"},
			&cli.StringFlag{Name: "min-year", Usage: "Earliest release year"},
			&cli.StringFlag{Name: "max-year", Usage: "Latest release year"},
			&cli.StringFlag{Name: "min-parts", Usage: "Minimum part count"},
			&cli.StringFlag{Name: "max-parts", Usage: "Maximum part count"},
			&cli.StringFlag{Name: "sort", Aliases: []string{"s"}, Usage: "Ordering, e.g. -year, name, -num_parts"},
			&cli.IntFlag{Name: "page", Aliases: []string{"p"}, Value: 1, Usage: "Result page"},
		},
		Action: func(c *cli.Context) error {
			sess, err := env.Session()
			if err != nil {
				return outputError(err)
			}

			filter := catalog.SearchFilter{
				Query:    strings.Join(c.Args().Slice(), " "),
				ThemeID:  c.String("theme"),
				MinYear:  c.String("min-year"),
				MaxYear:  c.String("max-year"),
				MinParts: c.String("min-parts"),
				MaxParts: c.String("max-parts"),
				Ordering: c.String("sort"),
			}
			if y := c.String("year"); y != "" {
				filter.Year(y)
			}

			page := max(c.Int("page"), 1)
			result := sess.Catalog.SearchSets(c.Context, filter, page)
			if c.Bool("json") {
				return outputJSON(c.App.Writer, result)
			}

			fmt.Fprintln(c.App.Writer, renderSets(withMembership(sess, result.Results)))
			if result.Count > 0 {
				fmt.Fprintln(c.App.Writer, renderPageFooter(result, page, catalog.SearchPageSize))
			}
			return nil
		},
	}
}

// newCmd creates the new command.
func newCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "new",
		Usage: "Show this year's newest sets",
		Action: func(c *cli.Context) error {
			sess, err := env.Session()
			if err != nil {
				return outputError(err)
			}
			sets := sess.Catalog.NewArrivals(c.Context)
			if c.Bool("json") {
				return outputJSON(c.App.Writer, sets)
			}
			fmt.Fprintln(c.App.Writer, renderSets(withMembership(sess, sets)))
			return nil
		},
	}
}

// setCmd creates the set command.
func setCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Show details and minifigs for one set",
		ArgsUsage: "<set_num>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "open", Usage: "Open the set page in a browser"},
			&cli.BoolFlag{Name: "bricklink", Usage: "Open the BrickLink search in a browser"},
		},
		Action: func(c *cli.Context) error {
			setNum, err := setNumArg(c)
			if err != nil {
				return outputError(err)
			}
			sess, err := env.Session()
			if err != nil {
				return outputError(err)
			}

			set, ok := sess.Catalog.SetDetails(c.Context, setNum)
			if !ok {
				return outputError(fmt.Errorf("set %s: %w", setNum, domain.ErrNotFound))
			}
			figs := sess.Catalog.SetMinifigs(c.Context, setNum)

			switch {
			case c.Bool("open") && set.SetURL != "":
				if err := sess.Launcher.Open(set.SetURL); err != nil {
					return outputError(err)
				}
			case c.Bool("bricklink"):
				if err := sess.Launcher.Open(set.BrickLinkURL()); err != nil {
					return outputError(err)
				}
			}

			if c.Bool("json") {
				return outputJSON(c.App.Writer, struct {
					domain.Set
					Minifigs []domain.Minifig `json:"minifigs"`
				}{set, figs})
			}
			fmt.Fprintln(c.App.Writer, renderSetDetail(set, figs, sess.Shelf.Membership(setNum)))
			return nil
		},
	}
}

// themesCmd creates the themes command.
func themesCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "themes",
		Usage: "List theme ids for use with search --theme",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "match", Aliases: []string{"m"}, Usage: "Only themes whose label fuzzily matches this text"},
		},
		Action: func(c *cli.Context) error {
			sess, err := env.Session()
			if err != nil {
				return outputError(err)
			}
			opts := catalog.MatchThemeOptions(sess.Catalog.ThemeOptions(c.Context), c.String("match"))
			if c.Bool("json") {
				return outputJSON(c.App.Writer, opts)
			}
			fmt.Fprintln(c.App.Writer, renderThemes(opts))
			return nil
		},
	}
}

// ownCmd creates the own command.
func ownCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "own",
		Usage:     "Toggle a set in your collection",
		ArgsUsage: "<set_num>",
		Action: func(c *cli.Context) error {
			return toggleAction(c, env, true)
		},
	}
}

// wishCmd creates the wish command.
func wishCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "wish",
		Usage:     "Toggle a set on your wishlist",
		ArgsUsage: "<set_num>",
		Action: func(c *cli.Context) error {
			return toggleAction(c, env, false)
		},
	}
}

func toggleAction(c *cli.Context, env *appEnv, owned bool) error {
	setNum, err := setNumArg(c)
	if err != nil {
		return outputError(err)
	}
	sess, err := env.Session()
	if err != nil {
		return outputError(err)
	}

	var m shelf.Membership
	if owned {
		m, err = sess.Shelf.ToggleOwned(setNum)
	} else {
		m, err = sess.Shelf.ToggleWished(setNum)
	}
	if err != nil {
		return outputError(err)
	}

	if c.Bool("json") {
		return outputJSON(c.App.Writer, map[string]any{"set_num": setNum, "owned": m.Owned, "wished": m.Wished})
	}
	switch {
	case m.Owned:
		fmt.Fprintf(c.App.Writer, "%s added to collection\n", setNum)
	case m.Wished:
		fmt.Fprintf(c.App.Writer, "%s added to wishlist\n", setNum)
	default:
		fmt.Fprintf(c.App.Writer, "%s removed from lists\n", setNum)
	}
	return nil
}

// listCmd creates the collection and wishlist commands.
func listCmd(env *appEnv, kind, usage string) *cli.Command {
	return &cli.Command{
		Name:  kind,
		Usage: usage,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sort", Aliases: []string{"s"}, Value: string(shelf.SortAddedDesc), Usage: "added-desc|added-asc|year-desc|year-asc|parts-desc|parts-asc"},
			&cli.StringFlag{Name: "theme", Aliases: []string{"t"}, Value: shelf.ThemeAll, Usage: "Only sets of this theme name"},
			&cli.BoolFlag{Name: "themes", Usage: "List the theme names present instead"},
		},
		Action: func(c *cli.Context) error {
			mode, ok := shelf.ParseSortMode(c.String("sort"))
			if !ok {
				return outputError(fmt.Errorf("unknown sort mode %q", c.String("sort")))
			}
			sess, err := env.Session()
			if err != nil {
				return outputError(err)
			}
			entries, err := sess.ListEntries(c.Context, kind)
			if err != nil {
				return outputError(err)
			}

			if c.Bool("themes") {
				names := shelf.ThemeNames(entries)
				if c.Bool("json") {
					return outputJSON(c.App.Writer, names)
				}
				fmt.Fprintln(c.App.Writer, strings.Join(names, "\n"))
				return nil
			}

			view := shelf.View(entries, c.String("theme"), mode)
			if c.Bool("json") {
				return outputJSON(c.App.Writer, view)
			}
			fmt.Fprintln(c.App.Writer, renderEntries(view))
			return nil
		},
	}
}

// sellCmd creates the sell command.
func sellCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "sell",
		Usage:     "Write a sale listing for an owned set",
		ArgsUsage: "<set_num or name>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bricks", Value: "used, clean", Usage: "Condition of the bricks"},
			&cli.StringFlag{Name: "completeness", Value: "complete", Usage: "Missing pieces, if any"},
			&cli.StringFlag{Name: "instructions", Value: "included", Usage: "Instructions condition"},
			&cli.StringFlag{Name: "box", Value: "none", Usage: "Box condition"},
			&cli.StringFlag{Name: "description", Usage: "Free text description"},
		},
		Action: func(c *cli.Context) error {
			sess, err := env.Session()
			if err != nil {
				return outputError(err)
			}

			query := strings.Join(c.Args().Slice(), " ")
			matches := sess.Sellable(c.Context, query)
			if exact := exactSet(matches, query); exact != nil {
				matches = []domain.Set{*exact}
			}

			switch len(matches) {
			case 0:
				return outputError(fmt.Errorf("no owned set matches %q", query))
			case 1:
				fmt.Fprintln(c.App.Writer, shelf.Listing(matches[0], shelf.Condition{
					Bricks:       c.String("bricks"),
					Completeness: c.String("completeness"),
					Instructions: c.String("instructions"),
					Box:          c.String("box"),
					Description:  c.String("description"),
				}))
				return nil
			default:
				fmt.Fprintln(c.App.Writer, "Several owned sets match; pick one by set number:")
				fmt.Fprintln(c.App.Writer, renderSets(withMembership(sess, matches)))
				return nil
			}
		},
	}
}

func exactSet(sets []domain.Set, setNum string) *domain.Set {
	for i := range sets {
		if strings.EqualFold(sets[i].SetNum, setNum) {
			return &sets[i]
		}
	}
	return nil
}

func withMembership(sess *service.Session, sets []domain.Set) []setLine {
	lines := make([]setLine, len(sets))
	for i, s := range sets {
		lines[i] = setLine{Set: s, Membership: sess.Shelf.Membership(s.SetNum)}
	}
	return lines
}

// setNumArg returns the first argument, adding the "-1" variant suffix
// Rebrickable uses when it is missing.
func setNumArg(c *cli.Context) (string, error) {
	if c.NArg() == 0 {
		return "", errors.New("a set number is required")
	}
	return normalizeSetNum(c.Args().First()), nil
}

func normalizeSetNum(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, "-") {
		return s
	}
	if _, err := strconv.Atoi(s); err == nil {
		return s + "-1"
	}
	return s
}

// outputError formats error for CLI.
func outputError(err error) error {
	return cli.Exit(err.Error(), 1)
}
