// Package console implements the interactive film search session.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sakila-tools/filmsearch/internal/catalog"
	"github.com/sakila-tools/filmsearch/internal/models"
	"github.com/sakila-tools/filmsearch/internal/pkg/pagination"
	"github.com/sakila-tools/filmsearch/internal/pkg/prettylog"
	"github.com/sakila-tools/filmsearch/internal/querylog"
	"go.uber.org/zap"
)

// ErrNoGenres aborts a genre search when the catalog has no categories to offer.
var ErrNoGenres = errors.New("the catalog has no genres")

const (
	colorYellow = "yellow"
	colorBlue   = "blue"
	colorRed    = "red"
)

func paint(enabled bool, color, text string) string {
	if !enabled {
		return text
	}
	switch color {
	case colorYellow:
		return prettylog.Yellow(text)
	case colorBlue:
		return prettylog.Blue(text)
	case colorRed:
		return prettylog.Red(text)
	}
	return text
}

// Deps are the collaborators of a Session.
type Deps struct {
	Catalog   catalog.Searcher
	Queries   *querylog.Logger
	Stats     *querylog.Aggregator
	In        io.Reader
	Out       io.Writer
	Log       *zap.Logger
	Color     bool
	SessionID string
}

// Session is one interactive run of the menu.
type Session struct {
	catalog catalog.Searcher
	queries *querylog.Logger
	stats   *querylog.Aggregator
	prompt  *Prompter
	out     io.Writer
	log     *zap.Logger
	color   bool
}

// NewSession wires a Session from deps.
func NewSession(d Deps) *Session {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("console")
	if d.SessionID != "" {
		log = log.With(zap.String("session", d.SessionID))
	}
	return &Session{
		catalog: d.Catalog,
		queries: d.Queries,
		stats:   d.Stats,
		prompt:  NewPrompter(d.In, d.Out),
		out:     d.Out,
		log:     log,
		color:   d.Color,
	}
}

func (s *Session) say(color, text string) {
	fmt.Fprintln(s.out, paint(s.color, color, text))
}

// Run shows the main menu until the operator exits or input ends.
func (s *Session) Run(ctx context.Context) error {
	s.say(colorYellow, "\nWelcome to the Sakila database movie search system.")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		choice, err := s.prompt.Choose(s.mainMenu(), "\nInvalid choice. Please try again.", "1", "2", "3")
		if err != nil {
			return endOfSession(err)
		}

		switch choice {
		case "1":
			err = Guard(ctx, s.log, s.out, s.color, "search", s.searchMenu)
		case "2":
			err = Guard(ctx, s.log, s.out, s.color, "statistics", s.statsMenu)
		case "3":
			var leave bool
			leave, err = s.confirmExit()
			if err == nil && leave {
				s.say(colorYellow, "\nGoodbye!")
				return nil
			}
		}
		if err != nil {
			return endOfSession(err)
		}
	}
}

func endOfSession(err error) error {
	if errors.Is(err, ErrInputClosed) {
		return nil
	}
	return err
}

func (s *Session) mainMenu() string {
	return paint(s.color, colorYellow, "\n=== Main Menu ===") + "\n\n" +
		paint(s.color, colorBlue, "1. Search for films") + "\n" +
		paint(s.color, colorBlue, "2. Query statistics") + "\n" +
		paint(s.color, colorRed, "3. Exit") + "\n\n" +
		"Enter menu item number (1-3): "
}

func (s *Session) confirmExit() (bool, error) {
	s.say(colorYellow, "\nDo you really want to exit?")
	s.say(colorRed, "\n1. Yes, exit")
	s.say(colorBlue, "2. No, return to main menu")
	answer, err := s.prompt.Ask("\nYour choice: ")
	if err != nil {
		return false, err
	}
	return answer == "1", nil
}

func (s *Session) searchMenu(ctx context.Context) error {
	s.say(colorYellow, "\n=== Film Search ===\n")
	s.say(colorBlue, "1. By keyword")
	s.say(colorBlue, "2. By genre and year range")
	s.say(colorBlue, "3. By actor (first and last name)")
	s.say(colorBlue, "4. By film length")

	choice, err := s.prompt.Ask("\nChoose search method: ")
	if err != nil {
		return err
	}
	switch choice {
	case "1":
		return s.searchKeyword(ctx)
	case "2":
		return s.searchGenreYears(ctx)
	case "3":
		return s.searchActor(ctx)
	case "4":
		return s.searchLength(ctx)
	}
	fmt.Fprintln(s.out, "Invalid search method selection.")
	return nil
}

func (s *Session) searchKeyword(ctx context.Context) error {
	keyword, err := s.prompt.Ask("\nEnter a keyword to search in film titles: ")
	if err != nil {
		return err
	}
	return s.page(ctx, models.QueryTypeKeyword, querylog.KeywordParams(keyword), "",
		func(ctx context.Context, offset int) ([]models.Film, error) {
			return s.catalog.ByKeyword(ctx, keyword, offset, pagination.PageSize)
		})
}

func (s *Session) searchGenreYears(ctx context.Context) error {
	genres, err := s.catalog.Genres(ctx)
	if err != nil {
		return err
	}
	if len(genres) == 0 {
		return ErrNoGenres
	}
	years, err := s.catalog.YearRange(ctx)
	if err != nil {
		return err
	}

	s.say(colorYellow, "\nGenres in the database:\n")
	for _, g := range genres {
		fmt.Fprintln(s.out, "- "+paint(s.color, colorBlue, g))
	}
	s.say(colorYellow, fmt.Sprintf("\nAvailable years: from %d to %d\n", years.Min, years.Max))

	genre, err := s.askGenre(genres)
	if err != nil {
		return err
	}
	yearFrom, yearTo, err := s.askYears(years)
	if err != nil {
		return err
	}

	return s.page(ctx, models.QueryTypeGenreYear, querylog.GenreYearParams(genre, yearFrom, yearTo), "",
		func(ctx context.Context, offset int) ([]models.Film, error) {
			return s.catalog.ByGenreAndYears(ctx, genre, yearFrom, yearTo, offset, pagination.PageSize)
		})
}

// askGenre accepts a listed genre in any letter case and returns its catalog spelling.
func (s *Session) askGenre(genres []string) (string, error) {
	for {
		answer, err := s.prompt.Ask("Enter genre: ")
		if err != nil {
			return "", err
		}
		for _, g := range genres {
			if strings.EqualFold(answer, g) {
				return g, nil
			}
		}
		fmt.Fprintln(s.out, "\nInvalid genre. Please try again.")
	}
}

func (s *Session) askYears(years models.Range) (int, int, error) {
	const invalid = "Input error. Please enter valid years."
	for {
		from, err := s.prompt.AskInt(fmt.Sprintf("\nEnter start year (from %d): ", years.Min), 0, false, invalid)
		if err != nil {
			return 0, 0, err
		}
		to, err := s.prompt.AskInt(fmt.Sprintf("\nEnter end year (up to %d, or leave empty for single year): ", years.Max), from, true, invalid)
		if err != nil {
			return 0, 0, err
		}
		if years.Contains(from) && years.Contains(to) && from <= to {
			return from, to, nil
		}
		fmt.Fprintln(s.out, "Year range is invalid. Please try again.")
	}
}

func (s *Session) searchActor(ctx context.Context) error {
	s.say(colorYellow, "\nEnter actor details for search (can be left empty):\n")
	first, err := s.prompt.Ask(paint(s.color, colorBlue, "Actor first name: "))
	if err != nil {
		return err
	}
	last, err := s.prompt.Ask(paint(s.color, colorBlue, "Actor last name: "))
	if err != nil {
		return err
	}

	fragment := strings.TrimSpace(first + " " + last)
	return s.page(ctx, models.QueryTypeActorName, querylog.ActorNameParams(first, last), fragment,
		func(ctx context.Context, offset int) ([]models.Film, error) {
			return s.catalog.ByActorNameFragment(ctx, fragment, offset, pagination.PageSize)
		})
}

func (s *Session) searchLength(ctx context.Context) error {
	bounds, err := s.catalog.LengthRange(ctx)
	if err != nil {
		return err
	}
	s.say(colorYellow, fmt.Sprintf("\nAvailable movie length range: from %d to %d minutes.", bounds.Min, bounds.Max))

	const invalid = "\nInvalid input. Please enter valid integers."
	var minLength, maxLength int
	for {
		minLength, err = s.prompt.AskInt("\nEnter minimum film length (in minutes): ", 0, false, invalid)
		if err != nil {
			return err
		}
		maxLength, err = s.prompt.AskInt("Enter maximum film length (in minutes, or leave empty for same as minimum): ", minLength, true, invalid)
		if err != nil {
			return err
		}
		if minLength < bounds.Min || maxLength > bounds.Max {
			fmt.Fprintf(s.out, "\nError: Entered range is outside allowed limits (%d-%d).\n", bounds.Min, bounds.Max)
			continue
		}
		if minLength > maxLength {
			fmt.Fprintln(s.out, "\nError: Minimum length cannot be greater than maximum length.")
			continue
		}
		break
	}

	return s.page(ctx, models.QueryTypeLengthRange, querylog.LengthRangeParams(minLength, maxLength), "",
		func(ctx context.Context, offset int) ([]models.Film, error) {
			return s.catalog.ByLengthRange(ctx, minLength, maxLength, offset, pagination.PageSize)
		})
}

// page runs the pager over fetch, recording one query-log entry per fetched page.
func (s *Session) page(ctx context.Context, qt models.QueryType, params models.Params, highlight string,
	fetch func(ctx context.Context, offset int) ([]models.Film, error)) error {
	pager := pagination.Pager[models.Film]{
		Fetch: func(ctx context.Context, offset int) ([]models.Film, error) {
			films, err := fetch(ctx, offset)
			if err != nil {
				return nil, err
			}
			if err := s.queries.Record(ctx, qt, params); err != nil && !querylog.IsWarning(err) {
				return nil, err
			}
			return films, nil
		},
		Render: func(films []models.Film) {
			RenderFilms(s.out, films, highlight)
		},
		Confirm: s.confirmNextPage,
		Report: func(o pagination.Outcome) {
			if o == pagination.Exhausted {
				fmt.Fprintln(s.out)
			}
			fmt.Fprintln(s.out, o.String())
		},
	}
	if _, err := pager.Run(ctx); err != nil {
		return err
	}
	if s.prompt.Closed() {
		return ErrInputClosed
	}
	return nil
}

func (s *Session) confirmNextPage() bool {
	s.say(colorYellow, fmt.Sprintf("\nShow the next %d results?", pagination.PageSize))
	s.say(colorBlue, "1 - Yes")
	s.say(colorBlue, "2 - No")
	answer, err := s.prompt.Ask("Your choice: ")
	return err == nil && answer == "1"
}

func (s *Session) statsMenu(ctx context.Context) error {
	s.say(colorYellow, "\n=== Statistics ===\n")
	s.say(colorBlue, "1. Top 5 popular queries")
	s.say(colorBlue, "2. Last 5 queries")
	s.say(colorBlue, "3. Search queries by type")
	s.say(colorBlue, "4. Frequency by query type")

	choice, err := s.prompt.Ask("\nChoose an option: ")
	if err != nil {
		return err
	}
	switch choice {
	case "1":
		fmt.Fprintln(s.out, "\nTop 5 popular parameters:")
		return PrintTop(ctx, s.out, s.stats, querylog.DefaultTopLimit)
	case "2":
		fmt.Fprintln(s.out, "\nLast 5 queries:")
		return PrintRecent(ctx, s.out, s.stats, 5)
	case "3":
		raw, err := s.prompt.Ask("Enter query type (keyword, genre_year, actor_name, length_range): ")
		if err != nil {
			return err
		}
		qt, ok := models.ParseQueryType(raw)
		if !ok {
			fmt.Fprintf(s.out, "\nUnknown query type %q.\n", raw)
			return nil
		}
		fmt.Fprintf(s.out, "\nQueries of type %q:\n", string(qt))
		return PrintByType(ctx, s.out, s.stats, qt, querylog.DefaultUniqueLimit)
	case "4":
		return PrintTypeCounts(ctx, s.out, s.stats, false)
	}
	fmt.Fprintln(s.out, "Invalid choice.")
	return nil
}
