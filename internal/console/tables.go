package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"
	"github.com/sakila-tools/filmsearch/internal/models"
	"github.com/sakila-tools/filmsearch/internal/querylog"
)

const (
	descriptionWidth = 50
	actorsWidth      = 65
	timestampLayout  = "2006-01-02 15:04:05"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetRowLine(true)
	return table
}

// RenderFilms prints one page of films. When highlight is set, actors whose
// name contains it are listed first.
func RenderFilms(w io.Writer, films []models.Film, highlight string) {
	if len(films) == 0 {
		fmt.Fprintln(w, "\nNo films found.")
		return
	}
	table := newTable(w, "ID", "Title", "Description", "Year", "Length", "Rating", "Actors")
	for _, f := range films {
		table.Append([]string{
			strconv.Itoa(f.FilmID),
			f.Title,
			truncate(f.Description, descriptionWidth),
			strconv.Itoa(f.ReleaseYear),
			strconv.Itoa(f.Length),
			f.Rating,
			truncate(orderActors(f.Actors, highlight), actorsWidth),
		})
	}
	table.Render()
}

// RenderEntries prints query-log entries with their present parameters.
func RenderEntries(w io.Writer, entries []models.QueryLogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "\nNo queries found.")
		return
	}
	table := newTable(w, "ID", "Query Type", "Timestamp", "Parameters")
	for _, e := range entries {
		ts := ""
		if !e.Timestamp.IsZero() {
			ts = e.Timestamp.UTC().Format(timestampLayout)
		}
		table.Append([]string{e.ID, string(e.QueryType), ts, formatParams(e.Params)})
	}
	table.Render()
}

// RenderTopCombinations splits composite keys into type, parameter and value.
func RenderTopCombinations(w io.Writer, top []querylog.TopCombination) {
	if len(top) == 0 {
		fmt.Fprintln(w, "\nNo data to display.")
		return
	}
	table := newTable(w, "Query Type", "Parameter", "Value", "Count")
	for _, c := range top {
		qt, param, value, _ := c.Split()
		table.Append([]string{qt, param, value, strconv.Itoa(c.Count)})
	}
	table.Render()
}

// RenderTypeCounts prints one row per query type.
func RenderTypeCounts(w io.Writer, counts []querylog.TypeCount) {
	table := newTable(w, "Query Type", "Count")
	for _, c := range counts {
		table.Append([]string{string(c.QueryType), strconv.FormatInt(c.Count, 10)})
	}
	table.Render()
}

func formatParams(p *models.Params) string {
	if p == nil {
		return ""
	}
	filled := p.Filled()
	parts := make([]string, 0, len(filled))
	for _, pair := range filled {
		parts = append(parts, string(pair.Key)+"="+pair.Value)
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width]) + "..."
}

func orderActors(actors, highlight string) string {
	needle := strings.ToLower(strings.TrimSpace(highlight))
	if needle == "" || !strings.Contains(strings.ToLower(actors), needle) {
		return actors
	}
	var matched, others []string
	for _, name := range strings.Split(actors, ",") {
		name = strings.TrimSpace(name)
		if strings.Contains(strings.ToLower(name), needle) {
			matched = append(matched, name)
		} else {
			others = append(others, name)
		}
	}
	return strings.Join(append(matched, others...), ", ")
}
