package pagination

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	// PageSize is the fixed number of rows fetched per page.
	PageSize = 10
	MaxLimit = 100
)

// Outcome is the terminal state of a paging session.
type Outcome int

const (
	// Empty means a fetch returned no rows.
	Empty Outcome = iota + 1
	// Exhausted means a short page was rendered and nothing follows it.
	Exhausted
	// UserStopped means the operator declined to see the next page.
	UserStopped
)

func (o Outcome) String() string {
	switch o {
	case Empty:
		return "No more results."
	case Exhausted:
		return "All results have been displayed."
	case UserStopped:
		return "Stopped."
	}
	return "unknown"
}

// Pager drives fetch, render, confirm cycles over offset-based pages.
type Pager[T any] struct {
	// Fetch returns the page starting at offset.
	Fetch func(ctx context.Context, offset int) ([]T, error)
	// Render displays a non-empty page.
	Render func(items []T)
	// Confirm asks whether to load the next full page.
	Confirm func() bool
	// Report is told about Empty and Exhausted endings. Optional.
	Report func(Outcome)
}

// Run pages from offset 0 until a terminal state is reached.
func (p Pager[T]) Run(ctx context.Context) (Outcome, error) {
	if p.Fetch == nil {
		return 0, errors.New("pagination: fetch is nil")
	}

	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		items, err := p.Fetch(ctx, offset)
		if err != nil {
			return 0, err
		}
		if len(items) == 0 {
			p.report(Empty)
			return Empty, nil
		}

		if p.Render != nil {
			p.Render(items)
		}

		if len(items) < PageSize {
			p.report(Exhausted)
			return Exhausted, nil
		}

		if p.Confirm == nil || !p.Confirm() {
			return UserStopped, nil
		}
		offset += PageSize
	}
}

func (p Pager[T]) report(o Outcome) {
	if p.Report != nil {
		p.Report(o)
	}
}

// Window is an offset/limit pair parsed from a request.
type Window struct {
	Offset int
	Limit  int
}

// FromContext extracts offset and limit query params, clamped to sane bounds.
func FromContext(c *gin.Context) Window {
	offset := parseIntOr(c.DefaultQuery("offset", "0"), 0)
	limit := parseIntOr(c.DefaultQuery("limit", strconv.Itoa(PageSize)), PageSize)

	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = PageSize
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Window{Offset: offset, Limit: limit}
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
