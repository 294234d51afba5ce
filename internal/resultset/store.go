// Package resultset holds the last query result of a session and slices it
// into pages.
//
// A Store is owned by the interactive loop and is not safe for concurrent
// use. Background workers never touch it; they hand their result back to the
// loop, which calls Apply.
package resultset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/joacominatel/perruls/internal/database"
)

// DefaultPageSize is used when the page size text cannot be parsed.
const DefaultPageSize = 100

// Ticket identifies one in-flight request.
type Ticket uuid.UUID

// PageView is a window into the held result.
type PageView struct {
	Page       int
	PageSize   int
	TotalRows  int
	TotalPages int
	Columns    []string
	Rows       [][]any
}

// Summary returns the pager label, e.g. "Page 2 of 5 · 431 rows".
func (v PageView) Summary() string {
	return fmt.Sprintf("Page %d of %d · %d rows", v.Page, v.TotalPages, v.TotalRows)
}

// Store holds one QueryResult and the current page pointer.
type Store struct {
	result   *database.QueryResult
	page     int
	pageSize int

	inflight Ticket
	pending  bool
}

// New creates an empty store with the given page size.
func New(pageSize int) *Store {
	return &Store{page: 1, pageSize: normalizePageSize(pageSize)}
}

// ParsePageSize converts user input into a page size. Non-numeric input
// falls back to DefaultPageSize and anything below 1 becomes 1.
func ParsePageSize(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return DefaultPageSize
	}
	return normalizePageSize(n)
}

func normalizePageSize(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// SetResult replaces the held result and rewinds to page 1.
func (s *Store) SetResult(r *database.QueryResult) {
	s.result = r
	s.page = 1
}

// Clear drops the held result, rewinds to page 1 and forgets any
// in-flight request.
func (s *Store) Clear() {
	s.result = nil
	s.page = 1
	s.inflight = Ticket{}
	s.pending = false
}

// Result returns the held result, or nil.
func (s *Store) Result() *database.QueryResult {
	return s.result
}

// Columns returns the column names of the held result.
func (s *Store) Columns() []string {
	if s.result == nil {
		return nil
	}
	return s.result.Columns
}

// AllRows returns every row of the held result.
func (s *Store) AllRows() [][]any {
	if s.result == nil {
		return nil
	}
	return s.result.Rows
}

// TotalRows returns the number of held rows.
func (s *Store) TotalRows() int {
	if s.result == nil {
		return 0
	}
	return len(s.result.Rows)
}

// PageSize returns the current page size.
func (s *Store) PageSize() int {
	return s.pageSize
}

// SetPageSize changes the page size, coercing it to at least 1. The current
// page is clamped on the next read.
func (s *Store) SetPageSize(n int) {
	s.pageSize = normalizePageSize(n)
}

// CurrentPage returns the current page, clamped to the valid range.
func (s *Store) CurrentPage() int {
	s.page = clamp(s.page, 1, s.TotalPages())
	return s.page
}

// TotalPages is ceil(rows/pageSize) with a floor of 1.
func (s *Store) TotalPages() int {
	return totalPages(s.TotalRows(), s.pageSize)
}

func totalPages(total, size int) int {
	pages := (total + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Page returns the current page using the given page size, which also
// becomes the store's page size.
func (s *Store) Page(pageSize int) PageView {
	s.SetPageSize(pageSize)
	return s.view()
}

// PageAt moves to page number (clamped) and returns it.
func (s *Store) PageAt(pageSize, number int) PageView {
	s.SetPageSize(pageSize)
	s.page = number
	return s.view()
}

// View returns the current page with the current page size.
func (s *Store) View() PageView {
	return s.view()
}

func (s *Store) view() PageView {
	total := s.TotalRows()
	page := s.CurrentPage()

	start := (page - 1) * s.pageSize
	end := min(start+s.pageSize, total)

	v := PageView{
		Page:       page,
		PageSize:   s.pageSize,
		TotalRows:  total,
		TotalPages: s.TotalPages(),
		Columns:    s.Columns(),
	}
	if start < end {
		v.Rows = s.result.Rows[start:end]
	}
	return v
}

// First moves to page 1. It reports whether the page changed.
func (s *Store) First() bool {
	return s.moveTo(1)
}

// Prev moves back one page unless already on page 1.
func (s *Store) Prev() bool {
	return s.moveTo(s.CurrentPage() - 1)
}

// Next moves forward one page unless already on the last page.
func (s *Store) Next() bool {
	return s.moveTo(s.CurrentPage() + 1)
}

// Last moves to the last page.
func (s *Store) Last() bool {
	return s.moveTo(s.TotalPages())
}

func (s *Store) moveTo(page int) bool {
	before := s.CurrentPage()
	s.page = clamp(page, 1, s.TotalPages())
	return s.page != before
}
