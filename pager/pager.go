// Package pager slices an externally-fetched result set into a stable page
// window and fills in presentation defaults for incomplete records.
package pager

import (
	"fmt"

	"github.com/MichaelGalloway404/BooksRead/book"
)

// DefaultPageSize is the number of candidates shown per page
const DefaultPageSize = 20

// CoverFunc derives a cover image URL from an ISBN
type CoverFunc func(isbn string) string

// Advance returns prev+delta clamped to zero. Backward paging with a
// negative delta is allowed but the offset never goes below the first page.
func Advance(prev, delta int) int {
	next := prev + delta
	if next < 0 {
		return 0
	}
	return next
}

// Slice returns candidates[offset : offset+pageSize] clipped to the input
// length, with presentation defaults applied to every returned candidate.
// An offset beyond the input yields an empty page, not an error.
func Slice(candidates []book.Candidate, offset, pageSize int, cover CoverFunc) []book.Candidate {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	page := make([]book.Candidate, 0, pageSize)
	if offset >= len(candidates) {
		return page
	}

	end := offset + pageSize
	if end > len(candidates) {
		end = len(candidates)
	}

	for _, c := range candidates[offset:end] {
		page = append(page, Fill(c, cover))
	}
	return page
}

// Fill applies rendering fallbacks: every candidate field ends up non-empty
// regardless of which search path produced it.
func Fill(c book.Candidate, cover CoverFunc) book.Candidate {
	if c.Title == "" {
		isbn := c.ISBN
		if isbn == "" {
			isbn = "unknown"
		}
		c.Title = fmt.Sprintf("Book with ISBN %s", isbn)
	}
	if c.Author == "" {
		c.Author = "Unknown Author"
	}
	if c.CoverURL == "" && cover != nil {
		c.CoverURL = cover(c.ISBN)
	}
	return c
}
