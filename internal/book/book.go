// Package book holds the shared data model for the minting workflow: the
// immutable read snapshot produced by chain lookups and the request payload a
// mint submits.
//
// Keep these types free of behavior beyond construction and validation so the
// chain client, metadata publisher, and orchestrator can share them without
// import cycles.
package book

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Metadata mirrors the on-chain metadata tuple stored per token.
type Metadata struct {
	Title    string
	Author   string
	MintedAt time.Time
}

// Record is the read model returned by a verification. Each lookup produces a
// fresh snapshot; records are never mutated in place.
type Record struct {
	ISBN     string
	Exists   bool
	TokenID  string
	Owner    string
	Metadata *Metadata
}

// MintRequest carries the user-supplied details for a mint. Immutable once
// submitted.
type MintRequest struct {
	ISBN   string
	Title  string
	Author string
}

const (
	defaultAuthor      = "Unknown Author"
	defaultTitlePrefix = "Book"
)

var titleCaser = cases.Title(language.Und)

// NewMintRequest builds a request from user input, filling the placeholder
// title and author used when the caller supplies none.
func NewMintRequest(isbn, title, author string) MintRequest {
	isbn = strings.TrimSpace(isbn)
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" {
		title = defaultTitlePrefix + " " + isbn
	} else {
		title = titleCaser.String(title)
	}
	if author == "" {
		author = defaultAuthor
	}
	return MintRequest{ISBN: isbn, Title: title, Author: author}
}

// ValidISBN reports whether the value is acceptable as an ISBN input. The
// contract is the authority on uniqueness and format; this guard only rejects
// input that could never identify a book.
func ValidISBN(isbn string) bool {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return false
	}
	digits := 0
	for _, r := range isbn {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '-' || r == ' ' || r == 'X' || r == 'x':
		default:
			return false
		}
	}
	return digits >= 9
}
