package book_test

import (
	"testing"

	"folio/internal/book"
)

func TestNewMintRequestFillsPlaceholders(t *testing.T) {
	req := book.NewMintRequest(" 978-0-123456-78-9 ", "", "")
	if req.ISBN != "978-0-123456-78-9" {
		t.Fatalf("unexpected isbn: %q", req.ISBN)
	}
	if req.Title != "Book 978-0-123456-78-9" {
		t.Fatalf("unexpected title: %q", req.Title)
	}
	if req.Author != "Unknown Author" {
		t.Fatalf("unexpected author: %q", req.Author)
	}
}

func TestNewMintRequestTitleCasesProvidedTitle(t *testing.T) {
	req := book.NewMintRequest("978-0-123456-78-9", "the left hand of darkness", "ursula k. le guin")
	if req.Title != "The Left Hand Of Darkness" {
		t.Fatalf("unexpected title: %q", req.Title)
	}
	if req.Author != "ursula k. le guin" {
		t.Fatalf("author should pass through unchanged, got %q", req.Author)
	}
}

func TestValidISBN(t *testing.T) {
	cases := []struct {
		isbn string
		want bool
	}{
		{"978-0-123456-78-9", true},
		{"0-306-40615-2", true},
		{"080442957X", true},
		{"", false},
		{"   ", false},
		{"not-an-isbn", false},
		{"123", false},
	}
	for _, tc := range cases {
		if got := book.ValidISBN(tc.isbn); got != tc.want {
			t.Errorf("ValidISBN(%q) = %v, want %v", tc.isbn, got, tc.want)
		}
	}
}
