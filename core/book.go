package core

import (
	"strings"

	"github.com/google/uuid"
)

// Book is catalog metadata; physical lending happens against BookCopy.
type Book struct {
	ID              uuid.UUID
	Title           string
	ISBN            string
	PublicationYear int
	PublisherID     uuid.UUID
}

// Author of one or more books. DeathYear is nil for living authors.
type Author struct {
	ID        uuid.UUID
	Name      string
	BirthYear int
	DeathYear *int
}

// Publisher of one or more books.
type Publisher struct {
	ID   uuid.UUID
	Name string
}

// ValidateISBN enforces the column constraint: at least 10 characters.
func ValidateISBN(isbn string) error {
	if len(strings.TrimSpace(isbn)) < 10 {
		return ValidationError("isbn", "must be at least 10 characters")
	}

	return nil
}

// ValidateBookTitle rejects empty titles.
func ValidateBookTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ValidationError("title", "must not be empty")
	}

	return nil
}

// ValidateAuthorYears enforces the column constraint: death_year is null or
// greater than birth_year.
func ValidateAuthorYears(birthYear int, deathYear *int) error {
	if deathYear != nil && *deathYear <= birthYear {
		return ValidationError("death_year", "must be greater than birth_year")
	}

	return nil
}
