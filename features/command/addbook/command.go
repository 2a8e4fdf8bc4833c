package addbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/core"
)

const commandType = "AddBook"

// AuthorInput names one author of the new book. Authors are created on first
// use and reused by (name, birth year) thereafter.
type AuthorInput struct {
	Name      string
	BirthYear int
	DeathYear *int
}

// Command represents the intent to add a book to the catalog. BookID is
// assigned when the command is built so retries write the same book row.
type Command struct {
	BookID          uuid.UUID
	Title           string
	ISBN            string
	PublicationYear int
	Publisher       string
	Authors         []AuthorInput
	OccurredAt      core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for
// observability and audit actions.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	title string,
	isbn string,
	publicationYear int,
	publisher string,
	authors []AuthorInput,
	occurredAt time.Time,
) Command {

	return Command{
		BookID:          uuid.New(),
		Title:           title,
		ISBN:            isbn,
		PublicationYear: publicationYear,
		Publisher:       publisher,
		Authors:         authors,
		OccurredAt:      core.ToOccurredAt(occurredAt),
	}
}
