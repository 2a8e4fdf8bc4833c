package addbook

import (
	"github.com/libreshelf/circulation-go/core"
)

// Decide validates the catalog input. There is no prior state to consult;
// uniqueness of the ISBN is enforced by the store.
//
// Business Rules:
//
//	GIVEN: Catalog metadata for a new book
//	WHEN: AddBook command is received
//	THEN: the book, its publisher and its authors are created
//	ERROR: ErrValidation on empty title, short ISBN, missing publisher,
//	       missing authors or inconsistent author years
func Decide(command Command) core.DecisionResult {
	if err := core.ValidateBookTitle(command.Title); err != nil {
		return core.ErrorDecision(err)
	}

	if err := core.ValidateISBN(command.ISBN); err != nil {
		return core.ErrorDecision(err)
	}

	if command.Publisher == "" {
		return core.ErrorDecision(core.ValidationError("publisher", "must not be empty"))
	}

	if len(command.Authors) == 0 {
		return core.ErrorDecision(core.ValidationError("authors", "must name at least one author"))
	}

	for _, author := range command.Authors {
		if author.Name == "" {
			return core.ErrorDecision(core.ValidationError("author name", "must not be empty"))
		}

		if err := core.ValidateAuthorYears(author.BirthYear, author.DeathYear); err != nil {
			return core.ErrorDecision(err)
		}
	}

	return core.SuccessDecision(
		core.BuildBookAdded(command.BookID, command.ISBN, command.Title, command.OccurredAt),
	)
}
