package engine

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/libreshelf/circulation-go/core"
)

// EnsurePublisher inserts a publisher by name if it does not exist and
// returns its id either way.
func (s *Store) EnsurePublisher(ctx context.Context, name string) (uuid.UUID, error) {
	insertStmt := s.builder().
		Insert(tablePublishers).
		Rows(goqu.Record{
			"publisher_id": uuid.New().String(),
			"name":         name,
		}).
		OnConflict(goqu.DoNothing())

	sqlQuery, err := s.buildSQL(insertStmt)
	if err != nil {
		return uuid.Nil, err
	}

	if _, err = s.exec(ctx, s.db, sqlQuery); err != nil {
		return uuid.Nil, err
	}

	selectStmt := s.builder().
		From(tablePublishers).
		Select("publisher_id").
		Where(goqu.Ex{"name": name})

	return s.selectID(ctx, selectStmt, "publisher_id")
}

// EnsureAuthor inserts an author by (name, birth year) if it does not exist
// and returns its id either way.
func (s *Store) EnsureAuthor(ctx context.Context, author core.Author) (uuid.UUID, error) {
	insertStmt := s.builder().
		Insert(tableAuthors).
		Rows(goqu.Record{
			"author_id":  uuid.New().String(),
			"name":       author.Name,
			"birth_year": author.BirthYear,
			"death_year": author.DeathYear,
		}).
		OnConflict(goqu.DoNothing())

	sqlQuery, err := s.buildSQL(insertStmt)
	if err != nil {
		return uuid.Nil, err
	}

	if _, err = s.exec(ctx, s.db, sqlQuery); err != nil {
		return uuid.Nil, err
	}

	selectStmt := s.builder().
		From(tableAuthors).
		Select("author_id").
		Where(goqu.Ex{"name": author.Name, "birth_year": author.BirthYear})

	return s.selectID(ctx, selectStmt, "author_id")
}

func (s *Store) selectID(ctx context.Context, selectStmt *goqu.SelectDataset, column string) (uuid.UUID, error) {
	sqlQuery, err := s.buildSQL(selectStmt)
	if err != nil {
		return uuid.Nil, err
	}

	rows, err := s.query(ctx, sqlQuery)
	if err != nil {
		return uuid.Nil, err
	}
	defer s.closeRows(rows)

	if !rows.Next() {
		return uuid.Nil, notFound(column, uuid.Nil)
	}

	var value string
	if scanErr := rows.Scan(&value); scanErr != nil {
		s.logError(logMsgScanRowFailed, scanErr)
		return uuid.Nil, scanErr
	}

	return parseID(value)
}

// InsertBook persists a new title and its author links in one transaction.
func (s *Store) InsertBook(ctx context.Context, book core.Book, authorIDs []uuid.UUID) error {
	insertStmt := s.builder().
		Insert(tableBooks).
		Rows(goqu.Record{
			"book_id":          book.ID.String(),
			"title":            book.Title,
			"isbn":             book.ISBN,
			"publication_year": book.PublicationYear,
			"publisher_id":     book.PublisherID.String(),
		})

	bookSQL, err := s.buildSQL(insertStmt)
	if err != nil {
		return err
	}

	linkSQL := make([]string, 0, len(authorIDs))
	for _, authorID := range authorIDs {
		linkStmt := s.builder().
			Insert(tableBookAuthors).
			Rows(goqu.Record{
				"book_id":   book.ID.String(),
				"author_id": authorID.String(),
			})

		stmtSQL, buildErr := s.buildSQL(linkStmt)
		if buildErr != nil {
			return buildErr
		}

		linkSQL = append(linkSQL, stmtSQL)
	}

	return s.inTransaction(ctx, func(tx executor) error {
		if txErr := s.execExpectingOne(ctx, tx, bookSQL); txErr != nil {
			return txErr
		}

		for _, stmtSQL := range linkSQL {
			if txErr := s.execExpectingOne(ctx, tx, stmtSQL); txErr != nil {
				return txErr
			}
		}

		return nil
	})
}

// GetBook loads a book by id.
func (s *Store) GetBook(ctx context.Context, bookID uuid.UUID) (core.Book, error) {
	selectStmt := s.builder().
		From(tableBooks).
		Select("book_id", "title", "isbn", "publication_year", "publisher_id").
		Where(goqu.Ex{"book_id": bookID.String()})

	sqlQuery, err := s.buildSQL(selectStmt)
	if err != nil {
		return core.Book{}, err
	}

	rows, err := s.query(ctx, sqlQuery)
	if err != nil {
		return core.Book{}, err
	}
	defer s.closeRows(rows)

	if !rows.Next() {
		return core.Book{}, notFound("book", bookID)
	}

	var (
		id, title, isbn string
		pubYear         sql.NullInt64
		publisherID     sql.NullString
	)

	if scanErr := rows.Scan(&id, &title, &isbn, &pubYear, &publisherID); scanErr != nil {
		s.logError(logMsgScanRowFailed, scanErr)
		return core.Book{}, scanErr
	}

	parsedID, err := parseID(id)
	if err != nil {
		return core.Book{}, err
	}

	book := core.Book{
		ID:              parsedID,
		Title:           title,
		ISBN:            isbn,
		PublicationYear: int(pubYear.Int64),
	}

	if publisherID.Valid {
		pid, pidErr := parseID(publisherID.String)
		if pidErr != nil {
			return core.Book{}, pidErr
		}

		book.PublisherID = pid
	}

	return book, nil
}

// InsertCopy persists a new physical copy.
func (s *Store) InsertCopy(ctx context.Context, copy core.BookCopy) error {
	insertStmt := s.builder().
		Insert(tableCopies).
		Rows(goqu.Record{
			"copy_id":  copy.ID.String(),
			"book_id":  copy.BookID.String(),
			"status":   string(copy.Status),
			"version":  copy.Version,
			"added_at": ts(copy.AddedAt),
		})

	sqlQuery, err := s.buildSQL(insertStmt)
	if err != nil {
		return err
	}

	return s.execExpectingOne(ctx, s.db, sqlQuery)
}

// GetCopy loads a copy by id, including its compare-and-swap version.
func (s *Store) GetCopy(ctx context.Context, copyID uuid.UUID) (core.BookCopy, error) {
	selectStmt := s.builder().
		From(tableCopies).
		Select("copy_id", "book_id", "status", "version", "added_at").
		Where(goqu.Ex{"copy_id": copyID.String()})

	sqlQuery, err := s.buildSQL(selectStmt)
	if err != nil {
		return core.BookCopy{}, err
	}

	rows, err := s.query(ctx, sqlQuery)
	if err != nil {
		return core.BookCopy{}, err
	}
	defer s.closeRows(rows)

	if !rows.Next() {
		return core.BookCopy{}, notFound("copy", copyID)
	}

	var (
		id, bookID, status string
		version            int64
		addedAt            time.Time
	)

	if scanErr := rows.Scan(&id, &bookID, &status, &version, &addedAt); scanErr != nil {
		s.logError(logMsgScanRowFailed, scanErr)
		return core.BookCopy{}, scanErr
	}

	parsedID, err := parseID(id)
	if err != nil {
		return core.BookCopy{}, err
	}

	parsedBookID, err := parseID(bookID)
	if err != nil {
		return core.BookCopy{}, err
	}

	return core.BookCopy{
		ID:      parsedID,
		BookID:  parsedBookID,
		Status:  core.CopyStatus(status),
		Version: uint(version),
		AddedAt: addedAt.UTC(),
	}, nil
}

// UpdateCopyStatus transitions a copy's status guarded by its version.
func (s *Store) UpdateCopyStatus(
	ctx context.Context,
	copyID uuid.UUID,
	expectedVersion uint,
	to core.CopyStatus,
) error {

	sqlQuery, err := s.buildSQL(s.copyStatusUpdate(copyID, expectedVersion, to))
	if err != nil {
		return err
	}

	return s.execExpectingOne(ctx, s.db, sqlQuery)
}

// copyStatusUpdate builds the guarded copy status update shared by the
// single-statement path and the transactional circulation operations.
func (s *Store) copyStatusUpdate(copyID uuid.UUID, expectedVersion uint, to core.CopyStatus) *goqu.UpdateDataset {
	return s.builder().
		Update(tableCopies).
		Set(goqu.Record{
			"status":  string(to),
			"version": goqu.L("version + 1"),
		}).
		Where(goqu.Ex{
			"copy_id": copyID.String(),
			"version": expectedVersion,
		})
}
