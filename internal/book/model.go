package book

import "github.com/uptrace/bun"

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID              int64  `bun:"id,pk,autoincrement" json:"id"`
	BookID          int64  `bun:"book_id,unique,notnull" json:"bookId"`
	Title           string `bun:"title,notnull" json:"title"`
	Author          string `bun:"author,notnull" json:"author"`
	Genre           string `bun:"genre,notnull" json:"genre"`
	PublicationYear int    `bun:"publication_year,notnull" json:"publicationYear"`
	AvailableCopies int    `bun:"available_copies,notnull" json:"availableCopies"`
}

type CreateRequest struct {
	BookID          int64  `json:"bookId" validate:"required,gt=0"`
	Title           string `json:"title" validate:"required"`
	Author          string `json:"author" validate:"required"`
	Genre           string `json:"genre" validate:"required"`
	PublicationYear int    `json:"publicationYear" validate:"required"`
	AvailableCopies *int   `json:"availableCopies" validate:"required,min=0"`
}

// PatchRequest updates only the provided fields. The public bookId is immutable.
type PatchRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=1"`
	Author          *string `json:"author" validate:"omitempty,min=1"`
	Genre           *string `json:"genre" validate:"omitempty,min=1"`
	PublicationYear *int    `json:"publicationYear"`
	AvailableCopies *int    `json:"availableCopies" validate:"omitempty,min=0"`
}
