package user

import (
	"time"

	"github.com/uptrace/bun"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"

	DefaultMaxBooksAllowed = 5
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID              int64                  `bun:"id,pk,autoincrement" json:"id"`
	RegNo           int64                  `bun:"reg_no,unique,notnull" json:"regNo"`
	Name            string                 `bun:"name,notnull" json:"name"`
	Email           string                 `bun:"email,unique,notnull" json:"email"`
	Password        string                 `bun:"password,notnull" json:"-"` // Never expose password in JSON
	Age             int                    `bun:"age,notnull" json:"age"`
	Gender          string                 `bun:"gender,notnull" json:"gender"`
	Department      string                 `bun:"department,notnull" json:"department"`
	Role            Role                   `bun:"role,notnull,default:'user'" json:"role"`
	ActiveBooks     []ActiveBook           `bun:"active_books,type:jsonb,notnull" json:"activeBooks"`
	BookHistory     []ReturnedBook         `bun:"book_history,type:jsonb,notnull" json:"bookHistory"`
	MaxBooksAllowed int                    `bun:"max_books_allowed,notnull,default:5" json:"maxBooksAllowed"`
	Settings        map[string]interface{} `bun:"settings,type:jsonb,notnull" json:"settings"`
	CreatedAt       time.Time              `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt       time.Time              `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// ActiveBook is a book currently borrowed by the user.
type ActiveBook struct {
	BookID       int64     `json:"bookId"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	BorrowedDate time.Time `json:"borrowedDate"`
	DueDate      time.Time `json:"dueDate"`
}

// ReturnedBook is an entry of the borrowing history.
type ReturnedBook struct {
	BookID       int64     `json:"bookId"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	BorrowedDate time.Time `json:"borrowedDate"`
	ReturnedDate time.Time `json:"returnedDate"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// applyDefaults fills the zero values the table requires.
func (u *User) applyDefaults() {
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.ActiveBooks == nil {
		u.ActiveBooks = []ActiveBook{}
	}
	if u.BookHistory == nil {
		u.BookHistory = []ReturnedBook{}
	}
	if u.MaxBooksAllowed == 0 {
		u.MaxBooksAllowed = DefaultMaxBooksAllowed
	}
	if u.Settings == nil {
		u.Settings = map[string]interface{}{}
	}
}

// Summary is the identity subset returned by login.
type Summary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// CreateRequest is the body of POST /users and of registration.
type CreateRequest struct {
	RegNo      int64  `json:"regNo" validate:"required,gt=0"`
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Age        int    `json:"age" validate:"required,gt=0,lt=150"`
	Gender     string `json:"gender" validate:"required"`
	Department string `json:"department" validate:"required"`
	Role       Role   `json:"role" validate:"omitempty,oneof=user admin"`
}

// UpdateRequest is a full profile replacement (PUT). Password changes go through /auth/change-password.
type UpdateRequest struct {
	RegNo           int64  `json:"regNo" validate:"required,gt=0"`
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Age             int    `json:"age" validate:"required,gt=0,lt=150"`
	Gender          string `json:"gender" validate:"required"`
	Department      string `json:"department" validate:"required"`
	Role            Role   `json:"role" validate:"omitempty,oneof=user admin"`
	MaxBooksAllowed int    `json:"maxBooksAllowed" validate:"min=0"`
}

// PatchRequest updates only the provided fields.
type PatchRequest struct {
	RegNo           *int64  `json:"regNo" validate:"omitempty,gt=0"`
	Name            *string `json:"name" validate:"omitempty,min=1"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Age             *int    `json:"age" validate:"omitempty,gt=0,lt=150"`
	Gender          *string `json:"gender" validate:"omitempty,min=1"`
	Department      *string `json:"department" validate:"omitempty,min=1"`
	Role            *Role   `json:"role" validate:"omitempty,oneof=user admin"`
	MaxBooksAllowed *int    `json:"maxBooksAllowed" validate:"omitempty,min=0"`
}
