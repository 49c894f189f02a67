package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nagumeena22/ColabSphere/internal/book"
	"github.com/nagumeena22/ColabSphere/internal/metrics"
	"github.com/nagumeena22/ColabSphere/internal/project"
	"github.com/nagumeena22/ColabSphere/internal/user"

	"github.com/uptrace/bun"
	"gopkg.in/yaml.v3"
)

type Fixture struct {
	Users    []UserFixture    `yaml:"users"`
	Projects []ProjectFixture `yaml:"projects"`
	Books    []BookFixture    `yaml:"books"`
}

type UserFixture struct {
	RegNo      int64  `yaml:"regNo"`
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
	Password   string `yaml:"password"`
	Age        int    `yaml:"age"`
	Gender     string `yaml:"gender"`
	Department string `yaml:"department"`
	Role       string `yaml:"role"`
}

// ProjectFixture names its poster by email; an empty poster keeps the default admin.
type ProjectFixture struct {
	Poster             string     `yaml:"poster"`
	Department         string     `yaml:"department"`
	Branch             string     `yaml:"branch"`
	Domain             string     `yaml:"domain"`
	SkillsNeeded       string     `yaml:"skillsNeeded"`
	ProjectDescription string     `yaml:"projectDescription"`
	Competitions       string     `yaml:"competitions"`
	StartDate          *time.Time `yaml:"startDate"`
	EndDate            *time.Time `yaml:"endDate"`
}

type BookFixture struct {
	BookID          int64  `yaml:"bookId"`
	Title           string `yaml:"title"`
	Author          string `yaml:"author"`
	Genre           string `yaml:"genre"`
	PublicationYear int    `yaml:"publicationYear"`
	AvailableCopies int    `yaml:"availableCopies"`
}

func readFixture(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

func seedFile(ctx context.Context, database *bun.DB, path string, out io.Writer) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	fixture, err := readFixture(file)
	if err != nil {
		return err
	}
	return seed(ctx, database, fixture, out)
}

// seed inserts the fixture. Rows that already exist are reported and skipped.
func seed(ctx context.Context, database *bun.DB, f *Fixture, out io.Writer) error {
	m := metrics.NewMock()
	userRepo := user.NewRepository(database, m)
	users := user.NewService(userRepo)
	projects := project.NewService(project.NewRepository(database, m), userRepo)
	books := book.NewService(book.NewRepository(database, m))

	for _, u := range f.Users {
		_, err := users.CreateUser(ctx, user.CreateRequest{
			RegNo:      u.RegNo,
			Name:       u.Name,
			Email:      u.Email,
			Password:   u.Password,
			Age:        u.Age,
			Gender:     u.Gender,
			Department: u.Department,
			Role:       user.Role(u.Role),
		})
		switch {
		case errors.Is(err, user.ErrUserExists):
			fmt.Fprintf(out, "user %s exists, skipped\n", u.Email)
		case err != nil:
			return fmt.Errorf("user %s: %w", u.Email, err)
		default:
			fmt.Fprintf(out, "user %s created\n", u.Email)
		}
	}

	for i, p := range f.Projects {
		var posterID int64
		if p.Poster != "" {
			poster, err := userRepo.GetByEmail(ctx, strings.ToLower(p.Poster))
			if err != nil {
				return fmt.Errorf("project %d poster %s: %w", i+1, p.Poster, err)
			}
			posterID = poster.ID
		}
		created, err := projects.CreateProject(ctx, posterID, project.CreateRequest{
			Department:         p.Department,
			Branch:             p.Branch,
			Domain:             p.Domain,
			SkillsNeeded:       p.SkillsNeeded,
			ProjectDescription: p.ProjectDescription,
			Competitions:       p.Competitions,
			StartDate:          p.StartDate,
			EndDate:            p.EndDate,
		})
		if err != nil {
			return fmt.Errorf("project %d: %w", i+1, err)
		}
		fmt.Fprintf(out, "project %d created for %s\n", created.ID, created.AdminName)
	}

	for _, b := range f.Books {
		copies := b.AvailableCopies
		_, err := books.CreateBook(ctx, book.CreateRequest{
			BookID:          b.BookID,
			Title:           b.Title,
			Author:          b.Author,
			Genre:           b.Genre,
			PublicationYear: b.PublicationYear,
			AvailableCopies: &copies,
		})
		switch {
		case errors.Is(err, book.ErrBookExists):
			fmt.Fprintf(out, "book %d exists, skipped\n", b.BookID)
		case err != nil:
			return fmt.Errorf("book %d: %w", b.BookID, err)
		default:
			fmt.Fprintf(out, "book %d created\n", b.BookID)
		}
	}
	return nil
}
