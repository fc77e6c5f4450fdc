package postgres

import (
	"github.com/maxviazov/bookshelf-paginate/internal/model"
	"github.com/maxviazov/bookshelf-paginate/internal/orm/sqlq"
)

var authorsTable = &sqlq.Table[model.Author]{
	Name:    "authors",
	Columns: []string{"id", "name", "created_at", "updated_at"},
	OrderBy: []string{"id"},
}

var booksTable = &sqlq.Table[model.Book]{
	Name:    "books",
	Columns: []string{"id", "author_id", "title", "price", "published_at", "created_at", "updated_at"},
	OrderBy: []string{"id"},
	Relations: map[string]sqlq.Relation[model.Book]{
		"author": sqlq.BelongsTo[model.Book, model.Author]{
			Target:     authorsTable,
			Key:        "id",
			ForeignKey: func(b *model.Book) int64 { return b.AuthorID },
			KeyOf:      func(a *model.Author) int64 { return a.ID },
			Set:        func(b *model.Book, a *model.Author) { b.Author = a },
		},
	},
}
