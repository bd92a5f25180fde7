package sql

import (
	"testing"

	"github.com/syssam/relq/dialect"
)

var dialects = []string{dialect.SQLite, dialect.MySQL, dialect.Postgres}

func BenchmarkInsertBuilder_Posts(b *testing.B) {
	for _, d := range dialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Dialect(d).Insert("posts").
					Columns("title", "views", "author_id", "editor_id").
					Values("hello", 10, 1, 2).
					Returning("id").
					Query()
			}
		})
	}
}

func BenchmarkSelector_Lookup(b *testing.B) {
	for _, d := range dialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Dialect(d).Select("id").
					From("users").
					Where(EQ("email", "a8m@example.com")).
					Limit(2).
					Query()
			}
		})
	}
}

func BenchmarkSelector_Page(b *testing.B) {
	for _, d := range dialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Dialect(d).Select("id", "title", "views", "author_id", "editor_id").
					From("posts").
					Where(And(In("author_id", 1, 2, 3), GT("views", 10))).
					OrderBy("views", OrderDesc).
					Limit(10).
					Offset(20).
					Query()
			}
		})
	}
}

func BenchmarkUpdateBuilder(b *testing.B) {
	for _, d := range dialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Dialect(d).Update("users").
					Set("name", "a8m").
					Set("age", 30).
					SetNull("role").
					Where(EQ("id", 1)).
					Query()
			}
		})
	}
}
