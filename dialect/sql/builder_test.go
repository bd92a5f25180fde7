package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/relq/dialect"
)

func TestBuilder(t *testing.T) {
	tests := []struct {
		input     Querier
		wantQuery string
		wantArgs  []any
	}{
		{
			input:     Select().From("users"),
			wantQuery: "SELECT * FROM `users`",
		},
		{
			input:     Dialect(dialect.Postgres).Select("id", "name").From("users").Where(EQ("id", 1)),
			wantQuery: `SELECT "id", "name" FROM "users" WHERE "id" = $1`,
			wantArgs:  []any{1},
		},
		{
			input: Dialect(dialect.Postgres).Select("id").From("users").
				Where(And(EQ("age", 10), Or(IsNull("name"), NEQ("name", "a8m")))).
				Where(GT("id", 5)),
			wantQuery: `SELECT "id" FROM "users" WHERE (("age" = $1) AND (("name" IS NULL) OR ("name" <> $2))) AND ("id" > $3)`,
			wantArgs:  []any{10, "a8m", 5},
		},
		{
			input:     Dialect(dialect.SQLite).Select("id").From("users").Where(In("id")),
			wantQuery: `SELECT "id" FROM "users" WHERE FALSE`,
		},
		{
			input:     Dialect(dialect.MySQL).Select().From("users").Where(In("id", 1, 2, 3)),
			wantQuery: "SELECT * FROM `users` WHERE `id` IN (?, ?, ?)",
			wantArgs:  []any{1, 2, 3},
		},
		{
			input:     Dialect(dialect.Postgres).Select("id").From("users").Where(Not(HasPrefix("name", "a_"))),
			wantQuery: `SELECT "id" FROM "users" WHERE NOT ("name" LIKE $1)`,
			wantArgs:  []any{`a\_%`},
		},
		{
			input: Dialect(dialect.Postgres).Select("id").From("users").
				OrderBy("name", OrderAsc).OrderByNulls("age", OrderDesc, NullsLast).
				Limit(10).Offset(20),
			wantQuery: `SELECT "id" FROM "users" ORDER BY "name" ASC, "age" IS NULL ASC, "age" DESC LIMIT 10 OFFSET 20`,
		},
		{
			input:     Dialect(dialect.SQLite).Select("id").From("users").Offset(5),
			wantQuery: `SELECT "id" FROM "users" LIMIT -1 OFFSET 5`,
		},
		{
			input:     Dialect(dialect.MySQL).Select("id").From("users").Offset(5),
			wantQuery: "SELECT `id` FROM `users` LIMIT 18446744073709551615 OFFSET 5",
		},
		{
			input: Dialect(dialect.Postgres).Select("author_id").From("posts").
				AppendSelectExprAs("COUNT", "*", "count").
				AppendSelectExprAs("SUM", "views", "sum_views").
				GroupBy("author_id").
				Having(GT("COUNT(*)", 1)),
			wantQuery: `SELECT "author_id", COUNT(*) AS "count", SUM("views") AS "sum_views" FROM "posts" GROUP BY "author_id" HAVING COUNT(*) > $1`,
			wantArgs:  []any{1},
		},
		{
			input:     Dialect(dialect.Postgres).Select("email").From("users").Distinct(),
			wantQuery: `SELECT DISTINCT "email" FROM "users"`,
		},
		{
			input:     Dialect(dialect.Postgres).Insert("users").Columns("name", "age").Values("a8m", 10).Returning("id"),
			wantQuery: `INSERT INTO "users" ("name", "age") VALUES ($1, $2) RETURNING "id"`,
			wantArgs:  []any{"a8m", 10},
		},
		{
			input:     Dialect(dialect.MySQL).Insert("users").Set("name", "a8m").Returning("id"),
			wantQuery: "INSERT INTO `users` (`name`) VALUES (?)",
			wantArgs:  []any{"a8m"},
		},
		{
			input:     Dialect(dialect.SQLite).Insert("users"),
			wantQuery: `INSERT INTO "users" DEFAULT VALUES`,
		},
		{
			input:     Dialect(dialect.MySQL).Insert("users"),
			wantQuery: "INSERT INTO `users` () VALUES ()",
		},
		{
			input:     Dialect(dialect.Postgres).Update("users").Set("name", "foo").SetNull("age").Where(EQ("id", 1)),
			wantQuery: `UPDATE "users" SET "name" = $1, "age" = $2 WHERE "id" = $3`,
			wantArgs:  []any{"foo", nil, 1},
		},
		{
			input:     Dialect(dialect.MySQL).Delete("users").Where(LT("age", 18)),
			wantQuery: "DELETE FROM `users` WHERE `age` < ?",
			wantArgs:  []any{18},
		},
		{
			input:     Dialect(dialect.Postgres).Select().From("users").Where(ExprP("age BETWEEN ? AND ?", 1, 2)),
			wantQuery: `SELECT * FROM "users" WHERE age BETWEEN $1 AND $2`,
			wantArgs:  []any{1, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.wantQuery, func(t *testing.T) {
			query, args := tt.input.Query()
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestSelectorClone(t *testing.T) {
	s := Dialect(dialect.Postgres).Select("id").From("users").Where(EQ("age", 1)).OrderBy("id", OrderAsc).Limit(2)
	c := s.Clone().ReverseOrder().Limit(1)
	c.Where(EQ("name", "a"))

	query, _ := s.Query()
	assert.Equal(t, `SELECT "id" FROM "users" WHERE "age" = $1 ORDER BY "id" ASC LIMIT 2`, query)
	query, args := c.Query()
	assert.Equal(t, `SELECT "id" FROM "users" WHERE ("age" = $1) AND ("name" = $2) ORDER BY "id" DESC LIMIT 1`, query)
	assert.Equal(t, []any{1, "a"}, args)
}

func TestPredicateString(t *testing.T) {
	p := And(EQ("email", "a@b.c"), IsNull("deleted_at"))
	assert.Equal(t, "(`email` = ?) AND (`deleted_at` IS NULL)", p.String())
	assert.Equal(t, "TRUE", And().String())
}

type userP func(*Selector)

func TestTypedFields(t *testing.T) {
	var (
		name = StringField[userP]("name")
		age  = IntField[userP]("age")
	)
	s := Dialect(dialect.Postgres).Select("id").From("users")
	for _, p := range []userP{
		name.Contains("a8m"),
		age.In(1, 2),
		OrP(age.LT(10), age.GT(20)),
		NotP(name.IsNull()),
	} {
		p(s)
	}
	query, args := s.Query()
	assert.Equal(t,
		`SELECT "id" FROM "users" WHERE ((("name" LIKE $1) AND ("age" IN ($2, $3))) AND (("age" < $4) OR ("age" > $5))) AND (NOT ("name" IS NULL))`,
		query,
	)
	assert.Equal(t, []any{"%a8m%", 1, 2, 10, 20}, args)
}

func BenchmarkSelector(b *testing.B) {
	for _, d := range []string{dialect.SQLite, dialect.MySQL, dialect.Postgres} {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Dialect(d).Select("id", "name", "email").
					From("users").
					Where(And(EQ("active", true), In("role", "admin", "owner"))).
					OrderBy("id", OrderDesc).
					Limit(10).
					Query()
			}
		})
	}
}

func BenchmarkInsertBuilder(b *testing.B) {
	for _, d := range []string{dialect.SQLite, dialect.MySQL, dialect.Postgres} {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Dialect(d).Insert("users").
					Columns("age", "first_name", "last_name", "nickname").
					Values(30, "Ariel", "Mashraki", "a8m").
					Returning("id").
					Query()
			}
		})
	}
}
