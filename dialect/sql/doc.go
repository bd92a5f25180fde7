// Package sql provides the statement builders and the database/sql driver
// used by relq.
//
// Builders render dialect-aware SQL. Identifiers are quoted with "`" on
// MySQL and with '"' on PostgreSQL and SQLite; PostgreSQL placeholders are
// numbered ($1, $2, ...) while the others use "?".
//
//	q, args := sql.Dialect(dialect.Postgres).
//		Select("id", "email").
//		From("users").
//		Where(sql.And(sql.EQ("active", true), sql.HasPrefix("email", "admin"))).
//		OrderBy("id", sql.OrderDesc).
//		Limit(10).
//		Query()
//	// SELECT "id", "email" FROM "users" WHERE ("active" = $1) AND ("email" LIKE $2) ORDER BY "id" DESC LIMIT 10
//
// # Predicates
//
// Predicates render lazily, so the same value can be placed into a statement
// of any dialect. Generated entity packages expose them through typed fields:
//
//	var Email = sql.StringField[predicate.User]("email")
//	client.Users().FindMany(user.Email.HasSuffix("@example.com"))
//
// In with an empty list renders FALSE and matches nothing.
//
// # Drivers
//
// Driver adapts *sql.DB to dialect.Driver. StatsDriver and DebugDriver wrap
// any dialect.Driver with statement counters and slog output.
package sql
