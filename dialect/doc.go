// Package dialect defines the execution contexts relq builders run on.
//
// A Driver is a pooled connection and a Tx is a transaction started from it;
// both are an ExecQuerier. Builders expose Exec(ctx), which runs on the
// client's Driver, and ExecTx(ctx, tx), which runs on any ExecQuerier:
//
//	drv, err := sql.Open(dialect.SQLite, "file:blog.db?_pragma=foreign_keys(1)")
//	if err != nil {
//		return err
//	}
//	c, err := client.New(client.Driver(drv), client.Registry(blog.Registry()))
//	if err != nil {
//		return err
//	}
//	tx, err := c.Driver().Tx(ctx)
//	if err != nil {
//		return err
//	}
//	u, err := blog.Users(c).Create(d).ExecTx(ctx, tx)
//
// Dialect names are the prefixes of the database/sql driver names: "sqlite"
// matches both "sqlite" and "sqlite3".
package dialect
