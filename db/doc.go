// Package db provides the table accessor for tablekit.
//
// The Table type is the main entry point: it binds a table name to a
// backend handle and dispatches select/insert/update/delete/count/
// create/reflect statements against it.
//
// # Usage
//
//	handle, _ := backend.NewMemoryBackend()
//	table := db.New("users", handle)
//
//	table.Create(ctx, []core.Column{
//	    {Name: "id", Type: core.TextType, PrimaryKey: true},
//	    {Name: "name", Type: core.TextType},
//	})
//	table.Insert(ctx, map[string]any{"id": "a", "name": "Jack"})
//
//	rows, _ := table.Select(ctx, sql.Filter{"name": "Jack"})
//	for rows.Next() {
//	    fmt.Println(rows.Row())
//	}
//
// # Filter Forms
//
// Select, Update, Delete and Count accept the filter in three forms:
// a sql.Filter map (translated to a conjunctive WHERE clause), a
// pre-built sql.Expr (passed through), or raw SQL text (passed through
// verbatim, with no validation; that is the caller's problem). For
// Select, text is a complete statement; for the other operations it is
// a WHERE fragment. A nil filter matches all rows; Delete with a nil
// filter deletes every row, with no guard at this layer.
//
// # Schema Cache
//
// The accessor resolves the table schema lazily on first read, or
// eagerly via Create or Reflect, and caches it until SetName or
// Invalidate. Read results are converted to native Go values per the
// cached column types; values written by Insert and Update pass
// through to the driver unchecked.
//
// # Transactions
//
// Begin returns a transaction-bound clone of the accessor; its
// statements run on the transaction's connection until Commit or
// Rollback. Transact scopes a function to a transaction and
// guarantees release on every exit path.
package db
