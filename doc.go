// Package tablekit is a thin convenience layer over database/sql.
//
// Row filters are expressed as plain maps from column name to a value
// or an operation, translated into WHERE clauses with bound
// parameters. Everything else (connections, SQL dialects, execution,
// transaction durability) is the driver's job. The bundled driver is
// DuckDB.
//
// # Quick Start
//
// Open an in-memory database and work with one table:
//
//	instance, _ := tablekit.OpenMemory()
//	defer instance.Close()
//
//	table := instance.Table("users")
//	table.Create(ctx, []core.Column{
//	    {Name: "id", Type: core.TextType, PrimaryKey: true},
//	    {Name: "name", Type: core.TextType},
//	    {Name: "score", Type: core.IntType},
//	})
//
//	table.Insert(ctx, map[string]any{"id": "a", "name": "Jack", "score": 100})
//
//	rows, _ := table.Select(ctx, sql.Filter{"score": sql.Between(50, 150)})
//	for rows.Next() {
//	    fmt.Println(rows.Row())
//	}
//
// # One-Shot Helpers
//
// The package-level functions bind a throwaway accessor for callers
// that do not want to hold one:
//
//	rows, _ := tablekit.Select(ctx, instance, "users", sql.Filter{"name": "Jack"})
//	n, _ := tablekit.Count(ctx, instance, "users", nil)
//
// # Transactions
//
//	scoped, _ := table.Begin(ctx)
//	scoped.Insert(ctx, map[string]any{"id": "b", "name": "John", "score": 200})
//	scoped.Commit()
package tablekit
