// Package backend provides the connection layer for tablekit.
//
// The backend is a standard database/sql handle; SQL execution,
// dialect handling, pooling and durability are the driver's job. The
// bundled driver is DuckDB.
//
// # Memory Backend
//
// For testing or ephemeral databases:
//
//	handle, err := backend.NewMemoryBackend()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer handle.Close()
//
// # File Backend
//
// For persistent storage:
//
//	handle, err := backend.NewFileBackend("/path/to/data.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Other Drivers
//
// Any registered database/sql driver works:
//
//	handle, err := backend.Open("sqlite3", "file:data.db")
//
// or wrap an existing pool the application already owns:
//
//	handle := backend.Wrap(pool)
//
// The Execer interface is the capability the accessor consumes. Both
// *sql.DB and *sql.Tx satisfy it, which is how transaction-bound
// accessors run their statements on the transaction's connection.
package backend
