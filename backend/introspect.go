package backend

import (
	"context"
	"fmt"

	"github.com/tablekit/tablekit/core"
	"github.com/tablekit/tablekit/sql"
)

const columnsQuery = `
SELECT column_name, data_type, is_nullable
FROM information_schema.columns
WHERE table_name = ?
ORDER BY ordinal_position`

// Columns reads the physical schema of a table from the backend's
// information schema, in declaration order.
func Columns(ctx context.Context, e Execer, table string) ([]core.Column, error) {
	rows, err := e.QueryContext(ctx, columnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("reflect table %s: %w", table, err)
	}
	defer rows.Close()

	var columns []core.Column
	for rows.Next() {
		var name, dataType, isNullable string
		if err := rows.Scan(&name, &dataType, &isNullable); err != nil {
			return nil, fmt.Errorf("reflect table %s: %w", table, err)
		}
		columns = append(columns, core.Column{
			Name:     name,
			Type:     sql.ParseTypeName(dataType),
			Nullable: isNullable == "YES",
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reflect table %s: %w", table, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s does not exist", table)
	}
	return columns, nil
}

// TableNames lists the base tables visible on the connection.
func TableNames(ctx context.Context, e Execer) ([]string, error) {
	rows, err := e.QueryContext(ctx,
		`SELECT table_name FROM information_schema.tables WHERE table_type = 'BASE TABLE' ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
