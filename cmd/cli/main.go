package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/olekukonko/tablewriter"

	"github.com/tablekit/tablekit"
	"github.com/tablekit/tablekit/backend"
	"github.com/tablekit/tablekit/db"
)

const (
	PromptColor  = "\033[36m" // Cyan
	ErrorColor   = "\033[31m" // Red
	SuccessColor = "\033[32m" // Green
	ResetColor   = "\033[0m"
	BoldColor    = "\033[1m"
)

// Version is set at build time via -ldflags
var Version = "dev"

// CLI holds the interactive session state
type CLI struct {
	instance *tablekit.Instance
	out      io.Writer
}

func main() {
	dbPath := flag.String("db", "", "Database file (in-memory if empty)")
	sqlFile := flag.String("sqlFile", "", "SQL file to execute (non-interactive)")
	flag.Parse()

	printBanner()

	var instance *tablekit.Instance
	var err error
	if *dbPath == "" {
		fmt.Printf("%sUsing in-memory database%s\n", SuccessColor, ResetColor)
		instance, err = tablekit.OpenMemory()
	} else {
		fmt.Printf("%sUsing database file: %s%s\n", SuccessColor, *dbPath, ResetColor)
		instance, err = tablekit.OpenFile(*dbPath)
	}
	if err != nil {
		fmt.Printf("%sError: %v%s\n", ErrorColor, err, ResetColor)
		os.Exit(1)
	}
	defer instance.Close()

	cli := &CLI{instance: instance, out: os.Stdout}

	if *sqlFile != "" {
		if err := cli.importFile(*sqlFile); err != nil {
			fmt.Printf("%sError importing file: %v%s\n", ErrorColor, err, ResetColor)
			os.Exit(1)
		}
		return
	}

	cli.run()
}

func printBanner() {
	fmt.Println()
	fmt.Printf("%s%s╔═══════════════════════════════════════╗%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s║   tablekit v%-26s║%s\n", BoldColor, PromptColor, Version, ResetColor)
	fmt.Printf("%s%s║   Map-filter layer over database/sql  ║%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s╚═══════════════════════════════════════╝%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println()
	fmt.Println("Type .help for commands, .quit to exit")
	fmt.Println()
}

func (cli *CLI) run() {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      fmt.Sprintf("%stablekit>%s ", PromptColor, ResetColor),
		HistoryFile: historyPath(),
	})
	if err != nil {
		fmt.Printf("%sError: %v%s\n", ErrorColor, err, ResetColor)
		return
	}
	defer rl.Close()

	var buffer strings.Builder
	for {
		if buffer.Len() > 0 {
			rl.SetPrompt(fmt.Sprintf("%s   ...>%s ", PromptColor, ResetColor))
		} else {
			rl.SetPrompt(fmt.Sprintf("%stablekit>%s ", PromptColor, ResetColor))
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			buffer.Reset()
			continue
		}
		if err != nil {
			fmt.Printf("\n%sGoodbye!%s\n", SuccessColor, ResetColor)
			return
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		if buffer.Len() == 0 && strings.HasPrefix(line, ".") {
			if cli.handleCommand(line) {
				continue
			}
		}

		// Multi-line support: accumulate until we see a semicolon
		buffer.WriteString(line)
		trimmed := strings.TrimSpace(buffer.String())
		if !strings.HasSuffix(trimmed, ";") {
			buffer.WriteString(" ")
			continue
		}
		buffer.Reset()

		statement := strings.TrimSuffix(trimmed, ";")
		if strings.TrimSpace(statement) == "" {
			continue
		}

		if err := cli.runStatement(statement); err != nil {
			fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		}
	}
}

func (cli *CLI) runStatement(statement string) error {
	ctx := context.Background()
	start := time.Now()

	if isQuery(statement) {
		rows, err := cli.instance.Handle.QueryContext(ctx, statement)
		if err != nil {
			return err
		}
		defer rows.Close()

		columns, err := rows.Columns()
		if err != nil {
			return err
		}

		var data [][]string
		for rows.Next() {
			cells := make([]any, len(columns))
			ptrs := make([]any, len(columns))
			for i := range cells {
				ptrs[i] = &cells[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return err
			}
			rendered := make([]string, len(columns))
			for i, cell := range cells {
				rendered[i] = renderValue(cell)
			}
			data = append(data, rendered)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		cli.renderTable(columns, data)
		fmt.Fprintf(cli.out, "%d rows (%s)\n", len(data), time.Since(start).Round(time.Millisecond))
		return nil
	}

	result, err := cli.instance.Handle.ExecContext(ctx, statement)
	if err != nil {
		return err
	}
	affected, _ := result.RowsAffected()
	fmt.Fprintf(cli.out, "%sOK%s, %d row(s) affected (%s)\n",
		SuccessColor, ResetColor, affected, time.Since(start).Round(time.Millisecond))
	return nil
}

func (cli *CLI) renderTable(columns []string, data [][]string) {
	if len(data) == 0 {
		fmt.Fprintln(cli.out, "(no results)")
		return
	}
	table := tablewriter.NewWriter(cli.out)
	table.SetHeader(columns)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.AppendBulk(data)
	table.Render()
}

// isQuery reports whether the statement produces a result set.
func isQuery(statement string) bool {
	head := strings.ToUpper(strings.Fields(strings.TrimSpace(statement))[0])
	switch head {
	case "SELECT", "WITH", "SHOW", "DESCRIBE", "PRAGMA", "FROM", "EXPLAIN":
		return true
	default:
		return false
	}
}

func renderValue(v any) string {
	switch value := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(value)
	case time.Time:
		if value.Hour() == 0 && value.Minute() == 0 && value.Second() == 0 {
			return value.Format("2006-01-02")
		}
		return value.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(value)
	}
}

func (cli *CLI) handleCommand(input string) bool {
	parts := strings.Fields(strings.TrimSpace(input))
	if len(parts) == 0 {
		return true
	}

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit", ".q":
		fmt.Printf("%sGoodbye!%s\n", SuccessColor, ResetColor)
		os.Exit(0)

	case ".help", ".h", ".?":
		cli.printHelp()

	case ".tables":
		cli.showTables()

	case ".schema":
		if len(parts) > 1 {
			cli.showSchema(parts[1])
		} else {
			fmt.Printf("%s✗ Usage: .schema <table>%s\n", ErrorColor, ResetColor)
		}

	case ".clear", ".cls":
		fmt.Print("\033[H\033[2J")

	case ".version":
		fmt.Printf("tablekit version %s\n", Version)

	case ".import":
		if len(parts) > 1 {
			if err := cli.importFile(parts[1]); err != nil {
				fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
			}
		} else {
			fmt.Printf("%s✗ Usage: .import <file.sql>%s\n", ErrorColor, ResetColor)
		}

	default:
		fmt.Printf("%s✗ Unknown command: %s (type .help for commands)%s\n", ErrorColor, parts[0], ResetColor)
	}

	return true
}

func (cli *CLI) printHelp() {
	fmt.Println()
	fmt.Printf("%s%sSpecial Commands:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println("  .help, .h        Show this help message")
	fmt.Println("  .quit, .exit     Exit the CLI")
	fmt.Println("  .tables          List tables")
	fmt.Println("  .schema <table>  Show a table's columns")
	fmt.Println("  .import <file>   Execute SQL statements from a file")
	fmt.Println("  .clear           Clear the screen")
	fmt.Println("  .version         Show version info")
	fmt.Println()
	fmt.Printf("%s%sSQL:%s statements end with a semicolon and run against\n", BoldColor, PromptColor, ResetColor)
	fmt.Println("the backend verbatim.")
	fmt.Println()
}

func (cli *CLI) showTables() {
	names, err := backend.TableNames(context.Background(), cli.instance.Handle)
	if err != nil {
		fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		return
	}
	if len(names) == 0 {
		fmt.Fprintln(cli.out, "(no tables)")
		return
	}
	var data [][]string
	for _, name := range names {
		data = append(data, []string{name})
	}
	cli.renderTable([]string{"Table"}, data)
}

func (cli *CLI) showSchema(name string) {
	accessor := db.New(name, cli.instance.Handle)
	if err := accessor.Reflect(context.Background()); err != nil {
		fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		return
	}

	var data [][]string
	for _, col := range accessor.Schema().Columns() {
		nullable := "not null"
		if col.Nullable {
			nullable = ""
		}
		data = append(data, []string{col.Name, col.Type.String(), nullable})
	}
	cli.renderTable([]string{"Column", "Type", "Nullable"}, data)
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tablekit_history")
}

// importFile reads and executes SQL statements from a file
func (cli *CLI) importFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	statements := splitStatements(string(data))
	successCount := 0
	errorCount := 0

	for i, stmt := range statements {
		if err := cli.runStatement(stmt); err != nil {
			fmt.Printf("%s[%d] ✗ %s%s\n", ErrorColor, i+1, truncate(stmt, 50), ResetColor)
			fmt.Printf("      Error: %v\n", err)
			errorCount++
		} else {
			successCount++
		}
	}

	fmt.Printf("\n%s✓ Import complete: %d succeeded, %d failed%s\n",
		SuccessColor, successCount, errorCount, ResetColor)
	return nil
}

// splitStatements splits SQL content into individual statements
func splitStatements(content string) []string {
	var statements []string
	var current strings.Builder
	inString := false
	stringChar := byte(0)

	for i := 0; i < len(content); i++ {
		ch := content[i]

		// Handle string literals
		if (ch == '\'' || ch == '"') && (i == 0 || content[i-1] != '\\') {
			if !inString {
				inString = true
				stringChar = ch
			} else if ch == stringChar {
				inString = false
			}
		}

		// Handle comments
		if !inString && ch == '-' && i+1 < len(content) && content[i+1] == '-' {
			for i < len(content) && content[i] != '\n' {
				i++
			}
			continue
		}

		if !inString && ch == ';' {
			stmt := strings.TrimSpace(current.String())
			if stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
			continue
		}

		current.WriteByte(ch)
	}

	stmt := strings.TrimSpace(current.String())
	if stmt != "" {
		statements = append(statements, stmt)
	}

	return statements
}

// truncate shortens a string to max length with ellipsis
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
