package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/tablekit/tablekit"
)

// Server is a TCP SQL server that exposes a tablekit backend.
type Server struct {
	listener   net.Listener
	instance   *tablekit.Instance
	authConfig *AuthConfig
	mu         sync.Mutex
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewServer creates a new SQL server over the given instance.
func NewServer(instance *tablekit.Instance, authConfig *AuthConfig) *Server {
	return &Server{
		instance:   instance,
		authConfig: authConfig,
		done:       make(chan struct{}),
	}
}

// Start begins listening for connections on the specified address.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener

	log.Printf("SQL Server listening on %s", addr)

	go s.acceptLoop()
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	return nil
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) authRequired() bool {
	return s.authConfig != nil && s.authConfig.Enabled
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				log.Printf("Accept error: %v", err)
				continue
			}
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	log.Printf("Client connected: %s", conn.RemoteAddr())

	state := &ConnectionState{}
	reader := bufio.NewReader(conn)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		// Read until newline (one query per line)
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				log.Printf("Read error from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}

		// Handle special commands
		if strings.ToLower(query) == "quit" || strings.ToLower(query) == "exit" {
			log.Printf("Client disconnected: %s", conn.RemoteAddr())
			return
		}

		var response Response
		switch {
		case strings.HasPrefix(strings.ToUpper(query), "AUTH "):
			response = s.handleAuth(query, state)

		case s.authRequired() && !state.IsAuthenticated():
			response = Response{
				Success: false,
				Error:   "authentication required: send AUTH JWT <token>",
			}

		default:
			response = s.executeQuery(query)
		}

		data, err := EncodeResponse(response)
		if err != nil {
			log.Printf("Failed to encode response: %v", err)
			continue
		}

		_, err = conn.Write(data)
		if err != nil {
			log.Printf("Write error to %s: %v", conn.RemoteAddr(), err)
			return
		}
	}
}

func (s *Server) executeQuery(query string) Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	start := time.Now()

	if isQuery(query) {
		qr, err := s.runQuery(ctx, query)
		if err != nil {
			return Response{Success: false, Error: err.Error()}
		}
		qr.TimeMs = float64(time.Since(start).Microseconds()) / 1000
		data, _ := json.Marshal(qr)
		return Response{
			Success: true,
			Type:    "query",
			Result:  data,
		}
	}

	result, err := s.instance.Handle.ExecContext(ctx, query)
	if err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	affected, _ := result.RowsAffected()
	er := ExecResponse{
		RowsAffected: affected,
		TimeMs:       float64(time.Since(start).Microseconds()) / 1000,
	}
	data, _ := json.Marshal(er)
	return Response{
		Success: true,
		Type:    "exec",
		Result:  data,
	}
}

func (s *Server) runQuery(ctx context.Context, query string) (QueryResponse, error) {
	rows, err := s.instance.Handle.QueryContext(ctx, query)
	if err != nil {
		return QueryResponse{}, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return QueryResponse{}, err
	}

	qr := QueryResponse{Columns: columns, Data: [][]string{}}
	for rows.Next() {
		cells := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return QueryResponse{}, err
		}
		rendered := make([]string, len(columns))
		for i, cell := range cells {
			rendered[i] = renderCell(cell)
		}
		qr.Data = append(qr.Data, rendered)
	}
	if err := rows.Err(); err != nil {
		return QueryResponse{}, err
	}
	qr.RecordsRead = len(qr.Data)
	return qr, nil
}

// isQuery reports whether the statement produces a result set.
func isQuery(statement string) bool {
	fields := strings.Fields(strings.TrimSpace(statement))
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH", "SHOW", "DESCRIBE", "PRAGMA", "FROM", "EXPLAIN":
		return true
	default:
		return false
	}
}

func renderCell(v any) string {
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
