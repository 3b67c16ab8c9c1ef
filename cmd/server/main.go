package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/viper"

	"github.com/tablekit/tablekit"
)

// Version is set at build time via -ldflags
var Version = "dev"

func loadConfig(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("port", 3306)
	v.SetDefault("db", "")
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.audience", "")
	v.SetDefault("auth.name_claim", "name")
	v.SetDefault("auth.email_claim", "email")

	v.SetEnvPrefix("TABLEKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		v.SetConfigName("tablekit-server")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/tablekit")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	return v, nil
}

func main() {
	configFile := flag.String("config", "", "Config file path (optional)")
	port := flag.Int("port", 0, "TCP port to listen on (overrides config)")
	dbPath := flag.String("db", "", "Database file (overrides config; memory if empty)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("tablekit SQL Server v%s\n", Version)
		return
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Set("port", *port)
	}
	if *dbPath != "" {
		cfg.Set("db", *dbPath)
	}

	// Open the backend
	var instance *tablekit.Instance
	if cfg.GetString("db") == "" {
		log.Println("Using in-memory database")
		instance, err = tablekit.OpenMemory()
	} else {
		log.Printf("Using database file: %s", cfg.GetString("db"))
		instance, err = tablekit.OpenFile(cfg.GetString("db"))
	}
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer instance.Close()

	var authConfig *AuthConfig
	if cfg.GetBool("auth.enabled") {
		authConfig = &AuthConfig{
			Enabled:    true,
			JWTSecret:  cfg.GetString("auth.jwt_secret"),
			Issuer:     cfg.GetString("auth.issuer"),
			Audience:   cfg.GetString("auth.audience"),
			NameClaim:  cfg.GetString("auth.name_claim"),
			EmailClaim: cfg.GetString("auth.email_claim"),
		}
		log.Println("Authentication enabled")
	}

	server := NewServer(instance, authConfig)
	addr := fmt.Sprintf(":%d", cfg.GetInt("port"))

	if err := server.Start(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	// Print banner
	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Printf("║   tablekit SQL Server v%-14s ║\n", Version)
	fmt.Println("║   Map-filter layer over database/sql  ║")
	fmt.Println("╚═══════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Listening on port %d\n", cfg.GetInt("port"))
	fmt.Println("Send SQL queries (one per line), 'quit' to disconnect")
	fmt.Println()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	server.Stop()
	log.Println("Server stopped")
}
