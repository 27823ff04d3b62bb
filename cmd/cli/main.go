package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/contractledger/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "contractledger-cli",
		Short: "Contract ledger CLI tool",
		Long:  `A command line interface for the contract ledger engine API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the contract ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(visitCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(totalsCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func visitCmd() *cobra.Command {
	var thru string

	cmd := &cobra.Command{
		Use:   "visit <schedule-id>",
		Short: "Run one ledger pass over a schedule",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			body, _ := json.Marshal(map[string]string{"thru": thru})
			postJSON(fmt.Sprintf("%s/api/v1/schedules/%s/visit", baseURL, args[0]), body)
		},
	}

	cmd.Flags().StringVar(&thru, "thru", time.Now().UTC().Format("2006-01-02"), "Visit thru date (YYYY-MM-DD)")

	return cmd
}

func batchCmd() *cobra.Command {
	var thru string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Visit every schedule needing a pass",
		Run: func(cmd *cobra.Command, args []string) {
			body, _ := json.Marshal(map[string]string{"thru": thru})
			postJSON(baseURL+"/api/v1/batch/runs", body)
		},
	}

	cmd.Flags().StringVar(&thru, "thru", time.Now().UTC().Format("2006-01-02"), "Visit thru date (YYYY-MM-DD)")

	return cmd
}

func totalsCmd() *cobra.Command {
	var (
		thru    string
		account string
	)

	cmd := &cobra.Command{
		Use:   "totals <schedule-id>",
		Short: "Sum the posted lines of a schedule",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			target := fmt.Sprintf("%s/api/v1/schedules/%s/totals?thru=%s", baseURL, args[0], thru)
			if account != "" {
				target += "&account=" + account
			}

			getJSON(target)
		},
	}

	cmd.Flags().StringVar(&thru, "thru", time.Now().UTC().Format("2006-01-02"), "Sum thru date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&account, "account", "", "Restrict to one ledger account")

	return cmd
}

func migrateCmd() *cobra.Command {
	var (
		databaseURL    string
		migrationsPath string
	)

	cmd := &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Run database migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "up":
				return postgres.RunMigrations(databaseURL, migrationsPath)
			case "down":
				return postgres.RunMigrationsDown(databaseURL, migrationsPath)
			default:
				return fmt.Errorf("unknown direction %q, want up or down", args[0])
			}
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL URL")
	cmd.Flags().StringVar(&migrationsPath, "migrations", "migrations", "Path to migration files")

	return cmd
}

func postJSON(target string, body []byte) {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Post(target, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func getJSON(target string) {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(target)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to render response: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(out))
}
