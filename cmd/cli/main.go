package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tripfund-cli",
		Short: "TripFund CLI tool",
		Long:  `A command line interface for interacting with the TripFund API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the TripFund API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(balancesCmd())
	rootCmd.AddCommand(settlementCmd())
	rootCmd.AddCommand(statisticsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func balancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balances <trip-id>",
		Short: "Show member balances for a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := apiGet(fmt.Sprintf("/api/v1/trips/%s/balances", args[0]))
			if err != nil {
				return err
			}

			var result struct {
				Balances []struct {
					MemberID    string `json:"member_id"`
					DisplayName string `json:"display_name"`
					Role        string `json:"role"`
					Balance     string `json:"balance"`
				} `json:"balances"`
			}
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Printf("%-28s %-8s %12s\n", "MEMBER", "ROLE", "BALANCE")
			for _, b := range result.Balances {
				fmt.Printf("%-28s %-8s %12s\n", truncate(b.DisplayName, 28), b.Role, b.Balance)
			}
			return nil
		},
	}
}

func settlementCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settlement <trip-id>",
		Short: "Show the settlement plan for a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := apiGet(fmt.Sprintf("/api/v1/trips/%s/settlement", args[0]))
			if err != nil {
				return err
			}

			var result struct {
				Settlements []struct {
					From struct {
						DisplayName string `json:"display_name"`
					} `json:"from"`
					To struct {
						DisplayName string `json:"display_name"`
					} `json:"to"`
					Amount string `json:"amount"`
				} `json:"settlements"`
			}
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if len(result.Settlements) == 0 {
				fmt.Println("Nothing to settle")
				return nil
			}
			for _, s := range result.Settlements {
				fmt.Printf("%s -> %s: %s\n", s.From.DisplayName, s.To.DisplayName, s.Amount)
			}
			return nil
		},
	}
}

func statisticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <trip-id>",
		Short: "Show expense statistics for a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := apiGet(fmt.Sprintf("/api/v1/trips/%s/statistics", args[0]))
			if err != nil {
				return err
			}

			var result map[string]any
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			printJSON(result)
			return nil
		},
	}
}

func apiGet(path string) ([]byte, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to format output: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
