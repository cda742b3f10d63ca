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
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bankledger-cli",
		Short: "Bank ledger CLI tool",
		Long:  `A command line interface for interacting with the bank ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the bank ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	debitCmd := &cobra.Command{
		Use:   "debit <account-id> <amount> [description]",
		Short: "Debit an account",
		Args:  cobra.RangeArgs(2, 3),
		Run: func(cmd *cobra.Command, args []string) {
			description := ""
			if len(args) == 3 {
				description = args[2]
			}
			movement("debit", args[0], args[1], description)
		},
	}

	creditCmd := &cobra.Command{
		Use:   "credit <account-id> <amount> [description]",
		Short: "Credit an account",
		Args:  cobra.RangeArgs(2, 3),
		Run: func(cmd *cobra.Command, args []string) {
			description := ""
			if len(args) == 3 {
				description = args[2]
			}
			movement("credit", args[0], args[1], description)
		},
	}

	transferCmd := &cobra.Command{
		Use:   "transfer <source-id> <destination-id> <amount>",
		Short: "Transfer between two accounts",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			transfer(args[0], args[1], args[2])
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history <account-id>",
		Short: "Show paginated account history",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			page, _ := cmd.Flags().GetInt("page")
			size, _ := cmd.Flags().GetInt("size")
			history(args[0], page, size)
		},
	}
	historyCmd.Flags().Int("page", 0, "Page number")
	historyCmd.Flags().Int("size", 10, "Page size")

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	}

	ledgerCmd.AddCommand(consistencyCmd)
	rootCmd.AddCommand(debitCmd, creditCmd, transferCmd, historyCmd, ledgerCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func postJSON(path string, payload any) []byte {
	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(respBody))
		os.Exit(1)
	}

	return respBody
}

func getJSON(path string) []byte {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}

func movement(kind, accountID, amount, description string) {
	body := postJSON("/api/v1/accounts/"+accountID+"/"+kind, map[string]any{
		"amount":      json.Number(amount),
		"description": description,
	})

	fmt.Printf("%s booked\n%s\n", kind, string(body))
}

func transfer(sourceID, destinationID, amount string) {
	postJSON("/api/v1/transfers", map[string]any{
		"source_account_id":      sourceID,
		"destination_account_id": destinationID,
		"amount":                 json.Number(amount),
	})

	fmt.Println("transfer booked")
}

func history(accountID string, page, size int) {
	body := getJSON(fmt.Sprintf("/api/v1/accounts/%s/history?page=%d&size=%d", accountID, page, size))

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Account: %v\n", result["account_id"])
	fmt.Printf("Balance: %v\n", result["balance"])
	fmt.Printf("Page %v of %v (size %v)\n", result["current_page"], result["total_pages"], result["page_size"])

	if operations, ok := result["operations"].([]any); ok {
		for _, op := range operations {
			if o, ok := op.(map[string]any); ok {
				fmt.Printf("  %v %v %v %q\n", o["operation_date"], o["type"], o["amount"], o["description"])
			}
		}
	}
}

func checkConsistency() {
	body := getJSON("/api/v1/ledger/consistency")

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if consistent, ok := result["consistent"].(bool); ok && consistent {
		fmt.Println("Consistency check PASSED")
		return
	}

	fmt.Printf("Consistency check FAILED\nDrifted accounts: %v\nTotal drift: %v\n",
		result["drifted_accounts"], result["total_drift"])
	os.Exit(1)
}
