package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/ledgerdash/internal/adapter/http/dto"
)

var (
	baseURL  string
	timeout  time.Duration
	currency string
	asJSON   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ledgerdash-cli",
		Short:         "LedgerDash CLI tool",
		Long:          `A command line interface for inspecting a LedgerDash server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the LedgerDash API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&currency, "currency", "EUR", "Currency used to display totals")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print raw JSON")

	rootCmd.AddCommand(ledgerCmd(), dashboardCmd(), accountsCmd(), transactionsCmd())
	return rootCmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check that balances match recorded cash flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkConsistency(cmd.OutOrStdout())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile every account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return reconcile(cmd.OutOrStdout())
		},
	})

	return cmd
}

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show dashboard stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showDashboard(cmd.OutOrStdout())
		},
	}
}

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listAccounts(cmd.OutOrStdout())
		},
	})

	return cmd
}

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Transaction operations",
	}

	var accountID, txnType, from, to string
	list := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			for key, val := range map[string]string{"account_id": accountID, "type": txnType, "from": from, "to": to} {
				if val != "" {
					q.Set(key, val)
				}
			}
			return listTransactions(cmd.OutOrStdout(), q)
		},
	}
	list.Flags().StringVar(&accountID, "account", "", "Only transactions touching this account")
	list.Flags().StringVar(&txnType, "type", "", "income, expense or transfer")
	list.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD)")
	list.Flags().StringVar(&to, "to", "", "Last day (YYYY-MM-DD)")

	cmd.AddCommand(list)
	return cmd
}

func checkConsistency(w io.Writer) error {
	var result dto.ConsistencyResponse
	status, err := getJSON("/api/v1/ledger/consistency", &result)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusConflict {
		return fmt.Errorf("consistency check failed with status %d", status)
	}

	if asJSON {
		return printJSON(w, result)
	}

	fmt.Fprintf(w, "Total balance:   %s\n", formatAmount(result.TotalBalance, currency))
	fmt.Fprintf(w, "Initial balance: %s\n", formatAmount(result.InitialBalance, currency))
	fmt.Fprintf(w, "Income:          %s\n", formatAmount(result.TotalIncome, currency))
	fmt.Fprintf(w, "Expenses:        %s\n", formatAmount(result.TotalExpenses, currency))

	if !result.Consistent {
		fmt.Fprintf(w, "Consistency check FAILED (drift %s)\n", formatAmount(result.Drift, currency))
		return fmt.Errorf("ledger is inconsistent")
	}

	fmt.Fprintln(w, "Consistency check PASSED")
	return nil
}

func reconcile(w io.Writer) error {
	var report dto.ReconciliationReportResponse
	if err := getOK("/api/v1/ledger/reconciliation", &report); err != nil {
		return err
	}

	if asJSON {
		return printJSON(w, report)
	}

	fmt.Fprintf(w, "Reconciled %d of %d accounts\n", report.ReconciledAccounts, report.TotalAccounts)
	if len(report.Discrepancies) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ACCOUNT\tRECORDED\tCALCULATED\tDIFFERENCE")
	for _, d := range report.Discrepancies {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.AccountID,
			formatAmount(d.RecordedBalance, currency),
			formatAmount(d.CalculatedBalance, currency),
			formatAmount(d.Difference, currency))
	}
	return tw.Flush()
}

func showDashboard(w io.Writer) error {
	var stats dto.DashboardStatsResponse
	if err := getOK("/api/v1/dashboard/stats", &stats); err != nil {
		return err
	}

	if asJSON {
		return printJSON(w, stats)
	}

	fmt.Fprintf(w, "Total balance:    %s\n", formatAmount(stats.TotalBalance, currency))
	fmt.Fprintf(w, "Monthly income:   %s\n", formatAmount(stats.MonthlyIncome, currency))
	fmt.Fprintf(w, "Monthly expenses: %s\n", formatAmount(stats.MonthlyExpenses, currency))
	fmt.Fprintf(w, "Net cash flow:    %s\n", formatAmount(stats.NetCashFlow, currency))

	if len(stats.RecentTransactions) > 0 {
		fmt.Fprintln(w, "\nRecent transactions:")
		return writeTransactions(w, stats.RecentTransactions)
	}
	return nil
}

func listAccounts(w io.Writer) error {
	var resp dto.ListAccountsResponse
	if err := getOK("/api/v1/accounts", &resp); err != nil {
		return err
	}

	if asJSON {
		return printJSON(w, resp)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tBALANCE\tACTIVE")
	for _, a := range resp.Accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", a.ID, truncate(a.Name, 24), a.Type, formatAmount(a.Balance, a.Currency), a.IsActive)
	}
	return tw.Flush()
}

func listTransactions(w io.Writer, q url.Values) error {
	path := "/api/v1/transactions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp dto.ListTransactionsResponse
	if err := getOK(path, &resp); err != nil {
		return err
	}

	if asJSON {
		return printJSON(w, resp)
	}

	return writeTransactions(w, resp.Transactions)
}

func writeTransactions(w io.Writer, txns []*dto.TransactionResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tAMOUNT\tDESCRIPTION")
	for _, t := range txns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Date.Format(dto.DateLayout), t.Type, formatAmount(t.Amount, currency), truncate(t.Description, 32))
	}
	return tw.Flush()
}

// getOK fetches path and fails on any non-200 status.
func getOK(path string, out any) error {
	status, err := getJSON(path, out)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("request %s failed with status %d", path, status)
	}
	return nil
}

func getJSON(path string, out any) (int, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return 0, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusConflict {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return resp.StatusCode, fmt.Errorf("%s: %s", apiErr.Error, apiErr.Message)
		}
		return resp.StatusCode, nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
	}
	return resp.StatusCode, nil
}

// formatAmount renders amount in the display format of code. Unknown
// currencies fall back to the plain decimal.
func formatAmount(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}

	factor := decimal.New(1, int32(cur.Fraction))
	return money.New(amount.Mul(factor).Round(0).IntPart(), cur.Code).Display()
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

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
