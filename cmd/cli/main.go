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
	"github.com/tidwall/gjson"
)

var (
	baseURL string
	rawJSON bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "goinsight-cli",
		Short: "GoInsight CLI for running analyses against a live service",
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "http://localhost:8080", "Base URL of the goinsight service")
	rootCmd.PersistentFlags().BoolVar(&rawJSON, "json", false, "Print raw JSON responses")

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newRecordsCmd(),
		newSummaryCmd(),
		newStatsCmd(),
		newScoreCmd(),
		newHealthCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var (
		kind      string
		value     float64
		score     float64
		threshold float64
		dataID    int64
		details   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run an analysis",
		Long: `Run an analysis of the given kind against an inline value or a stored record.

Example: goinsight-cli analyze --kind statistical --value 42.5 --threshold 0.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{
				"analysis_kind":   kind,
				"value":           value,
				"include_details": details,
			}
			if cmd.Flags().Changed("score") {
				payload["score"] = score
			}
			if cmd.Flags().Changed("threshold") {
				payload["threshold"] = threshold
			}
			if cmd.Flags().Changed("data-id") {
				payload["data_id"] = dataID
			}

			body, err := call(http.MethodPost, "/api/v1/analysis", payload)
			if err != nil {
				return err
			}
			if rawJSON {
				fmt.Println(string(body))
				return nil
			}

			fmt.Printf("Kind: %s\n", gjson.GetBytes(body, "analysis_kind").String())
			fmt.Println("Metrics:")
			gjson.GetBytes(body, "metrics").ForEach(func(key, val gjson.Result) bool {
				fmt.Printf("  %s: %.4f\n", key.String(), val.Float())
				return true
			})
			fmt.Println("Insights:")
			gjson.GetBytes(body, "insights").ForEach(func(_, val gjson.Result) bool {
				fmt.Printf("  - %s\n", val.String())
				return true
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "default", "Analysis kind: statistical|trend|anomaly|default")
	cmd.Flags().Float64Var(&value, "value", 0, "Subject value to analyze")
	cmd.Flags().Float64Var(&score, "score", 0, "Subject score in [0,1]")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Optional score threshold")
	cmd.Flags().Int64Var(&dataID, "data-id", 0, "Analyze a stored record instead of an inline value")
	cmd.Flags().BoolVar(&details, "details", false, "Include source details in the response")

	return cmd
}

func newRecordsCmd() *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:   "records",
		Short: "List stored records",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/records?skip=%d&limit=%d", skip, limit)
			body, err := call(http.MethodGet, path, nil)
			if err != nil {
				return err
			}
			if rawJSON {
				fmt.Println(string(body))
				return nil
			}

			fmt.Printf("Total: %d\n", gjson.GetBytes(body, "total").Int())
			gjson.GetBytes(body, "items").ForEach(func(_, item gjson.Result) bool {
				fmt.Printf("%4d  %-24s value=%-10.2f score=%.2f\n",
					item.Get("id").Int(),
					item.Get("name").String(),
					item.Get("value").Float(),
					item.Get("score").Float())
				return true
			})
			return nil
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "Number of records to skip")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum records to return")

	return cmd
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show aggregate record summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := call(http.MethodGet, "/api/v1/records/summary", nil)
			if err != nil {
				return err
			}
			if rawJSON {
				fmt.Println(string(body))
				return nil
			}

			fmt.Printf("Count: %d\n", gjson.GetBytes(body, "count").Int())
			fmt.Printf("Avg:   %.4f\n", gjson.GetBytes(body, "avg_value").Float())
			fmt.Printf("Min:   %.4f\n", gjson.GetBytes(body, "min_value").Float())
			fmt.Printf("Max:   %.4f\n", gjson.GetBytes(body, "max_value").Float())
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show descriptive statistics over stored record values",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := call(http.MethodGet, "/api/v1/records/stats", nil)
			if err != nil {
				return err
			}
			if rawJSON {
				fmt.Println(string(body))
				return nil
			}

			for _, field := range []string{"count", "mean", "median", "std_dev", "variance", "min", "max", "q25", "q75"} {
				fmt.Printf("%-10s %v\n", field, gjson.GetBytes(body, field).Value())
			}
			return nil
		},
	}
}

func newScoreCmd() *cobra.Command {
	var quality, performance, reliability float64

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute a composite score from component scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := call(http.MethodPost, "/api/v1/score", map[string]any{
				"quality":     quality,
				"performance": performance,
				"reliability": reliability,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Score: %.4f\n", gjson.GetBytes(body, "score").Float())
			return nil
		},
	}

	cmd.Flags().Float64Var(&quality, "quality", 0, "Quality component in [0,1]")
	cmd.Flags().Float64Var(&performance, "performance", 0, "Performance component in [0,1]")
	cmd.Flags().Float64Var(&reliability, "reliability", 0, "Reliability component in [0,1]")

	return cmd
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check service health",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := call(http.MethodGet, "/health", nil)
			if err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", gjson.GetBytes(body, "status").String())
			return nil
		},
	}
}

// call issues a request against the service and returns the response body.
// Non-2xx responses are surfaced as errors carrying the server's error message.
func call(method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		msg := gjson.GetBytes(body, "error").String()
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)
	}
	return body, nil
}
