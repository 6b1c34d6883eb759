package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bibbank/demoscore/pkg/tlsutil"
)

type readiness struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks"`
}

func newCheckCmd() *cobra.Command {
	var (
		baseURL string
		caFile  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that a running score service is ready",
		Long: `Calls GET /readyz on --url and fails unless the service reports ready.

Pass --ca with the ca.pem written by "scorectl certs" to reach a listener
serving a development certificate.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := &http.Client{Timeout: timeout}
			if caFile != "" {
				tlsCfg, err := tlsutil.ClientTLSConfig(caFile)
				if err != nil {
					return err
				}
				client.Transport = &http.Transport{TLSClientConfig: tlsCfg}
			}

			ready, status, err := fetchReadiness(cmd.Context(), client, baseURL)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("%s is %s (HTTP %d): %v", ready.Service, ready.Status, status, ready.Checks)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", ready.Service, ready.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "base URL of the score service")
	cmd.Flags().StringVar(&caFile, "ca", "", "PEM CA bundle to trust for https URLs")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")
	return cmd
}

func fetchReadiness(ctx context.Context, client *http.Client, baseURL string) (readiness, int, error) {
	url := strings.TrimRight(baseURL, "/") + "/readyz"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return readiness{}, 0, fmt.Errorf("building request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return readiness{}, 0, fmt.Errorf("calling %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return readiness{}, 0, fmt.Errorf("reading %s: %w", url, err)
	}
	var ready readiness
	if err := json.Unmarshal(body, &ready); err != nil {
		return readiness{}, resp.StatusCode, fmt.Errorf("decoding %s (HTTP %d): %w", url, resp.StatusCode, err)
	}
	return ready, resp.StatusCode, nil
}
