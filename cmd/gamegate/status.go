// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// ProbeStatus holds the result of one health probe.
type ProbeStatus struct {
	Probe  string `json:"probe"`
	OK     bool   `json:"ok"`
	Status int    `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	addr       string
	jsonOutput bool
	timeout    time.Duration
}

// probeOrder is the display order of probes.
var probeOrder = []string{"liveness", "readiness"}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show status of a running gamegate server",
		Long: `Show the health of a running gamegate server by querying its
liveness and readiness probes on the metrics address.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.addr, "metrics-addr", "127.0.0.1:9100", "metrics/health HTTP address of the server")
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", 2*time.Second, "per-probe timeout")

	return cmd
}

// runStatus executes the status command. It fails if any probe fails.
func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	client := &http.Client{Timeout: cfg.timeout}
	statuses := make(map[string]ProbeStatus, len(probeOrder))
	for _, probe := range probeOrder {
		statuses[probe] = queryProbe(cmd.Context(), client, cfg.addr, probe)
	}

	if cfg.jsonOutput {
		output, err := formatStatusJSON(statuses)
		if err != nil {
			return err
		}
		cmd.Println(output)
	} else {
		cmd.Print(formatStatusTable(statuses))
	}

	for _, probe := range probeOrder {
		if !statuses[probe].OK {
			return oops.Code("SERVER_UNHEALTHY").With("probe", probe).Errorf("%s probe failed", probe)
		}
	}
	return nil
}

// queryProbe requests /healthz/{probe} from the server at addr.
func queryProbe(ctx context.Context, client *http.Client, addr, probe string) ProbeStatus {
	status := ProbeStatus{Probe: probe}

	base := addr
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/healthz/"+probe, http.NoBody)
	if err != nil {
		status.Error = fmt.Sprintf("invalid address: %v", err)
		return status
	}

	resp, err := client.Do(req)
	if err != nil {
		status.Error = fmt.Sprintf("failed to connect: %v", err)
		return status
	}
	defer func() { _ = resp.Body.Close() }()

	status.Status = resp.StatusCode
	status.OK = resp.StatusCode == http.StatusOK
	return status
}

// formatStatusTable formats the status as a human-readable table.
func formatStatusTable(statuses map[string]ProbeStatus) string {
	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "PROBE\tSTATUS\tDETAIL")
	_, _ = fmt.Fprintln(w, "-----\t------\t------")

	for _, probe := range probeOrder {
		s := statuses[probe]
		switch {
		case s.OK:
			_, _ = fmt.Fprintf(w, "%s\tok\t%d\n", probe, s.Status)
		case s.Error != "":
			_, _ = fmt.Fprintf(w, "%s\tfailing\t%s\n", probe, s.Error)
		default:
			_, _ = fmt.Fprintf(w, "%s\tfailing\t%d\n", probe, s.Status)
		}
	}

	_ = w.Flush()
	return buf.String()
}

// formatStatusJSON formats the status as JSON.
func formatStatusJSON(statuses map[string]ProbeStatus) (string, error) {
	data, err := json.MarshalIndent(statuses, "", "  ")
	if err != nil {
		return "", oops.Code("STATUS_FORMAT_FAILED").Wrap(err)
	}
	return string(data), nil
}
