package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	mgclient "github.com/memgraph/mgclient-go"
)

func newRunCommand() *cobra.Command {
	var (
		paramsJSON string
		lazy       bool
	)
	cmd := &cobra.Command{
		Use:   "run \"QUERY\"",
		Short: "Execute a query and print its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(paramsJSON)
			if err != nil {
				return err
			}
			return runQuery(args[0], params, lazy)
		},
	}
	cmd.Flags().StringVar(&paramsJSON, "params", "",
		"query parameters as a JSON object, e.g. '{\"name\": \"Alice\"}'")
	cmd.Flags().BoolVar(&lazy, "lazy", false,
		"stream rows from the server instead of buffering the whole result")
	return cmd
}

func parseParams(raw string) (mgclient.Params, error) {
	if raw == "" {
		return nil, nil
	}
	var params mgclient.Params
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return nil, fmt.Errorf("parse --params: %w", err)
	}
	return params, nil
}

func runQuery(query string, params mgclient.Params, lazy bool) error {
	logger := slog.New(slog.DiscardHandler)
	if flagVerbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	sslMode := mgclient.SSLModeRequire
	if flagInsecure {
		sslMode = mgclient.SSLModeDisable
	}
	conn, err := mgclient.Connect(&mgclient.ConnectParams{
		Host:       flagHost,
		Port:       flagPort,
		Username:   flagUsername,
		Password:   flagPassword,
		ClientName: "mgrun/" + mgclient.Version,
		SSLMode:    sslMode,
		Lazy:       lazy,
		Autocommit: true,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	start := time.Now()
	columns, err := conn.Execute(query, params)
	if err != nil {
		return err
	}
	records, err := conn.FetchAll()
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	printResult(columns, records)
	printSuccess(fmt.Sprintf("%d row(s) in %s", len(records), elapsed.Round(time.Millisecond)))
	if info, err := conn.SummaryInfo(); err == nil && info != nil {
		printStats(info)
	}
	return nil
}
