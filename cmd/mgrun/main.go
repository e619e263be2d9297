// Command mgrun runs openCypher queries against a Memgraph server and
// prints the results as a table.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	mgclient "github.com/memgraph/mgclient-go"
)

var (
	flagHost     string
	flagPort     uint16
	flagUsername string
	flagPassword string
	flagInsecure bool
	flagVerbose  bool
)

func main() {
	// A .env in the working directory seeds the MEMGRAPH_* variables;
	// variables already present in the environment win.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "mgrun",
		Short:         "Run openCypher queries against a Memgraph server",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&flagHost, "host",
		envOr("MEMGRAPH_HOST", "localhost"), "server host")
	root.PersistentFlags().Uint16Var(&flagPort, "port",
		envPort("MEMGRAPH_PORT", 7687), "Bolt port")
	root.PersistentFlags().StringVar(&flagUsername, "username",
		os.Getenv("MEMGRAPH_USERNAME"), "username to authenticate with")
	root.PersistentFlags().StringVar(&flagPassword, "password",
		os.Getenv("MEMGRAPH_PASSWORD"), "password to authenticate with")
	root.PersistentFlags().BoolVar(&flagInsecure, "insecure", false,
		"connect without TLS")
	root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false,
		"log the session's protocol activity to stderr")

	root.AddCommand(newRunCommand(), newVersionCommand())

	if err := root.Execute(); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mgrun %s\n", mgclient.Version)
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envPort(key string, fallback uint16) uint16 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	p, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return fallback
	}
	return uint16(p)
}
