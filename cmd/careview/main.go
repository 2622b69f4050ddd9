// careview is a terminal client for the careview API. It keeps the session
// in the user config directory (memory fallback when that is unavailable)
// and verifies it against the server before protected operations.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/careview/careview/pkg/client"
)

var (
	serverURL     string
	retryAttempts int
	retryInterval int
)

func newClient() *client.Client {
	var store client.TokenStore
	if path, err := client.DefaultSessionPath(); err == nil {
		store = client.NewFallbackStore(client.NewFileStore(path), client.NewMemoryStore())
	} else {
		store = client.NewMemoryStore()
	}
	policy := client.RetryPolicy{
		MaxAttempts: retryAttempts,
		Interval:    secondsToDuration(retryInterval),
	}
	return client.New(serverURL, store, policy)
}

var rootCmd = &cobra.Command{
	Use:   "careview",
	Short: "Client for the careview review platform",
}

func main() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("CAREVIEW_SERVER", "http://localhost:8080"), "API base URL")
	rootCmd.PersistentFlags().IntVar(&retryAttempts, "retry-attempts", 3, "max attempts for transient failures")
	rootCmd.PersistentFlags().IntVar(&retryInterval, "retry-interval", 1, "seconds between attempts")

	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd, verifyCmd, reviewCmd, reviewsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
