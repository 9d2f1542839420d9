package main

import (
	"os"

	"github.com/alfredjeanlab/eventlog/internal/client"
	"github.com/alfredjeanlab/eventlog/internal/config"
)

var (
	serverURL   string
	serverToken string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", os.Getenv(config.Prefix+"SERVER"),
		"talk to a running evlog server at this URL instead of the database")
	rootCmd.PersistentFlags().StringVar(&serverToken, "token", os.Getenv(config.Prefix+"TOKEN"),
		"bearer token for --server")
}

// remote returns an HTTP client when --server is set, nil otherwise.
func remote() *client.HTTPClient {
	if serverURL == "" {
		return nil
	}
	return client.NewHTTPClient(serverURL, serverToken)
}
