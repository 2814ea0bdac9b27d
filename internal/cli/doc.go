// Package cli defines the prediction-bot command line interface.
//
// The root command wires configuration, persistence, the Excel importer and
// watcher, the Telegram client, the update dispatcher and the health server,
// then blocks until SIGINT or SIGTERM.
package cli
