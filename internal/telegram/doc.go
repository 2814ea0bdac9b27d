// Package telegram provides the Bot API transport and message formatting.
//
// The client wraps go-telegram-bot-api with long polling, exponential-backoff
// retries on sends and edits, document transfer for Excel uploads and the
// deployment package, and a dry-run mode that logs instead of sending. The
// formatter renders every user-visible text: the published prediction line,
// its edited status, and the admin command replies.
package telegram
