// Package bot dispatches Telegram updates to the prediction workflow.
//
// Incoming updates split four ways: chat membership changes drive the
// channel invitation flow, private documents from the admin feed the Excel
// importer, commands drive administration, and posts in the configured
// statistics channel drive prediction launches and verification.
package bot
