// Package config resolves the bot's configuration.
//
// The static part is the environment-variable surface of the deployment
// (API_ID, API_HASH, BOT_TOKEN, ADMIN_ID, PORT, RENDER_DEPLOYMENT and the
// two channel defaults), optionally seeded from a local .env file. The
// dynamic part is the Runtime channel configuration the admin changes with
// /set_stat and /set_display, persisted to bot_config.json with the YAML
// store as a backup sink. Load precedence is JSON file > YAML store >
// environment.
package config
