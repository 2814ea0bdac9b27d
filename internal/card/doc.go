// Package card parses game result messages from the statistics channel.
//
// A result message carries a game number tag (#N881) and two parenthesized
// card groups, player first then banker, e.g. "#N881. (3♦️9♥️)(7♦️8♣️)".
// Hands are scored with baccarat totals and the higher total wins; equal
// totals are a tie that matches neither side. Messages still being edited by
// the source channel (⏰/▶ markers, missing groups) are treated as not final.
package card
