package card

import (
	"regexp"
	"strconv"
	"strings"
)

// Winner identifies the side a prediction expects to win.
type Winner string

const (
	WinnerPlayer Winner = "Joueur"
	WinnerBanker Winner = "Banquier"
	WinnerTie    Winner = "Égalité"
)

var (
	gameNumberRe = regexp.MustCompile(`(?i)#n\s*(\d+)`)
	groupRe      = regexp.MustCompile(`\(([^)]*)\)`)
	cardRe       = regexp.MustCompile(`(?i)(10|[2-9AJQK])\s*[♠♥♦♣]`)
)

// Markers present on result messages that are still being edited by the
// source channel. Such messages must not be used for verification.
var progressMarkers = []string{"⏰", "▶", "🕐"}

// ExtractGameNumber parses the game number from a source channel message
// (e.g. "#N881" or "#n 881"). The second return value is false when the
// message is not a game result.
func ExtractGameNumber(text string) (int, bool) {
	m := gameNumberRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Hand holds the card ranks of one side of a game.
type Hand struct {
	Ranks []string
}

// Total returns the baccarat value of the hand: A=1, 2-9 pip value,
// 10/J/Q/K=0, summed mod 10.
func (h Hand) Total() int {
	total := 0
	for _, r := range h.Ranks {
		total += rankValue(r)
	}
	return total % 10
}

func rankValue(rank string) int {
	switch strings.ToUpper(rank) {
	case "A":
		return 1
	case "10", "J", "Q", "K":
		return 0
	default:
		n, err := strconv.Atoi(rank)
		if err != nil {
			return 0
		}
		return n
	}
}

// ParseHands extracts the two card groups from a result message, player
// first then banker. ok is false when fewer than two groups with cards are
// present.
func ParseHands(text string) (player, banker Hand, ok bool) {
	groups := groupRe.FindAllStringSubmatch(text, -1)
	var hands []Hand
	for _, g := range groups {
		h := parseHand(g[1])
		if len(h.Ranks) > 0 {
			hands = append(hands, h)
		}
	}
	if len(hands) < 2 {
		return Hand{}, Hand{}, false
	}
	return hands[0], hands[1], true
}

func parseHand(group string) Hand {
	var h Hand
	for _, m := range cardRe.FindAllStringSubmatch(group, -1) {
		h.Ranks = append(h.Ranks, strings.ToUpper(m[1]))
	}
	return h
}

// IsFinal reports whether a result message is complete: no in-progress edit
// marker and both card groups present.
func IsFinal(text string) bool {
	for _, marker := range progressMarkers {
		if strings.Contains(text, marker) {
			return false
		}
	}
	_, _, ok := ParseHands(text)
	return ok
}

// ResultWinner determines the winning side of a final result message. ok is
// false when the message carries no complete result.
func ResultWinner(text string) (Winner, bool) {
	player, banker, ok := ParseHands(text)
	if !ok {
		return "", false
	}
	switch {
	case player.Total() > banker.Total():
		return WinnerPlayer, true
	case banker.Total() > player.Total():
		return WinnerBanker, true
	default:
		return WinnerTie, true
	}
}

// ParseWinner normalizes a winner label from the Excel schedule
// ("Joueur"/"joueur"/"J", "Banquier"/"banquier"/"B").
func ParseWinner(label string) (Winner, bool) {
	switch {
	case label == "":
		return "", false
	case strings.HasPrefix(strings.ToLower(strings.TrimSpace(label)), "j"):
		return WinnerPlayer, true
	case strings.HasPrefix(strings.ToLower(strings.TrimSpace(label)), "b"):
		return WinnerBanker, true
	default:
		return "", false
	}
}
