package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/logger"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/telegram"
)

// handleJoin reacts to the bot being added to a channel or group: the chat
// goes into the pending-confirmation map and the admin receives a private
// invitation to classify it.
func (b *Bot) handleJoin(m *tgbotapi.ChatMemberUpdated) {
	if m.NewChatMember.User == nil || m.NewChatMember.User.ID != b.msgr.SelfID() {
		return
	}
	if !memberJoined(m.OldChatMember.Status, m.NewChatMember.Status) {
		return
	}

	b.setPending(m.Chat.ID, pendingWaiting)
	logger.Info("nouveau canal détecté", logger.Fields{
		"chat":  m.Chat.ID,
		"title": m.Chat.Title,
	})
	logger.IncrCounter("channels.joined")

	title := m.Chat.Title
	if title == "" {
		title = b.msgr.ChatTitle(m.Chat.ID)
	}

	if !b.cfg.HasAdmin() {
		logger.Warn("ADMIN_ID non configuré, invitation impossible", logger.Fields{"chat": m.Chat.ID})
		return
	}

	if _, err := b.msgr.SendMessage(b.cfg.AdminID, telegram.FormatInvitation(title, m.Chat.ID)); err != nil {
		logger.Error("envoi invitation privée échoué", logger.Fields{"chat": m.Chat.ID}, err)
		// Fall back into the joined chat so the ID is at least visible.
		b.reply(m.Chat.ID, fmt.Sprintf("⚠️ Impossible d'envoyer l'invitation privée. Canal ID: %d", m.Chat.ID))
	}
}

// memberJoined reports whether a membership transition means the bot just
// entered the chat.
func memberJoined(oldStatus, newStatus string) bool {
	joinedNow := newStatus == "member" || newStatus == "administrator"
	wasOut := oldStatus == "" || oldStatus == "left" || oldStatus == "kicked"
	return joinedNow && wasOut
}
