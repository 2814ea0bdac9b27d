package bot

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/deploy"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/logger"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/telegram"
)

const adminOnlyChannels = "❌ Seul l'administrateur peut configurer les canaux"

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	cmd := msg.Command()
	logger.IncrCounter("commands." + cmd)
	logger.Debug("commande reçue", logger.Fields{
		"command": cmd,
		"from":    msg.From.ID,
		"chat":    msg.Chat.ID,
	})

	switch cmd {
	case "start":
		b.cmdStart(msg)
	case "status":
		b.cmdStatus(msg)
	case "sta":
		b.cmdSta(msg)
	case "ni":
		b.cmdNi(msg)
	case "reset":
		b.cmdReset(msg)
	case "deploy":
		b.cmdDeploy(msg)
	case "excel_clear":
		b.cmdExcelClear(msg)
	case "test_invite":
		b.cmdTestInvite(msg)
	case "set_stat":
		b.cmdSetChannel(msg, true, false)
	case "set_display":
		b.cmdSetChannel(msg, false, false)
	case "force_set_stat":
		b.cmdSetChannel(msg, true, true)
	case "force_set_display":
		b.cmdSetChannel(msg, false, true)
	}
}

func (b *Bot) cmdStart(msg *tgbotapi.Message) {
	b.reply(msg.Chat.ID, telegram.FormatWelcome())
	if b.cfg.HasAdmin() && msg.From.ID == b.cfg.AdminID {
		b.reply(msg.Chat.ID, "🔧 Test de connectivité : Je peux vous envoyer des messages privés !")
	}
}

func (b *Bot) cmdStatus(msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		return
	}
	b.reply(msg.Chat.ID, telegram.FormatStatus(telegram.StatusInfo{
		StatChannel:        b.runtime.StatChannel(),
		DisplayChannel:     b.runtime.DisplayChannel(),
		PredictionInterval: b.runtime.PredictionInterval(),
		ConfigSaved:        b.runtime.Saved(),
		ActivePredictions:  b.preds.ActiveCount(),
		TotalPredictions:   b.preds.Stats().Total,
	}))
}

func (b *Bot) cmdSta(msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		return
	}
	b.reply(msg.Chat.ID, telegram.FormatSta(
		b.preds.Stats(),
		b.runtime.StatChannel(),
		b.runtime.DisplayChannel(),
	))
}

func (b *Bot) cmdNi(msg *tgbotapi.Message) {
	b.reply(msg.Chat.ID, telegram.FormatNi(
		b.runtime.StatChannel(),
		b.runtime.DisplayChannel(),
		b.preds.ActiveCount(),
		b.runtime.PredictionInterval(),
	))
}

func (b *Bot) cmdReset(msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		return
	}

	if _, err := b.preds.Clear(); err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ Erreur lors de la réinitialisation: %v", err))
		return
	}
	if b.db != nil {
		if err := b.db.Reset(); err != nil {
			b.reply(msg.Chat.ID, fmt.Sprintf("❌ Erreur lors de la réinitialisation: %v", err))
			return
		}
	}
	// The store reset dropped the backup channel config; write it back.
	if err := b.runtime.Persist(); err != nil {
		logger.Warn("re-sauvegarde de la configuration échouée", logger.Fields{"error": err.Error()})
	}

	b.reply(msg.Chat.ID, telegram.FormatResetDone())
	logger.Info("données réinitialisées par l'admin", nil)
}

func (b *Bot) cmdDeploy(msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		b.reply(msg.Chat.ID, "❌ Seul l'administrateur peut créer un package de déploiement")
		return
	}

	b.reply(msg.Chat.ID, "📦 <b>Création du package en cours...</b>")

	path, size, err := deploy.BuildPackage(b.baseDir, b.tmpDir)
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ Erreur création zip: %v", err))
		return
	}
	defer os.Remove(path)

	sizeMB := float64(size) / (1024 * 1024)
	b.reply(msg.Chat.ID, fmt.Sprintf("✅ <b>Package créé: %.2f MB</b>\n📤 Envoi en cours...", sizeMB))

	caption := fmt.Sprintf("📦 <b>Package créé avec succès!</b>\n\n💾 Taille: %.2f MB\n🚀 Prêt pour déploiement!", sizeMB)
	if err := b.msgr.SendDocument(msg.Chat.ID, path, caption); err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ Erreur envoi package: %v", err))
		return
	}
	logger.Info("package de déploiement envoyé", logger.Fields{"size_mb": sizeMB})
}

func (b *Bot) cmdExcelClear(msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		return
	}
	removed, err := b.preds.Clear()
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ Erreur: %v", err))
		return
	}
	b.reply(msg.Chat.ID, telegram.FormatExcelCleared(removed))
	logger.Info("prédictions Excel effacées", logger.Fields{"removed": removed})
}

func (b *Bot) cmdTestInvite(msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		return
	}
	b.reply(msg.Chat.ID, telegram.FormatInvitation("Canal de test", -1001234567890))
}

// cmdSetChannel handles /set_stat, /set_display and their force variants.
func (b *Bot) cmdSetChannel(msg *tgbotapi.Message, statChannel, forced bool) {
	// Configuration happens in the private chat with the admin.
	if !forced && !msg.Chat.IsPrivate() {
		return
	}
	if !b.isAdmin(msg.From.ID) {
		b.reply(msg.Chat.ID, adminOnlyChannels)
		return
	}

	channelID, err := strconv.ParseInt(strings.TrimSpace(msg.CommandArguments()), 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "❌ ID de canal invalide. Exemple: /set_stat -1001234567890")
		return
	}

	if !forced {
		if _, waiting := b.pendingState(channelID); !waiting {
			b.reply(msg.Chat.ID, "❌ Ce canal n'est pas en attente de configuration")
			return
		}
	}

	var kind, state string
	if statChannel {
		kind, state = "statistiques", pendingConfiguredStat
		err = b.runtime.SetStatChannel(channelID)
	} else {
		kind, state = "diffusion", pendingConfiguredOutput
		err = b.runtime.SetDisplayChannel(channelID)
	}
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ Erreur sauvegarde configuration: %v", err))
		return
	}
	b.setPending(channelID, state)

	title := b.msgr.ChatTitle(channelID)
	b.reply(msg.Chat.ID, telegram.FormatChannelConfigured(kind, title, channelID, forced))
	logger.Info("canal configuré", logger.Fields{
		"kind":   kind,
		"chat":   channelID,
		"forced": forced,
	})
}
