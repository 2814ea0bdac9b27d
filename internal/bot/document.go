package bot

import (
	"fmt"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/excel"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/logger"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/telegram"
)

// handleDocument imports an Excel workbook the admin sent in private chat.
// No command is needed; any document that looks like a workbook is imported.
func (b *Bot) handleDocument(msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		return
	}

	doc := msg.Document
	if !excel.IsExcelFile(doc.FileName, doc.MimeType) {
		return
	}

	logger.Info("fichier Excel détecté via Telegram", logger.Fields{"file": doc.FileName})
	b.reply(msg.Chat.ID, "📥 <b>Fichier Excel détecté! Téléchargement en cours...</b>")

	path, err := b.msgr.DownloadDocument(doc.FileID, doc.FileName, b.tmpDir)
	if err != nil {
		b.reply(msg.Chat.ID, "❌ <b>Erreur</b>: Impossible de télécharger le fichier.")
		logger.Error("téléchargement document échoué", logger.Fields{"file": doc.FileName}, err)
		return
	}
	defer os.Remove(path)

	b.reply(msg.Chat.ID, "⚙️ <b>Importation des prédictions...</b>")

	report, err := b.importer.ImportFile(path, true)
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ <b>Erreur importation Excel</b>: %v", err))
		logger.Error("importation Excel échouée", logger.Fields{"file": doc.FileName}, err)
		return
	}

	logger.IncrCounter("excel.telegram_imports")
	b.reply(msg.Chat.ID, telegram.FormatImportReport(report, b.preds.Stats(), "Telegram"))
	logger.Info("import Excel via Telegram réussi", logger.Fields{
		"file":     doc.FileName,
		"imported": report.Imported,
	})
}

// NotifyAutoImport is the watcher callback: it relays automatic import
// results to the admin.
func (b *Bot) NotifyAutoImport(fileName string, report *excel.Report, err error) {
	if !b.cfg.HasAdmin() {
		return
	}
	if err != nil {
		b.reply(b.cfg.AdminID, fmt.Sprintf("❌ Erreur import Excel automatique (%s): %v", fileName, err))
		return
	}
	b.reply(b.cfg.AdminID, telegram.FormatImportReport(report, b.preds.Stats(), "Projet"))
}
