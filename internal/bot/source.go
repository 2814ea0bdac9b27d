package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/card"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/logger"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/telegram"
)

// handleChannelPost processes a message from the statistics channel: launch
// the closest pending prediction, then verify the launched ones against the
// result.
func (b *Bot) handleChannelPost(msg *tgbotapi.Message) {
	statChannel := b.runtime.StatChannel()
	if statChannel == 0 || msg.Chat.ID != statChannel {
		return
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	gameNumber, ok := card.ExtractGameNumber(text)
	if !ok {
		return
	}
	logger.Debug("résultat reçu", logger.Fields{"game": gameNumber})

	b.launchPrediction(gameNumber)
	b.verifyPredictions(gameNumber, text)
	logger.SetGauge("predictions.pending", float64(b.preds.Stats().Pending))
}

// launchPrediction publishes the pending prediction closest ahead of
// gameNumber, if any.
func (b *Bot) launchPrediction(gameNumber int) {
	displayChannel := b.runtime.DisplayChannel()
	if displayChannel == 0 {
		logger.Warn("canal de diffusion non configuré, lancement impossible", nil)
		return
	}

	p, ok := b.preds.FindClose(gameNumber)
	if !ok {
		return
	}

	line := telegram.FormatPrediction(p.Numero, p.Victoire)
	messageID, err := b.msgr.SendMessage(displayChannel, line)
	if err != nil {
		logger.Error("envoi prédiction échoué", logger.Fields{"numero": p.Numero}, err)
		return
	}
	if err := b.preds.MarkLaunched(p.Numero, messageID, displayChannel); err != nil {
		logger.Error("enregistrement du lancement échoué", logger.Fields{"numero": p.Numero}, err)
		return
	}

	logger.IncrCounter("predictions.launched")
	logger.Info("prédiction lancée", logger.Fields{
		"numero": p.Numero,
		"ecart":  p.Numero - gameNumber,
	})
}

// verifyPredictions advances the offset state machine with one result and
// edits the message of every resolved prediction.
func (b *Bot) verifyPredictions(gameNumber int, text string) {
	for _, outcome := range b.preds.Advance(gameNumber, text) {
		if outcome.MessageID == 0 || outcome.ChannelID == 0 {
			continue
		}

		edited := telegram.FormatPredictionWithStatus(outcome.Numero, outcome.Victoire, outcome.Status)
		if err := b.msgr.EditMessage(outcome.ChannelID, outcome.MessageID, edited); err != nil {
			// The prediction stays unverified; the next result retries.
			logger.Error("mise à jour prédiction échouée", logger.Fields{"numero": outcome.Numero}, err)
			continue
		}
		if err := b.preds.MarkVerified(outcome.Numero); err != nil {
			logger.Error("marquage vérifié échoué", logger.Fields{"numero": outcome.Numero}, err)
			continue
		}

		logger.IncrCounter("predictions.verified")
		logger.Info("prédiction mise à jour", logger.Fields{
			"numero": outcome.Numero,
			"status": outcome.Status,
		})
	}
}
