package telegram

import (
	"fmt"
	"strings"

	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/card"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/excel"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/prediction"
)

const statusPlaceholder = "statut :" + prediction.StatusPending

// FormatPrediction renders the message published into the display channel:
// "🔵881:🅿️+6,5🔵statut :⏳" for Joueur, "🔵881:Ⓜ️-4,,5🔵statut :⏳" for
// Banquier. The double comma in the Banquier line is part of the published
// format.
func FormatPrediction(numero int, winner card.Winner) string {
	if winner == card.WinnerBanker {
		return fmt.Sprintf("🔵%d:Ⓜ️-4,,5🔵%s", numero, statusPlaceholder)
	}
	return fmt.Sprintf("🔵%d:🅿️+6,5🔵%s", numero, statusPlaceholder)
}

// FormatPredictionWithStatus renders the edited message after verification,
// replacing the pending placeholder with the final status.
func FormatPredictionWithStatus(numero int, winner card.Winner, status string) string {
	base := strings.TrimSuffix(FormatPrediction(numero, winner), prediction.StatusPending)
	return base + status
}

// FormatWelcome is the /start reply.
func FormatWelcome() string {
	return `🎯 <b>Bot de Prédiction de Cartes - Bienvenue !</b>

🔹 <b>Développé par Sossou Kouamé Appolinaire</b>

<b>Fonctionnalités</b> :
• 📊 Import de prédictions depuis fichier Excel
• 🔍 Surveillance automatique du canal source
• 🎯 Lancement des prédictions basé sur le fichier Excel
• ✅ Vérification des résultats avec offsets (0, 1, 2)

<b>Configuration</b> :
1. Ajoutez-moi dans vos canaux
2. Je vous enverrai automatiquement une invitation privée
3. Répondez avec /set_stat [ID] ou /set_display [ID]
4. Envoyez votre fichier Excel (.xlsx) pour importer les prédictions

<b>Commandes Admin</b> :
• /start - Ce message
• /status - État du bot
• /sta - Statistiques Excel
• /excel_clear - Effacer les prédictions Excel
• /reset - Réinitialiser toutes les données
• /deploy - Créer package de déploiement (zip)
• /ni - Informations système
• /set_stat [ID] - Configurer canal source
• /set_display [ID] - Configurer canal diffusion
• /force_set_stat [ID] - Forcer config canal source
• /force_set_display [ID] - Forcer config canal diffusion

<b>Format Excel</b> :
Le fichier doit contenir 3 colonnes :
• Date &amp; Heure
• Numéro (ex: 881, 886, 891...)
• Victoire (Joueur ou Banquier)

<b>Format de prédiction</b> :
• Joueur (P+6,5) : 🔵XXX:🅿️+6,5🔵statut :⏳
• Banquier (M-4,5) : 🔵XXX:Ⓜ️-4,,5🔵statut :⏳

Le bot est prêt à analyser vos jeux ! 🚀`
}

// FormatInvitation is the private message sent to the admin when the bot
// joins a new chat.
func FormatInvitation(chatTitle string, chatID int64) string {
	return fmt.Sprintf(`🔔 <b>Nouveau canal détecté</b>

📋 <b>Canal</b> : %s
🆔 <b>ID</b> : %d

<b>Choisissez le type de canal</b> :
• /set_stat %d - Canal de statistiques
• /set_display %d - Canal de diffusion

Envoyez votre choix en réponse à ce message.`, chatTitle, chatID, chatID, chatID)
}

// StatusInfo carries everything the /status reply shows.
type StatusInfo struct {
	StatChannel        int64
	DisplayChannel     int64
	PredictionInterval int
	ConfigSaved        bool
	ActivePredictions  int
	TotalPredictions   int
}

// FormatStatus is the /status reply.
func FormatStatus(info StatusInfo) string {
	configState := "❌ Non sauvegardée"
	if info.ConfigSaved {
		configState = "✅ Sauvegardée"
	}
	return fmt.Sprintf(`📊 <b>Statut du Bot</b>

Canal statistiques: %s (%d)
Canal diffusion: %s (%d)
⏱️ Intervalle de prédiction: %d minutes
Configuration persistante: %s
Prédictions actives: %d
Prédictions en base: %d`,
		configuredMark(info.StatChannel), info.StatChannel,
		configuredMark(info.DisplayChannel), info.DisplayChannel,
		info.PredictionInterval,
		configState,
		info.ActivePredictions,
		info.TotalPredictions)
}

func configuredMark(id int64) string {
	if id == 0 {
		return "❌ Non configuré"
	}
	return "✅ Configuré"
}

// FormatChannelConfigured confirms a /set_stat or /set_display change.
// kind is "statistiques" or "diffusion"; forced marks the force variants.
func FormatChannelConfigured(kind, chatTitle string, chatID int64, forced bool) string {
	suffix := ""
	if forced {
		suffix = " (force)"
	}
	role := "🚀 Le bot publiera les prédictions dans ce canal"
	if kind == "statistiques" {
		role = "✨ Le bot surveillera ce canal pour les prédictions"
	}
	return fmt.Sprintf(`✅ <b>Canal de %s configuré%s</b>
📋 %s
🆔 ID: %d

%s
💾 Configuration sauvegardée automatiquement`, kind, suffix, chatTitle, chatID, role)
}

// FormatNi is the /ni reply.
func FormatNi(statChannel, displayChannel int64, activePredictions, interval int) string {
	return fmt.Sprintf(`🎯 <b>Système de Prédiction NI - Statut</b>

📊 <b>Configuration actuelle</b>:
• Canal source: %s
• Canal affichage: %s
• Prédictions Excel actives: %d
• Intervalle: %d minute(s)

🎮 <b>Fonctionnalités</b>:
• Prédictions basées uniquement sur fichier Excel
• Vérification séquentielle avec offsets 0→1→2
• Format Joueur: "🔵XXX:🅿️+6,5🔵statut :⏳"
• Format Banquier: "🔵XXX:Ⓜ️-4,,5🔵statut :⏳"

🔧 <b>Commandes disponibles</b>:
• /set_stat [ID] - Configurer canal source
• /set_display [ID] - Configurer canal affichage
• /sta - Voir prédictions Excel
• /reset - Réinitialiser les données
• /deploy - Créer package de déploiement

✅ <b>Bot opérationnel</b>`,
		channelLabel(statChannel), channelLabel(displayChannel),
		activePredictions, interval)
}

func channelLabel(id int64) string {
	if id == 0 {
		return "Non configuré"
	}
	return fmt.Sprintf("%d", id)
}

// FormatSta is the /sta reply.
func FormatSta(stats prediction.Stats, statChannel, displayChannel int64) string {
	return fmt.Sprintf(`📊 <b>Statut des Prédictions Excel</b>

📋 <b>Statistiques Excel</b>:
• Total prédictions: %d
• En attente: %d
• Lancées: %d

📈 <b>Configuration actuelle</b>:
• Canal stats configuré: %s (%s)
• Canal affichage configuré: %s (%s)

🔧 <b>Format de prédiction</b>:
• Joueur (P+6,5) : 🔵XXX:🅿️+6,5🔵statut :⏳
• Banquier (M-4,5) : 🔵XXX:Ⓜ️-4,,5🔵statut :⏳

✅ Prédictions uniquement depuis fichier Excel`,
		stats.Total, stats.Pending, stats.Launched,
		checkMark(statChannel), channelLabel(statChannel),
		checkMark(displayChannel), channelLabel(displayChannel))
}

func checkMark(id int64) string {
	if id == 0 {
		return "❌"
	}
	return "✅"
}

// FormatResetDone is the /reset confirmation.
func FormatResetDone() string {
	return `🔄 <b>Données réinitialisées avec succès !</b>

✅ Prédictions en attente: vidées
✅ Base de données YAML: réinitialisée
✅ Configuration: préservée

Le bot est prêt pour un nouveau cycle.`
}

// FormatExcelCleared is the /excel_clear confirmation.
func FormatExcelCleared(removed int) string {
	return fmt.Sprintf(`🗑️ <b>Prédictions Excel effacées</b>

✅ %d prédictions supprimées
📋 La base est maintenant vide

Vous pouvez importer un nouveau fichier Excel.`, removed)
}

// FormatImportReport summarizes a completed import. via names the source
// ("Telegram", "Projet").
func FormatImportReport(report *excel.Report, stats prediction.Stats, via string) string {
	return fmt.Sprintf(`📥 Import Excel via %s

✅ Fichier Excel importé avec succès!
• Prédictions importées: %d
• Anciennes remplacées: %d
• Consécutifs ignorés: %d
• Total en base: %d

Le système est prêt pour les prédictions! 🎉

📋 <b>Statistiques</b>:
• En attente: %d
• Lancées: %d`,
		via, report.Imported, report.Replaced, report.ConsecutiveSkipped,
		stats.Total, stats.Pending, stats.Launched)
}
