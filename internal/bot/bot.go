package bot

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/config"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/excel"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/logger"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/prediction"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/store"
)

// Confirmation states for chats the bot was added to.
const (
	pendingWaiting          = "waiting_confirmation"
	pendingConfiguredStat   = "configured_stat"
	pendingConfiguredOutput = "configured_display"
)

// Messenger is the Telegram surface the dispatcher needs. It matches
// *telegram.Client.
type Messenger interface {
	SendMessage(chatID int64, text string) (int, error)
	EditMessage(chatID int64, messageID int, text string) error
	SendDocument(chatID int64, path, caption string) error
	DownloadDocument(fileID, fileName, destDir string) (string, error)
	ChatTitle(chatID int64) string
	SelfID() int64
	Username() string
}

// Bot dispatches Telegram updates to the command, join, document and source
// channel handlers.
type Bot struct {
	msgr     Messenger
	cfg      *config.Config
	runtime  *config.Runtime
	preds    *prediction.Store
	importer *excel.Importer
	db       *store.DB
	baseDir  string
	tmpDir   string

	mu        sync.Mutex
	pending   map[int64]string
	startedAt time.Time
}

// New wires the dispatcher. baseDir is the directory the /deploy package is
// built from; tmpDir receives downloaded documents and built archives.
func New(msgr Messenger, cfg *config.Config, runtime *config.Runtime, preds *prediction.Store, importer *excel.Importer, db *store.DB, baseDir, tmpDir string) *Bot {
	return &Bot{
		msgr:      msgr,
		cfg:       cfg,
		runtime:   runtime,
		preds:     preds,
		importer:  importer,
		db:        db,
		baseDir:   baseDir,
		tmpDir:    tmpDir,
		pending:   make(map[int64]string),
		startedAt: time.Now(),
	}
}

// Run consumes updates until ctx is canceled or the channel closes.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	logger.Info("bot en ligne et en attente de messages", logger.Fields{
		"username": b.msgr.Username(),
	})

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(update)
		}
	}
}

// HandleUpdate routes one update.
func (b *Bot) HandleUpdate(update tgbotapi.Update) {
	switch {
	case update.MyChatMember != nil:
		b.handleJoin(update.MyChatMember)
	case update.ChannelPost != nil:
		b.handleChannelPost(update.ChannelPost)
	case update.Message != nil:
		msg := update.Message
		switch {
		case msg.Document != nil && msg.Chat.IsPrivate():
			b.handleDocument(msg)
		case msg.IsCommand():
			b.handleCommand(msg)
		}
	}
}

// isAdmin reports whether userID may run admin commands. Without a
// configured ADMIN_ID, gating is disabled.
func (b *Bot) isAdmin(userID int64) bool {
	return !b.cfg.HasAdmin() || userID == b.cfg.AdminID
}

// reply sends text to chatID, logging failures instead of propagating them.
func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.msgr.SendMessage(chatID, text); err != nil {
		logger.Error("envoi de réponse échoué", logger.Fields{"chat": chatID}, err)
	}
}

func (b *Bot) pendingState(chatID int64) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	state, ok := b.pending[chatID]
	return state, ok
}

func (b *Bot) setPending(chatID int64, state string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[chatID] = state
}

// Status summarizes the bot for the health endpoint.
func (b *Bot) Status() (stat, display int64, stats prediction.Stats) {
	return b.runtime.StatChannel(), b.runtime.DisplayChannel(), b.preds.Stats()
}
