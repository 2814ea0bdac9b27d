package telegram

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/logger"
)

const (
	pollTimeout     = 30
	retryElapsed    = 30 * time.Second
	downloadTimeout = 60 * time.Second
)

// Client wraps the Bot API with retrying sends and a dry-run mode.
type Client struct {
	api        *tgbotapi.BotAPI
	dryRun     bool
	httpClient *http.Client
}

// NewClient authenticates against the Bot API.
func NewClient(botToken string, dryRun bool) (*Client, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("connecting to Telegram: %w", err)
	}

	return &Client{
		api:    api,
		dryRun: dryRun,
		httpClient: &http.Client{
			Timeout: downloadTimeout,
		},
	}, nil
}

// Username returns the bot account's username.
func (c *Client) Username() string {
	return c.api.Self.UserName
}

// SelfID returns the bot account's user ID.
func (c *Client) SelfID() int64 {
	return c.api.Self.ID
}

// Updates opens the long-polling update channel. Message, channel post and
// chat membership updates are requested.
func (c *Client) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	u.AllowedUpdates = []string{
		tgbotapi.UpdateTypeMessage,
		tgbotapi.UpdateTypeChannelPost,
		tgbotapi.UpdateTypeMyChatMember,
	}
	return c.api.GetUpdatesChan(u)
}

// Stop closes the update channel.
func (c *Client) Stop() {
	c.api.StopReceivingUpdates()
}

// SendMessage sends an HTML-formatted message and returns the sent message
// ID. Transient failures retry with exponential backoff.
func (c *Client) SendMessage(chatID int64, text string) (int, error) {
	if c.dryRun {
		logger.Info("[dry-run] message", logger.Fields{"chat": chatID, "text": text})
		return 0, nil
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	var sent tgbotapi.Message
	start := time.Now()
	err := c.retry(func() error {
		var err error
		sent, err = c.api.Send(msg)
		return err
	})
	logger.RecordTiming("telegram.send", time.Since(start))
	if err != nil {
		return 0, fmt.Errorf("sending message to %d: %w", chatID, err)
	}
	return sent.MessageID, nil
}

// EditMessage rewrites a previously sent message. A "message is not
// modified" response counts as success.
func (c *Client) EditMessage(chatID int64, messageID int, text string) error {
	if c.dryRun {
		logger.Info("[dry-run] edit", logger.Fields{"chat": chatID, "message": messageID, "text": text})
		return nil
	}

	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML

	err := c.retry(func() error {
		_, err := c.api.Send(edit)
		if err != nil && strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("editing message %d in %d: %w", messageID, chatID, err)
	}
	return nil
}

// SendDocument uploads a local file as a document with a caption.
func (c *Client) SendDocument(chatID int64, path, caption string) error {
	if c.dryRun {
		logger.Info("[dry-run] document", logger.Fields{"chat": chatID, "file": path})
		return nil
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	doc.ParseMode = tgbotapi.ModeHTML

	err := c.retry(func() error {
		_, err := c.api.Send(doc)
		return err
	})
	if err != nil {
		return fmt.Errorf("sending document to %d: %w", chatID, err)
	}
	return nil
}

// DownloadDocument fetches a Telegram file into destDir and returns the
// local path.
func (c *Client) DownloadDocument(fileID, fileName, destDir string) (string, error) {
	file, err := c.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("resolving file %s: %w", fileID, err)
	}

	resp, err := c.httpClient.Get(file.Link(c.api.Token))
	if err != nil {
		return "", fmt.Errorf("downloading file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading file: status %d", resp.StatusCode)
	}

	if fileName == "" {
		fileName = filepath.Base(file.FilePath)
	}
	dest := filepath.Join(destDir, fileName)
	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}
	return dest, nil
}

// ChatTitle resolves a chat's title, falling back to "Canal <id>" when the
// chat cannot be fetched.
func (c *Client) ChatTitle(chatID int64) string {
	chat, err := c.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil || chat.Title == "" {
		return fmt.Sprintf("Canal %d", chatID)
	}
	return chat.Title
}

// retry runs op with exponential backoff, bounded in elapsed time. Telegram
// "forbidden" and "chat not found" errors are permanent.
func (c *Client) retry(op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = retryElapsed

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "forbidden") || strings.Contains(msg, "chat not found") {
			return backoff.Permanent(err)
		}
		return err
	}, bo)
}
