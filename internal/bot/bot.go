// Package bot implements the Telegram front end: photo messages come in via
// webhook, the caption becomes the note, and the pipeline result is reported
// back as a chat reply.
package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/dvloznov/receipt-ledger/internal/pipeline"
)

// DefaultNote is used when a photo message carries no caption.
const DefaultNote = "Sent via Telegram"

// Processor is the narrow pipeline surface the bot depends on.
type Processor interface {
	Process(ctx context.Context, image []byte, mimeType, note string) (pipeline.TransactionRecord, error)
}

// Handler processes inbound Telegram updates. One Handler lives for the
// whole process; each update is handled synchronously.
type Handler struct {
	bot        *tgbotapi.BotAPI
	proc       Processor
	httpClient *http.Client
	log        zerolog.Logger
}

// New creates a Telegram handler for an authenticated bot.
func New(botAPI *tgbotapi.BotAPI, proc Processor, log zerolog.Logger) *Handler {
	return &Handler{
		bot:        botAPI,
		proc:       proc,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// RegisterWebhook points Telegram at baseURL/<secret>. Called once at
// startup when a public base URL is configured.
func (h *Handler) RegisterWebhook(baseURL, secret string) error {
	wh, err := tgbotapi.NewWebhook(strings.TrimSuffix(baseURL, "/") + "/" + secret)
	if err != nil {
		return fmt.Errorf("bot: build webhook config: %w", err)
	}
	if _, err := h.bot.Request(wh); err != nil {
		return fmt.Errorf("bot: set webhook: %w", err)
	}
	h.log.Info().Str("base_url", baseURL).Msg("Telegram webhook registered")
	return nil
}

// WebhookHandler decodes inbound updates and dispatches photo messages.
func (h *Handler) WebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			h.log.Warn().Err(err).Msg("Undecodable webhook update")
			http.Error(w, "bad update", http.StatusBadRequest)
			return
		}

		h.HandleUpdate(r.Context(), update)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// HandleUpdate processes one update. Messages without a photo are ignored.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || len(msg.Photo) == 0 {
		return
	}

	image, err := h.downloadPhoto(ctx, largestPhoto(msg.Photo))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to download Telegram photo")
		h.reply(msg.Chat.ID, "Sorry, I couldn't download the image.")
		return
	}

	note := noteFrom(msg)

	record, err := h.proc.Process(ctx, image, "image/jpeg", note)
	if err != nil {
		detail := err.Error()
		if f, ok := pipeline.AsFailure(err); ok {
			detail = f.Detail
		}
		h.reply(msg.Chat.ID, "Error processing image: "+detail)
		return
	}

	h.reply(msg.Chat.ID, summaryLine(record))
}

func (h *Handler) downloadPhoto(ctx context.Context, photo tgbotapi.PhotoSize) ([]byte, error) {
	url, err := h.bot.GetFileDirectURL(photo.FileID)
	if err != nil {
		return nil, fmt.Errorf("bot: resolve file URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("bot: build download request: %w", err)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bot: download photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bot: download photo: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("bot: read photo bytes: %w", err)
	}
	return data, nil
}

func (h *Handler) reply(chatID int64, text string) {
	if _, err := h.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.log.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send Telegram reply")
	}
}

// largestPhoto picks the highest-resolution size variant of a photo.
func largestPhoto(sizes []tgbotapi.PhotoSize) tgbotapi.PhotoSize {
	best := sizes[0]
	for _, s := range sizes[1:] {
		if s.Width*s.Height > best.Width*best.Height {
			best = s
		}
	}
	return best
}

// noteFrom returns the message caption, or the fixed placeholder when the
// photo came without one.
func noteFrom(msg *tgbotapi.Message) string {
	if msg.Caption != "" {
		return msg.Caption
	}
	return DefaultNote
}

// summaryLine formats the success reply.
func summaryLine(record pipeline.TransactionRecord) string {
	return fmt.Sprintf("Logged: %s on %s (%s). Note: %s",
		valueOr(record.Amount, "N/A"),
		valueOr(record.Platform, "N/A"),
		valueOr(record.Date, "N/A"),
		record.Note,
	)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
