package bot

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/degenstudios/degenbot/internal/config"
	"github.com/degenstudios/degenbot/internal/imaging"
	"github.com/degenstudios/degenbot/internal/pending"
	"github.com/degenstudios/degenbot/internal/queue"
	"github.com/degenstudios/degenbot/internal/telegram"
)

// Processor is the single long-lived consumer of the photo queue. For
// each job it checks the pending-request table for a matching overlay
// request and, on a match, downloads the photo, composites the overlay,
// and sends the result back to the chat.
type Processor struct {
	logger  *slog.Logger
	cfg     *config.Config
	tg      telegram.Client
	queue   *queue.Queue
	pending *pending.Table
	assets  *imaging.Assets

	sleep func(ctx context.Context, d time.Duration) // overridable in tests
}

// NewProcessor creates a Processor with all required dependencies.
func NewProcessor(
	logger *slog.Logger,
	cfg *config.Config,
	tg telegram.Client,
	q *queue.Queue,
	table *pending.Table,
	assets *imaging.Assets,
) *Processor {
	return &Processor{
		logger:  logger.With("component", "overlay_processor"),
		cfg:     cfg,
		tg:      tg,
		queue:   q,
		pending: table,
		assets:  assets,
		sleep:   sleepCtx,
	}
}

// Run drains the queue until ctx is cancelled, polling at the
// configured interval when the queue is empty.
func (p *Processor) Run(ctx context.Context) error {
	p.logger.Info("Overlay processor started", "poll_interval", p.cfg.Queue.PollInterval)

	for {
		if ctx.Err() != nil {
			p.logger.Info("Overlay processor stopped")
			return ctx.Err()
		}

		job, ok := p.queue.Dequeue()
		if !ok {
			p.sleep(ctx, p.cfg.Queue.PollInterval)
			continue
		}
		p.process(ctx, job)
	}
}

// process handles a single photo job. Only a direct reply to the prompt
// of the sender's own live request qualifies; everything else is
// ignored without an outbound message.
func (p *Processor) process(ctx context.Context, job queue.Job) {
	log := p.logger.With("chat_id", job.ChatID, "user_id", job.UserID)

	msg := job.Message
	if msg == nil || msg.ReplyToMessage == nil {
		log.DebugContext(ctx, "Photo is not a reply, ignoring")
		return
	}

	key := pending.SessionKey{ChatID: job.ChatID, UserID: job.UserID}
	req, ok := p.pending.Get(key)
	if !ok {
		log.DebugContext(ctx, "No pending overlay request for sender, ignoring")
		return
	}
	if req.MessageID != msg.ReplyToMessage.ID {
		log.DebugContext(ctx, "Reply does not match the active prompt, ignoring",
			"want_message_id", req.MessageID, "got_message_id", msg.ReplyToMessage.ID)
		return
	}

	if p.pending.IsExpired(req) {
		p.pending.Remove(key)
		log.InfoContext(ctx, "Overlay request expired at reply time")
		if _, err := p.tg.SendMessage(ctx, job.ChatID, p.cfg.Messages.ExpiredOnPhoto); err != nil {
			log.ErrorContext(ctx, "Failed to send expiry message", "error", err)
		}
		return
	}

	// Claim the entry before any I/O so duplicate replies cannot
	// double-process; losing the race to the sweeper also ends here.
	if _, ok := p.pending.Remove(key); !ok {
		log.DebugContext(ctx, "Pending request already claimed, ignoring")
		return
	}

	photo, ok := largestPhoto(msg.Photo)
	if !ok {
		log.WarnContext(ctx, "Matching reply carries no photo")
		if _, err := p.tg.SendMessage(ctx, job.ChatID, p.cfg.Messages.ReplyNoPhoto); err != nil {
			log.ErrorContext(ctx, "Failed to send no-photo message", "error", err)
		}
		return
	}

	who := "Anonymous"
	if msg.From != nil && msg.From.Username != "" {
		who = "@" + msg.From.Username
	}

	processingID, err := p.tg.SendMessage(ctx, job.ChatID, fmt.Sprintf(p.cfg.Messages.Processing, who))
	if err != nil {
		log.ErrorContext(ctx, "Failed to send processing message", "error", err)
		return
	}

	data, err := p.tg.DownloadFile(ctx, photo.FileID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to download photo", "error", err, "file_id", photo.FileID)
		p.fail(ctx, job.ChatID, processingID, p.cfg.Messages.ErrorDownload)
		return
	}

	base, err := imaging.Decode(data)
	if err != nil {
		log.ErrorContext(ctx, "Failed to decode photo", "error", err)
		p.fail(ctx, job.ChatID, processingID, p.cfg.Messages.ErrorDecode)
		return
	}

	bounds := base.Bounds()
	overlay, err := p.assets.ForSize(bounds.Dx(), bounds.Dy())
	if err != nil {
		log.ErrorContext(ctx, "Failed to load overlay asset", "error", err)
		p.fail(ctx, job.ChatID, processingID, p.cfg.Messages.ErrorGeneral)
		return
	}

	composed, err := p.composeWithRetry(ctx, log, base, overlay)
	if err != nil {
		log.ErrorContext(ctx, "Failed to compose overlay", "error", err, "max_retries", p.cfg.Overlay.MaxRetries)
		p.fail(ctx, job.ChatID, processingID, p.cfg.Messages.ErrorGeneral)
		return
	}

	encoded, err := imaging.EncodePNG(composed)
	if err != nil {
		log.ErrorContext(ctx, "Failed to encode result", "error", err)
		p.fail(ctx, job.ChatID, processingID, p.cfg.Messages.ErrorGeneral)
		return
	}

	caption := fmt.Sprintf(p.cfg.Messages.SuccessCaption, who)
	if _, err := p.tg.SendPhoto(ctx, job.ChatID, encoded, "overlay.png", caption); err != nil {
		log.ErrorContext(ctx, "Failed to send composed photo", "error", err)
		p.fail(ctx, job.ChatID, processingID, p.cfg.Messages.ErrorGeneral)
		return
	}

	if err := p.tg.DeleteMessage(ctx, job.ChatID, processingID); err != nil {
		log.ErrorContext(ctx, "Failed to delete processing message", "error", err)
	}

	log.InfoContext(ctx, "Overlay delivered")
}

func (p *Processor) composeWithRetry(ctx context.Context, log *slog.Logger, base image.Image, overlay *image.NRGBA) (*image.NRGBA, error) {
	var composed *image.NRGBA
	var err error
	for attempt := 1; attempt <= p.cfg.Overlay.MaxRetries; attempt++ {
		composed, err = imaging.Compose(base, overlay)
		if err == nil {
			return composed, nil
		}
		log.WarnContext(ctx, "Compose attempt failed", "error", err, "attempt", attempt)
		if attempt < p.cfg.Overlay.MaxRetries {
			p.sleep(ctx, p.cfg.Overlay.RetryDelay)
		}
	}
	return nil, err
}

// fail cleans up the processing message and tells the user the attempt
// failed. Both operations are best-effort.
func (p *Processor) fail(ctx context.Context, chatID int64, processingID int, text string) {
	if err := p.tg.DeleteMessage(ctx, chatID, processingID); err != nil {
		p.logger.ErrorContext(ctx, "Failed to delete processing message", "error", err, "chat_id", chatID)
	}
	if _, err := p.tg.SendMessage(ctx, chatID, text); err != nil {
		p.logger.ErrorContext(ctx, "Failed to send failure message", "error", err, "chat_id", chatID)
	}
}

// largestPhoto picks the photo variant with the most pixels.
func largestPhoto(photos []models.PhotoSize) (models.PhotoSize, bool) {
	if len(photos) == 0 {
		return models.PhotoSize{}, false
	}
	best := photos[0]
	for _, ps := range photos[1:] {
		if ps.Width*ps.Height > best.Width*best.Height {
			best = ps
		}
	}
	return best, true
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
