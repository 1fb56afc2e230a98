// Package bot holds the update middleware shared by all handlers.
package bot

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-lingo-courses/pkg/logger"
	"golang.org/x/time/rate"
)

const limiterIdleTimeout = 10 * time.Minute

// Recover keeps one bad update from taking the polling loop down.
func Recover(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic while handling update", "chat_id", ChatIDOf(update), "panic", r, "stack", string(debug.Stack()))
			}
		}()
		next(ctx, b, update)
	}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ChatLimiter hands out one token bucket per chat and forgets chats that went
// quiet.
type ChatLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[int64]*limiterEntry
	now      func() time.Time
}

func NewChatLimiter(perSecond float64, burst int) *ChatLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &ChatLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[int64]*limiterEntry),
		now:      time.Now,
	}
}

func (l *ChatLimiter) Allow(chatID int64) bool {
	if l == nil || l.limit <= 0 {
		return true
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	for id, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > limiterIdleTimeout {
			delete(l.limiters, id)
		}
	}
	entry, ok := l.limiters[chatID]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[chatID] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// RateLimit drops updates from chats that exceed their budget. Dropped
// callback queries are still answered so the client stops its spinner.
func RateLimit(limiter *ChatLimiter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			chatID := ChatIDOf(update)
			if chatID == 0 || limiter.Allow(chatID) {
				next(ctx, b, update)
				return
			}
			logger.Warn("rate limit exceeded, dropping update", "chat_id", chatID)
			if update.CallbackQuery != nil && update.CallbackQuery.ID != "" {
				if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
					CallbackQueryID: update.CallbackQuery.ID,
					Text:            "Slow down a little",
				}); err != nil {
					logger.Error("failed to answer rate limited callback", "chat_id", chatID, "error", err)
				}
			}
		}
	}
}

// ChatIDOf returns the chat an update belongs to, or 0.
func ChatIDOf(update *models.Update) int64 {
	if update == nil {
		return 0
	}
	if update.Message != nil {
		return update.Message.Chat.ID
	}
	if update.CallbackQuery != nil && update.CallbackQuery.Message.Message != nil {
		return update.CallbackQuery.Message.Message.Chat.ID
	}
	return 0
}
