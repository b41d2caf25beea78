package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	jobmodel "github.com/easayliu/emby-tv-organizer/internal/domain/models/job"
	"github.com/easayliu/emby-tv-organizer/internal/infrastructure/config"
	"github.com/easayliu/emby-tv-organizer/pkg/logger"
)

// Notifier Telegram任务通知
// 任务进入终态后向配置的聊天推送一条摘要消息，推送失败只记日志
type Notifier struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
}

// NewNotifier 创建通知器，未启用或token无效时返回(nil, err)
func NewNotifier(cfg config.TelegramConfig) (*Notifier, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.BotToken == "" || len(cfg.ChatIDs) == 0 {
		return nil, fmt.Errorf("telegram enabled but bot_token or chat_ids missing")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info("Telegram notifier ready", "bot", bot.Self.UserName, "chats", len(cfg.ChatIDs))
	return &Notifier{bot: bot, chatIDs: cfg.ChatIDs}, nil
}

// NotifyJobCompleted 推送任务完成摘要
func (n *Notifier) NotifyJobCompleted(j *jobmodel.Job) {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ 整理任务完成\n任务: %s\n输入: %s\n输出: %s\n", j.ID, j.InputDir, j.OutputDir)

	if moved, ok := j.Stats["episodes_moved"]; ok {
		fmt.Fprintf(&b, "已迁移: %d 集\n", moved)
	}
	if skipped, ok := j.Stats["episodes_skipped"]; ok && skipped > 0 {
		fmt.Fprintf(&b, "跳过: %d 集\n", skipped)
	}
	if errored, ok := j.Stats["episodes_errored"]; ok && errored > 0 {
		fmt.Fprintf(&b, "失败: %d 集\n", errored)
	}
	if len(j.UnprocessedShows) > 0 {
		fmt.Fprintf(&b, "未整理节目: %d 个\n", len(j.UnprocessedShows))
	}

	n.send(b.String())
}

// NotifyJobFailed 推送任务失败消息
func (n *Notifier) NotifyJobFailed(j *jobmodel.Job, reason string) {
	n.send(fmt.Sprintf("❌ 整理任务失败\n任务: %s\n输入: %s\n原因: %s", j.ID, j.InputDir, reason))
}

func (n *Notifier) send(text string) {
	for _, chatID := range n.chatIDs {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.bot.Send(msg); err != nil {
			logger.Warn("Failed to send telegram message", "chatID", chatID, "error", err)
		}
	}
}
