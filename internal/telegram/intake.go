package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/smallbiznis/giftcert/internal/config"
	issuancedomain "github.com/smallbiznis/giftcert/internal/issuance/domain"
	paymentdomain "github.com/smallbiznis/giftcert/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Bot         *Bot
	Log         *zap.Logger
	Cfg         config.Config
	IssuanceSvc issuancedomain.Service
	Renderer    paymentdomain.ArtifactRenderer
}

// Intake runs the chat dialogue: it collects a recipient name, creates the
// unpaid ledger row and hands the user a payment link carrying the request
// id as the order reference.
type Intake struct {
	bot         *Bot
	log         *zap.Logger
	cfg         config.Config
	issuanceSvc issuancedomain.Service
	renderer    paymentdomain.ArtifactRenderer

	mu           sync.Mutex
	awaitingName map[int64]bool
}

func NewIntake(p Params) *Intake {
	return &Intake{
		bot:          p.Bot,
		log:          p.Log.Named("telegram.intake"),
		cfg:          p.Cfg,
		issuanceSvc:  p.IssuanceSvc,
		renderer:     p.Renderer,
		awaitingName: make(map[int64]bool),
	}
}

func (i *Intake) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID

	switch {
	case msg.IsCommand():
		i.handleCommand(ctx, chatID, msg)
	case i.isAwaitingName(chatID):
		i.handleName(ctx, chatID, msg.Text)
	default:
		i.reply(chatID, "Send /start to order a gift certificate.")
	}
}

func (i *Intake) handleCommand(ctx context.Context, chatID int64, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		i.setAwaitingName(chatID, true)
		i.reply(chatID, "Hi! Enter the certificate recipient's full name:")
	case "testcert":
		i.handleTestCert(ctx, chatID)
	case "listcerts":
		i.handleListCerts(ctx, chatID)
	default:
		i.reply(chatID, "Unknown command. Send /start to order a gift certificate.")
	}
}

func (i *Intake) handleName(ctx context.Context, chatID int64, text string) {
	id, err := i.issuanceSvc.CreateRequest(ctx, strconv.FormatInt(chatID, 10), text, i.cfg.Payment.Amount)
	if err != nil {
		if errors.Is(err, issuancedomain.ErrNameTooShort) {
			// Stay in the dialogue so the user can retry.
			i.reply(chatID, "That name is too short. Try again:")
			return
		}
		i.log.Error("create request failed", zap.Int64("chat_id", chatID), zap.Error(err))
		i.setAwaitingName(chatID, false)
		i.reply(chatID, "Something went wrong, please try /start again later.")
		return
	}
	i.setAwaitingName(chatID, false)

	link, err := i.paymentLink(id)
	if err != nil {
		i.log.Error("payment link unavailable", zap.Int64("request_id", id), zap.Error(err))
		i.reply(chatID, "Payment is temporarily unavailable, please try again later.")
		return
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(
				fmt.Sprintf("Pay %d", i.cfg.Payment.Amount),
				link,
			),
		),
	)
	if err := i.bot.SendTextWithMarkup(chatID,
		"Great! Your gift certificate is ready for payment.\n\nTap the button below:",
		markup,
	); err != nil {
		i.log.Error("payment prompt send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// handleTestCert exercises the whole pipeline without a payment: create,
// issue, render, send.
func (i *Intake) handleTestCert(ctx context.Context, chatID int64) {
	ownerRef := strconv.FormatInt(chatID, 10)
	id, err := i.issuanceSvc.CreateRequest(ctx, ownerRef, "Test Recipient", i.cfg.Payment.Amount)
	if err != nil {
		i.log.Error("test certificate create failed", zap.Error(err))
		i.reply(chatID, "Test certificate failed.")
		return
	}
	issued, err := i.issuanceSvc.IssueFor(ctx, id)
	if err != nil {
		i.log.Error("test certificate issue failed", zap.Int64("request_id", id), zap.Error(err))
		i.reply(chatID, "Test certificate failed.")
		return
	}
	artifact, err := i.renderer.Render(issued.RecipientName, issued.Serial)
	if err != nil {
		i.log.Error("test certificate render failed", zap.String("serial", issued.Serial), zap.Error(err))
		i.reply(chatID, "Test certificate failed.")
		return
	}
	i.reply(chatID, "Test certificate ready!")
	if err := i.bot.SendDocument(chatID, "cert_"+issued.Serial+".pdf", artifact); err != nil {
		i.log.Error("test certificate send failed", zap.String("serial", issued.Serial), zap.Error(err))
	}
}

func (i *Intake) handleListCerts(ctx context.Context, chatID int64) {
	if i.cfg.Telegram.AdminChatID == 0 || chatID != i.cfg.Telegram.AdminChatID {
		i.reply(chatID, "Access denied.")
		return
	}

	requests, err := i.issuanceSvc.ListRequests(ctx)
	if err != nil {
		i.log.Error("list requests failed", zap.Error(err))
		i.reply(chatID, "Listing failed.")
		return
	}
	if len(requests) == 0 {
		i.reply(chatID, "No certificate requests yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Certificate requests:\n")
	for _, req := range requests {
		serial := "-"
		if req.Serial != nil {
			serial = *req.Serial
		}
		status := "pending"
		if req.Issued {
			status = "issued"
		}
		fmt.Fprintf(&sb, "#%d %s | %s | serial %s\n", req.ID, req.RecipientName, status, serial)
	}
	i.reply(chatID, sb.String())
}

func (i *Intake) paymentLink(requestID int64) (string, error) {
	if strings.TrimSpace(i.cfg.Payment.FormURL) == "" {
		return "", errors.New("payment form url is not configured")
	}
	u, err := url.Parse(i.cfg.Payment.FormURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("order_num", strconv.FormatInt(requestID, 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (i *Intake) isAwaitingName(chatID int64) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.awaitingName[chatID]
}

func (i *Intake) setAwaitingName(chatID int64, waiting bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if waiting {
		i.awaitingName[chatID] = true
		return
	}
	delete(i.awaitingName, chatID)
}

func (i *Intake) reply(chatID int64, text string) {
	if err := i.bot.SendText(chatID, text); err != nil {
		i.log.Warn("telegram send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
