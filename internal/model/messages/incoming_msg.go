package messages

import (
	"context"
	"strings"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/logger"
)

const failureMessage = "Sorry, something went wrong..."

var knownCommands = map[string]struct{}{
	startCommand:   {},
	helpCommand:    {},
	expenseCommand: {},
	reportCommand:  {},
	budgetsCommand: {},
}

type messageSender interface {
	SendMessage(text string, userID int64) error
}

type MessageHandler interface {
	HandleMessage(ctx context.Context, text string, userID int64) (string, error)
}

// Service answers chat messages with the handler's reply.
type Service struct {
	sender  messageSender
	handler MessageHandler
}

func NewService(sender messageSender, book ledgerBook, reporter reporter, config config) *Service {
	return &Service{
		sender:  sender,
		handler: newHandler(book, reporter, config),
	}
}

type Message struct {
	Text   string
	UserID int64
}

func (s *Service) HandleIncomingMessage(ctx context.Context, msg Message) error {
	cmd, _ := parseCommand(msg.Text)
	cmd = strings.ToLower(cmd)

	span, ctx := opentracing.StartSpanFromContext(ctx, "handleMessage")
	defer span.Finish()
	span.SetTag("command", cmd)

	start := time.Now()
	err := s.reply(ctx, msg)
	observeResponse(cmd, time.Since(start), err != nil)

	if err != nil {
		ext.Error.Set(span, true)
		logger.Error("failed to answer message",
			zap.String("command", cmd),
			zap.Int64("chat", msg.UserID),
			zap.Error(err),
		)
	}
	return err
}

func (s *Service) reply(ctx context.Context, msg Message) error {
	resp, err := s.handler.HandleMessage(ctx, msg.Text, msg.UserID)
	if err == nil {
		return s.sender.SendMessage(resp, msg.UserID)
	}

	text := failureMessage
	if resp != "" {
		text += "\n" + resp
	}
	_ = s.sender.SendMessage(text, msg.UserID)
	return err
}
