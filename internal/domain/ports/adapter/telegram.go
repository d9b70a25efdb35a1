package adapter

import "context"

// StatusReporter edits the per-request status message as a leech task moves
// through its steps. Implementations are created by the bot adapter, one per
// inbound command.
type StatusReporter interface {
	Update(ctx context.Context, text string) error
	Delete(ctx context.Context) error
}

// TelegramBotAdapter is the outbound messaging port. UploadFile delivers a
// local file into the chat; the uploaded file itself is the success response
// of a leech request.
type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	UploadFile(ctx context.Context, chatID int64, path, filename, caption string) error
}
