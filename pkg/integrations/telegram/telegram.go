// Package telegram is a minimal Bot API client: upload a document to one
// chat, and read recent messages back.
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

var (
	ErrInvalidBotConfig = errors.New("invalid telegram bot config")
	ErrNoPayload        = errors.New("no payload in recent messages")
)

const (
	DefaultBaseURL = "https://api.telegram.org"
	recentOffset   = -5
)

type Bot struct {
	BaseURL string
	Token   string
	ChatID  string
	Client  *http.Client
}

func NewBot(token, chatID string) (*Bot, error) {
	b := &Bot{
		BaseURL: DefaultBaseURL,
		Token:   token,
		ChatID:  chatID,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
	return b, b.IsValid()
}

func (b *Bot) IsValid() error {
	switch {
	case b.Token == "":
		return errors.Wrap(ErrInvalidBotConfig, "token cannot be empty")
	case b.ChatID == "":
		return errors.Wrap(ErrInvalidBotConfig, "chat id cannot be empty")
	case b.Client == nil:
		return errors.Wrap(ErrInvalidBotConfig, "client cannot be nil")
	}
	return nil
}

type Document struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
}

type Message struct {
	MessageID int64     `json:"message_id"`
	Date      int64     `json:"date"`
	Text      string    `json:"text"`
	Caption   string    `json:"caption"`
	Document  *Document `json:"document"`
}

type Update struct {
	UpdateID    int64    `json:"update_id"`
	Message     *Message `json:"message"`
	ChannelPost *Message `json:"channel_post"`
}

func (u Update) message() *Message {
	if u.Message != nil {
		return u.Message
	}
	return u.ChannelPost
}

type envelope[T any] struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      T      `json:"result"`
}

func (b *Bot) method(name string) string {
	return fmt.Sprintf("%s/bot%s/%s", b.BaseURL, b.Token, name)
}

// SendDocument uploads data as a file attachment to the configured chat.
func (b *Bot) SendDocument(ctx context.Context, fileName, caption string, data []byte) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("chat_id", b.ChatID); err != nil {
		return errors.Wrap(err, "failed to write chat_id")
	}
	if caption != "" {
		if err := mw.WriteField("caption", caption); err != nil {
			return errors.Wrap(err, "failed to write caption")
		}
	}
	part, err := mw.CreateFormFile("document", fileName)
	if err != nil {
		return errors.Wrap(err, "failed to create form file")
	}
	if _, err := part.Write(data); err != nil {
		return errors.Wrap(err, "failed to write document")
	}
	if err := mw.Close(); err != nil {
		return errors.Wrap(err, "failed to close multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.method("sendDocument"), &body)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out envelope[json.RawMessage]
	return b.do(req, &out)
}

// RecentUpdates returns the last few updates the bot received, oldest first.
func (b *Bot) RecentUpdates(ctx context.Context) ([]Update, error) {
	endpoint := b.method("getUpdates") + "?" + url.Values{"offset": {fmt.Sprint(recentOffset)}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	var out envelope[[]Update]
	if err := b.do(req, &out); err != nil {
		return nil, err
	}
	return out.Result, nil
}

// Download fetches the content of an uploaded file.
func (b *Bot) Download(ctx context.Context, fileID string) ([]byte, error) {
	endpoint := b.method("getFile") + "?" + url.Values{"file_id": {fileID}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	var out envelope[struct {
		FilePath string `json:"file_path"`
	}]
	if err := b.do(req, &out); err != nil {
		return nil, err
	}

	fileURL := fmt.Sprintf("%s/file/bot%s/%s", b.BaseURL, b.Token, out.Result.FilePath)
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to download file")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}
	return data, nil
}

// LatestPayload walks the recent messages newest first and returns the
// first JSON body that accept takes: either message text starting with
// '{' or '[', or a .json document.
func (b *Bot) LatestPayload(ctx context.Context, accept func([]byte) bool) ([]byte, error) {
	updates, err := b.RecentUpdates(ctx)
	if err != nil {
		return nil, err
	}
	for i := len(updates) - 1; i >= 0; i-- {
		msg := updates[i].message()
		if msg == nil {
			continue
		}
		if text := strings.TrimSpace(msg.Text); strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
			if accept([]byte(text)) {
				return []byte(text), nil
			}
		}
		if doc := msg.Document; doc != nil && isJSONDocument(doc) {
			data, err := b.Download(ctx, doc.FileID)
			if err != nil {
				return nil, err
			}
			if accept(data) {
				return data, nil
			}
		}
	}
	return nil, ErrNoPayload
}

func isJSONDocument(d *Document) bool {
	return d.MimeType == "application/json" || strings.HasSuffix(strings.ToLower(d.FileName), ".json")
}

func (b *Bot) do(req *http.Request, out interface{ ok() (bool, string) }) error {
	resp, err := b.Client.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to call telegram")
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode response (status %d)", resp.StatusCode)
	}
	if ok, desc := out.ok(); !ok {
		return errors.Errorf("telegram error (status %d): %s", resp.StatusCode, desc)
	}
	return nil
}

func (e *envelope[T]) ok() (bool, string) {
	return e.OK, e.Description
}
