package handlers

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	telegram "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-lingo-courses/pkg/internal/testutil"
	"github.com/smith3v/tg-lingo-courses/pkg/logger"
)

type recordedRequest struct {
	path        string
	method      string
	contentType string
	body        []byte
}

type mockClient struct {
	requests []recordedRequest
	response string
}

func newMockClient() *mockClient {
	return &mockClient{
		response: `{"ok":true,"result":{"message_id":77}}`,
	}
}

func (m *mockClient) Do(req *http.Request) (*http.Response, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if err := req.Body.Close(); err != nil {
		return nil, fmt.Errorf("failed to close request body: %w", err)
	}
	m.requests = append(m.requests, recordedRequest{
		path:        req.URL.Path,
		method:      req.Method,
		contentType: req.Header.Get("Content-Type"),
		body:        body,
	})

	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(m.response)),
		Header:     make(http.Header),
	}
	return resp, nil
}

// lastRequestTo returns the most recent call of a Bot API method such as
// "sendMessage".
func (m *mockClient) lastRequestTo(t *testing.T, apiMethod string) recordedRequest {
	t.Helper()
	for i := len(m.requests) - 1; i >= 0; i-- {
		if strings.HasSuffix(m.requests[i].path, "/"+apiMethod) {
			return m.requests[i]
		}
	}
	t.Fatalf("no %s request recorded", apiMethod)
	return recordedRequest{}
}

func (m *mockClient) countRequestsTo(apiMethod string) int {
	count := 0
	for _, req := range m.requests {
		if strings.HasSuffix(req.path, "/"+apiMethod) {
			count++
		}
	}
	return count
}

func (m *mockClient) lastMessageText(t *testing.T) string {
	t.Helper()
	text, _ := m.lastRequestTo(t, "sendMessage").field(t, "text")
	return text
}

func (m *mockClient) lastCallbackAnswer(t *testing.T) string {
	t.Helper()
	text, _ := m.lastRequestTo(t, "answerCallbackQuery").fieldOrEmpty(t, "text")
	return text
}

func (r recordedRequest) field(t *testing.T, fieldName string) (string, string) {
	t.Helper()
	value, fileName, ok := r.lookup(t, fieldName)
	if !ok {
		t.Fatalf("field %q not found in request to %s", fieldName, r.path)
	}
	return value, fileName
}

func (r recordedRequest) fieldOrEmpty(t *testing.T, fieldName string) (string, bool) {
	t.Helper()
	value, _, ok := r.lookup(t, fieldName)
	return value, ok
}

func (r recordedRequest) lookup(t *testing.T, fieldName string) (string, string, bool) {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(r.contentType)
	if err != nil {
		t.Fatalf("failed to parse media type: %v", err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		t.Fatalf("unexpected media type: %s", mediaType)
	}

	reader := multipart.NewReader(bytes.NewReader(r.body), params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read multipart part: %v", err)
		}
		if part.FormName() == fieldName {
			data, err := io.ReadAll(part)
			if err != nil {
				t.Fatalf("failed to read multipart field: %v", err)
			}
			return string(data), part.FileName(), true
		}
	}
	return "", "", false
}

func setupHandlerTest(t *testing.T) (*mockClient, *telegram.Bot) {
	t.Helper()
	testutil.SetupTestDB(t)
	logger.SetLogLevel(logger.ERROR)
	client := newMockClient()
	return client, newTestTelegramBot(t, client)
}

func newTestTelegramBot(t *testing.T, client *mockClient) *telegram.Bot {
	t.Helper()
	b, err := telegram.New("test-token",
		telegram.WithSkipGetMe(),
		telegram.WithHTTPClient(time.Second, client),
	)
	if err != nil {
		t.Fatalf("failed to create test bot: %v", err)
	}
	return b
}

func newTestUpdate(text string, chatID int64) *models.Update {
	return &models.Update{
		Message: &models.Message{
			From: &models.User{
				ID: chatID,
			},
			Chat: models.Chat{
				ID:   chatID,
				Type: models.ChatTypePrivate,
			},
			Text: text,
		},
	}
}

func newTestCallbackUpdate(data string, chatID int64, messageID int) *models.Update {
	return &models.Update{
		CallbackQuery: &models.CallbackQuery{
			ID:   "callback-1",
			From: models.User{ID: chatID},
			Data: data,
			Message: models.MaybeInaccessibleMessage{
				Type: models.MaybeInaccessibleMessageTypeMessage,
				Message: &models.Message{
					ID: messageID,
					Chat: models.Chat{
						ID:   chatID,
						Type: models.ChatTypePrivate,
					},
				},
			},
		},
	}
}
