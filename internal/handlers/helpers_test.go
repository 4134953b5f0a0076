package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kaiz1_core/internal/handlers"
	"kaiz1_core/internal/middleware"
	"kaiz1_core/internal/model"
	svc_mocks "kaiz1_core/internal/service/mocks"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// httpRequestDetails はHTTPリクエストの送信に必要な情報をまとめます。
type httpRequestDetails struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// sendRequest はHTTPリクエストを送信し、ステータスコードを検証してボディを返します。
func sendRequest(t *testing.T, server *httptest.Server, details httpRequestDetails, expectedCode int) []byte {
	t.Helper()

	var reqBodyReader io.Reader
	if details.Body != nil {
		if strPayload, ok := details.Body.(string); ok {
			reqBodyReader = strings.NewReader(strPayload)
		} else {
			reqBodyBytes, err := json.Marshal(details.Body)
			require.NoError(t, err, "Failed to marshal request body")
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	req, err := http.NewRequest(details.Method, server.URL+details.Path, reqBodyReader)
	require.NoError(t, err, "Failed to create request")
	if reqBodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range details.Headers {
		req.Header.Set(key, value)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err, "Failed to execute request")
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")
	assert.Equal(t, expectedCode, resp.StatusCode, "Status code mismatch: %s", string(respBodyBytes))
	return respBodyBytes
}

// verifyErrorResponse はエラーレスポンスの code を検証します。
func verifyErrorResponse(t *testing.T, body []byte, expectedCode string) model.ErrorDetail {
	t.Helper()
	var errResp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp), "body: %s", string(body))
	assert.Equal(t, expectedCode, errResp.Error.Code)
	return errResp.Error
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockServices はハンドラテスト用のモックサービス一式
type mockServices struct {
	users         *svc_mocks.UserService
	progress      *svc_mocks.ProgressService
	books         *svc_mocks.BookService
	highlights    *svc_mocks.HighlightService
	flashcards    *svc_mocks.FlashcardService
	feeds         *svc_mocks.FeedService
	notifications *svc_mocks.NotificationService
}

func (m *mockServices) assertExpectations(t *testing.T) {
	m.users.AssertExpectations(t)
	m.progress.AssertExpectations(t)
	m.books.AssertExpectations(t)
	m.highlights.AssertExpectations(t)
	m.flashcards.AssertExpectations(t)
	m.feeds.AssertExpectations(t)
	m.notifications.AssertExpectations(t)
}

// setupMockServer は開発用 X-User-ID 認証でルーターを組み立てる
func setupMockServer(t *testing.T, issuer handlers.TokenIssuer) (*httptest.Server, *mockServices) {
	t.Helper()
	m := &mockServices{
		users:         new(svc_mocks.UserService),
		progress:      new(svc_mocks.ProgressService),
		books:         new(svc_mocks.BookService),
		highlights:    new(svc_mocks.HighlightService),
		flashcards:    new(svc_mocks.FlashcardService),
		feeds:         new(svc_mocks.FeedService),
		notifications: new(svc_mocks.NotificationService),
	}
	h := handlers.Handlers{
		Users:         handlers.NewUserHandler(m.users, issuer),
		Progress:      handlers.NewProgressHandler(m.progress),
		Books:         handlers.NewBookHandler(m.books),
		Highlights:    handlers.NewHighlightHandler(m.highlights),
		Flashcards:    handlers.NewFlashcardHandler(m.flashcards),
		Feeds:         handlers.NewFeedHandler(m.feeds),
		Notifications: handlers.NewNotificationHandler(m.notifications),
	}
	r := chi.NewRouter()
	r.Use(middleware.LoggingMiddleware(discardLogger()))
	handlers.RegisterRoutes(r, h, middleware.DevUserContextMiddleware)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, m
}
