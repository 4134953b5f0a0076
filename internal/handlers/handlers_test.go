package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"kaiz1_core/internal/handlers"
	"kaiz1_core/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserHandler_CreateUser(t *testing.T) {
	user := &model.User{UserID: uuid.New(), Name: "Alice"}
	stats := &model.UserStats{UserID: user.UserID, Level: 1, LevelName: "Beginner", NextLevelXP: 1000, Badges: []model.BadgeType{}}

	tests := []struct {
		name         string
		body         interface{}
		setupMock    func(m *mockServices)
		expectedCode int
		errorCode    string
	}{
		{
			name: "正常系: 作成してトークンを返す",
			body: map[string]string{"name": "Alice"},
			setupMock: func(m *mockServices) {
				m.users.On("CreateUser", mock.Anything, "Alice").Return(user, stats, nil).Once()
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "異常系: 名前が無い",
			body:         map[string]string{},
			setupMock:    func(m *mockServices) {},
			expectedCode: http.StatusBadRequest,
			errorCode:    "VALIDATION_ERROR",
		},
		{
			name:         "異常系: 不正なJSON",
			body:         `{"name":`,
			setupMock:    func(m *mockServices) {},
			expectedCode: http.StatusBadRequest,
			errorCode:    "INVALID_REQUEST_BODY",
		},
		{
			name:         "異常系: 未知のフィールド",
			body:         map[string]string{"name": "Alice", "role": "admin"},
			setupMock:    func(m *mockServices) {},
			expectedCode: http.StatusBadRequest,
			errorCode:    "INVALID_REQUEST_BODY",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer := handlers.TokenIssuer(func(id uuid.UUID) (string, error) { return "token-" + id.String(), nil })
			server, m := setupMockServer(t, issuer)
			tt.setupMock(m)

			body := sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/users", Body: tt.body}, tt.expectedCode)
			if tt.errorCode != "" {
				verifyErrorResponse(t, body, tt.errorCode)
			} else {
				var resp model.CreateUserResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, user.UserID, resp.User.UserID)
				assert.Equal(t, "token-"+user.UserID.String(), resp.AccessToken)
				assert.Equal(t, 1000, resp.Stats.NextLevelXP)
			}
			m.assertExpectations(t)
		})
	}
}

func TestUserHandler_CreateUser_WithoutIssuer(t *testing.T) {
	server, m := setupMockServer(t, nil)
	user := &model.User{UserID: uuid.New(), Name: "Bob"}
	m.users.On("CreateUser", mock.Anything, "Bob").Return(user, &model.UserStats{UserID: user.UserID}, nil).Once()

	body := sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/users", Body: map[string]string{"name": "Bob"}}, http.StatusCreated)
	assert.NotContains(t, string(body), "access_token")
}

func TestProtectedRoutes_RequireUser(t *testing.T) {
	server, m := setupMockServer(t, nil)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/me"},
		{http.MethodGet, "/api/v1/me/stats"},
		{http.MethodGet, "/api/v1/books"},
		{http.MethodPost, "/api/v1/books/" + uuid.NewString() + "/complete"},
		{http.MethodGet, "/api/v1/feed/next"},
	}
	for _, p := range paths {
		body := sendRequest(t, server, httpRequestDetails{Method: p.method, Path: p.path}, http.StatusForbidden)
		verifyErrorResponse(t, body, "UNAUTHORIZED")
	}

	body := sendRequest(t, server, httpRequestDetails{
		Method:  http.MethodGet,
		Path:    "/api/v1/me",
		Headers: map[string]string{"X-User-ID": "not-a-uuid"},
	}, http.StatusForbidden)
	verifyErrorResponse(t, body, "UNAUTHORIZED")
	m.assertExpectations(t)
}

func TestUserHandler_UpdateSettings(t *testing.T) {
	userID := uuid.New()
	headers := map[string]string{"X-User-ID": userID.String()}

	tests := []struct {
		name         string
		body         interface{}
		setupMock    func(m *mockServices)
		expectedCode int
		errorCode    string
	}{
		{
			name: "正常系: 目標時間を変更",
			body: map[string]int{"daily_goal_minutes": 30},
			setupMock: func(m *mockServices) {
				m.users.On("UpdateDailyGoal", mock.Anything, userID, 30).Return(&model.UserStats{UserID: userID, DailyGoalMinutes: 30}, nil).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "異常系: 範囲外",
			body:         map[string]int{"daily_goal_minutes": 0},
			setupMock:    func(m *mockServices) {},
			expectedCode: http.StatusBadRequest,
			errorCode:    "VALIDATION_ERROR",
		},
		{
			name:         "異常系: 未指定",
			body:         map[string]int{},
			setupMock:    func(m *mockServices) {},
			expectedCode: http.StatusBadRequest,
			errorCode:    "VALIDATION_ERROR",
		},
		{
			name: "異常系: ユーザーが存在しない",
			body: map[string]int{"daily_goal_minutes": 30},
			setupMock: func(m *mockServices) {
				m.users.On("UpdateDailyGoal", mock.Anything, userID, 30).
					Return(nil, model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)).Once()
			},
			expectedCode: http.StatusNotFound,
			errorCode:    "USER_NOT_FOUND",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, m := setupMockServer(t, nil)
			tt.setupMock(m)
			body := sendRequest(t, server, httpRequestDetails{Method: http.MethodPatch, Path: "/api/v1/me/settings", Body: tt.body, Headers: headers}, tt.expectedCode)
			if tt.errorCode != "" {
				verifyErrorResponse(t, body, tt.errorCode)
			}
			m.assertExpectations(t)
		})
	}
}

func TestProgressHandler(t *testing.T) {
	userID := uuid.New()
	headers := map[string]string{"X-User-ID": userID.String()}
	server, m := setupMockServer(t, nil)

	m.progress.On("GetStats", mock.Anything, userID).Return(&model.UserStats{UserID: userID, TotalXP: 150, Badges: []model.BadgeType{model.BadgeFirstBook}}, nil).Once()
	m.progress.On("GetStreak", mock.Anything, userID).Return(&model.StreakResponse{Record: &model.StreakRecord{UserID: userID, CurrentStreak: 3}, State: model.StreakAtRisk}, nil).Once()
	m.progress.On("ListBadges", mock.Anything, userID).Return(nil, nil).Once()

	body := sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/me/stats", Headers: headers}, http.StatusOK)
	assert.Contains(t, string(body), `"badges":["first_book"]`)

	body = sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/me/streak", Headers: headers}, http.StatusOK)
	assert.Contains(t, string(body), `"state":"at_risk"`)

	body = sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/me/badges", Headers: headers}, http.StatusOK)
	assert.JSONEq(t, `[]`, string(body))
	m.assertExpectations(t)
}

func TestBookHandler_CompleteBook(t *testing.T) {
	userID := uuid.New()
	bookID := uuid.New()

	tests := []struct {
		name         string
		path         string
		idemKey      string
		setupMock    func(m *mockServices)
		expectedCode int
		errorCode    string
	}{
		{
			name:    "正常系: 冪等キーを渡して読了",
			path:    "/api/v1/books/" + bookID.String() + "/complete",
			idemKey: "req-1",
			setupMock: func(m *mockServices) {
				m.books.On("CompleteBook", mock.Anything, userID, bookID, "req-1").Return(&model.ActivityResult{
					Stats:  &model.UserStats{UserID: userID, BooksCompleted: 1, TotalXP: 100},
					Streak: &model.StreakRecord{UserID: userID, CurrentStreak: 1},
					Events: []model.Event{{Type: model.EventXPAwarded, XP: 100, Reason: "book_completed"}},
				}, nil).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name:    "異常系: 再送",
			path:    "/api/v1/books/" + bookID.String() + "/complete",
			idemKey: "req-1",
			setupMock: func(m *mockServices) {
				m.books.On("CompleteBook", mock.Anything, userID, bookID, "req-1").
					Return(nil, model.NewAppError("DUPLICATE_REQUEST", "このリクエストは既に処理されています。", "", model.ErrConflict)).Once()
			},
			expectedCode: http.StatusConflict,
			errorCode:    "DUPLICATE_REQUEST",
		},
		{
			name: "異常系: 書籍が存在しない",
			path: "/api/v1/books/" + bookID.String() + "/complete",
			setupMock: func(m *mockServices) {
				m.books.On("CompleteBook", mock.Anything, userID, bookID, "").
					Return(nil, model.NewAppError("BOOK_NOT_FOUND", "書籍が見つかりません。", "", model.ErrNotFound)).Once()
			},
			expectedCode: http.StatusNotFound,
			errorCode:    "BOOK_NOT_FOUND",
		},
		{
			name: "異常系: 想定外のエラー",
			path: "/api/v1/books/" + bookID.String() + "/complete",
			setupMock: func(m *mockServices) {
				m.books.On("CompleteBook", mock.Anything, userID, bookID, "").Return(nil, errors.New("boom")).Once()
			},
			expectedCode: http.StatusInternalServerError,
			errorCode:    "INTERNAL_SERVER_ERROR",
		},
		{
			name:         "異常系: 不正な book_id",
			path:         "/api/v1/books/abc/complete",
			setupMock:    func(m *mockServices) {},
			expectedCode: http.StatusBadRequest,
			errorCode:    "INVALID_PATH_PARAM",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, m := setupMockServer(t, nil)
			tt.setupMock(m)
			headers := map[string]string{"X-User-ID": userID.String()}
			if tt.idemKey != "" {
				headers[handlers.IdempotencyKeyHeader] = tt.idemKey
			}
			body := sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: tt.path, Headers: headers}, tt.expectedCode)
			if tt.errorCode != "" {
				verifyErrorResponse(t, body, tt.errorCode)
			} else {
				var res model.ActivityResult
				require.NoError(t, json.Unmarshal(body, &res))
				assert.Equal(t, 100, res.Stats.TotalXP)
				require.Len(t, res.Events, 1)
				assert.Equal(t, model.EventXPAwarded, res.Events[0].Type)
			}
			m.assertExpectations(t)
		})
	}
}

func TestBookHandler_Library(t *testing.T) {
	userID := uuid.New()
	bookID := uuid.New()
	headers := map[string]string{"X-User-ID": userID.String()}
	server, m := setupMockServer(t, nil)

	m.books.On("ListBooks", mock.Anything, "mindset").Return([]model.Book{{BookID: bookID, Title: "Mindset"}}, nil).Once()
	m.books.On("ListSavedBooks", mock.Anything, userID).Return(nil, nil).Once()
	m.books.On("GetBook", mock.Anything, bookID).Return(&model.Book{BookID: bookID, Title: "Mindset"}, nil).Once()
	m.books.On("SaveBook", mock.Anything, userID, bookID).Return(nil).Once()
	m.books.On("UnsaveBook", mock.Anything, userID, bookID).
		Return(model.NewAppError("SAVED_BOOK_NOT_FOUND", "保存済みの書籍が見つかりません。", "", model.ErrNotFound)).Once()

	body := sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/books?category=mindset", Headers: headers}, http.StatusOK)
	assert.Contains(t, string(body), `"title":"Mindset"`)

	body = sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/books/saved", Headers: headers}, http.StatusOK)
	assert.JSONEq(t, `[]`, string(body))

	sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/books/" + bookID.String(), Headers: headers}, http.StatusOK)
	sendRequest(t, server, httpRequestDetails{Method: http.MethodPut, Path: "/api/v1/books/" + bookID.String() + "/save", Headers: headers}, http.StatusNoContent)
	body = sendRequest(t, server, httpRequestDetails{Method: http.MethodDelete, Path: "/api/v1/books/" + bookID.String() + "/save", Headers: headers}, http.StatusNotFound)
	verifyErrorResponse(t, body, "SAVED_BOOK_NOT_FOUND")
	m.assertExpectations(t)
}

func TestHighlightHandler(t *testing.T) {
	userID := uuid.New()
	bookID := uuid.New()
	highlightID := uuid.New()
	headers := map[string]string{"X-User-ID": userID.String()}

	t.Run("正常系: 作成", func(t *testing.T) {
		server, m := setupMockServer(t, nil)
		m.highlights.On("CreateHighlight", mock.Anything, userID, bookID, "idea", "").Return(&model.HighlightResponse{
			Highlight: &model.Highlight{HighlightID: highlightID, BookID: bookID, Text: "idea"},
			Flashcard: &model.Flashcard{FlashcardID: uuid.New(), HighlightID: highlightID, Answer: "idea"},
			Result:    &model.ActivityResult{Stats: &model.UserStats{TotalXP: 10}, Events: []model.Event{}},
		}, nil).Once()

		body := sendRequest(t, server, httpRequestDetails{
			Method: http.MethodPost, Path: "/api/v1/highlights", Headers: headers,
			Body: map[string]string{"book_id": bookID.String(), "text": "idea"},
		}, http.StatusCreated)
		assert.Contains(t, string(body), highlightID.String())
		m.assertExpectations(t)
	})

	t.Run("異常系: book_id が UUID でない", func(t *testing.T) {
		server, m := setupMockServer(t, nil)
		body := sendRequest(t, server, httpRequestDetails{
			Method: http.MethodPost, Path: "/api/v1/highlights", Headers: headers,
			Body: map[string]string{"book_id": "x", "text": "idea"},
		}, http.StatusBadRequest)
		detail := verifyErrorResponse(t, body, "VALIDATION_ERROR")
		assert.Equal(t, "book_id", detail.Field)
		m.assertExpectations(t)
	})

	t.Run("正常系: 書籍で絞り込み", func(t *testing.T) {
		server, m := setupMockServer(t, nil)
		m.highlights.On("ListHighlights", mock.Anything, userID, bookID).Return([]model.Highlight{{HighlightID: highlightID}}, nil).Once()
		m.highlights.On("ListHighlights", mock.Anything, userID, uuid.Nil).Return(nil, nil).Once()

		sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/highlights?book_id=" + bookID.String(), Headers: headers}, http.StatusOK)
		body := sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/highlights", Headers: headers}, http.StatusOK)
		assert.JSONEq(t, `[]`, string(body))
		sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/highlights?book_id=bad", Headers: headers}, http.StatusBadRequest)
		m.assertExpectations(t)
	})

	t.Run("削除", func(t *testing.T) {
		server, m := setupMockServer(t, nil)
		m.highlights.On("DeleteHighlight", mock.Anything, userID, highlightID).Return(nil).Once()
		sendRequest(t, server, httpRequestDetails{Method: http.MethodDelete, Path: "/api/v1/highlights/" + highlightID.String(), Headers: headers}, http.StatusNoContent)
		m.assertExpectations(t)
	})
}

func TestFlashcardHandler(t *testing.T) {
	userID := uuid.New()
	cardID := uuid.New()
	headers := map[string]string{"X-User-ID": userID.String()}

	t.Run("正常系: 復習対象と総数", func(t *testing.T) {
		server, m := setupMockServer(t, nil)
		m.flashcards.On("ListDueFlashcards", mock.Anything, userID).Return([]model.Flashcard{{FlashcardID: cardID}}, nil).Once()
		m.flashcards.On("CountDueFlashcards", mock.Anything, userID).Return(int64(42), nil).Once()

		body := sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/flashcards/due", Headers: headers}, http.StatusOK)
		var resp model.DueFlashcardsResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.Equal(t, int64(42), resp.TotalDue)
		assert.Len(t, resp.Flashcards, 1)
		m.assertExpectations(t)
	})

	t.Run("正常系: 復習結果", func(t *testing.T) {
		server, m := setupMockServer(t, nil)
		next := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
		m.flashcards.On("ReviewFlashcard", mock.Anything, userID, cardID, false).Return(&model.ReviewResult{
			Flashcard: &model.Flashcard{FlashcardID: cardID, Interval: 1, NextReviewDate: next},
			Result:    &model.ActivityResult{Stats: &model.UserStats{FlashcardsReviewed: 1}, Events: []model.Event{}},
		}, nil).Once()

		body := sendRequest(t, server, httpRequestDetails{
			Method: http.MethodPut, Path: "/api/v1/flashcards/" + cardID.String() + "/review", Headers: headers,
			Body: map[string]bool{"is_correct": false},
		}, http.StatusOK)
		assert.Contains(t, string(body), `"interval":1`)
		m.assertExpectations(t)
	})

	t.Run("異常系: is_correct が無い", func(t *testing.T) {
		server, m := setupMockServer(t, nil)
		body := sendRequest(t, server, httpRequestDetails{
			Method: http.MethodPut, Path: "/api/v1/flashcards/" + cardID.String() + "/review", Headers: headers,
			Body: map[string]string{},
		}, http.StatusBadRequest)
		verifyErrorResponse(t, body, "VALIDATION_ERROR")
		m.assertExpectations(t)
	})
}

func TestFeedHandler(t *testing.T) {
	userID := uuid.New()
	headers := map[string]string{"X-User-ID": userID.String()}
	server, m := setupMockServer(t, nil)

	weak := []model.DimensionTag{model.DimensionHealth, model.DimensionCareer}
	item := model.ContentItem{ContentID: uuid.New(), DimensionTag: model.DimensionHealth, Text: "Walk."}
	m.feeds.On("GetFeed", mock.Anything, userID, weak).Return(&model.FeedResponse{Items: []model.ContentItem{item}}, nil).Once()
	m.feeds.On("NextItem", mock.Anything, userID, []model.DimensionTag(nil)).Return(&model.FeedItemResponse{Item: &item, Position: 0, FeedLength: 1, Regenerated: true}, nil).Once()
	m.feeds.On("NextItem", mock.Anything, userID, []model.DimensionTag{"astrology"}).
		Return(nil, model.NewAppError("VALIDATION_ERROR", "弱い領域の指定が不正です: astrology", "weak", model.ErrInvalidInput)).Once()

	body := sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/feed?weak=health,%20Career", Headers: headers}, http.StatusOK)
	assert.Contains(t, string(body), "Walk.")

	body = sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/feed/next", Headers: headers}, http.StatusOK)
	assert.Contains(t, string(body), `"regenerated":true`)

	body = sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/feed/next?weak=astrology", Headers: headers}, http.StatusBadRequest)
	verifyErrorResponse(t, body, "VALIDATION_ERROR")
	m.assertExpectations(t)
}

func TestNotificationHandler(t *testing.T) {
	userID := uuid.New()
	notificationID := uuid.New()
	headers := map[string]string{"X-User-ID": userID.String()}
	server, m := setupMockServer(t, nil)

	m.notifications.On("ListNotifications", mock.Anything, userID, true).Return([]model.Notification{{NotificationID: notificationID, Kind: model.NotificationStreakAtRisk}}, nil).Once()
	m.notifications.On("ListNotifications", mock.Anything, userID, false).Return(nil, nil).Once()
	m.notifications.On("MarkNotificationRead", mock.Anything, userID, notificationID).Return(nil).Once()

	body := sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/notifications?unread=true", Headers: headers}, http.StatusOK)
	assert.Contains(t, string(body), "streak_at_risk")

	body = sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/notifications", Headers: headers}, http.StatusOK)
	assert.JSONEq(t, `[]`, string(body))

	body = sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/notifications?unread=maybe", Headers: headers}, http.StatusBadRequest)
	verifyErrorResponse(t, body, "INVALID_QUERY_PARAM")

	sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/notifications/" + notificationID.String() + "/read", Headers: headers}, http.StatusNoContent)
	m.assertExpectations(t)
}
