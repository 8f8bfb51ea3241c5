package bot

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWebhook_MessageUpdate(t *testing.T) {
	store := newFakeStore()
	b, sender := newTestBot(store)
	handler := NewWebhookHandler(b, zap.NewNop())

	body := `{"message": {"chat": {"id": 643575590}, "from": {"id": 42}, "text": "/add_list Groceries"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "True", rec.Body.String())
	require.Equal(t, []string{"Groceries"}, store.createdLists)

	msg := lastMessage(t, sender)
	require.Equal(t, int64(643575590), msg.ChatID)
}

func TestWebhook_CallbackUpdate(t *testing.T) {
	store := newFakeStore()
	b, sender := newTestBot(store)
	handler := NewWebhookHandler(b, zap.NewNop())

	body := `{"callback_query": {"message": {"chat": {"id": 643575590}}, "data": "/delete_item Milk"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "True", rec.Body.String())
	require.Equal(t, []string{"Milk"}, store.deletedItems)
	require.Equal(t, "Milk видалено.", lastMessage(t, sender).Text)
}

func TestWebhook_RejectsNonPost(t *testing.T) {
	b, _ := newTestBot(newFakeStore())
	handler := NewWebhookHandler(b, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWebhook_RejectsBadPayload(t *testing.T) {
	b, _ := newTestBot(newFakeStore())
	handler := NewWebhookHandler(b, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhook_EmptyUpdateIsAcknowledged(t *testing.T) {
	store := newFakeStore()
	b, sender := newTestBot(store)
	handler := NewWebhookHandler(b, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"update_id": 1}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "True", rec.Body.String())
	require.Empty(t, sender.sent)
}
