package http_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httpadapter "github.com/sporto/kic/internal/app/core/adapter/in/http"
	"github.com/sporto/kic/internal/app/core/adapter/out/memory"
	"github.com/sporto/kic/internal/app/core/adapter/out/webhook"
	"github.com/sporto/kic/internal/app/core/domain"
	"github.com/sporto/kic/internal/app/core/usecase"
)

// newTestApp 組裝以 memory store 為後端的 fiber 應用
// 帳戶 10 屬於投資人 2 (租戶 1)；使用者 5 為租戶 2 的投資人
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	store, err := memory.NewStore(nil)
	require.NoError(t, err)

	directory := memory.NewDirectory(
		[]domain.User{
			{ID: 1, ClientID: 1, Role: domain.RoleAdmin},
			{ID: 2, ClientID: 1, Role: domain.RoleInvestor},
			{ID: 5, ClientID: 2, Role: domain.RoleInvestor},
		},
		[]domain.Account{
			{ID: 10, UserID: 2, CreatedAt: time.Now()},
		},
	)

	core := usecase.NewCoreUseCase(store, directory, webhook.NopNotifier{}, usecase.SystemClock{}, decimal.Zero, zap.NewNop())
	return httpadapter.NewApp(core, directory)
}

func doJSON(t *testing.T, app *fiber.App, method, path, userID, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload))
	}
	return resp.StatusCode, payload
}

func TestDepositEndpoint(t *testing.T) {
	app := newTestApp(t)

	status, payload := doJSON(t, app, "POST", "/accounts/10/deposit", "2", `{"cents":600}`)
	require.Equal(t, fiber.StatusOK, status)

	tran := payload["transaction"].(map[string]any)
	assert.Equal(t, float64(600), tran["amount"])
	assert.Equal(t, float64(600), tran["balance"])

	status, payload = doJSON(t, app, "GET", "/accounts/10/balance", "2", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(600), payload["balance"])
}

func TestMissingUserHeader(t *testing.T) {
	app := newTestApp(t)

	status, _ := doJSON(t, app, "POST", "/accounts/10/deposit", "", `{"cents":100}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestErrorStatusMapping(t *testing.T) {
	app := newTestApp(t)

	// 無效金額 -> 400
	status, _ := doJSON(t, app, "POST", "/accounts/10/deposit", "2", `{"cents":-1}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	// 跨租戶 -> 403
	status, _ = doJSON(t, app, "POST", "/accounts/10/deposit", "5", `{"cents":100}`)
	assert.Equal(t, fiber.StatusForbidden, status)

	// 不存在的帳戶 -> 404
	status, _ = doJSON(t, app, "GET", "/accounts/999/balance", "1", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	// 餘額不足 -> 409
	status, _ = doJSON(t, app, "POST", "/accounts/10/withdraw", "2", `{"cents":100}`)
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestRequestLifecycleEndpoints(t *testing.T) {
	app := newTestApp(t)

	status, payload := doJSON(t, app, "POST", "/accounts/10/requests", "2", `{"kind":"deposit","cents":250}`)
	require.Equal(t, fiber.StatusCreated, status)

	req := payload["request"].(map[string]any)
	assert.Equal(t, "pending", reqStateName(req))
	requestID := req["id"].(string)

	// 同租戶管理員核准
	status, payload = doJSON(t, app, "POST", "/requests/"+requestID+"/approve", "1", "")
	require.Equal(t, fiber.StatusOK, status)
	tran := payload["transaction"].(map[string]any)
	assert.Equal(t, float64(250), tran["balance"])

	// 再核准 -> 409
	status, _ = doJSON(t, app, "POST", "/requests/"+requestID+"/approve", "1", "")
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestCreateRequestInvalidKind(t *testing.T) {
	app := newTestApp(t)

	status, _ := doJSON(t, app, "POST", "/accounts/10/requests", "2", `{"kind":"interest","cents":250}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

// state 以數值序列化，這裡還原成名稱方便斷言
func reqStateName(req map[string]any) string {
	return domain.RequestState(uint8(req["state"].(float64))).String()
}
