package handlers

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/nimasrn/storefront-backoffice/internal/idempotency"
	"github.com/nimasrn/storefront-backoffice/internal/model"
	"github.com/nimasrn/storefront-backoffice/internal/services"
	xhttp "github.com/nimasrn/storefront-backoffice/pkg/http"
	"github.com/nimasrn/storefront-backoffice/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupGuard(t *testing.T) *idempotency.Guard {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	adapter, err := redis.NewRedisAdapter("handlers-"+t.Name(), "", &redis.Options{Addrs: []string{mr.Addr()}})
	require.NoError(t, err)
	return idempotency.NewGuard(adapter, idempotency.DefaultConfig())
}

func TestPointsHandler_CreateAdjustment(t *testing.T) {
	userID := uuid.New()

	t.Run("returns new balance", func(t *testing.T) {
		svc := new(MockPointsService)
		h := NewPointsHandler(svc, nil, nil)

		req := model.AdjustmentCreateRequest{UserID: userID.String(), Delta: 100, Reason: "promo"}
		svc.On("RecordAdjustment", mock.Anything, req).
			Return(&model.AdjustmentResult{AdjustmentID: uuid.New(), UserID: userID, Points: 150}, nil)

		ctx := setupTestContext("POST", "/api/admin/points", []byte(`{"user_id":"`+userID.String()+`","delta":100,"reason":"promo"}`))
		h.CreateAdjustment(ctx)

		assert.Equal(t, xhttp.StatusOK, ctx.Response.StatusCode())
		body := decodeBody(t, ctx)
		assert.Equal(t, true, body["ok"])
		assert.Equal(t, userID.String(), body["user_id"])
		assert.Equal(t, float64(150), body["points"])
		svc.AssertExpectations(t)
	})

	t.Run("zero delta maps to invalid_delta", func(t *testing.T) {
		svc := new(MockPointsService)
		h := NewPointsHandler(svc, nil, nil)
		svc.On("RecordAdjustment", mock.Anything, mock.Anything).Return(nil, services.ErrInvalidDelta)

		ctx := setupTestContext("POST", "/api/admin/points", []byte(`{"user_id":"x","delta":0}`))
		h.CreateAdjustment(ctx)

		assert.Equal(t, xhttp.StatusBadRequest, ctx.Response.StatusCode())
		body := decodeBody(t, ctx)
		assert.Equal(t, false, body["ok"])
		assert.Equal(t, "invalid_delta", body["reason"])
	})

	t.Run("unknown user is 404", func(t *testing.T) {
		svc := new(MockPointsService)
		h := NewPointsHandler(svc, nil, nil)
		svc.On("RecordAdjustment", mock.Anything, mock.Anything).Return(nil, services.ErrUserNotFound)

		ctx := setupTestContext("POST", "/api/admin/points", []byte(`{"user_id":"x","delta":5}`))
		h.CreateAdjustment(ctx)

		assert.Equal(t, xhttp.StatusNotFound, ctx.Response.StatusCode())
		assert.Equal(t, "not_found", decodeBody(t, ctx)["reason"])
	})

	t.Run("partial failure reports the appended adjustment", func(t *testing.T) {
		svc := new(MockPointsService)
		h := NewPointsHandler(svc, nil, nil)
		adjID := uuid.New()
		svc.On("RecordAdjustment", mock.Anything, mock.Anything).Return(nil, &services.PartialAdjustmentError{
			AdjustmentID: adjID,
			UserID:       userID,
			Err:          errors.New("connection reset"),
		})

		ctx := setupTestContext("POST", "/api/admin/points", []byte(`{"user_id":"x","delta":5}`))
		h.CreateAdjustment(ctx)

		assert.Equal(t, xhttp.StatusInternalServerError, ctx.Response.StatusCode())
		body := decodeBody(t, ctx)
		assert.Equal(t, "balance_not_updated", body["reason"])
		assert.Equal(t, adjID.String(), body["adjustment_id"])
	})

	t.Run("malformed body never reaches the service", func(t *testing.T) {
		svc := new(MockPointsService)
		h := NewPointsHandler(svc, nil, nil)

		ctx := setupTestContext("POST", "/api/admin/points", []byte(`{"delta":`))
		h.CreateAdjustment(ctx)

		assert.Equal(t, xhttp.StatusBadRequest, ctx.Response.StatusCode())
		assert.Equal(t, "invalid_body", decodeBody(t, ctx)["reason"])
		svc.AssertNotCalled(t, "RecordAdjustment", mock.Anything, mock.Anything)
	})
}

func TestPointsHandler_IdempotentReplay(t *testing.T) {
	userID := uuid.New()
	svc := new(MockPointsService)
	h := NewPointsHandler(svc, nil, setupGuard(t))
	svc.On("RecordAdjustment", mock.Anything, mock.Anything).
		Return(&model.AdjustmentResult{UserID: userID, Points: 100}, nil).Once()

	body := []byte(`{"user_id":"` + userID.String() + `","delta":100}`)

	first := setupTestContext("POST", "/api/admin/points", body)
	first.Request.Header.Set(idempotency.HeaderKey, "grant-1")
	h.CreateAdjustment(first)
	require.Equal(t, xhttp.StatusOK, first.Response.StatusCode())
	assert.Empty(t, first.Response.Header.Peek(idempotency.HeaderReplayed))

	second := setupTestContext("POST", "/api/admin/points", body)
	second.Request.Header.Set(idempotency.HeaderKey, "grant-1")
	h.CreateAdjustment(second)

	assert.Equal(t, xhttp.StatusOK, second.Response.StatusCode())
	assert.Equal(t, "true", string(second.Response.Header.Peek(idempotency.HeaderReplayed)))
	assert.JSONEq(t, string(first.Response.Body()), string(second.Response.Body()))
	svc.AssertNumberOfCalls(t, "RecordAdjustment", 1)
}

func TestPointsHandler_ValidationFailureReleasesKey(t *testing.T) {
	userID := uuid.New()
	svc := new(MockPointsService)
	h := NewPointsHandler(svc, nil, setupGuard(t))
	svc.On("RecordAdjustment", mock.Anything, mock.Anything).Return(nil, services.ErrInvalidExpiry).Once()
	svc.On("RecordAdjustment", mock.Anything, mock.Anything).
		Return(&model.AdjustmentResult{UserID: userID, Points: 10}, nil).Once()

	bad := setupTestContext("POST", "/api/admin/points", []byte(`{"user_id":"u","delta":10,"expires_at":"soon"}`))
	bad.Request.Header.Set(idempotency.HeaderKey, "k")
	h.CreateAdjustment(bad)
	assert.Equal(t, xhttp.StatusBadRequest, bad.Response.StatusCode())

	good := setupTestContext("POST", "/api/admin/points", []byte(`{"user_id":"u","delta":10}`))
	good.Request.Header.Set(idempotency.HeaderKey, "k")
	h.CreateAdjustment(good)

	assert.Equal(t, xhttp.StatusOK, good.Response.StatusCode())
	assert.Empty(t, good.Response.Header.Peek(idempotency.HeaderReplayed))
	svc.AssertNumberOfCalls(t, "RecordAdjustment", 2)
}

func TestPointsHandler_GetSummary(t *testing.T) {
	userID := uuid.New()
	svc := new(MockPointsService)
	h := NewPointsHandler(svc, nil, nil)

	at := time.Date(2026, 12, 30, 17, 0, 0, 0, time.UTC)
	bucket := model.ExpiringBucket{ExpiresAt: at, Points: 100}
	svc.On("Summarize", mock.Anything, userID.String()).Return(&model.PointsSummary{
		User:           &model.User{ID: userID, Email: "a@example.com", Role: model.RoleUser, Points: 150},
		ExpiringByDate: []model.ExpiringBucket{bucket},
		NextExpiring:   &bucket,
	}, nil)

	ctx := setupTestContext("GET", "/api/admin/points?user_id="+userID.String(), nil)
	h.GetSummary(ctx)

	require.Equal(t, xhttp.StatusOK, ctx.Response.StatusCode())
	body := decodeBody(t, ctx)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, float64(150), body["user"].(map[string]any)["points"])
	rows := body["expiring_by_date"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-12-30T17:00:00Z", rows[0].(map[string]any)["expires_at"])
	assert.Equal(t, float64(100), body["next_expiring"].(map[string]any)["points"])
}

func TestPointsHandler_GetSummaryNoExpiring(t *testing.T) {
	svc := new(MockPointsService)
	h := NewPointsHandler(svc, nil, nil)
	svc.On("Summarize", mock.Anything, "u").Return(&model.PointsSummary{
		User:           &model.User{ID: uuid.New(), Points: 50},
		ExpiringByDate: []model.ExpiringBucket{},
	}, nil)

	ctx := setupTestContext("GET", "/api/admin/points?user_id=u", nil)
	h.GetSummary(ctx)

	body := decodeBody(t, ctx)
	assert.Equal(t, []any{}, body["expiring_by_date"])
	assert.Nil(t, body["next_expiring"])
}

func TestPointsHandler_PendingGrants(t *testing.T) {
	t.Run("echoes normalized phone", func(t *testing.T) {
		grants := new(MockPhoneGrantService)
		h := NewPointsHandler(nil, grants, nil)
		grants.On("RecordPendingGrant", mock.Anything, model.PendingGrantCreateRequest{Phone: "0812-3456-789", Points: 25}).
			Return(&model.PendingGrantResult{Phone: "628123456789", Points: 25}, nil)

		ctx := setupTestContext("POST", "/api/admin/points-migrate", []byte(`{"phone":"0812-3456-789","points":25}`))
		h.CreatePendingGrant(ctx)

		assert.Equal(t, xhttp.StatusOK, ctx.Response.StatusCode())
		body := decodeBody(t, ctx)
		assert.Equal(t, "628123456789", body["phone"])
		assert.Equal(t, float64(25), body["points"])
	})

	t.Run("invalid phone", func(t *testing.T) {
		grants := new(MockPhoneGrantService)
		h := NewPointsHandler(nil, grants, nil)
		grants.On("RecordPendingGrant", mock.Anything, mock.Anything).Return(nil, services.ErrInvalidPhone)

		ctx := setupTestContext("POST", "/api/admin/points-migrate", []byte(`{"phone":"--","points":25}`))
		h.CreatePendingGrant(ctx)

		assert.Equal(t, xhttp.StatusBadRequest, ctx.Response.StatusCode())
		assert.Equal(t, "invalid_phone", decodeBody(t, ctx)["reason"])
	})

	t.Run("lists rows for a phone", func(t *testing.T) {
		grants := new(MockPhoneGrantService)
		h := NewPointsHandler(nil, grants, nil)
		grants.On("ListPendingGrants", mock.Anything, "0812").Return([]*model.PendingPhoneGrant{
			{ID: uuid.New(), Phone: "62812", Delta: 10},
			{ID: uuid.New(), Phone: "62812", Delta: 10},
		}, nil)

		ctx := setupTestContext("GET", "/api/admin/points-migrate?phone=0812", nil)
		h.ListPendingGrants(ctx)

		assert.Equal(t, xhttp.StatusOK, ctx.Response.StatusCode())
		assert.Len(t, decodeBody(t, ctx)["rows"], 2)
	})
}
