package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/authcore/internal/auth"
	"github.com/mrlokans/authcore/internal/config"
	"github.com/mrlokans/authcore/internal/database"
)

func setupHealthTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(database.InMemoryPath)
	require.NoError(t, err)
	return db
}

func getHealth(t *testing.T, controller *HealthController) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	router := gin.New()
	router.GET("/health", controller.Status)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

func TestHealthController_Status(t *testing.T) {
	t.Run("returns healthy when database is connected", func(t *testing.T) {
		db := setupHealthTestDB(t)
		defer db.Close()

		w, response := getHealth(t, NewHealthController(nil, "1.0.0").AddCheck("database", PingCheck(db)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "1.0.0", response.Version)
		assert.Equal(t, "ok", response.Checks["database"])
		assert.Contains(t, response.Time, "T")
	})

	t.Run("reports not configured when database is nil", func(t *testing.T) {
		w, response := getHealth(t, NewHealthController(nil, "1.0.0").AddCheck("database", PingCheck(nil)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "not configured", response.Checks["database"])
	})

	t.Run("returns unhealthy when database connection is closed", func(t *testing.T) {
		db := setupHealthTestDB(t)
		require.NoError(t, db.Close())

		w, response := getHealth(t, NewHealthController(nil, "1.0.0").AddCheck("database", PingCheck(db)))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", response.Status)
		assert.Contains(t, response.Checks["database"], "error")
	})

	t.Run("omits empty version", func(t *testing.T) {
		w, _ := getHealth(t, NewHealthController(nil, ""))
		assert.NotContains(t, w.Body.String(), "version")
	})
}

func TestHealthController_Strategy(t *testing.T) {
	_, response := getHealth(t, NewHealthController(nil, ""))
	assert.Equal(t, string(config.AuthTypeNone), response.Strategy)

	_, response = getHealth(t, NewHealthController(auth.NewBasicAuth("", nil, nil), ""))
	assert.Equal(t, string(config.AuthTypeBasic), response.Strategy)
}

func TestHealthController_ChecksAreIndependent(t *testing.T) {
	var sawDeadline bool
	controller := NewHealthController(nil, "").
		AddCheck("database", func(context.Context) error { return nil }).
		AddCheck("sessions", func(ctx context.Context) error {
			_, sawDeadline = ctx.Deadline()
			return errors.New("store unreachable")
		})

	w, response := getHealth(t, controller)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unhealthy", response.Status)
	assert.Equal(t, map[string]string{
		"database": "ok",
		"sessions": "error: store unreachable",
	}, response.Checks)
	assert.True(t, sawDeadline)
}
