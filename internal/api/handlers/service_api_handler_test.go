package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/SaniatAzam/invoice-generator/internal/api/handlers"
	"github.com/SaniatAzam/invoice-generator/internal/models"
)

func setupServiceRouter(svc *MockCatalogService, shutdown chan struct{}) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handlers.NewServiceApiHandler(svc, shutdown)
	r := gin.New()
	r.POST("/api", h.HandleRequest)
	return r
}

func TestServiceApiHandler_Shutdown(t *testing.T) {
	shutdown := make(chan struct{}, 1)
	r := setupServiceRouter(new(MockCatalogService), shutdown)

	w := doJSON(r, http.MethodPost, "/api", handlers.JsonApiRequest{Method: "shutdown"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["success"])
	select {
	case <-shutdown:
	default:
		t.Fatal("shutdown was not signaled")
	}

	// Second call must not block while the first signal is pending.
	shutdown <- struct{}{}
	w = doJSON(r, http.MethodPost, "/api", handlers.JsonApiRequest{Method: "shutdown"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServiceApiHandler_SeedCatalog(t *testing.T) {
	svc := new(MockCatalogService)
	r := setupServiceRouter(svc, make(chan struct{}, 1))

	items := []models.Item{{Name: "Pen", Price: 10}, {Name: "Notebook", Price: 45.5}}
	svc.On("Seed", mock.Anything, items).Return(2, nil)

	w := doJSON(r, http.MethodPost, "/api", map[string]interface{}{
		"method":    "seedCatalog",
		"arguments": []map[string]interface{}{{"name": "Pen", "price": 10}, {"name": "Notebook", "price": 45.5}},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["data"].(map[string]interface{})["upserted"])
	svc.AssertExpectations(t)
}

func TestServiceApiHandler_SeedCatalog_BadArguments(t *testing.T) {
	svc := new(MockCatalogService)
	r := setupServiceRouter(svc, make(chan struct{}, 1))

	w := doJSON(r, http.MethodPost, "/api", map[string]interface{}{"method": "seedCatalog", "arguments": "Pen"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "Invalid arguments")
	svc.AssertNotCalled(t, "Seed", mock.Anything, mock.Anything)
}

func TestServiceApiHandler_SeedCatalog_ServiceError(t *testing.T) {
	svc := new(MockCatalogService)
	r := setupServiceRouter(svc, make(chan struct{}, 1))

	svc.On("Seed", mock.Anything, mock.Anything).Return(0, assert.AnError)

	w := doJSON(r, http.MethodPost, "/api", map[string]interface{}{
		"method":    "seedCatalog",
		"arguments": []map[string]interface{}{{"name": "Pen", "price": 10}},
	})

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "Failed to seed catalog")
}

func TestServiceApiHandler_UnknownMethod(t *testing.T) {
	r := setupServiceRouter(new(MockCatalogService), make(chan struct{}, 1))

	w := doJSON(r, http.MethodPost, "/api", handlers.JsonApiRequest{Method: "dropDatabase"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/api", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
