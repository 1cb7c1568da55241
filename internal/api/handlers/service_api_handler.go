package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/SaniatAzam/invoice-generator/internal/models"
	"github.com/SaniatAzam/invoice-generator/internal/services"
)

// JsonApiRequest defines the expected structure for JSON API requests.
type JsonApiRequest struct {
	Method    string          `json:"method"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// JsonApiResponse defines the structure for JSON API responses.
type JsonApiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type ApiError struct {
	Message string
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewApiError(message string) *ApiError {
	return &ApiError{Message: message}
}

// apiMethodFunc defines the signature for handler methods.
type apiMethodFunc func(c *gin.Context, args json.RawMessage) (interface{}, *ApiError)

// ServiceApiHandler serves the operator API on the service port.
type ServiceApiHandler struct {
	catalogService services.ICatalogService
	shutdownChan   chan<- struct{}
	methods        map[string]apiMethodFunc
}

// NewServiceApiHandler creates a new ServiceApiHandler.
func NewServiceApiHandler(catalogService services.ICatalogService, shutdownChan chan<- struct{}) *ServiceApiHandler {
	h := &ServiceApiHandler{
		catalogService: catalogService,
		shutdownChan:   shutdownChan,
	}
	h.methods = map[string]apiMethodFunc{
		"ping":        h.ping,
		"shutdown":    h.shutdown,
		"seedCatalog": h.seedCatalog,
	}
	return h
}

// HandleRequest handles POST /api
func (h *ServiceApiHandler) HandleRequest(c *gin.Context) {
	var req JsonApiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, JsonApiResponse{Success: false, Error: "Invalid request format"})
		return
	}

	handlerFunc, ok := h.methods[req.Method]
	if !ok {
		c.JSON(http.StatusNotFound, JsonApiResponse{Success: false, Error: fmt.Sprintf("Unknown service method: %s", req.Method)})
		return
	}

	result, apiErr := handlerFunc(c, req.Arguments)
	if apiErr != nil {
		c.JSON(http.StatusOK, JsonApiResponse{Success: false, Error: apiErr.Message})
		return
	}
	c.JSON(http.StatusOK, JsonApiResponse{Success: true, Data: result})
}

// --- API Method Implementations ---

func (h *ServiceApiHandler) ping(c *gin.Context, args json.RawMessage) (interface{}, *ApiError) {
	return "pong", nil
}

func (h *ServiceApiHandler) shutdown(c *gin.Context, args json.RawMessage) (interface{}, *ApiError) {
	log.Info().Msg("Received shutdown command via Service API")
	select {
	case h.shutdownChan <- struct{}{}:
	default:
		log.Warn().Msg("Shutdown channel already signaled")
	}
	return "Shutdown initiated", nil
}

// seedCatalog expects arguments as a JSON array of {name, price} objects.
func (h *ServiceApiHandler) seedCatalog(c *gin.Context, args json.RawMessage) (interface{}, *ApiError) {
	var items []models.Item
	if err := json.Unmarshal(args, &items); err != nil || len(items) == 0 {
		return nil, NewApiError("Invalid arguments: expected JSON array of {name, price}")
	}
	n, err := h.catalogService.Seed(c.Request.Context(), items)
	if err != nil {
		_ = c.Error(err)
		return nil, NewApiError("Failed to seed catalog: " + err.Error())
	}
	return gin.H{"upserted": n}, nil
}
