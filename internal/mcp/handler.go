package mcp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"linebridge/internal/constants"
	"linebridge/internal/logger"
	"linebridge/internal/resource"
	"linebridge/pkg/errors"
	"linebridge/pkg/logging"
)

// Handler serves the MCP resource contract over a single JSON-RPC endpoint.
type Handler struct {
	reader  *resource.Reader
	logger  logger.Logger
	name    string
	version string
}

func NewHandler(reader *resource.Reader, name, version string, log logger.Logger) *Handler {
	return &Handler{
		reader:  reader,
		logger:  log,
		name:    name,
		version: version,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.POST("/mcp", h.HandleRPC)
}

func (h *Handler) HandleRPC(c *gin.Context) {
	var req rpcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, rpcResponse{
			JSONRPC: "2.0",
			Error:   &rpcError{Code: codeParseError, Message: "parse error"},
		})
		return
	}

	if req.JSONRPC != "2.0" {
		c.JSON(http.StatusOK, errorResponse(req.ID, codeInvalidRequest, "unsupported jsonrpc version", nil))
		return
	}

	if req.isNotification() {
		// Notifications (e.g. notifications/initialized) get no response body.
		c.Status(http.StatusAccepted)
		return
	}

	c.JSON(http.StatusOK, h.dispatch(c.Request.Context(), req))
}

func (h *Handler) dispatch(ctx context.Context, req rpcRequest) rpcResponse {
	switch req.Method {
	case "initialize":
		return h.initialize(req)
	case "resources/list":
		return h.listResources(req)
	case "resources/read":
		return h.readResource(ctx, req)
	default:
		return errorResponse(req.ID, codeMethodNotFound, "method not found: "+req.Method, nil)
	}
}

func (h *Handler) initialize(req rpcRequest) rpcResponse {
	return resultResponse(req.ID, initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities:    capabilities{Resources: resourcesCapability{}},
		ServerInfo:      serverInfo{Name: h.name, Version: h.version},
	})
}

func (h *Handler) listResources(req rpcRequest) rpcResponse {
	return resultResponse(req.ID, listResourcesResult{
		Resources: resource.ListResources(),
	})
}

func (h *Handler) readResource(ctx context.Context, req rpcRequest) rpcResponse {
	var params readResourceParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "invalid params", nil)
	}
	if params.URI == "" {
		return errorResponse(req.ID, codeInvalidParams, "uri is required", nil)
	}

	ctx = logging.WithResourceURI(ctx, params.URI)

	body, err := h.reader.ReadResource(ctx, params.URI)
	if err != nil {
		h.logger.ErrorwCtx(ctx, "Resource read failed", "error", err)
		if errors.IsInvalidURI(err) {
			return errorResponse(req.ID, codeInvalidParams, err.Error(), map[string]interface{}{"error_code": errors.Code(err)})
		}
		return errorResponse(req.ID, codeInternalError, err.Error(), map[string]interface{}{"error_code": errors.Code(err)})
	}

	return resultResponse(req.ID, readResourceResult{
		Contents: []resourceContents{
			{
				URI:      params.URI,
				MIMEType: constants.ResourceMIMEType,
				Text:     body,
			},
		},
	})
}

func resultResponse(id json.RawMessage, result interface{}) rpcResponse {
	return rpcResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id json.RawMessage, code int, message string, data interface{}) rpcResponse {
	return rpcResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message, Data: data}}
}
