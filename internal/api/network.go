package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/3GHCRE/atlas-sub000/internal/models"
)

// NetworkHandler serves ownership network endpoints.
type NetworkHandler struct {
	svc NetworkService
	log *logrus.Logger
}

// NewNetworkHandler creates a NetworkHandler with the given service and logger.
func NewNetworkHandler(svc NetworkService, log *logrus.Logger) *NetworkHandler {
	return &NetworkHandler{svc: svc, log: log}
}

// Traverse handles GET /api/v1/network/traverse.
func (h *NetworkHandler) Traverse(c *gin.Context) {
	req, err := traverseRequest(c.Query("start_type"), c.Query("start_id"), c)
	if err != nil {
		respondServiceError(c, h.log, "parsing traverse request", err)
		return
	}

	h.traverse(c, req)
}

// TraverseFrom handles GET /api/v1/network/:type/:id, the path form of
// Traverse.
func (h *NetworkHandler) TraverseFrom(c *gin.Context) {
	req, err := traverseRequest(c.Param("type"), c.Param("id"), c)
	if err != nil {
		respondServiceError(c, h.log, "parsing traverse request", err)
		return
	}

	h.traverse(c, req)
}

func (h *NetworkHandler) traverse(c *gin.Context, req models.TraverseRequest) {
	result, err := h.svc.Traverse(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.log, "traversing ownership network", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Node handles GET /api/v1/network/nodes/:type/:id.
func (h *NetworkHandler) Node(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, "parsing node id", err)
		return
	}

	rec, err := h.svc.Node(c.Request.Context(), models.NodeKey{Type: models.NodeType(c.Param("type")), ID: id})
	if err != nil {
		respondServiceError(c, h.log, "looking up node", err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

// traverseRequest builds a request from the start node strings and the
// optional max_depth and direction query parameters.
func traverseRequest(startType, startID string, c *gin.Context) (models.TraverseRequest, error) {
	req := models.TraverseRequest{
		StartType: models.NodeType(startType),
		Direction: models.Direction(c.Query("direction")),
	}

	if startID != "" {
		id, err := parseID(startID)
		if err != nil {
			return req, err
		}
		req.StartID = id
	}

	if raw, ok := c.GetQuery("max_depth"); ok {
		depth, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("%w: max_depth must be an integer", models.ErrInvalidRequest)
		}
		req.MaxDepth = &depth
	}

	return req, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, models.ErrInvalidStartID
	}

	return id, nil
}
