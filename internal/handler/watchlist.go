package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinecrib/cinecrib/internal/queue"
	"github.com/cinecrib/cinecrib/internal/repository"
	queue_publisher "github.com/cinecrib/cinecrib/internal/service"
)

// WatchlistHandler manages the authenticated user's saved titles.
type WatchlistHandler struct {
	Watchlist *repository.WatchlistRepo
}

func NewWatchlistHandler(w *repository.WatchlistRepo) *WatchlistHandler {
	if w == nil {
		panic("nil repository passed to NewWatchlistHandler")
	}
	return &WatchlistHandler{Watchlist: w}
}

// List handles GET /v1/watchlist.
func (h *WatchlistHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	items, err := h.Watchlist.List(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"watchlist": items})
}

// Add handles POST /v1/watchlist. On success a watchlist.added event is
// published best-effort; a broker outage never fails the request.
func (h *WatchlistHandler) Add(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var body struct {
		ContentUID string `json:"content_uid"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.ContentUID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content_uid required"})
	}
	contentUID := strings.TrimSpace(body.ContentUID)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	itemUID, title, err := h.Watchlist.Add(ctx, userID, contentUID)
	if err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "content not found"})
		case repository.ErrDuplicate:
			return c.JSON(http.StatusConflict, echo.Map{"error": "already on watchlist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}

	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pubCancel()
		if err := queue_publisher.PublishWatchlistAdded(pubCtx, queue.WatchlistAddedEvent{
			ItemUID:    itemUID,
			UserID:     userID,
			ContentUID: contentUID,
			Title:      title,
			AddedAt:    time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			log.Printf("watchlist: publish event failed: %v", err)
		}
	}()

	return c.JSON(http.StatusCreated, echo.Map{
		"uid":         itemUID,
		"content_uid": contentUID,
		"title":       title,
	})
}

// Remove handles DELETE /v1/watchlist/:uid.
func (h *WatchlistHandler) Remove(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	itemUID := c.Param("uid")
	if itemUID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid watchlist uid"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Watchlist.Remove(ctx, userID, itemUID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "watchlist item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
