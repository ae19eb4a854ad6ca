package handler

import (
	"errors"
	"net/http"
	"strconv"

	"swapgogo/backend/internal/catalog"
	"swapgogo/backend/internal/config"
	"swapgogo/backend/internal/deals"
	"swapgogo/backend/internal/models"
	"swapgogo/backend/internal/storage"
	"swapgogo/backend/internal/swaphub"

	"github.com/gin-gonic/gin"
)

// OfferInput — тіло запиту створення офера.
type OfferInput struct {
	HaveItem models.Item `json:"have_item" binding:"required"`
	WantItem models.Item `json:"want_item" binding:"required"`
	Location string      `json:"location"`
	Message  string      `json:"message"`
}

// badgeForStatus повертає бейдж статусу для UI.
func badgeForStatus(status string) string {
	switch status {
	case models.StatusPending:
		return "🟢 Pending"
	case models.StatusMatched:
		return "🟡 Matched"
	case models.StatusCompleted:
		return "🔴 Completed"
	case models.StatusDeclined:
		return "🔴 Declined"
	default:
		return status
	}
}

// offerView додає бейдж до офера у відповіді API.
func offerView(o *models.Offer) gin.H {
	return gin.H{
		"id":           o.ID,
		"owner_id":     o.OwnerID,
		"have_item":    o.HaveItem,
		"want_item":    o.WantItem,
		"location":     o.Location,
		"message":      o.Message,
		"status":       o.Status,
		"matched_with": o.MatchedWith,
		"timestamp":    o.CreatedAt,
		"badge":        badgeForStatus(o.Status),
	}
}

// respondError зіставляє помилки ядра з HTTP-статусами.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrOfferNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
	case errors.Is(err, swaphub.ErrNotMatched):
		c.JSON(http.StatusConflict, gin.H{"error": "Offer is not part of a matched pair"})
	case errors.Is(err, swaphub.ErrForbidden), errors.Is(err, deals.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to do that"})
	case errors.Is(err, swaphub.ErrWrongCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid confirmation code"})
	case errors.Is(err, storage.ErrStatusConflict):
		// Обмежені внутрішні повтори вже вичерпано — просимо повторити.
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporary conflict, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// CreateOffer створює офер та одразу запускає зіставлення.
func (h *Handler) CreateOffer(c *gin.Context) {
	var input OfferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.HaveItem.Name == "" || input.WantItem.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item names are required"})
		return
	}

	// Категорію, яку не вказав користувач, визначаємо за назвою.
	if input.HaveItem.Category == "" {
		input.HaveItem.Category = catalog.Categorize(input.HaveItem.Name)
	}
	if input.WantItem.Category == "" {
		input.WantItem.Category = catalog.Categorize(input.WantItem.Name)
	}

	offer := &models.Offer{
		OwnerID:  currentUser(c),
		HaveItem: input.HaveItem,
		WantItem: input.WantItem,
		Location: input.Location,
		Message:  input.Message,
	}

	counterpart, err := h.Matcher.SubmitOffer(offer)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"message": "Offer created", "offer": offerView(offer)}
	if counterpart != nil {
		resp["matched_offer"] = offerView(counterpart)
	}
	c.JSON(http.StatusCreated, resp)
}

// ListOffers — публічний пагінований список усіх оферів (головна сторінка).
func (h *Handler) ListOffers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(config.DefaultPageSize)))
	if pageSize < 1 || pageSize > config.MaxPageSize {
		pageSize = config.DefaultPageSize
	}

	offers, total, err := h.Deals.Storage.ListOffers((page-1)*pageSize, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)
	views := make([]gin.H, 0, len(offers))
	for i := range offers {
		views = append(views, offerView(&offers[i]))
	}

	resp := gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": totalPages,
		"offers":      views,
	}
	if int64(page) < totalPages {
		resp["next_page"] = page + 1
	}
	if page > 1 {
		resp["prev_page"] = page - 1
	}
	c.JSON(http.StatusOK, resp)
}

// ListActive повертає активні угоди користувача (pending + matched).
func (h *Handler) ListActive(c *gin.Context) {
	offers, err := h.Deals.ActiveDeals(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]gin.H, 0, len(offers))
	for i := range offers {
		views = append(views, offerView(&offers[i]))
	}
	c.JSON(http.StatusOK, gin.H{"active_offers": views})
}

// ListHistory повертає повну історію користувача, найновіші першими.
func (h *Handler) ListHistory(c *gin.Context) {
	offers, err := h.Deals.History(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]gin.H, 0, len(offers))
	for i := range offers {
		views = append(views, offerView(&offers[i]))
	}
	c.JSON(http.StatusOK, gin.H{"history": views})
}

// GetOffer повертає офер разом із зустрічним офером (якщо він досяжний).
func (h *Handler) GetOffer(c *gin.Context) {
	offer, counterpart, err := h.Deals.GetDeal(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"offer": offerView(offer)}
	if counterpart != nil {
		resp["matched_offer"] = offerView(counterpart)
	} else {
		resp["matched_offer"] = nil
	}
	c.JSON(http.StatusOK, resp)
}

// GenerateCode видає код підтвердження для зіставленої пари.
func (h *Handler) GenerateCode(c *gin.Context) {
	code, err := h.Handshake.GenerateCode(c.Param("id"), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Code generated successfully", "confirmation_code": code})
}

// ConfirmCode завершує своп за кодом підтвердження.
func (h *Handler) ConfirmCode(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		var body struct {
			Code string `json:"code"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			code = body.Code
		}
	}
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Confirmation code required"})
		return
	}

	offer, counterpart, err := h.Handshake.ConfirmCode(c.Param("id"), currentUser(c), code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Swap completed successfully",
		"offer":         offerView(offer),
		"matched_offer": offerView(counterpart),
	})
}

// Decline розриває зіставлену пару; обидва офери повертаються у pending.
func (h *Handler) Decline(c *gin.Context) {
	offer, counterpart, err := h.Handshake.Decline(c.Param("id"), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Swap declined",
		"offer":         offerView(offer),
		"matched_offer": offerView(counterpart),
	})
}

// DeleteOffer видаляє один запис історії власника.
func (h *Handler) DeleteOffer(c *gin.Context) {
	if err := h.Deals.DeleteEntry(c.Param("id"), currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Offer deleted"})
}

// ClearHistory видаляє всі офери користувача.
func (h *Handler) ClearHistory(c *gin.Context) {
	deleted, err := h.Deals.ClearHistory(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "History cleared", "deleted": deleted})
}
