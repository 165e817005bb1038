package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viajafacil/viajafacil/internal/attachment"
	"github.com/viajafacil/viajafacil/internal/models"
)

// Child-collection handlers. Each maps a request body onto the store's
// add/update/remove operations; validation rejections come back as 422 with
// the form left for the client to correct.

// AddDestination handles POST /api/trips/:id/destinations
func (h *Handlers) AddDestination(c *gin.Context) {
	var d models.Destination
	if err := c.ShouldBindJSON(&d); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.store.AddDestination(c.Param("id"), d)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: created})
}

// RemoveDestination handles DELETE /api/trips/:id/destinations/:itemID
func (h *Handlers) RemoveDestination(c *gin.Context) {
	if err := h.store.RemoveDestination(c.Param("id"), c.Param("itemID")); err != nil {
		h.storeError(c, err)
		return
	}
	ok(c, nil)
}

// AddFlight handles POST /api/trips/:id/flights
func (h *Handlers) AddFlight(c *gin.Context) {
	var f models.Flight
	if err := c.ShouldBindJSON(&f); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.store.AddFlight(c.Param("id"), f)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: created})
}

// UpdateFlight handles PUT /api/trips/:id/flights/:itemID
func (h *Handlers) UpdateFlight(c *gin.Context) {
	var f models.Flight
	if err := c.ShouldBindJSON(&f); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.store.UpdateFlight(c.Param("id"), c.Param("itemID"), f)
	if err != nil {
		h.storeError(c, err)
		return
	}
	ok(c, updated)
}

// RemoveFlight handles DELETE /api/trips/:id/flights/:itemID
func (h *Handlers) RemoveFlight(c *gin.Context) {
	if err := h.store.RemoveFlight(c.Param("id"), c.Param("itemID")); err != nil {
		h.storeError(c, err)
		return
	}
	ok(c, nil)
}

// AddAccommodation handles POST /api/trips/:id/accommodations
func (h *Handlers) AddAccommodation(c *gin.Context) {
	var a models.Accommodation
	if err := c.ShouldBindJSON(&a); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.store.AddAccommodation(c.Param("id"), a)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: created})
}

// UpdateAccommodation handles PUT /api/trips/:id/accommodations/:itemID
func (h *Handlers) UpdateAccommodation(c *gin.Context) {
	var a models.Accommodation
	if err := c.ShouldBindJSON(&a); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.store.UpdateAccommodation(c.Param("id"), c.Param("itemID"), a)
	if err != nil {
		h.storeError(c, err)
		return
	}
	ok(c, updated)
}

// RemoveAccommodation handles DELETE /api/trips/:id/accommodations/:itemID
func (h *Handlers) RemoveAccommodation(c *gin.Context) {
	if err := h.store.RemoveAccommodation(c.Param("id"), c.Param("itemID")); err != nil {
		h.storeError(c, err)
		return
	}
	ok(c, nil)
}

// AddTransfer handles POST /api/trips/:id/transfers
func (h *Handlers) AddTransfer(c *gin.Context) {
	var t models.Transfer
	if err := c.ShouldBindJSON(&t); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.store.AddTransfer(c.Param("id"), t)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: created})
}

// UpdateTransfer handles PUT /api/trips/:id/transfers/:itemID
func (h *Handlers) UpdateTransfer(c *gin.Context) {
	var t models.Transfer
	if err := c.ShouldBindJSON(&t); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.store.UpdateTransfer(c.Param("id"), c.Param("itemID"), t)
	if err != nil {
		h.storeError(c, err)
		return
	}
	ok(c, updated)
}

// RemoveTransfer handles DELETE /api/trips/:id/transfers/:itemID
func (h *Handlers) RemoveTransfer(c *gin.Context) {
	if err := h.store.RemoveTransfer(c.Param("id"), c.Param("itemID")); err != nil {
		h.storeError(c, err)
		return
	}
	ok(c, nil)
}

// AddActivity handles POST /api/trips/:id/activities
func (h *Handlers) AddActivity(c *gin.Context) {
	var a models.Activity
	if err := c.ShouldBindJSON(&a); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.store.AddActivity(c.Param("id"), a)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: created})
}

// UpdateActivity handles PUT /api/trips/:id/activities/:itemID
func (h *Handlers) UpdateActivity(c *gin.Context) {
	var a models.Activity
	if err := c.ShouldBindJSON(&a); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.store.UpdateActivity(c.Param("id"), c.Param("itemID"), a)
	if err != nil {
		h.storeError(c, err)
		return
	}
	ok(c, updated)
}

// RemoveActivity handles DELETE /api/trips/:id/activities/:itemID
func (h *Handlers) RemoveActivity(c *gin.Context) {
	if err := h.store.RemoveActivity(c.Param("id"), c.Param("itemID")); err != nil {
		h.storeError(c, err)
		return
	}
	ok(c, nil)
}

// AddExpense handles POST /api/trips/:id/expenses
func (h *Handlers) AddExpense(c *gin.Context) {
	var e models.Expense
	if err := c.ShouldBindJSON(&e); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.store.AddExpense(c.Param("id"), e)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: created})
}

// UpdateExpense handles PUT /api/trips/:id/expenses/:itemID
func (h *Handlers) UpdateExpense(c *gin.Context) {
	var e models.Expense
	if err := c.ShouldBindJSON(&e); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.store.UpdateExpense(c.Param("id"), c.Param("itemID"), e)
	if err != nil {
		h.storeError(c, err)
		return
	}
	ok(c, updated)
}

// RemoveExpense handles DELETE /api/trips/:id/expenses/:itemID
func (h *Handlers) RemoveExpense(c *gin.Context) {
	if err := h.store.RemoveExpense(c.Param("id"), c.Param("itemID")); err != nil {
		h.storeError(c, err)
		return
	}
	ok(c, nil)
}

// ingestUpload validates and encodes a multipart attachment upload.
// Oversized files are rejected from the header size before any read.
func (h *Handlers) ingestUpload(c *gin.Context) (models.Attachment, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "attachment file is required")
		return models.Attachment{}, false
	}
	defer file.Close()

	if header.Size > attachment.MaxSize {
		fail(c, http.StatusRequestEntityTooLarge, "attachment exceeds the 500KB limit")
		return models.Attachment{}, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		fail(c, http.StatusBadRequest, "failed to read attachment")
		return models.Attachment{}, false
	}

	att, err := attachment.Ingest(header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		fail(c, http.StatusRequestEntityTooLarge, "attachment exceeds the 500KB limit")
		return models.Attachment{}, false
	}
	return att, true
}

// AttachToFlight handles POST /api/trips/:id/flights/:itemID/attachments
func (h *Handlers) AttachToFlight(c *gin.Context) {
	att, okUpload := h.ingestUpload(c)
	if !okUpload {
		return
	}
	if err := h.store.AttachToFlight(c.Param("id"), c.Param("itemID"), att); err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: att})
}

// DetachFromFlight handles DELETE /api/trips/:id/flights/:itemID/attachments/:attID
func (h *Handlers) DetachFromFlight(c *gin.Context) {
	if err := h.store.DetachFromFlight(c.Param("id"), c.Param("itemID"), c.Param("attID")); err != nil {
		h.storeError(c, err)
		return
	}
	ok(c, nil)
}

// AttachToAccommodation handles POST /api/trips/:id/accommodations/:itemID/attachments
func (h *Handlers) AttachToAccommodation(c *gin.Context) {
	att, okUpload := h.ingestUpload(c)
	if !okUpload {
		return
	}
	if err := h.store.AttachToAccommodation(c.Param("id"), c.Param("itemID"), att); err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: att})
}

// DetachFromAccommodation handles DELETE /api/trips/:id/accommodations/:itemID/attachments/:attID
func (h *Handlers) DetachFromAccommodation(c *gin.Context) {
	if err := h.store.DetachFromAccommodation(c.Param("id"), c.Param("itemID"), c.Param("attID")); err != nil {
		h.storeError(c, err)
		return
	}
	ok(c, nil)
}
