package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/palclasses/site-api/internal/service"
)

// CMSHandler exposes page reads and the admin content editor.
type CMSHandler struct {
	CMS *service.CMSService
}

func NewCMSHandler(cms *service.CMSService) *CMSHandler {
	if cms == nil {
		panic("nil cms service passed to NewCMSHandler")
	}
	return &CMSHandler{CMS: cms}
}

// GetPage handles GET /api/cms/pages/:page.
func (h *CMSHandler) GetPage(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	pd, err := h.CMS.FetchPage(ctx, c.Param("page"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, pd)
}

// Schema handles GET /api/cms/schema.
func (h *CMSHandler) Schema(c echo.Context) error {
	return respond(c, http.StatusOK, h.CMS.Schema().Pages)
}

// UpsertContent handles PUT /api/cms/content.
func (h *CMSHandler) UpsertContent(c echo.Context) error {
	var req service.ContentInput
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	pd, err := h.CMS.UpsertContent(ctx, req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, pd)
}

type batchReq struct {
	Page  string                 `json:"page"`
	Items []service.ContentInput `json:"items"`
}

// BatchUpsertContent handles POST /api/cms/content/batch.  Either every
// item is saved or none is.
func (h *CMSHandler) BatchUpsertContent(c echo.Context) error {
	var req batchReq
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	pd, err := h.CMS.BatchUpsertContent(ctx, req.Page, req.Items)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, pd)
}

// DeleteContent handles DELETE /api/cms/content/:id.
func (h *CMSHandler) DeleteContent(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	pd, err := h.CMS.DeleteContent(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, pd)
}

// UpsertImage handles PUT /api/cms/images.
func (h *CMSHandler) UpsertImage(c echo.Context) error {
	var req service.ImageInput
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	pd, err := h.CMS.UpsertImage(ctx, req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, pd)
}

// DeleteImage handles DELETE /api/cms/images/:id.
func (h *CMSHandler) DeleteImage(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	pd, err := h.CMS.DeleteImage(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, pd)
}

// AddListItem handles POST /api/cms/lists/:page/:listKey.
func (h *CMSHandler) AddListItem(c echo.Context) error {
	var req service.ListItemInput
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	it, err := h.CMS.AddListItem(ctx, c.Param("page"), c.Param("listKey"), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, it)
}

// UpdateListItem handles PUT /api/cms/lists/items/:id.
func (h *CMSHandler) UpdateListItem(c echo.Context) error {
	var req service.ListItemInput
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	it, err := h.CMS.UpdateListItem(ctx, c.Param("id"), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, it)
}

// DeleteListItem handles DELETE /api/cms/lists/items/:id.
func (h *CMSHandler) DeleteListItem(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.CMS.DeleteListItem(ctx, c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"id": c.Param("id")})
}

type reorderReq struct {
	IDs []string `json:"ids"`
}

// ReorderList handles PUT /api/cms/lists/:page/:listKey/order.  ids must
// name every item of the list exactly once.
func (h *CMSHandler) ReorderList(c echo.Context) error {
	var req reorderReq
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	items, err := h.CMS.ReorderList(ctx, c.Param("page"), c.Param("listKey"), req.IDs)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, items)
}

// ImportLegacyList handles POST /api/cms/lists/:page/:listKey/import.
func (h *CMSHandler) ImportLegacyList(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	items, err := h.CMS.ImportLegacyList(ctx, c.Param("page"), c.Param("listKey"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, items)
}
