package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/palclasses/site-api/internal/model"
	"github.com/palclasses/site-api/internal/service"
	"github.com/palclasses/site-api/internal/validation"
)

// LeadHandler serves the public submission forms and the admin listings.
type LeadHandler struct {
	Leads *service.LeadService
}

func NewLeadHandler(leads *service.LeadService) *LeadHandler {
	if leads == nil {
		panic("nil lead service passed to NewLeadHandler")
	}
	return &LeadHandler{Leads: leads}
}

// Submit returns the handler for POST /api/<kind>/submit.  It answers 201
// with the stored lead once the lead is persisted, whatever happens to the
// notification.
func (h *LeadHandler) Submit(kind model.LeadKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		lead := model.NewLead(kind)
		if err := c.Bind(lead); err != nil {
			return bindError(err)
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		stored, err := h.Leads.Submit(ctx, lead)
		if err != nil {
			return err
		}
		return respond(c, http.StatusCreated, stored)
	}
}

// List returns the handler for GET /api/<kind>.  limit and offset are
// optional; without them every lead is returned, newest first.
func (h *LeadHandler) List(kind model.LeadKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		page, err := pageParams(c)
		if err != nil {
			return err
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		leads, err := h.Leads.List(ctx, kind, page)
		if err != nil {
			return err
		}
		return respond(c, http.StatusOK, leads)
	}
}

type statusReq struct {
	Status string `json:"status"`
}

// UpdateAdmissionStatus handles PATCH /api/admission/:id/status.
func (h *LeadHandler) UpdateAdmissionStatus(c echo.Context) error {
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	id := strings.TrimSpace(c.Param("id"))
	status := model.AdmissionStatus(strings.ToLower(strings.TrimSpace(req.Status)))

	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Leads.SetAdmissionStatus(ctx, id, status); err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"id": id, "status": status})
}

func pageParams(c echo.Context) (model.Page, error) {
	var p model.Page
	for name, dst := range map[string]*int{"limit": &p.Limit, "offset": &p.Offset} {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return model.Page{}, validation.NewError(name, name+" must be an integer")
		}
		*dst = n
	}
	return p, nil
}
