package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/maxviazov/settings-service/internal/model"
	"github.com/maxviazov/settings-service/internal/repository"
	"github.com/maxviazov/settings-service/internal/service"
	"github.com/maxviazov/settings-service/pkg/response"
	"github.com/tidwall/sjson"
)

// Pagination envelope headers on GET /settings.
const (
	HeaderTotalCount = "X-Total-Count"
	HeaderLimit      = "X-Limit"
	HeaderOffset     = "X-Offset"
)

type SettingsHandler struct {
	svc service.SettingsService
}

func NewSettingsHandler(svc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

func (h *SettingsHandler) Register(r gin.IRouter) {
	g := r.Group(SettingsPath)
	{
		g.POST("", h.create)
		g.GET("", h.list)
		g.GET("/:id", h.getByID)
		g.PUT("/:id", h.update)
		g.DELETE("/:id", h.delete)
	}
}

// listQuery is bound from the query string; nil means the parameter was absent.
type listQuery struct {
	Limit  *int `form:"limit" binding:"omitempty,min=0"`
	Offset *int `form:"offset" binding:"omitempty,min=0"`
}

func (h *SettingsHandler) create(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "body", Message: "unreadable request body"}}))
		return
	}
	st, err := h.svc.CreateSettings(c.Request.Context(), body)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	writeSettings(c, http.StatusCreated, st)
}

func (h *SettingsHandler) list(c *gin.Context) {
	if ferrs := emptyQueryParams(c, "limit", "offset"); len(ferrs) > 0 {
		response.WriteError(c, service.NewInvalidInputError(ferrs))
		return
	}
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.WriteError(c, service.NewInvalidInputError(queryFieldErrors(err)))
		return
	}
	res, err := h.svc.ListSettings(c.Request.Context(), service.PageQuery{Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		response.WriteError(c, err)
		return
	}

	body := []byte("[]")
	for _, st := range res.Items {
		doc, err := flatten(st)
		if err != nil {
			response.WriteError(c, err)
			return
		}
		if body, err = sjson.SetRawBytes(body, "-1", doc); err != nil {
			response.WriteError(c, err)
			return
		}
	}

	c.Header(HeaderTotalCount, strconv.Itoa(res.Total))
	c.Header(HeaderLimit, strconv.Itoa(res.Limit))
	c.Header(HeaderOffset, strconv.Itoa(res.Offset))
	response.WriteRawJSON(c, http.StatusOK, body)
}

func (h *SettingsHandler) getByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	st, err := h.svc.GetSettings(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	writeSettings(c, http.StatusOK, st)
}

func (h *SettingsHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "body", Message: "unreadable request body"}}))
		return
	}
	st, err := h.svc.UpdateSettings(c.Request.Context(), id, body)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	writeSettings(c, http.StatusOK, st)
}

func (h *SettingsHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteSettings(c.Request.Context(), id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses the :id segment. A malformed id can never name a stored
// record, so it answers 404 rather than 400.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.WriteError(c, repository.ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func writeSettings(c *gin.Context, status int, st model.Settings) {
	doc, err := flatten(st)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteRawJSON(c, status, doc)
}

// flatten merges the id into the payload object. A payload "id" key is overwritten.
func flatten(st model.Settings) ([]byte, error) {
	doc, err := sjson.SetBytes(st.Data, "id", st.ID.String())
	if err != nil {
		return nil, repository.CorruptDataError("settings payload "+st.ID.String(), err)
	}
	return doc, nil
}

// emptyQueryParams rejects "?limit=" style parameters, which gin would otherwise bind as 0.
func emptyQueryParams(c *gin.Context, keys ...string) []service.FieldError {
	var out []service.FieldError
	query := c.Request.URL.Query()
	for _, key := range keys {
		if vs, ok := query[key]; ok && (len(vs) == 0 || strings.TrimSpace(vs[0]) == "") {
			out = append(out, service.FieldError{Field: key, Message: "must be a non-negative integer"})
		}
	}
	return out
}

func queryFieldErrors(err error) []service.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]service.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, service.FieldError{Field: strings.ToLower(fe.Field()), Message: "must be a non-negative integer"})
		}
		return out
	}
	return []service.FieldError{{Field: "query", Message: "limit and offset must be non-negative integers"}}
}
