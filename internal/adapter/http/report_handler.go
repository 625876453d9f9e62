package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ncr-quality-backend/internal/domain/eightd"
	"ncr-quality-backend/internal/usecase/report"
)

type ReportHandler struct{ uc *report.Usecase }

func NewReportHandler(uc *report.Usecase) *ReportHandler { return &ReportHandler{uc: uc} }

// reportReq carries the caller's working copy. Without one the stored
// (or default) report is used.
type reportReq struct {
	Report *eightd.Report `json:"report"`
}

type updateReq struct {
	Field string `json:"field" validate:"required,reportfield"`
	Index int    `json:"index" validate:"gte=0"`
	Value string `json:"value"`
}

type editReq struct {
	Report  *eightd.Report `json:"report"`
	Updates []updateReq    `json:"updates" validate:"required,min=1,dive"`
}

func (h *ReportHandler) Open(c echo.Context) error {
	rep, err := h.uc.Open(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}

// Save stores the body as the entry's report without finalizing.
func (h *ReportHandler) Save(c echo.Context) error {
	var rep eightd.Report
	if err := c.Bind(&rep); err != nil {
		return badRequest(c, "invalid body")
	}
	saved, err := h.uc.Save(c.Request().Context(), c.Param("id"), &rep)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, saved)
}

func (h *ReportHandler) Edit(c echo.Context) error {
	var req editReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	updates := make([]eightd.Update, 0, len(req.Updates))
	for _, u := range req.Updates {
		updates = append(updates, eightd.Update{Field: eightd.Field(u.Field), Index: u.Index, Value: u.Value})
	}
	rep, err := h.uc.Edit(c.Request().Context(), c.Param("id"), req.Report, updates)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *ReportHandler) Draft(c echo.Context) error {
	var req reportReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	rep, err := h.uc.Draft(c.Request().Context(), c.Param("id"), req.Report)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}

// Finalize returns the closed entry with the generated PDF attached.
func (h *ReportHandler) Finalize(c echo.Context) error {
	var req reportReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	e, err := h.uc.Finalize(c.Request().Context(), c.Param("id"), req.Report)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *ReportHandler) Export(c echo.Context) error {
	var req reportReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	name, pdf, err := h.uc.Export(c.Request().Context(), c.Param("id"), req.Report)
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, name, "application/pdf", pdf)
}
