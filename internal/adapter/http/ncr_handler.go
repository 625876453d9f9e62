package http

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"ncr-quality-backend/internal/domain/eightd"
	"ncr-quality-backend/internal/domain/ncr"
	"ncr-quality-backend/internal/infrastructure/export"
	"ncr-quality-backend/internal/usecase/editor"
	ncruc "ncr-quality-backend/internal/usecase/ncr"
	"ncr-quality-backend/pkg/codec"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type NCRHandler struct {
	uc  *ncruc.Usecase
	now func() time.Time
}

func NewNCRHandler(uc *ncruc.Usecase) *NCRHandler {
	return &NCRHandler{uc: uc, now: time.Now}
}

// entryReq is the editable part of an entry. Omitted attachments and
// eightDData keep their stored values on update.
type entryReq struct {
	Month              int              `json:"month"`
	Day                int              `json:"day"`
	Source             string           `json:"source"`
	Customer           string           `json:"customer" validate:"notblank"`
	Model              string           `json:"model"`
	PartName           string           `json:"partName"`
	PartNo             string           `json:"partNo"`
	DefectContent      string           `json:"defectContent"`
	OutflowCause       string           `json:"outflowCause"`
	RootCause          string           `json:"rootCause"`
	Countermeasure     string           `json:"countermeasure"`
	PlanDate           string           `json:"planDate"`
	ResultDate         string           `json:"resultDate"`
	EffectivenessCheck string           `json:"effectivenessCheck"`
	Status             string           `json:"status" validate:"omitempty,ncrstatus"`
	ProgressRate       int              `json:"progressRate"`
	Remarks            string           `json:"remarks"`
	Attachments        []ncr.Attachment `json:"attachments"`
	EightD             *eightd.Report   `json:"eightDData"`
}

func fromEntry(e ncr.Entry) entryReq {
	return entryReq{
		Month: e.Month, Day: e.Day, Source: e.Source, Customer: e.Customer, Model: e.Model,
		PartName: e.PartName, PartNo: e.PartNo, DefectContent: e.DefectContent,
		OutflowCause: e.OutflowCause, RootCause: e.RootCause, Countermeasure: e.Countermeasure,
		PlanDate: e.PlanDate, ResultDate: e.ResultDate, EffectivenessCheck: e.EffectivenessCheck,
		Status: string(e.Status), ProgressRate: e.ProgressRate, Remarks: e.Remarks,
		Attachments: e.Attachments, EightD: e.EightD,
	}
}

func (r entryReq) entry() ncr.Entry {
	status := ncr.Status(r.Status)
	if status == "" {
		status = ncr.StatusOpen
	}
	return ncr.Entry{
		Month: r.Month, Day: r.Day, Source: r.Source, Customer: r.Customer, Model: r.Model,
		PartName: r.PartName, PartNo: r.PartNo, DefectContent: r.DefectContent,
		OutflowCause: r.OutflowCause, RootCause: r.RootCause, Countermeasure: r.Countermeasure,
		PlanDate: r.PlanDate, ResultDate: r.ResultDate, EffectivenessCheck: r.EffectivenessCheck,
		Status: status, ProgressRate: r.ProgressRate, Remarks: r.Remarks,
		Attachments: r.Attachments, EightD: r.EightD,
	}
}

func (h *NCRHandler) List(c echo.Context) error {
	entries, err := h.uc.List(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *NCRHandler) Get(c echo.Context) error {
	e, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// Create starts a blank draft, so omitted month, day, plan date and status take today's defaults.
func (h *NCRHandler) Create(c echo.Context) error {
	d := editor.New()
	if err := d.StartBlank(h.now()); err != nil {
		return writeError(c, err)
	}
	req := fromEntry(d.Entry())
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if err := d.Set(req.entry()); err != nil {
		return writeError(c, err)
	}
	saved, err := d.Submit(c.Request().Context(), h.uc.Save)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, saved)
}

// Update replaces the stored entry with the body.
func (h *NCRHandler) Update(c echo.Context) error {
	var req entryReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	return h.edit(c, http.StatusOK, func(d *editor.Draft) error { return d.Set(req.entry()) })
}

func (h *NCRHandler) Delete(c echo.Context) error {
	d := editor.New()
	if err := d.Load(&ncr.Entry{ID: c.Param("id")}); err != nil {
		return writeError(c, err)
	}
	if err := d.Delete(c.Request().Context(), h.uc.Delete); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadAttachment appends the multipart "file" to the entry's attachments.
func (h *NCRHandler) UploadAttachment(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "missing multipart field \"file\"")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "unreadable upload")
	}
	defer f.Close()

	mt := fh.Header.Get(echo.HeaderContentType)
	if mt == "" {
		mt = "application/octet-stream"
	}
	return h.edit(c, http.StatusCreated, func(d *editor.Draft) error {
		return d.AddAttachment(fh.Filename, mt, f)
	})
}

func (h *NCRHandler) RemoveAttachment(c echo.Context) error {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return badRequest(c, "index must be an integer")
	}
	return h.edit(c, http.StatusOK, func(d *editor.Draft) error { return d.RemoveAttachment(idx) })
}

// edit loads the entry into a draft, applies change and submits it.
func (h *NCRHandler) edit(c echo.Context, code int, change func(d *editor.Draft) error) error {
	ctx := c.Request().Context()
	e, err := h.uc.Get(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	d := editor.New()
	if err := d.Load(e); err != nil {
		return writeError(c, err)
	}
	if err := change(d); err != nil {
		return writeError(c, err)
	}
	saved, err := d.Submit(ctx, h.uc.Save)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(code, saved)
}

// DownloadAttachment decodes the stored payload and serves it with its own type.
func (h *NCRHandler) DownloadAttachment(c echo.Context) error {
	e, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil || idx < 0 || idx >= len(e.Attachments) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "attachment not found"})
	}
	a := e.Attachments[idx]
	blob, err := codec.Decode(a.Data, a.Type)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: fmt.Sprintf("attachment %q is corrupted", a.Name)})
	}
	return sendFile(c, a.Name, blob.MIME, blob.Data)
}

func (h *NCRHandler) Activities(c echo.Context) error {
	acts, err := h.uc.Activities(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, acts)
}

func (h *NCRHandler) Customers(c echo.Context) error {
	names, err := h.uc.Customers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, names)
}

// ExportXLSX writes the (optionally filtered) list as a workbook.
func (h *NCRHandler) ExportXLSX(c echo.Context) error {
	data, err := WorkbookBytes(c.Request().Context(), h.uc, c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, export.FileName(h.now()), mimeXLSX, data)
}

// WorkbookBytes renders the list matching q as xlsx bytes.
func WorkbookBytes(ctx context.Context, uc *ncruc.Usecase, q string) ([]byte, error) {
	entries, err := uc.List(ctx, q)
	if err != nil {
		return nil, err
	}
	f, err := export.Entries(entries)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func sendFile(c echo.Context, name, contentType string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	return c.Blob(http.StatusOK, contentType, data)
}
