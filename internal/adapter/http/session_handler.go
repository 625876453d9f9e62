package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ncr-quality-backend/internal/usecase/session"
)

type SessionHandler struct{ uc *session.Usecase }

func NewSessionHandler(uc *session.Usecase) *SessionHandler { return &SessionHandler{uc: uc} }

type loginReq struct {
	Passphrase string `json:"passphrase" validate:"required"`
}

func (h *SessionHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	tok, err := h.uc.Login(req.Passphrase)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, tok)
}
