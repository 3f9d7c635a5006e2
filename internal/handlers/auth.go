package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"station_monitor/internal/models"
	"station_monitor/internal/service"
)

const msgInvalidCredentials = "ชื่อผู้ใช้หรือรหัสผ่านไม่ถูกต้อง"

type authCredentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignUpRequest is the sign-up payload.
type SignUpRequest struct {
	Username  string `json:"username" binding:"required" example:"user3"`
	Password  string `json:"password" binding:"required" example:"secret"`
	FirstName string `json:"firstname" example:"สมปอง"`
	LastName  string `json:"lastname" example:"ดีมาก"`
	Position  string `json:"position" example:"พนักงาน"`
}

// LoginResponse is returned by /login on success.
type LoginResponse struct {
	Success   bool   `json:"success" example:"true"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Position  string `json:"position"`
	Token     string `json:"token"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "request_id", requestID(c), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return false
	}
	return true
}

// @Summary      Operator login
// @Description  Wrong credentials answer 200 with success=false.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      200   {object}  LoginResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]interface{}
// @Router       /login [post]
func (h *Handler) login(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	op, token, err := h.services.Login(c.Request.Context(), input.Username, input.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		if h.log != nil {
			h.log.Infow("auth_login_rejected", "username", input.Username)
		}
		c.JSON(http.StatusOK, gin.H{"success": false, "message": msgInvalidCredentials})
		return
	}
	if err != nil {
		if h.log != nil {
			h.log.Errorw("auth_login_failed", "username", input.Username, "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": errInternal})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success:   true,
		FirstName: op.FirstName,
		LastName:  op.LastName,
		Position:  op.Position,
		Token:     token,
	})
}

// @Summary      Create operator
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      SignUpRequest  true  "Operator"
// @Success      200   {object}  map[string]int
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input SignUpRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	id, err := h.services.SignUp(c.Request.Context(), models.Operator{
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Position:  input.Position,
	}, input.Password)
	if err != nil {
		h.respondError(c, err, "auth_sign_up_failed", "username", input.Username)
		return
	}
	if id == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}
