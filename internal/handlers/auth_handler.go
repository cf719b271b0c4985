package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"todosync/internal/middleware"
	"todosync/internal/models"
	"todosync/internal/services"
)

// CookieLoginToken carries the pending-login token between steps 1-3.
const CookieLoginToken = "login_token"

const loginTokenMaxAge = 10 * 60 // seconds, matches the attempt lifetime

type AuthHandler struct {
	userService  services.UserService
	authService  services.AuthService
	loginService services.LoginService
	totpService  services.TOTPService
}

func NewAuthHandler(
	userService services.UserService,
	authService services.AuthService,
	loginService services.LoginService,
	totpService services.TOTPService,
) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		authService:  authService,
		loginService: loginService,
		totpService:  totpService,
	}
}

// POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[auth][register] bad request: bind json failed: err=%v", err)
		failJSON(c, http.StatusBadRequest, "please provide a valid email and a password of at least 8 characters")
		return
	}

	user, qrCode, err := h.userService.Register(req.Email, req.Password, req.PasswordConfirm)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordMismatch), errors.Is(err, services.ErrEmailTaken):
			log.Printf("[auth][register] rejected email=%q: %v", req.Email, err)
			failJSON(c, http.StatusBadRequest, err.Error())
		default:
			log.Printf("[auth][register][err] email=%q: %v", req.Email, err)
			errorJSON(c, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	log.Printf("[auth][register] ok userID=%d email=%q", user.ID, user.Email)
	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "user registered successfully",
		"data": gin.H{
			"user":   user,
			"qrCode": qrCode,
		},
	})
}

// POST /login — шаг 1: пароль, затем одноразовый код на почту.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "Please provide email and password")
		return
	}
	email := strings.TrimSpace(req.Email)
	log.Printf("[auth][login] attempt email=%q", email)

	user, err := h.userService.GetByEmail(email)
	if err != nil {
		log.Printf("[auth][login][err] lookup email=%q: %v", email, err)
		errorJSON(c, http.StatusInternalServerError, "login failed")
		return
	}
	// единый ответ: не раскрываем, что именно неверно
	if user == nil || !h.authService.CheckPassword(user.PasswordHash, req.Password) {
		log.Printf("[auth][login] rejected email=%q", email)
		failJSON(c, http.StatusUnauthorized, services.ErrInvalidCredentials.Error())
		return
	}

	token, err := h.loginService.Begin(user)
	if err != nil {
		if errors.Is(err, services.ErrDelivery) {
			log.Printf("[auth][login][err] otp delivery userID=%d: %v", user.ID, err)
			errorJSON(c, http.StatusInternalServerError, services.ErrDelivery.Error())
			return
		}
		log.Printf("[auth][login][err] begin attempt userID=%d: %v", user.ID, err)
		errorJSON(c, http.StatusInternalServerError, "login failed")
		return
	}

	c.SetCookie(CookieLoginToken, token, loginTokenMaxAge, "/", "", secureRequest(c), true)
	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"login_token": token,
		"data": gin.H{
			"user":    user,
			"message": "Please check your email for OTP verification",
		},
	})
}

// loginToken reads the pending-login token from body field or cookie.
func loginToken(c *gin.Context, bodyToken string) string {
	if bodyToken != "" {
		return bodyToken
	}
	if cookie, err := c.Cookie(CookieLoginToken); err == nil {
		return cookie
	}
	return ""
}

// POST /verify-otp — шаг 2.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		OTP        string `json:"otp" binding:"required"`
		LoginToken string `json:"login_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "Please provide the OTP code")
		return
	}

	token := loginToken(c, req.LoginToken)
	if token == "" {
		failJSON(c, http.StatusUnauthorized, "You are not logged in! Please log in to get access.")
		return
	}

	user, err := h.loginService.VerifyOTP(token, strings.TrimSpace(req.OTP))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOTPInvalid),
			errors.Is(err, services.ErrOTPExpired),
			errors.Is(err, services.ErrLoginExpired),
			errors.Is(err, services.ErrWrongStage):
			log.Printf("[auth][verify-otp] rejected: %v", err)
			failJSON(c, http.StatusUnauthorized, "Invalid OTP or OTP has expired")
		default:
			log.Printf("[auth][verify-otp][err] %v", err)
			errorJSON(c, http.StatusInternalServerError, "verification failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"user": user},
	})
}

// POST /verify-2fa — шаг 3: код из приложения-аутентификатора.
func (h *AuthHandler) Verify2FA(c *gin.Context) {
	var req struct {
		Passkey    string `json:"passkey" binding:"required"`
		LoginToken string `json:"login_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failJSON(c, http.StatusBadRequest, "Please provide the 2FA token")
		return
	}

	token := loginToken(c, req.LoginToken)
	if token == "" {
		failJSON(c, http.StatusUnauthorized, "You are not logged in! Please log in to get access.")
		return
	}

	user, err := h.loginService.Resolve(token)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLoginExpired), errors.Is(err, services.ErrWrongStage):
			log.Printf("[auth][verify-2fa] rejected: %v", err)
			failJSON(c, http.StatusUnauthorized, "Invalid or expired login attempt")
		default:
			log.Printf("[auth][verify-2fa][err] %v", err)
			errorJSON(c, http.StatusInternalServerError, "verification failed")
		}
		return
	}

	if !h.totpService.Verify(user.TOTPSecret, strings.TrimSpace(req.Passkey)) {
		log.Printf("[auth][verify-2fa] invalid totp userID=%d", user.ID)
		failJSON(c, http.StatusUnauthorized, services.ErrInvalidTOTP.Error())
		return
	}

	jwtToken, err := h.authService.SignToken(user.ID)
	if err != nil {
		log.Printf("[auth][verify-2fa][err] sign token userID=%d: %v", user.ID, err)
		errorJSON(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	// попытка использована — сносим
	if err := h.loginService.Complete(token); err != nil {
		log.Printf("[auth][verify-2fa] cleanup attempt failed userID=%d: %v", user.ID, err)
	}
	c.SetCookie(CookieLoginToken, "", -1, "/", "", secureRequest(c), true)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieJWT, jwtToken, int(h.authService.TokenTTL().Seconds()), "/", "", secureRequest(c), true)

	log.Printf("[auth][verify-2fa] success userID=%d", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"token":   jwtToken,
		"message": "Log in successfully done",
	})
}

// POST /logout — только чистим cookie; уже выданные токены живут до своего
// собственного expiry.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.CookieJWT, "", -1, "/", "", secureRequest(c), true)
	c.JSON(http.StatusOK, gin.H{"message": "successfully logged out"})
}

// GET /isLoggedIn — проверка только по cookie.
func (h *AuthHandler) IsLoggedIn(c *gin.Context) {
	cookie, err := c.Cookie(middleware.CookieJWT)
	if err != nil || cookie == "" {
		failJSON(c, http.StatusUnauthorized, "You are not logged in, please login to access")
		return
	}
	userID, err := h.authService.ValidateToken(cookie)
	if err != nil {
		failJSON(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	user, err := h.userService.GetByID(userID)
	if err != nil || user == nil {
		failJSON(c, http.StatusUnauthorized, "The user belonging to this token does no longer exist.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
