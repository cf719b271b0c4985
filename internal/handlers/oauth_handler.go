package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"todosync/internal/middleware"
	"todosync/internal/services"
	"todosync/internal/utils"
)

const cookieOAuthState = "oauth_state"

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type OAuthHandler struct {
	conf        *oauth2.Config
	identitySvc services.IdentityService
	authService services.AuthService
}

func NewOAuthHandler(conf *oauth2.Config, identitySvc services.IdentityService, authService services.AuthService) *OAuthHandler {
	return &OAuthHandler{conf: conf, identitySvc: identitySvc, authService: authService}
}

// GET /auth/google
func (h *OAuthHandler) GoogleLogin(c *gin.Context) {
	state, err := utils.NewOpaqueToken(16)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "failed to start Google login")
		return
	}
	c.SetCookie(cookieOAuthState, state, 300, "/", "", secureRequest(c), true)

	url := h.conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GET /auth/google/callback
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	stateCookie, err := c.Cookie(cookieOAuthState)
	if err != nil || stateCookie == "" || c.Query("state") != stateCookie {
		log.Printf("[oauth][callback] state mismatch")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	c.SetCookie(cookieOAuthState, "", -1, "/", "", secureRequest(c), true)

	code := c.Query("code")
	if code == "" {
		log.Printf("[oauth][callback] missing code: error=%q", c.Query("error"))
		c.Redirect(http.StatusFound, "/login")
		return
	}

	ctx := c.Request.Context()
	tok, err := h.conf.Exchange(ctx, code)
	if err != nil {
		log.Printf("[oauth][callback][err] exchange: %v", err)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	profile, err := h.fetchProfile(c, tok)
	if err != nil {
		log.Printf("[oauth][callback][err] userinfo: %v", err)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := h.identitySvc.Link(*profile, tok.AccessToken, tok.RefreshToken)
	if err != nil {
		if errors.Is(err, services.ErrNoLinkableAccount) {
			log.Printf("[oauth][callback] no linkable account for email=%q", profile.Email)
		} else {
			log.Printf("[oauth][callback][err] link: %v", err)
		}
		c.Redirect(http.StatusFound, "/login")
		return
	}

	jwtToken, err := h.authService.SignToken(user.ID)
	if err != nil {
		log.Printf("[oauth][callback][err] sign token userID=%d: %v", user.ID, err)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieJWT, jwtToken, int(h.authService.TokenTTL().Seconds()), "/", "", secureRequest(c), true)
	log.Printf("[oauth][callback] success userID=%d", user.ID)
	c.Redirect(http.StatusFound, "/success")
}

func (h *OAuthHandler) fetchProfile(c *gin.Context, tok *oauth2.Token) (*services.GoogleProfile, error) {
	client := h.conf.Client(c.Request.Context(), tok)
	resp, err := client.Get(googleUserinfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &services.GoogleProfile{ID: payload.ID, Email: payload.Email}, nil
}

// GET /auth/google/disconnect (protected)
func (h *OAuthHandler) GoogleDisconnect(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		failJSON(c, http.StatusUnauthorized, "You are not logged in! Please log in to get access.")
		return
	}
	if err := h.identitySvc.Disconnect(user.ID); err != nil {
		log.Printf("[oauth][disconnect][err] userID=%d: %v", user.ID, err)
		errorJSON(c, http.StatusInternalServerError, "Failed to disconnect Google account.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Google account disconnected."})
}

// GET /success
func (h *OAuthHandler) Success(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the React | Todo Application"})
}
