package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"golang.org/x/oauth2"

	"github.com/pixelforge/nexus/internal/api/authenticator"
	"github.com/pixelforge/nexus/internal/api/ratelimit"
	"github.com/pixelforge/nexus/internal/perrors"
	"github.com/pixelforge/nexus/internal/services"
	"github.com/pixelforge/nexus/internal/services/activity"
	"github.com/pixelforge/nexus/internal/services/session"
	"github.com/pixelforge/nexus/internal/services/user"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User *user.Summary `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// loginLimit allows 10 attempts per client IP per minute before 429s.
var loginLimit = ratelimit.Limit{Requests: 10, Window: time.Minute}

type AuthController struct {
	svc          *services.Services
	auth         *authenticator.Authenticator
	limiter      ratelimit.Limiter
	cookieSecure bool
}

func RegisterAuthRoutes(r *router.Router, svc *services.Services, auth *authenticator.Authenticator, limiter ratelimit.Limiter, cookieSecure bool) {
	c := &AuthController{
		svc:          svc,
		auth:         auth,
		limiter:      limiter,
		cookieSecure: cookieSecure,
	}

	r.GET("/api/auth/enabled", c.enabled)
	r.POST("/api/auth/login", c.login)
	r.POST("/api/auth/logout", c.logout)
	r.POST("/api/auth/change-password", c.changePassword)
	r.GET("/api/auth/me", c.me)
	r.GET("/api/auth/sso/login", c.ssoLogin)
	r.GET("/api/auth/sso/callback", c.ssoCallback)
}

func (c *AuthController) enabled(ctx *fasthttp.RequestCtx) {
	writeOK(ctx, requestContext(ctx), "success", map[string]any{
		"sso_enabled": c.auth.SSOEnabled(),
	})
}

func (c *AuthController) login(ctx *fasthttp.RequestCtx) {
	stdCtx := requestContext(ctx)

	allowed, err := c.limiter.Allow(stdCtx, "login:"+clientIP(ctx), loginLimit)
	if err != nil {
		writeError(ctx, stdCtx, "Failed to check rate limit", perrors.NewErrInternalServerError("Failed to check rate limit", err))
		return
	}
	if !allowed {
		writeError(ctx, stdCtx, "Too many login attempts", perrors.NewErrTooManyRequests("Too many login attempts", errors.New("login rate limit exceeded")))
		return
	}

	var req LoginRequest
	if err := parseBody(ctx, &req); err != nil {
		writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(ctx, stdCtx, "Email and password are required", perrors.NewErrInvalidRequest("Email and password are required", errors.New("missing credentials")))
		return
	}

	u, err := c.svc.User.Authenticate(stdCtx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			writeError(ctx, stdCtx, "Invalid credentials", perrors.NewErrUnauthorized("Invalid credentials", err))
			return
		}
		writeError(ctx, stdCtx, "Failed to authenticate", perrors.NewErrInternalServerError("Failed to authenticate", err))
		return
	}

	sess, err := c.svc.Session.Create(stdCtx, u.ID)
	if err != nil {
		writeError(ctx, stdCtx, "Failed to create session", perrors.NewErrInternalServerError("Failed to create session", err))
		return
	}

	c.setSessionCookie(ctx, sess.ID, sess.ExpiresAt)

	c.svc.Activity.Record(stdCtx, &activity.Event{
		UserID:    u.ID,
		UserEmail: u.Email,
		Action:    activity.ActionLogin,
	})

	writeOK(ctx, stdCtx, "success", LoginResponse{User: u.Summary()})
}

func (c *AuthController) logout(ctx *fasthttp.RequestCtx) {
	stdCtx := requestContext(ctx)

	token := string(ctx.Request.Header.Cookie(session.CookieName))
	if err := c.svc.Session.Revoke(stdCtx, token); err != nil {
		writeError(ctx, stdCtx, "Failed to revoke session", perrors.NewErrInternalServerError("Failed to revoke session", err))
		return
	}

	c.clearSessionCookie(ctx)

	if u := currentUser(ctx); u != nil {
		c.svc.Activity.Record(stdCtx, &activity.Event{
			UserID:    u.ID,
			UserEmail: u.Email,
			Action:    activity.ActionLogout,
		})
	}

	writeOK(ctx, stdCtx, "success", map[string]any{
		"message": "Logged out successfully",
	})
}

func (c *AuthController) changePassword(ctx *fasthttp.RequestCtx) {
	stdCtx := requestContext(ctx)
	u := currentUser(ctx)

	var req ChangePasswordRequest
	if err := parseBody(ctx, &req); err != nil {
		writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(ctx, stdCtx, "Current and new passwords are required", perrors.NewErrInvalidRequest("Current and new passwords are required", errors.New("missing passwords")))
		return
	}

	if err := c.svc.User.ChangePassword(stdCtx, u, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, user.ErrPasswordMismatch):
			writeError(ctx, stdCtx, "Current password is incorrect", perrors.NewErrInvalidRequest("Current password is incorrect", err))
		case errors.Is(err, user.ErrPasswordTooShort):
			writeError(ctx, stdCtx, "Password must be at least 8 characters", perrors.NewErrInvalidRequest("Password must be at least 8 characters", err))
		default:
			writeError(ctx, stdCtx, "Failed to change password", perrors.NewErrInternalServerError("Failed to change password", err))
		}
		return
	}

	c.svc.Activity.Record(stdCtx, &activity.Event{
		UserID:    u.ID,
		UserEmail: u.Email,
		Action:    activity.ActionPasswordChange,
	})

	writeOK(ctx, stdCtx, "success", map[string]any{
		"message": "Password changed successfully",
	})
}

func (c *AuthController) me(ctx *fasthttp.RequestCtx) {
	writeOK(ctx, requestContext(ctx), "success", currentUser(ctx).Summary())
}

func (c *AuthController) ssoLogin(ctx *fasthttp.RequestCtx) {
	stdCtx := requestContext(ctx)

	if !c.auth.SSOEnabled() {
		writeError(ctx, stdCtx, "SSO is not configured", perrors.NewErrNotFound("SSO is not configured", errors.New("sso disabled")))
		return
	}

	csrf := make([]byte, 16)
	rand.Read(csrf)

	state := authenticator.OAuthState{
		CSRF:      base64.RawURLEncoding.EncodeToString(csrf),
		Redirect:  "/",
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(5 * time.Minute).Unix(),
	}

	encodedState, err := c.auth.GetSignedState(state)
	if err != nil {
		writeError(ctx, stdCtx, "Failed to create signed state", perrors.NewErrInternalServerError("Failed to create signed state", err))
		return
	}

	url := c.auth.AuthCodeURL(encodedState, oauth2.AccessTypeOnline)
	ctx.Redirect(url, fasthttp.StatusTemporaryRedirect)
}

func (c *AuthController) ssoCallback(ctx *fasthttp.RequestCtx) {
	stdCtx := requestContext(ctx)

	if !c.auth.SSOEnabled() {
		writeError(ctx, stdCtx, "SSO is not configured", perrors.NewErrNotFound("SSO is not configured", errors.New("sso disabled")))
		return
	}

	encodedState := ctx.URI().QueryArgs().Peek("state")
	code := ctx.URI().QueryArgs().Peek("code")
	if encodedState == nil || code == nil {
		writeError(ctx, stdCtx, "Missing parameters", perrors.NewErrInvalidRequest("Missing parameters", errors.New("missing state or code")))
		return
	}

	state, err := c.auth.VerifySignedState(string(encodedState))
	if err != nil {
		writeError(ctx, stdCtx, "Failed to verify state", perrors.NewErrInvalidRequest("Failed to verify state", err))
		return
	}

	token, err := c.auth.Exchange(stdCtx, string(code))
	if err != nil {
		writeError(ctx, stdCtx, "Failed to exchange token", perrors.NewErrUnauthorized("Failed to exchange token", err))
		return
	}

	idToken, err := c.auth.VerifyIDToken(stdCtx, token)
	if err != nil {
		writeError(ctx, stdCtx, "Failed to verify ID token", perrors.NewErrUnauthorized("Failed to verify ID token", err))
		return
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil || claims.Email == "" {
		writeError(ctx, stdCtx, "Failed to get email claim", perrors.NewErrUnauthorized("Failed to get email claim", err))
		return
	}

	// SSO never provisions accounts: the email must already exist locally
	u, err := c.svc.User.GetByEmail(stdCtx, claims.Email)
	if err != nil {
		writeError(ctx, stdCtx, "No account for this identity", perrors.NewErrUnauthorized("No account for this identity", err))
		return
	}

	sess, err := c.svc.Session.Create(stdCtx, u.ID)
	if err != nil {
		writeError(ctx, stdCtx, "Failed to create session", perrors.NewErrInternalServerError("Failed to create session", err))
		return
	}

	c.setSessionCookie(ctx, sess.ID, sess.ExpiresAt)

	c.svc.Activity.Record(stdCtx, &activity.Event{
		UserID:    u.ID,
		UserEmail: u.Email,
		Action:    activity.ActionLogin,
		Detail:    "sso",
	})

	ctx.Redirect(state.Redirect, fasthttp.StatusFound)
}

func (c *AuthController) setSessionCookie(ctx *fasthttp.RequestCtx, token string, expires time.Time) {
	var cookie fasthttp.Cookie
	cookie.SetKey(session.CookieName)
	cookie.SetValue(token)
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetSecure(c.cookieSecure)
	cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	cookie.SetExpire(expires)
	ctx.Response.Header.SetCookie(&cookie)
}

func (c *AuthController) clearSessionCookie(ctx *fasthttp.RequestCtx) {
	var cookie fasthttp.Cookie
	cookie.SetKey(session.CookieName)
	cookie.SetValue("")
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetSecure(c.cookieSecure)
	cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	cookie.SetExpire(time.Now().Add(-1 * time.Hour))
	ctx.Response.Header.SetCookie(&cookie)
}
