package userauth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-userauth/middleware/sessionware"
)

// RouteRegistrar captures the router methods used by the controller.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Put(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

type AuthControllerRoutes struct {
	Register       string
	Activate       string
	Login          string
	SocialAuth     string
	RefreshToken   string
	Logout         string
	Me             string
	UpdateInfo     string
	UpdatePassword string
	UpdateAvatar   string
	Users          string
}

// AuthController exposes the session lifecycle as a JSON API.
type AuthController struct {
	Debug      bool
	Logger     Logger
	Manager    Manager
	Accounts   Accounts
	Config     Config
	Routes     *AuthControllerRoutes
	ContextKey string
	// AdminRoles gates the account listing. Defaults to RoleAdmin only.
	AdminRoles RoleSet
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:     defLogger{},
		ContextKey: sessionware.DefaultContextKey,
		AdminRoles: NewRoleSet(RoleAdmin),
		Routes: &AuthControllerRoutes{
			Register:       "/register",
			Activate:       "/activate-user",
			Login:          "/login",
			SocialAuth:     "/social-auth",
			RefreshToken:   "/refresh-token",
			Logout:         "/logout",
			Me:             "/me",
			UpdateInfo:     "/update-user-info",
			UpdatePassword: "/update-user-password",
			UpdateAvatar:   "/update-user-avatar",
			Users:          "/users",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Manager == nil {
		panic("Missing Manager in auth controller...")
	}

	if c.Config == nil {
		panic("Missing Config in auth controller...")
	}

	return c
}

func WithControllerManager(m Manager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Manager = m
		return c
	}
}

func WithControllerConfig(cfg Config) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Config = cfg
		return c
	}
}

// WithControllerAccounts enables the admin account listing route.
func WithControllerAccounts(a Accounts) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Accounts = a
		return c
	}
}

// WithControllerAdminRoles overrides the role set allowed to list accounts.
func WithControllerAdminRoles(roles ...Role) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.AdminRoles = NewRoleSet(roles...)
		return c
	}
}

func WithControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = l
		return c
	}
}

// RegisterRoutes mounts the API. The gate middleware authenticates requests;
// routes behind it read the caller's identity from locals. The account
// listing additionally requires the admin role.
func RegisterAuthRoutes(group RouteRegistrar, c *AuthController, gate router.MiddlewareFunc) {
	group.Post(c.Routes.Register, c.Register)
	group.Post(c.Routes.Activate, c.Activate)
	group.Post(c.Routes.Login, c.Login)
	group.Post(c.Routes.SocialAuth, c.SocialAuth)
	group.Get(c.Routes.RefreshToken, c.Refresh)

	group.Get(c.Routes.Logout, c.Logout, gate)
	group.Get(c.Routes.Me, c.Me, gate)
	group.Put(c.Routes.UpdateInfo, c.UpdateInfo, gate)
	group.Put(c.Routes.UpdatePassword, c.UpdatePassword, gate)
	group.Put(c.Routes.UpdateAvatar, c.UpdateAvatar, gate)

	group.Get(c.Routes.Users, c.ListAccounts, gate,
		sessionware.RequireRoles(c.ContextKey, c.AdminRoles...))
}

// RegisterPayload starts the activation flow.
type RegisterPayload struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

func (a *AuthController) Register(ctx router.Context) error {
	payload := new(RegisterPayload)

	if err := a.bindAndValidate(ctx, payload); err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	token, err := a.Manager.Register(ctx.Context(), PendingRegistration{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		a.Logger.Error("Register error: %s", err)
		return WriteError(ctx, a.Logger, err)
	}

	return ctx.JSON(router.StatusCreated, map[string]any{
		"success":          true,
		"message":          "Please check your email to activate your account",
		"activation_token": token,
	})
}

// ActivatePayload carries the activation token and the mailed code.
type ActivatePayload struct {
	Token string `form:"activation_token" json:"activation_token"`
	Code  string `form:"activation_code" json:"activation_code"`
}

// Validate will run validation rules
func (r ActivatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.Code, validation.Required, validation.Length(4, 4), is.Digit),
	)
}

func (a *AuthController) Activate(ctx router.Context) error {
	payload := new(ActivatePayload)

	if err := a.bindAndValidate(ctx, payload); err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	if _, err := a.Manager.Activate(ctx.Context(), payload.Token, payload.Code); err != nil {
		a.Logger.Error("Activate error: %s", err)
		return WriteError(ctx, a.Logger, err)
	}

	return ctx.JSON(router.StatusCreated, map[string]any{
		"success": true,
	})
}

// LoginPayload carries credentials.
type LoginPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) Login(ctx router.Context) error {
	payload := new(LoginPayload)

	if err := a.bindAndValidate(ctx, payload); err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	account, pair, err := a.Manager.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	SetTokenCookies(ctx, a.Config, pair)

	return ctx.JSON(router.StatusOK, map[string]any{
		"success":      true,
		"user":         account,
		"access_token": pair.AccessToken,
	})
}

// SocialAuthPayload carries the identity asserted by the frontend's OAuth
// exchange.
type SocialAuthPayload struct {
	Name   string `form:"name" json:"name"`
	Email  string `form:"email" json:"email"`
	Avatar string `form:"avatar" json:"avatar"`
}

// Validate will run validation rules
func (r SocialAuthPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
	)
}

func (a *AuthController) SocialAuth(ctx router.Context) error {
	payload := new(SocialAuthPayload)

	if err := a.bindAndValidate(ctx, payload); err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	account, pair, err := a.Manager.SocialAuth(ctx.Context(), payload.Name, payload.Email, payload.Avatar)
	if err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	SetTokenCookies(ctx, a.Config, pair)

	return ctx.JSON(router.StatusOK, map[string]any{
		"success":      true,
		"user":         account,
		"access_token": pair.AccessToken,
	})
}

// Refresh rotates the token pair using the refresh cookie. It never extends
// a session whose server-side record is gone.
func (a *AuthController) Refresh(ctx router.Context) error {
	refreshToken := ctx.Cookies(a.Config.GetRefreshCookieName())
	if refreshToken == "" {
		return WriteError(ctx, a.Logger, ErrUnauthenticated)
	}

	projection, pair, err := a.Manager.Refresh(ctx.Context(), refreshToken)
	if err != nil {
		a.Logger.Debug("Refresh rejected: %s", err)
		return WriteError(ctx, a.Logger, err)
	}

	SetTokenCookies(ctx, a.Config, pair)

	if a.Debug {
		a.Logger.Debug("refreshed session: %s", print.MaybePrettyJSON(projection))
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"success":      true,
		"access_token": pair.AccessToken,
	})
}

func (a *AuthController) Logout(ctx router.Context) error {
	account, ok := sessionware.AccountFromContext(ctx, a.ContextKey)
	if !ok {
		return WriteError(ctx, a.Logger, ErrUnauthenticated)
	}

	if err := a.Manager.Logout(ctx.Context(), account.ID); err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	ClearTokenCookies(ctx, a.Config)

	return ctx.JSON(router.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Me returns the caller's session-resident identity without touching the
// account table.
func (a *AuthController) Me(ctx router.Context) error {
	account, ok := sessionware.AccountFromContext(ctx, a.ContextKey)
	if !ok {
		return WriteError(ctx, a.Logger, ErrUnauthenticated)
	}

	projection, err := a.Manager.IdentityFromSession(ctx.Context(), account.ID)
	if err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"success": true,
		"user":    projection,
	})
}

// UpdateInfoPayload carries profile mutations; empty fields are left as is.
type UpdateInfoPayload struct {
	Name  string `form:"name" json:"name"`
	Email string `form:"email" json:"email"`
}

// Validate will run validation rules
func (r UpdateInfoPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(1, 200)),
		validation.Field(&r.Email, is.Email),
	)
}

func (a *AuthController) UpdateInfo(ctx router.Context) error {
	account, ok := sessionware.AccountFromContext(ctx, a.ContextKey)
	if !ok {
		return WriteError(ctx, a.Logger, ErrUnauthenticated)
	}

	payload := new(UpdateInfoPayload)
	if err := a.bindAndValidate(ctx, payload); err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	updated, err := a.Manager.UpdateProfile(ctx.Context(), account.ID, payload.Name, payload.Email)
	if err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	return ctx.JSON(router.StatusCreated, map[string]any{
		"success": true,
		"user":    updated,
	})
}

// UpdatePasswordPayload carries the current and replacement passwords.
type UpdatePasswordPayload struct {
	OldPassword string `form:"old_password" json:"old_password"`
	NewPassword string `form:"new_password" json:"new_password"`
}

// Validate will run validation rules
func (r UpdatePasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(6, 100)),
	)
}

func (a *AuthController) UpdatePassword(ctx router.Context) error {
	account, ok := sessionware.AccountFromContext(ctx, a.ContextKey)
	if !ok {
		return WriteError(ctx, a.Logger, ErrUnauthenticated)
	}

	payload := new(UpdatePasswordPayload)
	if err := a.bindAndValidate(ctx, payload); err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	updated, err := a.Manager.UpdatePassword(ctx.Context(), account.ID, payload.OldPassword, payload.NewPassword)
	if err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	return ctx.JSON(router.StatusCreated, map[string]any{
		"success": true,
		"user":    updated,
	})
}

// UpdateAvatarPayload carries the replacement avatar reference.
type UpdateAvatarPayload struct {
	Avatar string `form:"avatar" json:"avatar"`
}

// Validate will run validation rules
func (r UpdateAvatarPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Avatar, validation.Required),
	)
}

func (a *AuthController) UpdateAvatar(ctx router.Context) error {
	account, ok := sessionware.AccountFromContext(ctx, a.ContextKey)
	if !ok {
		return WriteError(ctx, a.Logger, ErrUnauthenticated)
	}

	payload := new(UpdateAvatarPayload)
	if err := a.bindAndValidate(ctx, payload); err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	updated, err := a.Manager.UpdateAvatar(ctx.Context(), account.ID, payload.Avatar)
	if err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	return ctx.JSON(router.StatusCreated, map[string]any{
		"success": true,
		"user":    updated,
	})
}

// ListAccounts returns every account, newest first. The handler enforces
// AdminRoles membership itself, independent of any route middleware.
func (a *AuthController) ListAccounts(ctx router.Context) error {
	account, ok := sessionware.AccountFromContext(ctx, a.ContextKey)
	if !ok {
		return WriteError(ctx, a.Logger, ErrUnauthenticated)
	}

	if !a.AdminRoles.Contains(account.Role) {
		return WriteError(ctx, a.Logger, ErrForbidden)
	}

	if a.Accounts == nil {
		return WriteError(ctx, a.Logger, ErrForbidden)
	}

	records, err := a.Accounts.ListAll(ctx.Context())
	if err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"success": true,
		"users":   records,
	})
}

type validatable interface {
	Validate() error
}

func (a *AuthController) bindAndValidate(ctx router.Context, payload validatable) error {
	if err := ctx.Bind(payload); err != nil {
		return ErrInvalidPayload
	}

	if err := payload.Validate(); err != nil {
		return errors.New("invalid request payload", errors.CategoryValidation).
			WithTextCode(TextCodeInvalidPayload).
			WithCode(errors.CodeBadRequest).
			WithMetadata(map[string]any{
				"validation": err.Error(),
			})
	}

	return nil
}
