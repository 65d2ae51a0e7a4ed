package accounts

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// AccountControllerRoutes hold the paths the controller registers.
type AccountControllerRoutes struct {
	SignUp  string
	SignIn  string
	Status  string
	SignOut string
}

// AccountController exposes the credential surface as JSON handlers:
// sign up, sign in, session status and sign out. Routing stays with the
// host; RegisterAccountRoutes only attaches these handlers.
type AccountController struct {
	Logger       Logger
	Service      AccountService
	Claims       ClaimsFactory
	Sessions     SessionIssuer
	Routes       *AccountControllerRoutes
	ErrorHandler func(router.Context, error) error
}

type AccountControllerOption func(*AccountController) *AccountController

func WithControllerLogger(logger Logger) AccountControllerOption {
	return func(c *AccountController) *AccountController {
		c.Logger = logger
		return c
	}
}

func WithAccountService(service AccountService) AccountControllerOption {
	return func(c *AccountController) *AccountController {
		c.Service = service
		return c
	}
}

func WithClaimsFactory(factory ClaimsFactory) AccountControllerOption {
	return func(c *AccountController) *AccountController {
		c.Claims = factory
		return c
	}
}

func WithSessionIssuer(sessions SessionIssuer) AccountControllerOption {
	return func(c *AccountController) *AccountController {
		c.Sessions = sessions
		return c
	}
}

func WithControllerRoutes(routes *AccountControllerRoutes) AccountControllerOption {
	return func(c *AccountController) *AccountController {
		c.Routes = routes
		return c
	}
}

func NewAccountController(opts ...AccountControllerOption) *AccountController {
	c := &AccountController{
		Logger: defLogger{},
		Claims: NewClaimsFactory(),
		Routes: &AccountControllerRoutes{
			SignUp:  "/account/sign-up",
			SignIn:  "/account/sign-in",
			Status:  "/status",
			SignOut: "/sign-out",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.ErrorHandler == nil {
		c.ErrorHandler = c.defaultErrorHandler
	}

	if c.Service == nil {
		panic("Missing AccountService in account controller...")
	}

	if c.Sessions == nil {
		panic("Missing SessionIssuer in account controller...")
	}

	return c
}

// RegisterAccountRoutes attaches the controller to the host router.
func RegisterAccountRoutes[T any](app router.Router[T], opts ...AccountControllerOption) *AccountController {
	controller := NewAccountController(opts...)

	app.Post(controller.Routes.SignUp, controller.AccountSignUp).
		SetName("account.sign-up")

	app.Post(controller.Routes.SignIn, controller.AccountSignIn).
		SetName("account.sign-in")

	app.Get(controller.Routes.Status, controller.SessionStatus).
		SetName("session.status")

	app.Post(controller.Routes.SignOut, controller.SessionSignOut).
		SetName("session.sign-out")

	return controller
}

// SignUpRequest payload
type SignUpRequest struct {
	Name       string            `form:"name" json:"name"`
	Password   string            `form:"password" json:"password"`
	Metadata   map[string]string `form:"-" json:"metadata,omitempty"`
	RememberMe bool              `form:"remember_me" json:"remember_me"`
}

// Validate will run validation rules
func (r SignUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 200)),
	)
}

// SignInRequest payload
type SignInRequest struct {
	Name       string `form:"name" json:"name"`
	Password   string `form:"password" json:"password"`
	RememberMe bool   `form:"remember_me" json:"remember_me"`
}

// Validate will run validation rules
func (r SignInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type signUpResponse struct {
	ID string `json:"id"`
}

type sessionStatusResponse struct {
	Claims map[string]string `json:"claims"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *AccountController) AccountSignUp(ctx router.Context) error {
	payload := new(SignUpRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("sign up parse payload", "error", err)
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "unable to parse request body"})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	accountID, err := a.Service.CreateAccount(ctx.Context(), payload.Name, payload.Password, payload.Metadata)
	if err != nil {
		switch {
		case IsConflict(err):
			return ctx.JSON(http.StatusConflict, errorResponse{Error: "name is already taken"})
		case IsValidation(err):
			return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid metadata values provided"})
		default:
			return a.ErrorHandler(ctx, err)
		}
	}

	if err := a.establishSession(ctx, accountID, payload.RememberMe); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, signUpResponse{ID: accountID})
}

func (a *AccountController) AccountSignIn(ctx router.Context) error {
	payload := new(SignInRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("sign in parse payload", "error", err)
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "unable to parse request body"})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	accountID, err := a.Service.AuthenticateAccount(ctx.Context(), payload.Name, payload.Password)
	if err != nil {
		if IsUnauthorized(err) {
			return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		}
		return a.ErrorHandler(ctx, err)
	}

	if err := a.establishSession(ctx, accountID, payload.RememberMe); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, signUpResponse{ID: accountID})
}

func (a *AccountController) SessionStatus(ctx router.Context) error {
	status, err := a.Sessions.Authenticate(ctx)
	if err != nil {
		if IsUnauthorized(err) {
			return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		}
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, sessionStatusResponse{Claims: status.Claims})
}

func (a *AccountController) SessionSignOut(ctx router.Context) error {
	if err := a.Sessions.SignOut(ctx); err != nil {
		if IsUnauthorized(err) {
			return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		}
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]bool{"signed_out": true})
}

func (a *AccountController) establishSession(ctx router.Context, accountID string, rememberMe bool) error {
	claims, err := a.Claims.CreateAccountClaims(ctx.Context(), accountID, CredentialsAuthType)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build account claims")
	}

	return a.Sessions.SignIn(ctx, claims, SessionProperties{
		Persistent:         rememberMe,
		AuthenticationType: CredentialsAuthType,
	})
}

func (a *AccountController) defaultErrorHandler(ctx router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	a.Logger.Error(
		"account controller error",
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	code := richErr.Code
	if code == 0 {
		code = http.StatusInternalServerError
	}

	return ctx.JSON(code, errorResponse{Error: richErr.Message})
}
