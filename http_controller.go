package authcore

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
)

// AuthControllerRoutes holds the mounted paths.
type AuthControllerRoutes struct {
	Login         string
	FaceLogin     string
	QRLogin       string
	Logout        string
	Register      string
	PasswordReset string
	State         string
}

// AuthController exposes the service over a JSON HTTP API.
type AuthController struct {
	Logger  Logger
	Routes  *AuthControllerRoutes
	service *AuthService
}

// AuthControllerOption customizes the controller.
type AuthControllerOption func(*AuthController) *AuthController

// WithControllerLogger overrides the controller logger.
func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// WithControllerRoutes overrides the mounted paths.
func WithControllerRoutes(routes *AuthControllerRoutes) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if routes != nil {
			c.Routes = routes
		}
		return c
	}
}

// NewAuthController creates a controller over service.
func NewAuthController(service *AuthService, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		service: service,
		Logger:  defLogger{},
		Routes: &AuthControllerRoutes{
			Login:         "/auth/login",
			FaceLogin:     "/auth/login/face",
			QRLogin:       "/auth/login/qr",
			Logout:        "/auth/logout",
			Register:      "/auth/register",
			PasswordReset: "/auth/password-reset",
			State:         "/auth/state",
		},
	}

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// RegisterAuthRoutes mounts the controller on app.
func RegisterAuthRoutes(app *fiber.App, controller *AuthController) {
	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Post(controller.Routes.FaceLogin, controller.FaceLoginPost)
	app.Post(controller.Routes.QRLogin, controller.QRLoginPost)
	app.Post(controller.Routes.Logout, controller.LogoutPost)
	app.Post(controller.Routes.Register, controller.RegistrationCreate)
	app.Post(controller.Routes.PasswordReset, controller.PasswordResetPost)
	app.Get(controller.Routes.State, controller.StateGet)
}

type authResponse struct {
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
	State   AuthState `json:"state"`
}

// LoginRequest payload
type LoginRequest struct {
	Identifier string `form:"identifier" json:"identifier"`
	Password   string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Identifier,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// PasswordResetRequest payload
type PasswordResetRequest struct {
	Email string `form:"email" json:"email"`
}

// Validate will run validation rules
func (r PasswordResetRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
	)
}

// LoginPost handles password logins.
func (a *AuthController) LoginPost(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := ctx.BodyParser(payload); err != nil {
		return a.badRequest(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.unprocessable(ctx, err)
	}

	ok, err := a.service.Login(ctx.UserContext(), payload.Identifier, payload.Password)
	return a.settle(ctx, ok, err, fiber.StatusUnauthorized)
}

// FaceLoginPost handles simulated facial logins.
func (a *AuthController) FaceLoginPost(ctx *fiber.Ctx) error {
	ok, err := a.service.LoginWithFace(ctx.UserContext())
	return a.settle(ctx, ok, err, fiber.StatusUnauthorized)
}

// QRLoginPost handles simulated QR logins.
func (a *AuthController) QRLoginPost(ctx *fiber.Ctx) error {
	ok, err := a.service.LoginWithQR(ctx.UserContext())
	return a.settle(ctx, ok, err, fiber.StatusUnauthorized)
}

// RegistrationCreate handles new account registration.
func (a *AuthController) RegistrationCreate(ctx *fiber.Ctx) error {
	payload := new(RegisterPayload)

	if err := ctx.BodyParser(payload); err != nil {
		return a.badRequest(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.unprocessable(ctx, err)
	}

	ok, err := a.service.Register(ctx.UserContext(), *payload)
	return a.settle(ctx, ok, err, fiber.StatusInternalServerError)
}

// LogoutPost clears the session.
func (a *AuthController) LogoutPost(ctx *fiber.Ctx) error {
	a.service.Logout(ctx.UserContext())
	return ctx.Status(fiber.StatusOK).JSON(authResponse{
		Success: true,
		State:   a.service.State(),
	})
}

// PasswordResetPost triggers the reset notification stub.
func (a *AuthController) PasswordResetPost(ctx *fiber.Ctx) error {
	payload := new(PasswordResetRequest)

	if err := ctx.BodyParser(payload); err != nil {
		return a.badRequest(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.unprocessable(ctx, err)
	}

	ok, err := a.service.ResetPassword(ctx.UserContext(), payload.Email)
	if err != nil {
		a.Logger.Error("password reset failed: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(authResponse{
			Success: false,
			Error:   MsgGenericFailure,
			State:   a.service.State(),
		})
	}

	// The UI shows the same message either way so the endpoint cannot be
	// used to probe which emails exist.
	return ctx.Status(fiber.StatusOK).JSON(authResponse{
		Success: ok,
		State:   a.service.State(),
	})
}

// StateGet returns the current AuthState snapshot.
func (a *AuthController) StateGet(ctx *fiber.Ctx) error {
	state := a.service.State()
	return ctx.Status(fiber.StatusOK).JSON(authResponse{
		Success: state.IsAuthenticated,
		Error:   state.Error,
		State:   state,
	})
}

func (a *AuthController) settle(ctx *fiber.Ctx, ok bool, err error, failureStatus int) error {
	if err != nil {
		a.Logger.Error("auth operation failed: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(authResponse{
			Success: false,
			Error:   UserMessage(err),
			State:   a.service.State(),
		})
	}

	state := a.service.State()
	if !ok {
		return ctx.Status(failureStatus).JSON(authResponse{
			Success: false,
			Error:   state.Error,
			State:   state,
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(authResponse{
		Success: true,
		State:   state,
	})
}

func (a *AuthController) badRequest(ctx *fiber.Ctx, err error) error {
	a.Logger.Debug("malformed payload: %v", err)
	return ctx.Status(fiber.StatusBadRequest).JSON(authResponse{
		Success: false,
		Error:   MsgGenericFailure,
		State:   a.service.State(),
	})
}

func (a *AuthController) unprocessable(ctx *fiber.Ctx, err error) error {
	return ctx.Status(fiber.StatusUnprocessableEntity).JSON(authResponse{
		Success: false,
		Error:   err.Error(),
		State:   a.service.State(),
	})
}
