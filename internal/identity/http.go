package identity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/bookhaven/bookhaven/internal/platform/request"
	"github.com/bookhaven/bookhaven/internal/platform/respond"
)

type Handler struct {
	controller *Controller
}

func NewHandler(controller *Controller) *Handler {
	return &Handler{controller: controller}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/signup", handler.signUp)
	router.Post("/signin", handler.signIn)
	router.Post("/signout", handler.signOut)
	router.Get("/session", handler.session)
	router.Post("/clear-error", handler.clearError)
}

type signUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {
	var input signUpInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.controller.SignUp(request.Context(), input.Email, input.Password, input.Username); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, handler.controller.Snapshot())
}

type signInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	var input signInInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.controller.SignIn(request.Context(), input.Email, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.controller.Snapshot())
}

func (handler *Handler) signOut(writer http.ResponseWriter, request *http.Request) {
	if err := handler.controller.SignOut(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.controller.Snapshot())
}

func (handler *Handler) session(writer http.ResponseWriter, request *http.Request) {
	if err := handler.controller.Restore(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.controller.Snapshot())
}

func (handler *Handler) clearError(writer http.ResponseWriter, request *http.Request) {
	handler.controller.ClearError()
	respond.OK(writer, handler.controller.Snapshot())
}
