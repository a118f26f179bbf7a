package catalog

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bookhaven/bookhaven/internal/platform/apperr"
	requestutil "github.com/bookhaven/bookhaven/internal/platform/request"
	"github.com/bookhaven/bookhaven/internal/platform/respond"
	"github.com/bookhaven/bookhaven/internal/platform/validate"
)

// publicationDateLayout is the wire format for publication dates.
const publicationDateLayout = "2006-01-02"

type Handler struct {
	controller *Controller
}

func NewHandler(controller *Controller) *Handler {
	return &Handler{controller: controller}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/books", handler.listBooks)
	router.Post("/books", handler.createBook)
	router.Patch("/books/{bookID}", handler.updateBook)
	router.Delete("/books/{bookID}", handler.deleteBook)

	router.Put("/filters", handler.setFilters)
	router.Post("/connection/check", handler.checkConnection)
}

func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	// A fresh read intent always refetches; the snapshot below carries the
	// resulting list together with loading/error state.
	if err := handler.controller.Fetch(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.controller.Snapshot())
}

type bookInput struct {
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	Description     string   `json:"description"`
	CoverURL        string   `json:"cover_url"`
	Genres          []string `json:"genre"`
	PublicationDate string   `json:"publication_date"`
	Rating          float64  `json:"rating"`
	ISBN            string   `json:"isbn"`
}

func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	var input bookInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	publicationDate, err := time.Parse(publicationDateLayout, input.PublicationDate)
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("publication_date must be formatted as YYYY-MM-DD"))
		return
	}

	draft := Draft{
		Title:           input.Title,
		Author:          input.Author,
		Description:     input.Description,
		CoverURL:        input.CoverURL,
		Genres:          input.Genres,
		PublicationDate: publicationDate,
		Rating:          input.Rating,
		ISBN:            input.ISBN,
	}

	if err := handler.controller.Create(request.Context(), draft); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, handler.controller.Snapshot())
}

type bookPatchInput struct {
	Title           *string   `json:"title"`
	Author          *string   `json:"author"`
	Description     *string   `json:"description"`
	CoverURL        *string   `json:"cover_url"`
	Genres          *[]string `json:"genre"`
	PublicationDate *string   `json:"publication_date"`
	Rating          *float64  `json:"rating"`
	ISBN            *string   `json:"isbn"`
}

func (handler *Handler) updateBook(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "bookID")

	var input bookPatchInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	patch := Patch{
		Title:       input.Title,
		Author:      input.Author,
		Description: input.Description,
		CoverURL:    input.CoverURL,
		Genres:      input.Genres,
		Rating:      input.Rating,
		ISBN:        input.ISBN,
	}

	if input.PublicationDate != nil {
		publicationDate, err := time.Parse(publicationDateLayout, *input.PublicationDate)
		if err != nil {
			respond.Error(writer, request, apperr.ValidationError("publication_date must be formatted as YYYY-MM-DD"))
			return
		}
		patch.PublicationDate = &publicationDate
	}

	if patch.IsEmpty() {
		respond.Error(writer, request, apperr.ValidationError("no fields to update"))
		return
	}

	if err := handler.controller.Update(request.Context(), bookID, patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.controller.Snapshot())
}

func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "bookID")

	if err := handler.controller.Delete(request.Context(), bookID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.controller.Snapshot())
}

type filterInput struct {
	Genre     *string `json:"genre"`
	Search    *string `json:"search"`
	SortBy    *string `json:"sort_by"`
	SortOrder *string `json:"sort_order"`
}

func (handler *Handler) setFilters(writer http.ResponseWriter, request *http.Request) {
	var input filterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if input.SortBy != nil {
		validator.OneOf("sort_by", *input.SortBy,
			"", string(SortNone), string(SortByTitle), string(SortByDate), string(SortByRating))
	}
	if input.SortOrder != nil {
		validator.OneOf("sort_order", *input.SortOrder,
			"", string(OrderAscending), string(OrderDescending))
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	patch := FilterPatch{
		Genre:     input.Genre,
		Search:    input.Search,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
	}

	if err := handler.controller.SetFilters(request.Context(), patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.controller.Snapshot())
}

func (handler *Handler) checkConnection(writer http.ResponseWriter, request *http.Request) {
	if err := handler.controller.CheckConnection(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.controller.Snapshot())
}
