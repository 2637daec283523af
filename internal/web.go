package internal

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const (
	FieldUsername    = "username"
	FieldPhoneNumber = "phonenumber"
)

type (
	ServerOptions struct {
		DeveloperName string
		CORSOrigins   []string
		// Ping backs /healthz; nil means always healthy.
		Ping          func() error
	}

	server struct {
		phonebook *Phonebook
		views     *Renderer
		opts      ServerOptions
	}
)

// NewLookupRouter serves the read-only search page and the FindPersons RPC.
func NewLookupRouter(pb *Phonebook, views *Renderer, opts ServerOptions) http.Handler {
	s := &server{pb, views, opts}
	r := newRouter(s)

	r.Get("/", s.handleSearch)
	r.Post("/", s.handleSearch)

	path, rpc := NewFindPersonsHandler(pb, NewLoggingInterceptor())
	r.With(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms"},
		MaxAge:         300,
	})).Handle(path, rpc)

	return r
}

// NewManageRouter serves the add, update and delete forms.
func NewManageRouter(pb *Phonebook, views *Renderer, opts ServerOptions) http.Handler {
	s := &server{pb, views, opts}
	r := newRouter(s)

	r.Get("/", s.handleBareIndex)
	r.Post("/", s.handleBareIndex)
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		r.MethodFunc(method, "/add", s.handleAdd)
		r.MethodFunc(method, "/update", s.handleUpdate)
		r.MethodFunc(method, "/delete", s.handleDelete)
	}

	return r
}

func newRouter(s *server) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.Ping != nil {
		if err := s.opts.Ping(); err != nil {
			log.Printf("health check failed: %v\n", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	page := SearchPage{DeveloperName: s.opts.DeveloperName}
	if r.Method == http.MethodPost {
		page.Keyword = r.PostFormValue(FieldUsername)
		persons, err := s.phonebook.FindPersons(r.Context(), page.Keyword)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		page.Persons = persons
		page.ShowResult = true
	}
	s.render(w, r, IndexTemplate, page)
}

func (s *server) handleBareIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, IndexTemplate, SearchPage{DeveloperName: s.opts.DeveloperName})
}

func (s *server) handleAdd(w http.ResponseWriter, r *http.Request) {
	s.handleEdit(w, r, ActionSave, "/add", ValidateAdd, s.phonebook.InsertPerson)
}

func (s *server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	s.handleEdit(w, r, ActionUpdate, "/update", ValidateUpdate, s.phonebook.UpdatePerson)
}

func (s *server) handleEdit(
	w http.ResponseWriter,
	r *http.Request,
	action, formAction string,
	validate func(name, number string) (PersonInput, error),
	write func(context.Context, PersonInput) (Outcome, error),
) {
	page := EditPage{ActionName: action, FormAction: formAction, DeveloperName: s.opts.DeveloperName}
	if r.Method != http.MethodPost {
		s.render(w, r, AddUpdateTemplate, page)
		return
	}

	in, err := validate(r.PostFormValue(FieldUsername), r.PostFormValue(FieldPhoneNumber))
	if err != nil {
		msg, ok := validationMessage(err)
		if !ok {
			s.serverError(w, r, err)
			return
		}
		page.NotValid, page.Message = true, msg
		s.render(w, r, AddUpdateTemplate, page)
		return
	}

	outcome, err := write(r.Context(), in)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	page.ShowResult, page.Result = true, outcome.Message
	s.render(w, r, AddUpdateTemplate, page)
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	page := DeletePage{DeveloperName: s.opts.DeveloperName}
	if r.Method != http.MethodPost {
		s.render(w, r, DeleteTemplate, page)
		return
	}

	in, err := ValidateDelete(r.PostFormValue(FieldUsername))
	if err != nil {
		msg, ok := validationMessage(err)
		if !ok {
			s.serverError(w, r, err)
			return
		}
		page.NotValid, page.Message = true, msg
		s.render(w, r, DeleteTemplate, page)
		return
	}

	outcome, err := s.phonebook.DeletePerson(r.Context(), in)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	page.ShowResult, page.Result = true, outcome.Message
	s.render(w, r, DeleteTemplate, page)
}

func (s *server) render(w http.ResponseWriter, r *http.Request, name string, page any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.views.Render(w, name, page); err != nil {
		s.serverError(w, r, err)
	}
}

func (s *server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("request %s %s failed [%s]: %v\n", r.Method, r.URL.Path, middleware.GetReqID(r.Context()), err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// validationMessage returns the page message for a validation failure.
func validationMessage(err error) (string, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Error(), true
	}
	return "", false
}
