package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

type Handlers struct {
	Posts    *PostHandler
	Users    *UserHandler
	Polls    *PollHandler
	Comments *CommentHandler
	Search   *SearchHandler
	Signals  *SignalHandler
}

func NewHandler(h Handlers, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}).Handler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/posts/{id}", func(r chi.Router) {
			r.Get("/", h.Posts.GetPost)
			r.Post("/refresh", h.Posts.RefreshPost)
			r.Post("/like", h.Posts.ToggleLike)
			r.Post("/share", h.Posts.Share)
			r.Delete("/session", h.Posts.Release)

			r.Route("/poll", func(r chi.Router) {
				r.Get("/", h.Polls.GetPoll)
				r.Post("/select", h.Polls.SelectOption)
				r.Post("/vote", h.Polls.Vote)
				r.Delete("/vote", h.Polls.Unvote)
				r.Get("/results", h.Polls.Results)
			})

			r.Route("/comments", func(r chi.Router) {
				r.Get("/", h.Comments.ListComments)
				r.Post("/", h.Comments.AddComment)
				r.Post("/more", h.Comments.LoadMore)
				r.Post("/{commentID}/like", h.Comments.ToggleLike)
				r.Patch("/{commentID}", h.Comments.EditComment)
				r.Delete("/{commentID}", h.Comments.DeleteComment)
			})
		})

		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/", h.Users.GetUser)
			r.Post("/follow", h.Users.ToggleFollow)
		})

		r.Route("/search", func(r chi.Router) {
			r.Get("/events", h.Search.SearchEvents)
			r.Get("/tournaments", h.Search.SearchTournaments)
			r.Put("/location", h.Search.SetLocation)
		})
		r.Get("/calendar", h.Search.Calendar)

		r.Route("/signals", func(r chi.Router) {
			r.Get("/", h.Signals.Failures)
			r.Get("/{entity}/{id}/{kind}", h.Signals.GetSignal)
			r.Delete("/{entity}/{id}/{kind}", h.Signals.Dismiss)
		})
	})

	return r
}
