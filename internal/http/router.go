package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Auth         *AuthHandler
	Reservations *ReservationHandler
	Materials    *MaterialHandler
	Users        *UserHandler
	Reservas     *ReservaHandler
	Catalog      *CatalogHandler
	Metrics      *Metrics

	// SessionMiddleware guards every route except /login and /metrics.
	SessionMiddleware func(http.Handler) http.Handler
	Middleware        []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	protect := func(h http.HandlerFunc) http.HandlerFunc {
		if cfg.SessionMiddleware == nil {
			return h
		}
		wrapped := cfg.SessionMiddleware(h)
		return wrapped.ServeHTTP
	}

	if cfg.Auth != nil {
		mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Login(w, r)
		})
		mux.HandleFunc("/logout", protect(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Logout(w, r)
		}))
	}

	if cfg.Reservations != nil {
		mux.HandleFunc("/reservation/create", protect(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Reservations.Create(w, r)
		}))
		mux.HandleFunc("/reservation/all", protect(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Reservations.List(w, r)
		}))
		mux.HandleFunc("/reservation/status/", protect(pathIDHandler("/reservation/status/", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Reservations.Status(w, r)
		})))
		mux.HandleFunc("/reservation/accept/", protect(transitionHandler("/reservation/accept/", cfg.Reservations.Accept)))
		mux.HandleFunc("/reservation/refuse/", protect(transitionHandler("/reservation/refuse/", cfg.Reservations.Refuse)))
		mux.HandleFunc("/reservation/return/", protect(transitionHandler("/reservation/return/", cfg.Reservations.Return)))
		mux.HandleFunc("/reservation/cancel/", protect(transitionHandler("/reservation/cancel/", cfg.Reservations.Cancel)))
		mux.HandleFunc("/reservation/", protect(pathIDHandler("/reservation/", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Reservations.Get(w, r)
			case http.MethodDelete:
				cfg.Reservations.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodDelete)
			}
		})))
	}

	if cfg.Materials != nil {
		registerCollection(mux, protect, "/admin/materials",
			collectionHandlers{
				list:   cfg.Materials.List,
				create: cfg.Materials.Create,
				get:    cfg.Materials.Get,
				update: cfg.Materials.Update,
				delete: cfg.Materials.Delete,
			})
	}

	if cfg.Reservas != nil {
		registerCollection(mux, protect, "/admin/reservas",
			collectionHandlers{
				list:   cfg.Reservas.List,
				create: cfg.Reservas.Create,
				get:    cfg.Reservas.Get,
				update: cfg.Reservas.Update,
				delete: cfg.Reservas.Delete,
			})
	}

	if cfg.Catalog != nil {
		registerCollection(mux, protect, "/admin/links",
			collectionHandlers{
				list:   cfg.Catalog.ListLinks,
				create: cfg.Catalog.CreateLink,
				get:    cfg.Catalog.GetLink,
				update: cfg.Catalog.UpdateLink,
				delete: cfg.Catalog.DeleteLink,
			})
		registerCollection(mux, protect, "/admin/projects",
			collectionHandlers{
				list:   cfg.Catalog.ListProjects,
				create: cfg.Catalog.CreateProject,
				get:    cfg.Catalog.GetProject,
				update: cfg.Catalog.UpdateProject,
				delete: cfg.Catalog.DeleteProject,
			})
	}

	if cfg.Users != nil {
		registerCollection(mux, protect, "/admin/users",
			collectionHandlers{
				list:   cfg.Users.List,
				create: cfg.Users.Create,
				get:    cfg.Users.Get,
				update: cfg.Users.Update,
				delete: cfg.Users.Delete,
			})
	}

	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics.Handler())
	}

	var handler http.Handler = mux
	if cfg.Metrics != nil {
		handler = cfg.Metrics.Middleware()(handler)
	}
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

type collectionHandlers struct {
	list   http.HandlerFunc
	create http.HandlerFunc
	get    http.HandlerFunc
	update http.HandlerFunc
	delete http.HandlerFunc
}

func registerCollection(mux *http.ServeMux, protect func(http.HandlerFunc) http.HandlerFunc, base string, handlers collectionHandlers) {
	mux.HandleFunc(base, protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.list(w, r)
		case http.MethodPost:
			handlers.create(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	}))
	mux.HandleFunc(base+"/", protect(pathIDHandler(base+"/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.get(w, r)
		case http.MethodPut:
			handlers.update(w, r)
		case http.MethodDelete:
			handlers.delete(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
		}
	})))
}

// pathIDHandler strips the prefix, stores the remainder as the path ID, and
// rejects empty or nested remainders.
func pathIDHandler(prefix string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, prefix)
		if id == "" || strings.Contains(id, "/") {
			http.NotFound(w, r)
			return
		}
		ctx := ContextWithPathID(r.Context(), id)
		next(w, r.WithContext(ctx))
	}
}

func transitionHandler(prefix string, next http.HandlerFunc) http.HandlerFunc {
	return pathIDHandler(prefix, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			methodNotAllowed(w, http.MethodPut)
			return
		}
		next(w, r)
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
