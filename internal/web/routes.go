package web

import "net/http"

// NewDefaultMux builds the mux shared by the device and the simulator. In dev
// mode the API is wrapped with permissive CORS.
func NewDefaultMux(cfg ServerConfig, deps APIV1Deps) *http.ServeMux {
	mux := http.NewServeMux()
	api := apiV1Router(deps)
	if cfg.DevMode {
		api = WithDevCORS(api)
	}
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", api))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/v1/state", http.StatusFound)
	})
	return mux
}
