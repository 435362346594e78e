// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	stakingapi "github.com/vishalmathuri/dzap/api/staking"
	"github.com/vishalmathuri/dzap/log"
	"github.com/vishalmathuri/dzap/metrics"
	"github.com/vishalmathuri/dzap/staking"
)

var logger = log.WithContext("pkg", "api")

// Options for assembling the api handler.
type Options struct {
	AllowedOrigins   string
	EnableMetrics    bool
	EnableReqLogging bool
}

// New return api router.
func New(engine *staking.Staking, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	stakingapi.New(engine).Mount(router, "/staking")

	if opts.EnableMetrics {
		router.Path("/metrics").Handler(metrics.HTTPHandler())
	}

	var handler http.Handler = router
	if opts.EnableReqLogging {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler).ServeHTTP
}
