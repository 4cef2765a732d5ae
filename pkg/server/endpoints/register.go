package endpoints

import (
	"github.com/rankwatch/rankwatch/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterRunsEndpoints(srv)
	RegisterTargetsEndpoints(srv)
	RegisterReportEndpoint(srv)
}
