package contracts

import (
	"staymi/pkg/auth"
	"staymi/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// Documented handlers describe their routes so the OpenAPI document can be
// generated from the same table that registers them.
type Documented interface {
	Routes() []Route
}

type QueryParam struct {
	Name        string
	Type        string // "string", "integer" or "boolean"
	Description string
}

// Route is one endpoint. Roles empty means public.
type Route struct {
	Method    string
	Path      string
	Handle    httprouter.Handle
	Roles     []auth.Role
	Tag       string
	Summary   string
	Request   any // zero value of the JSON body type
	Response  any // zero value of the "data" payload type
	Status    int // success status, 200 when zero
	Paginated bool
	Query     []QueryParam
	FileField string // multipart upload field
	Binary    bool   // response is a raw file
}

// Mount registers routes on router, guarding the ones that name roles.
func Mount(router *httprouter.Router, routes []Route) {
	for _, rt := range routes {
		handle := rt.Handle
		if len(rt.Roles) > 0 {
			handle = middleware.RequireRole(rt.Roles...)(handle)
		}
		router.Handle(rt.Method, rt.Path, handle)
	}
}

// Paging is the query documentation shared by list endpoints.
var Paging = []QueryParam{
	{Name: "limit", Type: "integer", Description: "page size (default 10, max 100)"},
	{Name: "offset", Type: "integer", Description: "number of items to skip"},
}
