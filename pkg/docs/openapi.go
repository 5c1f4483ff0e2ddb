// Package docs builds the OpenAPI 2.0 document from the route table and the
// Go request and response types, and serves it through Swagger UI.
package docs

import (
	"encoding/json"
	"net/http"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"staymi/pkg/contracts"
	httputil "staymi/pkg/http"

	"github.com/go-openapi/spec"
	"github.com/shopspring/decimal"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

const (
	DocPath       = "/swagger/doc.json"
	securityName  = "Bearer"
	definitionRef = "#/definitions/"
)

var (
	timeType     = reflect.TypeOf(time.Time{})
	decimalType  = reflect.TypeOf(decimal.Decimal{})
	pathParamRe  = regexp.MustCompile(`:([A-Za-z_]+)`)
	operationIDs = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

type Info struct {
	Title       string
	Version     string
	Description string
}

// Build returns the OpenAPI document for routes.
func Build(info Info, routes []contracts.Route) *spec.Swagger {
	b := &builder{defs: spec.Definitions{}}

	paths := map[string]spec.PathItem{}
	for _, rt := range routes {
		path := pathParamRe.ReplaceAllString(rt.Path, "{$1}")
		item := paths[path]
		op := b.operation(rt)
		switch rt.Method {
		case http.MethodGet:
			item.Get = op
		case http.MethodPost:
			item.Post = op
		case http.MethodPut:
			item.Put = op
		case http.MethodPatch:
			item.Patch = op
		case http.MethodDelete:
			item.Delete = op
		}
		paths[path] = item
	}

	b.schemaFor(reflect.TypeOf(httputil.ErrorResponse{}))

	return &spec.Swagger{
		SwaggerProps: spec.SwaggerProps{
			Swagger:  "2.0",
			Consumes: []string{"application/json"},
			Produces: []string{"application/json"},
			Info: &spec.Info{InfoProps: spec.InfoProps{
				Title:       info.Title,
				Version:     info.Version,
				Description: info.Description,
			}},
			Paths:       &spec.Paths{Paths: paths},
			Definitions: b.defs,
			SecurityDefinitions: spec.SecurityDefinitions{
				securityName: spec.APIKeyAuth("Authorization", "header"),
			},
		},
	}
}

type builder struct {
	defs spec.Definitions
}

func (b *builder) operation(rt contracts.Route) *spec.Operation {
	id := strings.Trim(operationIDs.ReplaceAllString(strings.ToLower(rt.Method)+"_"+rt.Path, "_"), "_")
	op := spec.NewOperation(id).WithSummary(rt.Summary)
	if rt.Tag != "" {
		op.WithTags(rt.Tag)
	}

	for _, m := range pathParamRe.FindAllStringSubmatch(rt.Path, -1) {
		op.AddParam(spec.PathParam(m[1]).Typed("string", ""))
	}
	for _, q := range rt.Query {
		op.AddParam(spec.QueryParam(q.Name).Typed(q.Type, "").WithDescription(q.Description))
	}
	if rt.Request != nil {
		op.AddParam(spec.BodyParam("body", b.schemaFor(reflect.TypeOf(rt.Request))).AsRequired())
	}
	if rt.FileField != "" {
		op.WithConsumes("multipart/form-data")
		op.AddParam(spec.FileParam(rt.FileField).AsRequired())
	}
	if len(rt.Roles) > 0 {
		roles := make([]string, len(rt.Roles))
		for i, r := range rt.Roles {
			roles[i] = string(r)
		}
		op.SecuredWith(securityName)
		op.WithDescription("Requires role: " + strings.Join(roles, ", "))
	}

	status := rt.Status
	if status == 0 {
		status = http.StatusOK
	}
	op.RespondsWith(status, b.successResponse(rt, status))

	errSchema := spec.RefSchema(definitionRef + "ErrorResponse")
	for _, code := range errorStatuses(rt) {
		op.RespondsWith(code, spec.NewResponse().WithDescription(http.StatusText(code)).WithSchema(errSchema))
	}
	return op
}

func (b *builder) successResponse(rt contracts.Route, status int) *spec.Response {
	resp := spec.NewResponse().WithDescription(http.StatusText(status))
	switch {
	case rt.Binary:
		resp.WithSchema(&spec.Schema{SchemaProps: spec.SchemaProps{Type: spec.StringOrArray{"file"}}})
	case rt.Response == nil || status == http.StatusNoContent:
	case rt.Paginated:
		env := new(spec.Schema).Typed("object", "")
		env.SetProperty("data", *spec.ArrayProperty(b.schemaFor(reflect.TypeOf(rt.Response))))
		env.SetProperty("total_count", *spec.Int64Property())
		env.SetProperty("limit", *spec.Int32Property())
		env.SetProperty("offset", *spec.Int64Property())
		resp.WithSchema(env)
	default:
		env := new(spec.Schema).Typed("object", "")
		env.SetProperty("data", *b.schemaFor(reflect.TypeOf(rt.Response)))
		resp.WithSchema(env)
	}
	return resp
}

func errorStatuses(rt contracts.Route) []int {
	codes := []int{http.StatusInternalServerError}
	if rt.Request != nil || rt.FileField != "" || len(rt.Query) > 0 {
		codes = append(codes, http.StatusBadRequest)
	}
	if rt.Request != nil {
		codes = append(codes, http.StatusUnprocessableEntity)
	}
	if len(rt.Roles) > 0 {
		codes = append(codes, http.StatusUnauthorized, http.StatusForbidden)
	}
	if strings.Contains(rt.Path, ":") {
		codes = append(codes, http.StatusNotFound)
	}
	sort.Ints(codes)
	return codes
}

// schemaFor returns an inline schema for scalars and a $ref for named structs,
// registering the struct under definitions on first use.
func (b *builder) schemaFor(t reflect.Type) *spec.Schema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t {
	case timeType:
		return spec.DateTimeProperty()
	case decimalType:
		return spec.StringProperty().WithPattern(`^-?\d+(\.\d+)?$`).WithExample("120.00")
	}

	switch t.Kind() {
	case reflect.String:
		return spec.StringProperty()
	case reflect.Bool:
		return spec.BoolProperty()
	case reflect.Int, reflect.Int32, reflect.Int16, reflect.Int8:
		return spec.Int32Property()
	case reflect.Int64, reflect.Uint64, reflect.Uint32, reflect.Uint:
		return spec.Int64Property()
	case reflect.Float32, reflect.Float64:
		return spec.Float64Property()
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return spec.StrFmtProperty("byte")
		}
		return spec.ArrayProperty(b.schemaFor(t.Elem()))
	case reflect.Map:
		return spec.MapProperty(b.schemaFor(t.Elem()))
	case reflect.Interface:
		return new(spec.Schema)
	case reflect.Struct:
		name := t.Name()
		if name == "" {
			return b.structSchema(t)
		}
		if _, ok := b.defs[name]; !ok {
			b.defs[name] = spec.Schema{} // placeholder for recursive types
			b.defs[name] = *b.structSchema(t)
		}
		return spec.RefSchema(definitionRef + name)
	}
	return new(spec.Schema)
}

func (b *builder) structSchema(t reflect.Type) *spec.Schema {
	s := new(spec.Schema).Typed("object", "")
	b.addFields(s, t)
	return s
}

func (b *builder) addFields(s *spec.Schema, t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				b.addFields(s, ft)
				continue
			}
		}
		if name == "" {
			name = f.Name
		}

		s.SetProperty(name, *b.schemaFor(f.Type))
		if strings.Contains(f.Tag.Get("validate"), "required") && !strings.Contains(opts, "omitempty") {
			s.AddRequired(name)
		}
	}
}

type document struct {
	json string
}

func (d *document) ReadDoc() string {
	return d.json
}

// Register publishes sw as the swag document Swagger UI loads.
func Register(sw *spec.Swagger) error {
	data, err := json.Marshal(sw)
	if err != nil {
		return err
	}
	swag.Register(swag.Name, &document{json: string(data)})
	return nil
}

// Handler serves Swagger UI and doc.json under /swagger/.
func Handler() http.Handler {
	return httpSwagger.Handler(httpSwagger.URL(DocPath))
}
