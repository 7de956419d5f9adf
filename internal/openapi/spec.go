// Package openapi builds the OpenAPI 3.1 document served at /openapi.json.
// The Hallboard API surface is fixed, so the document is assembled from
// static route descriptions rather than introspection.
package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Generate builds the OpenAPI document for the Hallboard API.
func Generate(baseURL, version string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.1.0",
		Info: &openapi3.Info{
			Title:       "Hallboard API",
			Description: "Hall of Fame and World Build Contest leaderboard API.",
			Version:     version,
		},
		Servers: openapi3.Servers{
			{URL: baseURL},
		},
	}

	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{}
	components.SecuritySchemes = openapi3.SecuritySchemes{}
	doc.Components = &components

	doc.Components.SecuritySchemes["cookieAuth"] = &openapi3.SecuritySchemeRef{
		Value: &openapi3.SecurityScheme{
			Type: "apiKey",
			In:   "cookie",
			Name: "token",
		},
	}
	doc.Components.SecuritySchemes["bearerAuth"] = &openapi3.SecuritySchemeRef{
		Value: &openapi3.SecurityScheme{
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}

	doc.Components.Schemas["ErrorResponse"] = objectSchema(map[string]*openapi3.SchemaRef{
		"message": strSchema(),
	})
	doc.Components.Schemas["Admin"] = objectSchema(map[string]*openapi3.SchemaRef{
		"id":       intSchema(),
		"username": strSchema(),
		"role":     strSchema(),
	})
	doc.Components.Schemas["HoFEntry"] = objectSchema(map[string]*openapi3.SchemaRef{
		"id":         intSchema(),
		"name":       strSchema(),
		"category":   strSchema(),
		"month":      strSchema(),
		"year":       nullableIntSchema(),
		"link":       strSchema(),
		"avatar":     strSchema(),
		"discord":    strSchema(),
		"x_handle":   strSchema(),
		"placement":  nullableIntSchema(),
		"created_at": timeSchema(),
	})
	doc.Components.Schemas["WBCEntry"] = objectSchema(map[string]*openapi3.SchemaRef{
		"id":         intSchema(),
		"name":       strSchema(),
		"month":      strSchema(),
		"year":       nullableIntSchema(),
		"date_range": nullableStrSchema(),
		"link":       strSchema(),
		"discord":    strSchema(),
		"x_handle":   strSchema(),
		"avatar":     strSchema(),
		"created_at": timeSchema(),
	})
	doc.Components.Schemas["Profile"] = objectSchema(map[string]*openapi3.SchemaRef{
		"discord":  strSchema(),
		"name":     nullableStrSchema(),
		"avatar":   nullableStrSchema(),
		"x_handle": nullableStrSchema(),
	})

	doc.Paths = openapi3.NewPaths()

	doc.Paths.Set("/api/auth/login", &openapi3.PathItem{
		Post: operation("Log in as an admin", false, "200"),
	})
	doc.Paths.Set("/api/auth/logout", &openapi3.PathItem{
		Post: operation("Log out, clearing the session cookie", false, "200"),
	})
	doc.Paths.Set("/api/auth/me", &openapi3.PathItem{
		Get: operation("Return the authenticated admin identity", true, "200"),
	})

	addEntryPaths(doc, "hof", "Hall of Fame")
	addEntryPaths(doc, "wbc", "World Build Contest")

	doc.Paths.Set("/api/hof/{id}/placement", &openapi3.PathItem{
		Parameters: idParameters(),
		Patch:      operation("Update only the placement of a Hall of Fame entry", true, "200"),
	})

	doc.Paths.Set("/api/health", &openapi3.PathItem{
		Get: operation("Service health, uptime, and timestamp", false, "200"),
	})

	return doc
}

// addEntryPaths registers the shared CRUD surface for one entry kind.
func addEntryPaths(doc *openapi3.T, kind, label string) {
	doc.Paths.Set("/api/"+kind, &openapi3.PathItem{
		Get:  operation("List "+label+" entries with optional filters", false, "200"),
		Post: operation("Create a "+label+" entry", true, "201"),
	})
	doc.Paths.Set("/api/"+kind+"/{id}", &openapi3.PathItem{
		Parameters: idParameters(),
		Put:        operation("Replace a "+label+" entry", true, "200"),
		Delete:     operation("Delete a "+label+" entry", true, "200"),
	})
	doc.Paths.Set("/api/"+kind+"/profile", &openapi3.PathItem{
		Get: operation("Look up a creator profile by discord handle", true, "200"),
	})
}

func operation(summary string, authed bool, successCode string) *openapi3.Operation {
	op := &openapi3.Operation{
		Summary:   summary,
		Responses: openapi3.NewResponses(),
	}

	success := "Success"
	op.Responses.Set(successCode, &openapi3.ResponseRef{
		Value: &openapi3.Response{Description: &success},
	})

	errDesc := "Error"
	op.Responses.Set("default", &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &errDesc,
			Content: openapi3.Content{
				"application/json": &openapi3.MediaType{
					Schema: &openapi3.SchemaRef{Ref: "#/components/schemas/ErrorResponse"},
				},
			},
		},
	})

	if authed {
		op.Security = &openapi3.SecurityRequirements{
			{"cookieAuth": {}},
			{"bearerAuth": {}},
		}
	}
	return op
}

func idParameters() openapi3.Parameters {
	return openapi3.Parameters{
		&openapi3.ParameterRef{
			Value: &openapi3.Parameter{
				Name:     "id",
				In:       "path",
				Required: true,
				Schema:   intSchema(),
			},
		},
	}
}

func objectSchema(props map[string]*openapi3.SchemaRef) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type:       &openapi3.Types{"object"},
			Properties: props,
		},
	}
}

func strSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}}
}

func nullableStrSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string", "null"}}}
}

func intSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int64"}}
}

func nullableIntSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer", "null"}}}
}

func timeSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}, Format: "date-time"}}
}
