package api

import (
	"fmt"

	"github.com/lumenlabs/lumen/internal/config"
	"github.com/lumenlabs/lumen/pkg/openapi"
)

// buildSpec assembles the OpenAPI document for the analysis, product, and
// storage endpoints and returns it pre-serialized for serving.
func buildSpec(cfg *config.Config) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Verdict":  verdictSchema(),
		"Analysis": analysisSchema(),
		"Product":  productSchema(),
	})

	addAnalysisPaths(spec)
	addProductPaths(spec)
	addStoragePaths(spec)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}

	return data, nil
}

func verdictSchema() *openapi.Schema {
	return &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"finalLabel":      {Type: "string", Description: "Reconciled condition label", Example: "hormonal_acne"},
			"finalConfidence": {Type: "number", Description: "Reconciled confidence in [0, 1]"},
			"mode":            {Type: "string", Enum: []any{"consensus", "hybrid", "single"}},
			"agreement":       {Type: "boolean", Description: "Whether both models agreed; absent in single mode"},
			"confidenceDelta": {Type: "number", Description: "Absolute confidence difference between models"},
			"severity":        {Type: "string", Enum: []any{"mild", "moderate", "severe"}},
			"summary":         {Type: "string", Description: "Human-readable verdict summary"},
		},
		Required: []string{"finalLabel", "finalConfidence", "mode", "severity", "summary"},
	}
}

func analysisSchema() *openapi.Schema {
	return &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":                  {Type: "string", Format: "uuid"},
			"filename":            {Type: "string"},
			"content_type":        {Type: "string", Example: "image/jpeg"},
			"size_bytes":          {Type: "integer"},
			"storage_key":         {Type: "string"},
			"status":              {Type: "string", Enum: []any{"pending", "completed", "failed"}},
			"baseline_label":      {Type: "string"},
			"baseline_confidence": {Type: "number"},
			"rich_model":          {Type: "string"},
			"rich_text":           {Type: "string", Description: "Raw prose from the rich vision model"},
			"parsed_label":        {Type: "string"},
			"parsed_confidence":   {Type: "number"},
			"affected_areas":      {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"observations":        {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"verdict":             openapi.SchemaRef("Verdict"),
			"created_at":          {Type: "string", Format: "date-time"},
			"updated_at":          {Type: "string", Format: "date-time"},
		},
	}
}

func productSchema() *openapi.Schema {
	return &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":                {Type: "string", Format: "uuid"},
			"name":              {Type: "string"},
			"brand":             {Type: "string"},
			"category":          {Type: "string"},
			"description":       {Type: "string"},
			"target_conditions": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"price_cents":       {Type: "integer"},
			"image_url":         {Type: "string"},
		},
	}
}

func addAnalysisPaths(spec *openapi.Spec) {
	spec.Paths["/analyses"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List analyses",
			Tags:    []string{"analyses"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("status", "string", "Filter by status", false),
				openapi.QueryParam("mode", "string", "Filter by verdict mode", false),
				openapi.QueryParam("final_label", "string", "Filter by reconciled label", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paginated analyses", "Analysis"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Upload and analyze an image",
			Description: "Runs the baseline classifier (and, when enabled, the rich vision model) and returns the completed analysis.",
			Tags:        []string{"analyses"},
			RequestBody: &openapi.RequestBody{
				Required: true,
				Content: map[string]*openapi.MediaType{
					"multipart/form-data": {Schema: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"file": {Type: "string", Format: "binary"},
						},
						Required: []string{"file"},
					}},
				},
			},
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Completed analysis", "Analysis"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/analyses/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find analysis",
			Tags:       []string{"analyses"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Analysis ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Analysis", "Analysis"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete analysis",
			Tags:       []string{"analyses"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Analysis ID")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/analyses/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search analyses",
			Tags:        []string{"analyses"},
			RequestBody: openapi.RequestBodyJSON("PageRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paginated analyses", "Analysis"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}
}

func addProductPaths(spec *openapi.Spec) {
	spec.Paths["/products"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List products",
			Tags:    []string{"products"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paginated products", "Product"),
			},
		},
	}

	spec.Paths["/products/recommendations"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Recommend products for a condition",
			Tags:    []string{"products"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("condition", "string", "Detected condition label", true),
				openapi.QueryParam("limit", "integer", "Maximum results", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Recommended products", "Product"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/products/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find product",
			Tags:       []string{"products"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Product ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Product", "Product"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func addStoragePaths(spec *openapi.Spec) {
	spec.Paths["/storage/download/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Download an uploaded image",
			Tags:    []string{"storage"},
			Parameters: []*openapi.Parameter{
				{Name: "key", In: "path", Required: true, Schema: &openapi.Schema{Type: "string"}},
			},
			Responses: map[int]*openapi.Response{
				200: {Description: "Image bytes"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}
