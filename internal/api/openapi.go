package api

import (
	"fmt"

	"github.com/rolecast/rolecast/internal/config"
	"github.com/rolecast/rolecast/pkg/openapi"
)

// buildSpec generates the OpenAPI document for the API module's routes.
func buildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Dataset": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"filename":     {Type: "string"},
				"content_type": {Type: "string"},
				"size_bytes":   {Type: "integer"},
				"row_count":    {Type: "integer"},
				"storage_key":  {Type: "string"},
				"status":       {Type: "string", Enum: []any{"uploaded", "trained"}},
				"uploaded_at":  {Type: "string", Format: "date-time"},
				"updated_at":   {Type: "string", Format: "date-time"},
			},
		},
		"Model": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":               {Type: "string", Format: "uuid"},
				"dataset_id":       {Type: "string", Format: "uuid"},
				"status":           {Type: "string", Enum: []any{"training", "ready", "failed"}},
				"classes":          {Type: "integer"},
				"features":         {Type: "integer"},
				"vocabulary_size":  {Type: "integer"},
				"holdout_accuracy": {Type: "number"},
				"error":            {Type: "string"},
				"created_at":       {Type: "string", Format: "date-time"},
				"trained_at":       {Type: "string", Format: "date-time"},
			},
		},
		"TrainCommand": {
			Type:     "object",
			Required: []string{"dataset_id"},
			Properties: map[string]*openapi.Schema{
				"dataset_id": {Type: "string", Format: "uuid"},
			},
		},
		"Metadata": {
			Type:        "object",
			Description: "Dropdown values from the active model's training data, in original casing.",
			Properties: map[string]*openapi.Schema{
				"qualification":    {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"experience_level": {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"skills":           {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"PredictCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"skills": {
					Description: "Skill tokens as an array or a comma-separated string.",
					Example:     []string{"python", "sql"},
				},
				"qualification":    {Type: "string", Example: "B.Tech"},
				"experience_level": {Type: "string", Example: "Mid"},
			},
		},
		"RolePrediction": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"role":       {Type: "string"},
				"confidence": {Type: "number", Description: "Percentage, two decimal places"},
				"reasons":    {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"Prediction": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":               {Type: "string", Format: "uuid"},
				"requested_by":     {Type: "string"},
				"skills":           {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"qualification":    {Type: "string"},
				"experience_level": {Type: "string"},
				"predicted_role":   {Type: "string"},
				"confidence":       {Type: "number"},
				"results":          {Type: "array", Items: openapi.SchemaRef("RolePrediction")},
				"is_approved":      {Type: "boolean"},
				"is_flagged":       {Type: "boolean"},
				"created_at":       {Type: "string", Format: "date-time"},
			},
		},
	})

	addDatasetPaths(spec)
	addModelPaths(spec)
	addPredictionPaths(spec)

	return spec
}

func addDatasetPaths(spec *openapi.Spec) {
	tags := []string{"datasets"}

	spec.Paths["/datasets"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List datasets",
			Tags:       tags,
			Parameters: listParams("status", "filename"),
			Responses: map[int]*openapi.Response{
				200: pageResponse("Dataset"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Upload a training dataset",
			Description: "Multipart upload of a CSV with skills, qualification, experience_level, and job_role columns.",
			Tags:        tags,
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Dataset created", "Dataset"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/datasets/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a dataset",
			Tags:       tags,
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Dataset identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Dataset", "Dataset"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a dataset",
			Tags:       tags,
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Dataset identifier")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Dataset deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/datasets/{id}/download"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download a dataset file",
			Tags:       tags,
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Dataset identifier")},
			Responses: map[int]*openapi.Response{
				200: {Description: "CSV file stream"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/datasets/search"] = searchPath(tags, "Dataset")
}

func addModelPaths(spec *openapi.Spec) {
	tags := []string{"models"}

	spec.Paths["/models"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List models",
			Tags:       tags,
			Parameters: listParams("status", "dataset_id"),
			Responses: map[int]*openapi.Response{
				200: pageResponse("Model"),
			},
		},
	}

	spec.Paths["/models/active"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Get the active model",
			Tags:    tags,
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Active model", "Model"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/models/metadata"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Get dropdown metadata",
			Tags:    tags,
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Metadata", "Metadata"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/models/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a model",
			Tags:       tags,
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Model identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Model", "Model"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/models/train"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Start a training run",
			Description: "Admin only. Trains a new classifier from the named dataset in the background.",
			Tags:        tags,
			RequestBody: openapi.RequestBodyJSON("TrainCommand", true),
			Responses: map[int]*openapi.Response{
				202: openapi.ResponseJSON("Training run accepted", "Model"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/models/search"] = searchPath(tags, "Model")
}

func addPredictionPaths(spec *openapi.Spec) {
	tags := []string{"predictions"}

	spec.Paths["/predictions"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List recorded predictions",
			Tags:       tags,
			Parameters: listParams("requested_by", "predicted_role", "is_approved", "is_flagged"),
			Responses: map[int]*openapi.Response{
				200: pageResponse("Prediction"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Predict job roles",
			Description: "Returns the top three ranked roles with confidence and reasons, recording the outcome.",
			Tags:        tags,
			RequestBody: openapi.RequestBodyJSON("PredictCommand", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Recorded prediction", "Prediction"),
				400: openapi.ResponseRef("BadRequest"),
				503: {Description: "No trained model available"},
			},
		},
	}

	spec.Paths["/predictions/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a recorded prediction",
			Tags:       tags,
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Prediction identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Prediction", "Prediction"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a recorded prediction",
			Tags:       tags,
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Prediction identifier")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Prediction deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	for _, action := range []string{"approve", "flag"} {
		spec.Paths["/predictions/{id}/"+action] = &openapi.PathItem{
			Put: &openapi.Operation{
				Summary:    fmt.Sprintf("%s a recorded prediction", action),
				Tags:       tags,
				Parameters: []*openapi.Parameter{openapi.PathParam("id", "Prediction identifier")},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Updated prediction", "Prediction"),
					404: openapi.ResponseRef("NotFound"),
				},
			},
		}
	}

	spec.Paths["/predictions/search"] = searchPath(tags, "Prediction")
}

func searchPath(tags []string, schema string) *openapi.PathItem {
	return &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search " + schema + " records",
			Tags:        tags,
			RequestBody: openapi.RequestBodyJSON("PageRequest", true),
			Responses: map[int]*openapi.Response{
				200: pageResponse(schema),
			},
		},
	}
}

func pageResponse(schema string) *openapi.Response {
	return &openapi.Response{
		Description: "Page of " + schema + " records",
		Content: map[string]*openapi.MediaType{
			"application/json": {
				Schema: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"data":        {Type: "array", Items: openapi.SchemaRef(schema)},
						"total":       {Type: "integer"},
						"page":        {Type: "integer"},
						"page_size":   {Type: "integer"},
						"total_pages": {Type: "integer"},
					},
				},
			},
		},
	}
}

func listParams(names ...string) []*openapi.Parameter {
	params := []*openapi.Parameter{
		openapi.QueryParam("page", "integer", "Page number", false),
		openapi.QueryParam("page_size", "integer", "Results per page", false),
		openapi.QueryParam("search", "string", "Search query", false),
		openapi.QueryParam("sort", "string", "Sort fields", false),
	}
	for _, name := range names {
		params = append(params, openapi.QueryParam(name, "string", "Filter by "+name, false))
	}
	return params
}
