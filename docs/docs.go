// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/search_api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "https://opensource.org/licenses/Apache-2.0"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/entities/search": {
            "post": {
                "description": "Free text search over one or more entity types with offset paging, facets and highlights.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Search entities",
                "parameters": [
                    {
                        "description": "Search request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/router.SearchRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SearchResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/entities/scroll": {
            "post": {
                "description": "Cursor paged search. Pass the returned scrollId to fetch the next page. No scrollId is returned after the last page.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Scroll entities",
                "parameters": [
                    {
                        "description": "Scroll request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/router.ScrollRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ScrollResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "410": {"description": "Gone", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/entities/filter": {
            "post": {
                "description": "Lists entities matching a filter without a text query. Offset paged unless scrollId or keepAlive is set.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Filter entities",
                "parameters": [
                    {
                        "description": "Filter request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/router.FilterRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SearchResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "410": {"description": "Gone", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/entities/aggregate": {
            "get": {
                "description": "Counts entities per value of one field, optionally under a JSON encoded filter.",
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Aggregate a field",
                "parameters": [
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Entity types", "name": "entity", "in": "query"},
                    {"type": "string", "description": "Field to aggregate", "name": "field", "in": "query", "required": true},
                    {"type": "integer", "description": "Maximum number of values", "name": "limit", "in": "query"},
                    {"type": "string", "description": "JSON encoded filter", "name": "filter", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/router.AggregateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "filter.Criterion": {
            "type": "object",
            "properties": {
                "field": {"type": "string", "example": "platform"},
                "condition": {
                    "type": "string",
                    "enum": ["EQUAL", "CONTAIN", "START_WITH", "END_WITH", "EXISTS", "IS_NULL", "GREATER_THAN", "GREATER_THAN_OR_EQUAL_TO", "LESS_THAN", "LESS_THAN_OR_EQUAL_TO"]
                },
                "values": {"type": "array", "items": {"type": "string"}},
                "negated": {"type": "boolean"}
            }
        },
        "filter.ConjunctiveCriterion": {
            "type": "object",
            "properties": {
                "and": {"type": "array", "items": {"$ref": "#/definitions/filter.Criterion"}}
            }
        },
        "filter.Filter": {
            "type": "object",
            "properties": {
                "or": {"type": "array", "items": {"$ref": "#/definitions/filter.ConjunctiveCriterion"}}
            }
        },
        "query.SearchFlags": {
            "type": "object",
            "properties": {
                "fulltext": {"type": "boolean"},
                "skipCache": {"type": "boolean"},
                "skipAggregates": {"type": "boolean"},
                "skipHighlighting": {"type": "boolean"},
                "maxAggValues": {"type": "integer"}
            }
        },
        "router.SortRequest": {
            "type": "object",
            "properties": {
                "field": {"type": "string", "example": "name"},
                "order": {"type": "string", "example": "asc"}
            }
        },
        "router.SearchRequest": {
            "type": "object",
            "properties": {
                "entities": {"type": "array", "items": {"type": "string"}, "example": ["dataset", "chart"]},
                "input": {"type": "string", "example": "revenue"},
                "filter": {"$ref": "#/definitions/filter.Filter"},
                "sort": {"$ref": "#/definitions/router.SortRequest"},
                "flags": {"$ref": "#/definitions/query.SearchFlags"},
                "from": {"type": "integer"},
                "size": {"type": "integer"}
            }
        },
        "router.ScrollRequest": {
            "type": "object",
            "properties": {
                "entities": {"type": "array", "items": {"type": "string"}, "example": ["dataset"]},
                "input": {"type": "string", "example": "revenue"},
                "filter": {"$ref": "#/definitions/filter.Filter"},
                "sort": {"$ref": "#/definitions/router.SortRequest"},
                "flags": {"$ref": "#/definitions/query.SearchFlags"},
                "scrollId": {"type": "string"},
                "keepAlive": {"type": "string", "example": "5m"},
                "size": {"type": "integer", "minimum": 1, "default": 10}
            }
        },
        "router.FilterRequest": {
            "type": "object",
            "properties": {
                "entities": {"type": "array", "items": {"type": "string"}, "example": ["dataset"]},
                "filter": {"$ref": "#/definitions/filter.Filter"},
                "sort": {"$ref": "#/definitions/router.SortRequest"},
                "from": {"type": "integer"},
                "size": {"type": "integer"},
                "scrollId": {"type": "string"},
                "keepAlive": {"type": "string", "example": "5m"}
            }
        },
        "router.AggregateResponse": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "counts": {"type": "object", "additionalProperties": {"type": "integer"}}
            }
        },
        "dto.MatchedField": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "value": {"type": "string"}
            }
        },
        "dto.SearchEntity": {
            "type": "object",
            "properties": {
                "entity": {"type": "string", "example": "urn:li:dataset:(urn:li:dataPlatform:snowflake,db.revenue,PROD)"},
                "score": {"type": "number"},
                "matchedFields": {"type": "array", "items": {"$ref": "#/definitions/dto.MatchedField"}},
                "features": {"type": "object", "additionalProperties": {"type": "number"}}
            }
        },
        "dto.FilterValue": {
            "type": "object",
            "properties": {
                "value": {"type": "string"},
                "facetCount": {"type": "integer"},
                "filtered": {"type": "boolean"}
            }
        },
        "dto.AggregationMetadata": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "displayName": {"type": "string"},
                "aggregations": {"type": "object", "additionalProperties": {"type": "integer"}},
                "filterValues": {"type": "array", "items": {"$ref": "#/definitions/dto.FilterValue"}}
            }
        },
        "dto.SearchResultMetadata": {
            "type": "object",
            "properties": {
                "aggregations": {"type": "array", "items": {"$ref": "#/definitions/dto.AggregationMetadata"}}
            }
        },
        "dto.SearchResult": {
            "type": "object",
            "properties": {
                "entities": {"type": "array", "items": {"$ref": "#/definitions/dto.SearchEntity"}},
                "metadata": {"$ref": "#/definitions/dto.SearchResultMetadata"},
                "from": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "numEntities": {"type": "integer"}
            }
        },
        "dto.ScrollResult": {
            "type": "object",
            "properties": {
                "entities": {"type": "array", "items": {"$ref": "#/definitions/dto.SearchEntity"}},
                "metadata": {"$ref": "#/definitions/dto.SearchResultMetadata"},
                "scrollId": {"type": "string"},
                "pageSize": {"type": "integer"},
                "numEntities": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Entity Search API",
	Description:      "Faceted search, filtering and scrolling over catalog entities indexed in Elasticsearch",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
