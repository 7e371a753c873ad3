// Package swagger holds the OpenAPI document served at /swagger/index.html.
// Regenerate with: swag init -g cmd/api/main.go -o api/swagger
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/api/login": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Login",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.LoginRequest"
						}
					}
				]
			}
		},
		"/api/logout": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Logout",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/me": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Get current session",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/catalog/refresh": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"catalog"
				],
				"summary": "Refresh catalog",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/catalog/search": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"catalog"
				],
				"summary": "Search catalog",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/catalog/filters": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"catalog"
				],
				"summary": "Filter options",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/cart": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"cart"
				],
				"summary": "Get cart",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"produces": [
					"application/json"
				],
				"tags": [
					"cart"
				],
				"summary": "Clear cart",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/cart/scan": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"cart"
				],
				"summary": "Scan item",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.ScanRequest"
						}
					}
				]
			}
		},
		"/api/cart/items": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"cart"
				],
				"summary": "Add item",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.AddItemRequest"
						}
					}
				]
			}
		},
		"/api/cart/items/{variantId}": {
			"put": {
				"produces": [
					"application/json"
				],
				"tags": [
					"cart"
				],
				"summary": "Set line quantity",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"name": "variantId",
						"in": "path",
						"required": true
					},
					{
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.SetQuantityRequest"
						}
					}
				]
			}
		},
		"/api/cart/checkout": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"cart"
				],
				"summary": "Checkout",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.CheckoutRequest"
						}
					}
				]
			}
		},
		"/api/inventory/variants": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"inventory"
				],
				"summary": "List variants",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"inventory"
				],
				"summary": "Create variants",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.CreateVariantsRequest"
						}
					}
				]
			}
		},
		"/api/inventory/variants/{id}": {
			"put": {
				"produces": [
					"application/json"
				],
				"tags": [
					"inventory"
				],
				"summary": "Update variant",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/model.VariantRequest"
						}
					}
				]
			},
			"delete": {
				"produces": [
					"application/json"
				],
				"tags": [
					"inventory"
				],
				"summary": "Delete variant",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/inventory/suggestions": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"inventory"
				],
				"summary": "Product name suggestions",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/inventory/products": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"inventory"
				],
				"summary": "Create product",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/model.ProductRequest"
						}
					}
				]
			}
		},
		"/api/inventory/categories": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"inventory"
				],
				"summary": "List categories",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"inventory"
				],
				"summary": "Create category",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/model.CategoryRequest"
						}
					}
				]
			}
		},
		"/api/inventory/barcode": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"inventory"
				],
				"summary": "Generate barcode",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/dashboard": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"dashboard"
				],
				"summary": "Get dashboard",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/analytics": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"analytics"
				],
				"summary": "Get sales analytics",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/analytics/daily": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"analytics"
				],
				"summary": "Get today's stats",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/sales": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"analytics"
				],
				"summary": "List sales",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/returns": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"analytics"
				],
				"summary": "List returns",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/returns/draft": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"returns"
				],
				"summary": "Start return",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.StartReturnRequest"
						}
					}
				]
			},
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"returns"
				],
				"summary": "Get return draft",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"produces": [
					"application/json"
				],
				"tags": [
					"returns"
				],
				"summary": "Discard return draft",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/returns/draft/items/{saleItemId}": {
			"put": {
				"produces": [
					"application/json"
				],
				"tags": [
					"returns"
				],
				"summary": "Propose return quantity",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"name": "saleItemId",
						"in": "path",
						"required": true
					},
					{
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.ProposeReturnRequest"
						}
					}
				]
			}
		},
		"/api/returns/draft/submit": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"returns"
				],
				"summary": "Submit return",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					},
					"default": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/response.Response"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "payload",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.SubmitReturnRequest"
						}
					}
				]
			}
		}
	},
	"definitions": {
		"response.Response": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"status_code": {
					"type": "integer"
				},
				"data": {},
				"error": {
					"type": "string"
				}
			}
		},
		"service.LoginRequest": {
			"type": "object",
			"required": [
				"username",
				"password"
			],
			"properties": {
				"username": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"service.ScanRequest": {
			"type": "object",
			"required": [
				"query"
			],
			"properties": {
				"query": {
					"type": "string"
				},
				"color": {
					"type": "string"
				},
				"size": {
					"type": "string"
				}
			}
		},
		"service.AddItemRequest": {
			"type": "object",
			"required": [
				"variant_id"
			],
			"properties": {
				"variant_id": {
					"type": "integer"
				}
			}
		},
		"service.SetQuantityRequest": {
			"type": "object",
			"required": [
				"quantity"
			],
			"properties": {
				"quantity": {
					"type": "integer"
				}
			}
		},
		"service.CheckoutRequest": {
			"type": "object",
			"properties": {
				"customer_name": {
					"type": "string"
				},
				"payment_mode": {
					"type": "string",
					"enum": [
						"CASH",
						"CARD",
						"UPI"
					]
				}
			}
		},
		"service.SizeStock": {
			"type": "object",
			"required": [
				"size"
			],
			"properties": {
				"size": {
					"type": "string"
				},
				"stock_quantity": {
					"type": "integer"
				},
				"barcode": {
					"type": "string"
				}
			}
		},
		"service.CreateVariantsRequest": {
			"type": "object",
			"required": [
				"product",
				"color",
				"sizes"
			],
			"properties": {
				"product": {
					"type": "integer"
				},
				"color": {
					"type": "string"
				},
				"price_retail": {
					"type": "string"
				},
				"gst_rate": {
					"type": "string"
				},
				"sizes": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/service.SizeStock"
					}
				}
			}
		},
		"model.VariantRequest": {
			"type": "object",
			"properties": {
				"product": {
					"type": "integer"
				},
				"size": {
					"type": "string"
				},
				"color": {
					"type": "string"
				},
				"barcode": {
					"type": "string"
				},
				"price_retail": {
					"type": "string"
				},
				"gst_rate": {
					"type": "string"
				},
				"stock_quantity": {
					"type": "integer"
				}
			}
		},
		"model.ProductRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"category": {
					"type": "integer"
				},
				"brand": {
					"type": "string"
				},
				"description": {
					"type": "string"
				}
			}
		},
		"model.CategoryRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				}
			}
		},
		"service.StartReturnRequest": {
			"type": "object",
			"required": [
				"sale_id"
			],
			"properties": {
				"sale_id": {
					"type": "integer"
				}
			}
		},
		"service.ProposeReturnRequest": {
			"type": "object",
			"required": [
				"quantity"
			],
			"properties": {
				"quantity": {
					"type": "integer"
				}
			}
		},
		"service.SubmitReturnRequest": {
			"type": "object",
			"required": [
				"reason"
			],
			"properties": {
				"reason": {
					"type": "string",
					"enum": [
						"DEFECT",
						"WRONG_SIZE",
						"WRONG_COLOR",
						"NOT_AS_EXPECTED",
						"CUSTOMER_CHANGE",
						"OTHER"
					]
				},
				"notes": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Cloth POS Terminal API",
	Description:      "Till-side API for checkout, inventory editing, returns and sales analytics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
