// Package docs Swagger 文档，由 handler 上的 swag 注解整理
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/offers": {
            "get": {"tags": ["Offer"], "summary": "可见商品及实时库存", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "brandId", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/offers/{id}": {
            "get": {"tags": ["Offer"], "summary": "商品详情",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "OFFER_NOT_FOUND", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/brands": {
            "get": {"tags": ["Brand"], "summary": "品牌列表及商品数", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/brands/{id}": {
            "get": {"tags": ["Brand"], "summary": "品牌详情",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "NOT_FOUND", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/admin/brands": {
            "post": {"tags": ["Admin"], "summary": "创建品牌", "security": [{"BearerAuth": []}], "consumes": ["application/json"],
                "parameters": [{"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.BrandInput"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/admin/brands/{id}": {
            "put": {"tags": ["Admin"], "summary": "修改品牌", "security": [{"BearerAuth": []}], "consumes": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.BrandInput"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "delete": {"tags": ["Admin"], "summary": "删除品牌", "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/admin/brands/{id}/logo": {
            "post": {"tags": ["Admin"], "summary": "上传品牌 logo", "security": [{"BearerAuth": []}], "consumes": ["multipart/form-data"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "file", "name": "logo", "in": "formData", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/payments/intents": {
            "post": {"tags": ["Payment"], "summary": "创建支付 (金额由服务端按目录价计算)", "consumes": ["application/json"],
                "parameters": [{"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateIntentInput"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "502": {"description": "GATEWAY_UNAVAILABLE", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/payments/{paymentId}": {
            "get": {"tags": ["Payment"], "summary": "查询网关支付详情",
                "parameters": [{"type": "string", "name": "paymentId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/orders/finalize": {
            "post": {"tags": ["Order"], "summary": "确认支付并发放券码", "consumes": ["application/json"],
                "parameters": [{"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.FinalizeRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "INVALID_SIGNATURE", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "ALREADY_PROCESSED / INSUFFICIENT_STOCK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "422": {"description": "AMOUNT_MISMATCH", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/orders/{id}": {
            "get": {"tags": ["Order"], "summary": "订单详情",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/admin/login": {
            "post": {"tags": ["Admin"], "summary": "管理员登录", "consumes": ["application/json"],
                "parameters": [{"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.LoginInput"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/admin/offers": {
            "get": {"tags": ["Admin"], "summary": "全部商品 (含隐藏)", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "post": {"tags": ["Admin"], "summary": "创建商品", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/admin/offers/{id}/codes": {
            "get": {"tags": ["Admin"], "summary": "按商品列出券码 (已用/未用)", "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "post": {"tags": ["Admin"], "summary": "批量导入券码", "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/admin/codes/{id}/consume": {
            "post": {"tags": ["Admin"], "summary": "后台标记券码已使用", "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/admin/inventory": {
            "get": {"tags": ["Admin"], "summary": "库存概览", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/admin/usage-history": {
            "get": {"tags": ["Admin"], "summary": "券码使用记录", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/admin/orders": {
            "get": {"tags": ["Admin"], "summary": "交易列表", "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "kind": {"type": "string"},
                "message": {"type": "string"},
                "data": {}
            }
        },
        "model.LineRequest": {
            "type": "object",
            "required": ["offerId", "quantity"],
            "properties": {"offerId": {"type": "string"}, "quantity": {"type": "integer", "minimum": 1}}
        },
        "handler.CreateIntentInput": {
            "type": "object",
            "required": ["lineItems"],
            "properties": {"lineItems": {"type": "array", "items": {"$ref": "#/definitions/model.LineRequest"}}}
        },
        "service.FinalizeRequest": {
            "type": "object",
            "required": ["gatewayOrderId", "gatewayPaymentId", "signature"],
            "properties": {
                "gatewayOrderId": {"type": "string"},
                "gatewayPaymentId": {"type": "string"},
                "signature": {"type": "string"},
                "lineItems": {"type": "array", "items": {"$ref": "#/definitions/model.LineRequest"}}
            }
        },
        "handler.LoginInput": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.BrandInput": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string"}, "logoUrl": {"type": "string"}, "description": {"type": "string"}}
        }
    }
}`

// SwaggerInfo 文档元信息
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Coupon Bazaar API",
	Description:      "券码商城后端：商品目录、支付、下单发码、后台管理",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
