// Package docs регистрирует Swagger-спецификацию HTTP API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Проверка доступности",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/health.Banner"}
                    }
                }
            }
        },
        "/login": {
            "post": {
                "description": "Проверяет PIN (и пароль для администратора) и выдаёт JWT на 30 дней.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Вход в систему",
                "parameters": [
                    {
                        "description": "Учетные данные",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/login.Request"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Токен или запрос пароля",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/response.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/login.Data"}}}
                            ]
                        }
                    },
                    "400": {"description": "Некорректный JSON", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "401": {"description": "Неверные учетные данные", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "503": {"description": "Хранилище недоступно", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/signup": {
            "post": {
                "description": "Создаёт учётную запись участника с неоплаченным членством.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Регистрация участника",
                "parameters": [
                    {
                        "description": "Данные участника",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/register.Request"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Участник создан",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/response.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/register.Data"}}}
                            ]
                        }
                    },
                    "400": {"description": "Некорректный JSON", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "409": {"description": "Email уже зарегистрирован", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "503": {"description": "Хранилище недоступно", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/membership": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Возвращает сохранённый статус членства и фактический статус с учётом даты истечения.",
                "produces": ["application/json"],
                "tags": ["Membership"],
                "summary": "Состояние членства",
                "responses": {
                    "200": {
                        "description": "Состояние членства",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/response.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/membership.Data"}}}
                            ]
                        }
                    },
                    "401": {"description": "Нет или недействителен токен", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "403": {"description": "Токен администратора", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Участник не найден", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "500": {"description": "Внутренняя ошибка сервера", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "health.Banner": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Welcome to VHNSNC Indoor Stadium API"},
                "status": {"type": "string", "example": "online"},
                "version": {"type": "string", "example": "1.0.0"}
            }
        },
        "login.Request": {
            "type": "object",
            "required": ["identifier", "pin"],
            "properties": {
                "identifier": {"type": "string", "maxLength": 255},
                "pin": {"type": "string", "maxLength": 64},
                "password": {"type": "string", "maxLength": 255}
            }
        },
        "login.Data": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/models.Principal"},
                "require_password": {"type": "boolean"}
            }
        },
        "register.Request": {
            "type": "object",
            "required": ["email", "name", "phone", "pin"],
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "email": {"type": "string", "maxLength": 255},
                "phone": {"type": "string", "maxLength": 32},
                "pin": {"type": "string", "maxLength": 8, "minLength": 4}
            }
        },
        "register.Data": {
            "type": "object",
            "properties": {
                "user_id": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "membership.Data": {
            "type": "object",
            "properties": {
                "user_id": {"type": "integer"},
                "status": {"type": "string", "enum": ["unpaid", "paid", "expired"]},
                "effective_status": {"type": "string", "enum": ["unpaid", "paid", "expired"]},
                "expiry_date": {"type": "string"},
                "days_remaining": {"type": "integer"}
            }
        },
        "models.Principal": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["user", "admin"]}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "code": {"type": "string"},
                "error": {"type": "string"},
                "fields": {"type": "array", "items": {"$ref": "#/definitions/response.FieldError"}},
                "data": {}
            }
        },
        "response.FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string", "example": "pin"},
                "rule": {"type": "string", "example": "numeric"}
            }
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "Error"},
                "code": {"type": "string", "example": "invalid_credentials"},
                "error": {"type": "string", "example": "invalid credentials"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "VHNSNC Indoor Stadium API",
	Description:      "Вход участников и администраторов клуба, регистрация и состояние членства.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
