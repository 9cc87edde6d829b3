// Package docs registra a especificação OpenAPI servida em /swagger/.
// Regenerar com: swag init -g cmd/main.go
package docs

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
        "/register": {"post": {"tags": ["users"], "summary": "Registra um novo usuário", "responses": {"201": {"description": "Created"}, "400": {"description": "Payload inválido"}, "409": {"description": "E-mail já cadastrado"}}}},
        "/login": {"post": {"tags": ["users"], "summary": "Autentica um usuário e retorna um JWT", "responses": {"200": {"description": "OK"}, "401": {"description": "Credenciais inválidas"}}}},
        "/warehouses": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["warehouses"], "summary": "Lista todos os armazéns", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["warehouses"], "summary": "Cria um novo armazém", "responses": {"201": {"description": "Created"}, "400": {"description": "Payload inválido"}, "409": {"description": "Slug já utilizado"}}}
        },
        "/warehouses/{id}": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["warehouses"], "summary": "Obtém um armazém por ID", "responses": {"200": {"description": "OK"}, "404": {"description": "Armazém não encontrado"}}},
            "put": {"security": [{"ApiKeyAuth": []}], "tags": ["warehouses"], "summary": "Atualiza um armazém", "responses": {"200": {"description": "OK"}, "404": {"description": "Armazém não encontrado"}}},
            "delete": {"security": [{"ApiKeyAuth": []}], "tags": ["warehouses"], "summary": "Remove um armazém", "responses": {"204": {"description": "No Content"}, "409": {"description": "Armazém possui estoque ou histórico"}}}
        },
        "/warehouses/{id}/managers": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["warehouses"], "summary": "Lista os usuários vinculados ao armazém", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["warehouses"], "summary": "Vincula um usuário ao armazém", "responses": {"201": {"description": "Created"}, "404": {"description": "Armazém ou usuário não encontrado"}}}
        },
        "/products": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["products"], "summary": "Lista produtos", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["products"], "summary": "Cria um produto com variantes", "responses": {"201": {"description": "Created"}, "409": {"description": "SKU já utilizado"}}}
        },
        "/suppliers": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["suppliers"], "summary": "Lista fornecedores", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["suppliers"], "summary": "Cadastra um fornecedor", "responses": {"201": {"description": "Created"}, "400": {"description": "Payload inválido"}}}
        },
        "/suppliers/{id}": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["suppliers"], "summary": "Obtém um fornecedor por ID", "responses": {"200": {"description": "OK"}, "404": {"description": "Fornecedor não encontrado"}}},
            "put": {"security": [{"ApiKeyAuth": []}], "tags": ["suppliers"], "summary": "Atualiza um fornecedor", "responses": {"200": {"description": "OK"}, "404": {"description": "Fornecedor não encontrado"}}},
            "delete": {"security": [{"ApiKeyAuth": []}], "tags": ["suppliers"], "summary": "Remove um fornecedor e seus preços", "responses": {"204": {"description": "No Content"}, "404": {"description": "Fornecedor não encontrado"}}}
        },
        "/suppliers/{id}/products": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["suppliers"], "summary": "Lista os preços de compra do fornecedor", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["suppliers"], "summary": "Vincula uma variante ao fornecedor com preço de compra", "responses": {"201": {"description": "Created"}, "409": {"description": "Variante já vinculada"}}}
        },
        "/suppliers/{id}/products/{variant_id}": {
            "put": {"security": [{"ApiKeyAuth": []}], "tags": ["suppliers"], "summary": "Altera o preço de compra de uma variante", "responses": {"200": {"description": "OK"}, "404": {"description": "Vínculo não encontrado"}}},
            "delete": {"security": [{"ApiKeyAuth": []}], "tags": ["suppliers"], "summary": "Desvincula uma variante do fornecedor", "responses": {"204": {"description": "No Content"}, "404": {"description": "Vínculo não encontrado"}}}
        },
        "/products/{id}": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["products"], "summary": "Obtém um produto por ID", "responses": {"200": {"description": "OK"}, "404": {"description": "Produto não encontrado"}}}},
        "/stock/{warehouse_id}/{variant_id}": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["stock"], "summary": "Consulta o saldo de uma variante em um armazém", "responses": {"200": {"description": "OK"}, "404": {"description": "Registro de estoque inexistente"}}}},
        "/transfers": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["transfers"], "summary": "Lista transferências", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["transfers"], "summary": "Transfere estoque entre armazéns", "responses": {"201": {"description": "Created"}, "409": {"description": "Saldo insuficiente"}, "503": {"description": "Lock indisponível"}}}
        },
        "/transfers/{reference}": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["transfers"], "summary": "Obtém uma transferência pelo código de referência", "responses": {"200": {"description": "OK"}, "404": {"description": "Transferência não encontrada"}}}},
        "/adjustments": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["adjustments"], "summary": "Lista ajustes", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"ApiKeyAuth": []}], "tags": ["adjustments"], "summary": "Ajusta o saldo de um armazém", "responses": {"201": {"description": "Created"}, "409": {"description": "Saldo insuficiente"}}}
        },
        "/alerts": {"get": {"security": [{"ApiKeyAuth": []}], "tags": ["alerts"], "summary": "Lista alertas de estoque ativos", "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo guarda os metadados exportados da especificação.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "StockLedger API",
	Description:      "Ledger de estoque multi-armazém com transferências, ajustes e alertas de estoque baixo.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
