// Package docs 注册 Swagger 文档
// 由 swag init 生成后手工裁剪，只保留对外接口的描述
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
        "/api/v1/auth/signin": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "登录",
                "description": "邮箱密码登录。优先走远程身份服务，远程不可用或拒绝时回落到内置演示账号。",
                "responses": {
                    "200": {"description": "登录成功"},
                    "400": {"description": "请求参数错误"},
                    "401": {"description": "邮箱或密码错误"}
                }
            }
        },
        "/api/v1/auth/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "注册",
                "description": "注册新账号。远程身份服务不可用时在本地合成账号，注册总是成功。",
                "responses": {
                    "200": {"description": "注册成功"},
                    "400": {"description": "请求参数错误"}
                }
            }
        },
        "/api/v1/auth/dev-signin": {
            "post": {
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "开发模式一键登录",
                "responses": {
                    "200": {"description": "登录成功"},
                    "404": {"description": "开发模式未开启"}
                }
            }
        },
        "/api/v1/auth/signout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "退出登录",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "退出成功"}}
            }
        },
        "/api/v1/auth/profile": {
            "get": {
                "produces": ["application/json"],
                "tags": ["认证"],
                "summary": "获取当前用户信息",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "获取成功"},
                    "401": {"description": "未授权"}
                }
            }
        },
        "/api/v1/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["消费记录"],
                "summary": "获取消费类别列表",
                "responses": {"200": {"description": "获取成功"}}
            }
        },
        "/api/v1/expenses": {
            "get": {
                "produces": ["application/json"],
                "tags": ["消费记录"],
                "summary": "获取消费记录列表",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "获取成功"},
                    "401": {"description": "未授权"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["消费记录"],
                "summary": "创建消费记录",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "创建成功"},
                    "400": {"description": "请求参数错误"},
                    "401": {"description": "未授权"}
                }
            }
        },
        "/api/v1/expenses/{id}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["消费记录"],
                "summary": "删除消费记录",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true, "description": "消费记录ID"}
                ],
                "responses": {
                    "200": {"description": "删除成功"},
                    "401": {"description": "未授权"}
                }
            }
        },
        "/api/v1/statistics/by-category": {
            "get": {
                "produces": ["application/json"],
                "tags": ["统计"],
                "summary": "按类别汇总消费金额",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "获取成功"},
                    "401": {"description": "未授权"}
                }
            }
        },
        "/api/v1/statistics/by-month": {
            "get": {
                "produces": ["application/json"],
                "tags": ["统计"],
                "summary": "按月份汇总消费金额",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "获取成功"},
                    "401": {"description": "未授权"}
                }
            }
        },
        "/api/v1/statistics/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["统计"],
                "summary": "获取消费统计汇总",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "获取成功"},
                    "401": {"description": "未授权"}
                }
            }
        },
        "/api/v1/export/csv": {
            "get": {
                "produces": ["text/csv"],
                "tags": ["导出"],
                "summary": "导出消费记录为 CSV",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "CSV 文件"},
                    "401": {"description": "未授权"}
                }
            }
        },
        "/api/v1/export/json": {
            "get": {
                "produces": ["application/json"],
                "tags": ["导出"],
                "summary": "导出消费记录为 JSON",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "导出成功"},
                    "401": {"description": "未授权"}
                }
            }
        },
        "/api/v1/export/excel": {
            "get": {
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["导出"],
                "summary": "导出消费记录为 Excel",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Excel 文件"},
                    "401": {"description": "未授权"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "JWT token，格式: Bearer {token}"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "消费记录追踪 API",
	Description:      "个人消费记录追踪服务，提供记录管理、统计汇总和导出能力",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
