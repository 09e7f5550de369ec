// Package users is a sample API used by the tests.
//
// @title Users API
// @version 1.2.0
// @description Manages users and their devices.
// @termsOfService https://example.com/terms
// @basePath /v1/
// @tag.name users
// @tag.description User management
package users
