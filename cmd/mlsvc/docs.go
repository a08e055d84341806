package main

// General API documentation for swaggo. Run `swag init -g cmd/mlsvc/docs.go` to generate docs.
//
// @title           GRC ML Service API
// @version         0.1.0-local
// @description     Local-development stub serving mock model metadata and pseudo-random predictions.
//
// @contact.name   mlsvc maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
