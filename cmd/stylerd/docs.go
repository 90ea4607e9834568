package main

// General API documentation for swaggo. Run `swag init -g cmd/stylerd/docs.go` to regenerate docs.
//
// @title           stylerd API
// @version         1.0
// @description     HTTP API for fast neural style transfer (mosaic, candy, rain_princess, udnie).
//
// @contact.name   stylerd maintainers
//
// @license.name   BSD-3-Clause
// @license.url    https://opensource.org/licenses/BSD-3-Clause
//
// @BasePath  /
//
// @schemes http
