package main

// General API documentation for swaggo. Run `swag init -g cmd/propadvisor/docs.go` to regenerate docs/.
//
// @title           propadvisor API
// @version         1.0
// @description     LLM-backed real-estate risk, checklist, loan and mitigation advice.
//
// @contact.name   propadvisor maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
