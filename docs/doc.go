// Package docs provides generated OpenAPI documentation.
//
// PaperLens API
//
//	@title			PaperLens API
//	@version		1.0
//	@description	Research paper and YouTube video analysis API backed by an LLM.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/paperlens/paperlens
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/paperlens/serve.go -o . --parseDependency --parseInternal
