package docs

// docs.go is generated from the swag annotations in cmd/api and internal/handlers.
// Run `go generate ./docs` after changing a route or its annotations.

//go:generate go run github.com/swaggo/swag/cmd/swag@v1.16.1 init --dir ../cmd/api,../internal/handlers,../internal/models --generalInfo main.go --output . --outputTypes go
