package server

import (
	"context"
	"net/http"

	"feira/internal/handlers"
	applog "feira/internal/log"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")
	mux.HandleFunc("/healthz", handlers.Health)
	applog.Debug(context.Background(), "route registered", "path", "/healthz")
	mux.HandleFunc("/api/ingredients", handlers.IngredientResource)
	mux.HandleFunc("/api/ingredients/", handlers.IngredientResource)
	applog.Debug(context.Background(), "route registered", "path", "/api/ingredients")
	mux.HandleFunc("/api/recipes", handlers.RecipeResource)
	mux.HandleFunc("/api/recipes/", handlers.RecipeResource)
	applog.Debug(context.Background(), "route registered", "path", "/api/recipes")
	mux.HandleFunc("/api/workspace/export", handlers.WorkspaceExport)
	mux.HandleFunc("/api/workspace/import", handlers.WorkspaceImport)
	applog.Debug(context.Background(), "route registered", "path", "/api/workspace")
	return mux
}
