package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"todo-calendar/app/controllers"
)

// RegisterRoutes sets up all routes for the application.
func RegisterRoutes(router *mux.Router, todoController *controllers.TodoController, webController *controllers.WebController, metrics http.Handler) {
	router.HandleFunc("/todos", todoController.GetTodos).Methods(http.MethodGet)
	router.HandleFunc("/todos", todoController.CreateTodo).Methods(http.MethodPost)
	router.HandleFunc("/todos/{date}", todoController.GetTodosByDate).Methods(http.MethodGet)
	router.HandleFunc("/todos/{todo_id}", todoController.UpdateTodo).Methods(http.MethodPut)
	router.HandleFunc("/todos/{todo_id}", todoController.DeleteTodo).Methods(http.MethodDelete)

	router.HandleFunc("/", webController.Index).Methods(http.MethodGet)
	router.HandleFunc("/log-test", webController.LogTest).Methods(http.MethodGet)
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", webController.Assets.StaticHandler()))

	if metrics != nil {
		router.Handle("/metrics", metrics).Methods(http.MethodGet)
	}
}
