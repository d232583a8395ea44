package controllers

import (
	"net/http"

	"github.com/charmbracelet/log"

	"todo-calendar/app/web"
)

// WebController serves the calendar page and diagnostics.
type WebController struct {
	Assets *web.Assets
	Logger *log.Logger
	// SinkAddr is reported by LogTest; empty when no remote sink is configured.
	SinkAddr string
}

// NewWebController creates a new WebController.
func NewWebController(assets *web.Assets, logger *log.Logger, sinkAddr string) *WebController {
	return &WebController{Assets: assets, Logger: logger, SinkAddr: sinkAddr}
}

// Index handles GET /.
func (c *WebController) Index(w http.ResponseWriter, r *http.Request) {
	content, err := c.Assets.Index()
	if err != nil {
		c.Logger.Error("read index page", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

// LogTest handles GET /log-test by emitting one log line.
func (c *WebController) LogTest(w http.ResponseWriter, r *http.Request) {
	c.Logger.Info("log sink test", "sink", c.SinkAddr)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Test log sent",
		"sink":    c.SinkAddr,
	})
}
