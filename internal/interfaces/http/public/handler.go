package public

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	feedbackapp "github.com/sngm3741/workshop-feedback/api/internal/feedback/application"
	"github.com/sngm3741/workshop-feedback/api/internal/interfaces/http/common"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger    logrus.FieldLogger
	feedback  feedbackapp.FeedbackCommandService
	responder common.ErrorResponder
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger    logrus.FieldLogger
	Feedback  feedbackapp.FeedbackCommandService
	Responder common.ErrorResponder
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:    cfg.Logger,
		feedback:  cfg.Feedback,
		responder: cfg.Responder,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/send-feedback", h.sendFeedbackHandler())
	r.Get("/favicon.ico", faviconHandler)
}

func faviconHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
