package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/gorilla/websocket"

	"laptop-price/models"
)

// maxLiveMessageBytes bounds a single configuration frame.
const maxLiveMessageBytes = 4096

// checkOrigin applies the CORS allowlist to websocket upgrades. Requests
// without an Origin header and same-host pages are always accepted.
func checkOrigin(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 || containsString(origins, "*") {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || containsString(origins, origin) {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}

// liveMessage is the frame written back for every configuration received.
type liveMessage struct {
	Type    string                   `json:"type"`
	Result  *models.PredictionResult `json:"result,omitempty"`
	Error   string                   `json:"error,omitempty"`
	Details string                   `json:"details,omitempty"`
}

// LivePredict re-predicts on every configuration a client sends, so a
// form can update its estimate as inputs change. Bad frames get an error
// frame and the connection stays open.
func (s *Server) LivePredict(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxLiveMessageBytes)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("Websocket closed: %v", err)
			}
			return
		}

		if err := conn.WriteJSON(s.livePredict(msg)); err != nil {
			s.logger.Warn("Websocket write failed: %v", err)
			return
		}
	}
}

func (s *Server) livePredict(msg []byte) liveMessage {
	var cfg models.UserConfiguration
	if err := binding.JSON.BindBody(msg, &cfg); err != nil {
		return liveMessage{Type: "error", Error: "invalid request", Details: err.Error()}
	}

	res, err := s.predictor.Predict(cfg)
	if err != nil {
		status, text := predictionErrorStatus(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("Prediction failed: %v", err)
		}
		return liveMessage{Type: "error", Error: text, Details: err.Error()}
	}
	return liveMessage{Type: "result", Result: res}
}
