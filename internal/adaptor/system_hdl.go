package adaptor

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"probul-backend/pkg/utils"

	"go.uber.org/zap"
)

const apiVersion = "1.0.0"

type SystemHandler struct {
	publicDir string
	files     http.Handler
	startedAt time.Time
	now       func() time.Time
	log       *zap.Logger
}

func NewSystemHandler(publicDir string, log *zap.Logger) *SystemHandler {
	return &SystemHandler{
		publicDir: publicDir,
		files:     http.FileServer(http.Dir(publicDir)),
		startedAt: time.Now(),
		now:       time.Now,
		log:       log.With(zap.String("handler", "system")),
	}
}

type healthBody struct {
	OK        bool   `json:"ok"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
}

type bannerBody struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Version string `json:"version"`
}

// Health handles GET /health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	uptime := int64(now.Sub(h.startedAt).Seconds())

	utils.ResponseJSON(w, http.StatusOK, healthBody{
		OK:        true,
		Status:    "healthy",
		Timestamp: now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Uptime:    strconv.FormatInt(uptime, 10) + "s",
	})
}

// Static serves files from the public directory. Paths that do not name a
// file fall back to index.html, or to a JSON banner when there is no SPA build.
func (h *SystemHandler) Static(w http.ResponseWriter, r *http.Request) {
	if h.publicDir != "" {
		if h.isFile(r.URL.Path) {
			h.files.ServeHTTP(w, r)
			return
		}

		index := filepath.Join(h.publicDir, "index.html")
		if _, err := os.Stat(index); err == nil {
			http.ServeFile(w, r, index)
			return
		} else if !errors.Is(err, fs.ErrNotExist) {
			h.log.Warn("Failed to stat SPA index", zap.Error(err), zap.String("path", index))
		}
	}

	utils.ResponseJSON(w, http.StatusOK, bannerBody{
		OK:      true,
		Message: "Pro-Bul API is running",
		Version: apiVersion,
	})
}

func (h *SystemHandler) isFile(urlPath string) bool {
	clean := path.Clean("/" + urlPath)
	if clean == "/" || strings.HasSuffix(clean, "/index.html") {
		return false
	}

	info, err := os.Stat(filepath.Join(h.publicDir, filepath.FromSlash(clean)))
	return err == nil && !info.IsDir()
}
