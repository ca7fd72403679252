package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/haifolio/backend/src/logger"
	"github.com/username/haifolio/backend/src/utils"
)

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.L.Error("Error encoding JSON response", "error", err)
	}
}

// writeJSONWithETag sends the payload with an ETag and honors If-None-Match.
// Report payloads are cheap to hash and change rarely between rate edits, so
// 304s save the client re-rendering identical charts.
func writeJSONWithETag(w http.ResponseWriter, r *http.Request, payload interface{}) {
	w.Header().Set("Cache-Control", "no-cache, private")

	currentETag, err := utils.GenerateETag(payload)
	if err != nil {
		logger.L.Warn("Proceeding without ETag check due to ETag generation error", "error", err)
		writeJSON(w, payload)
		return
	}

	quotedETag := fmt.Sprintf("%q", currentETag)
	w.Header().Set("ETag", quotedETag)
	for _, clientETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
		if strings.TrimSpace(clientETag) == quotedETag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	writeJSON(w, payload)
}
