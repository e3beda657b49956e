package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tidewaterlabs/supportrelay/services/orchestrator/datatypes"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/ingest"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/observability"
)

// HandleIngestDocument serves POST /ingest: a multipart upload under the
// "file" field. Only .pdf and .txt uploads are accepted.
func HandleIngestDocument(svc *ingest.Service, metrics *observability.RelayMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
			return
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if ext != ".pdf" && ext != ".txt" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF and TXT files are supported."})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			slog.Error("Failed to open uploaded file", "filename", fileHeader.Filename, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			slog.Error("Failed to read uploaded file", "filename", fileHeader.Filename, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}

		stored, err := svc.IngestDocument(c.Request.Context(), fileHeader.Filename, data)
		if err != nil {
			if errors.Is(err, ingest.ErrUnsupportedType) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF and TXT files are supported."})
				return
			}
			slog.Error("Ingestion failed", "filename", fileHeader.Filename, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if metrics != nil {
			metrics.RecordChunksIngested(stored)
		}
		c.JSON(http.StatusOK, datatypes.IngestResponse{Status: "ok", ChunksStored: stored})
	}
}
