package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/alkime/knobs/internal/marker"
	"github.com/alkime/knobs/internal/store"
	"github.com/gin-gonic/gin"
)

// maxRecordBytes bounds a PUT body.
const maxRecordBytes = 1 << 20

// Records are kept as JSON and converted to the client's media type on the
// way in and out.
var storageCodec marker.Codec = marker.JSONCodec{}

func (s *Server) handleGetMarkers(c *gin.Context) {
	key := c.Param("key")

	data, err := s.storage.Get(c.Request.Context(), key)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no markers for key", "key": key})
		return
	}
	if err != nil {
		s.logger.Error("failed to read markers", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}

	codec := marker.CodecForMediaType(c.GetHeader("Accept"))
	if codec.ContentType() != storageCodec.ContentType() {
		markers, err := marker.Decode(data, storageCodec)
		if err != nil {
			s.logger.Error("stored markers are corrupt", "key", key, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "corrupt record"})
			return
		}

		if data, err = marker.Encode(markers, codec); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.Data(http.StatusOK, codec.ContentType(), data)
}

func (s *Server) handlePutMarkers(c *gin.Context) {
	key := c.Param("key")

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRecordBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	if len(body) > maxRecordBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "record too large"})
		return
	}

	markers, err := marker.Decode(body, marker.CodecForMediaType(c.ContentType()))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := marker.Encode(markers, storageCodec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := s.storage.Set(c.Request.Context(), key, data); err != nil {
		s.logger.Error("failed to save markers", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}

	s.logger.Debug("saved markers", "key", key, "count", len(markers))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteMarkers(c *gin.Context) {
	key := c.Param("key")

	if err := s.storage.Delete(c.Request.Context(), key); err != nil {
		s.logger.Error("failed to delete markers", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}

	c.Status(http.StatusNoContent)
}
