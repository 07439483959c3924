package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zeu5/keyword-rl/adenv"
	"go.uber.org/zap"
)

// errorStatus maps environment errors to HTTP status codes
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUnknownSession):
		return http.StatusNotFound, "unknown_session"
	case errors.Is(err, adenv.ErrInvalidAction):
		return http.StatusBadRequest, "invalid_action"
	case errors.Is(err, adenv.ErrConfiguration), errors.Is(err, adenv.ErrBlockAlignment):
		return http.StatusBadRequest, "configuration"
	case errors.Is(err, adenv.ErrIndexOutOfRange):
		return http.StatusConflict, "index_out_of_range"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) abort(c *gin.Context, err error) {
	status, kind := errorStatus(err)
	s.metrics.RecordError(kind)
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleCreate(c *gin.Context) {
	req := createSessionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.metrics.RecordError("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "bad_request"})
		return
	}
	sess, ts, err := s.createSession(req.Split)
	if err != nil {
		s.abort(c, err)
		return
	}
	s.metrics.RecordEpisode(sess.Split)
	s.logger.Info("session created", zap.String("id", sess.ID), zap.String("split", sess.Split))

	c.JSON(http.StatusCreated, createSessionResponse{
		ID:          sess.ID,
		Result:      NewBundle(ts),
		NumKeywords: sess.env.NumKeywords(),
		ActionSize:  sess.env.ActionSize(),
		Keywords:    sess.env.Keywords(),
	})
}

func (s *Server) handleReset(c *gin.Context) {
	sess, err := s.getSession(c.Param("id"))
	if err != nil {
		s.abort(c, err)
		return
	}
	ts, err := sess.Reset()
	if err != nil {
		s.abort(c, err)
		return
	}
	s.metrics.RecordEpisode(sess.Split)
	c.JSON(http.StatusOK, NewBundle(ts))
}

func (s *Server) handleStep(c *gin.Context) {
	sess, err := s.getSession(c.Param("id"))
	if err != nil {
		s.abort(c, err)
		return
	}
	req := stepRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.metrics.RecordError("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "bad_request"})
		return
	}
	ts, err := sess.Step(adenv.OneHot(req.Action))
	if err != nil {
		s.abort(c, err)
		return
	}
	s.metrics.RecordStep(sess.Split, ts.Reward())
	c.JSON(http.StatusOK, NewBundle(ts))
}

func (s *Server) handleDelete(c *gin.Context) {
	id := c.Param("id")
	if err := s.deleteSession(id); err != nil {
		s.abort(c, err)
		return
	}
	s.logger.Info("session deleted", zap.String("id", id))
	c.Status(http.StatusNoContent)
}

// logRequests logs failed and slow requests
func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()

	status := c.Writer.Status()
	elapsed := time.Since(start)
	if status < http.StatusBadRequest && elapsed < time.Second {
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed))
		return
	}
	s.logger.Warn("request",
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
		zap.Int("status", status),
		zap.Duration("elapsed", elapsed))
}
