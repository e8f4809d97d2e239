package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/socialboost/boost-api/internal/pkg/idempotency"
	"github.com/socialboost/boost-api/internal/pkg/logger"
	"github.com/socialboost/boost-api/internal/pkg/response"
)

const idempotencyHeader = "Idempotency-Key"

// inFlightTTL bounds how long a reservation can outlive a request that never
// finished, e.g. when the process died mid-request.
const inFlightTTL = 2 * time.Minute

func lockTTL(recordTTL time.Duration) time.Duration {
	if recordTTL > 0 && recordTTL < inFlightTTL {
		return recordTTL
	}
	return inFlightTTL
}

type recordingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated Idempotency-Key.
// Keys are scoped to the caller and route. Requests without the header pass
// through untouched; 5xx responses are not stored so the client may retry.
func Idempotency(store idempotency.Store, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(idempotencyHeader)
			if key == "" || store == nil {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > 255 {
				response.BadRequest(w, "Idempotency-Key is too long")
				return
			}

			ctx := r.Context()
			scoped := GetUserID(ctx).String() + ":" + r.Method + ":" + r.URL.Path + ":" + key
			log := logger.FromContext(ctx)

			if rec, err := store.Get(ctx, scoped); err == nil {
				replay(w, rec)
				return
			} else if !errors.Is(err, idempotency.ErrNotFound) {
				log.Error().Err(err).Msg("idempotency lookup failed")
				response.InternalError(w)
				return
			}

			reserved, err := store.Reserve(ctx, scoped, lockTTL(ttl))
			if err != nil {
				log.Error().Err(err).Msg("idempotency reserve failed")
				response.InternalError(w)
				return
			}
			if !reserved {
				// Either in flight or completed between Get and Reserve.
				if rec, err := store.Get(ctx, scoped); err == nil {
					replay(w, rec)
					return
				}
				response.Conflict(w, "A request with this Idempotency-Key is already in progress")
				return
			}

			release := func() {
				// The request context may already be cancelled here.
				if err := store.Release(context.WithoutCancel(ctx), scoped); err != nil {
					log.Warn().Err(err).Msg("idempotency release failed")
				}
			}
			defer func() {
				if p := recover(); p != nil {
					release()
					panic(p)
				}
			}()

			rw := &recordingWriter{ResponseWriter: w}
			next.ServeHTTP(rw, r)

			if rw.status == 0 || rw.status >= http.StatusInternalServerError {
				release()
				return
			}

			rec := idempotency.Record{
				Status:      rw.status,
				ContentType: rw.Header().Get("Content-Type"),
				Body:        rw.body.Bytes(),
				CreatedAt:   time.Now().UTC(),
			}
			if err := store.Save(ctx, scoped, rec, ttl); err != nil {
				log.Warn().Err(err).Msg("idempotency save failed")
			}
		})
	}
}

func replay(w http.ResponseWriter, rec *idempotency.Record) {
	if rec.ContentType != "" {
		w.Header().Set("Content-Type", rec.ContentType)
	}
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(rec.Status)
	w.Write(rec.Body)
}
