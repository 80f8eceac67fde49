// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /quizzes", middleware.WithLogging(handler))

Each request gets a random request_id, available through RequestID(ctx).
Logs request start (method, path, remote) and completion (status,
duration_ms).

# Timeouts

WithTimeout puts a deadline on the request context; store calls give up
once it passes:

	handler = middleware.WithTimeout(cfg.RequestTimeout)(handler)

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

The caller's Origin is reflected with credentials allowed so the session
cookie works cross-origin. Requests without an Origin get "*".

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, "Quiz not found")
	middleware.ValidationResponse(w, verr)   // 422 with "fields"

Parse JSON request bodies:

	var req models.QuizRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Only a salted hash of it is stored with each session.
*/
package middleware
