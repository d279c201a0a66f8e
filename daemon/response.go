// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2026 Canonical Ltd
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 3 as
 * published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package daemon

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/snapcore/batterysaverd/logger"
)

// ResponseType is the response type
type ResponseType string

const (
	ResponseTypeSync  ResponseType = "sync"
	ResponseTypeError ResponseType = "error"
)

// Response knows how to serve itself.
type Response interface {
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

type resp struct {
	Status int // HTTP status code
	Type   ResponseType
	Result interface{}
}

type respJSON struct {
	Type   ResponseType `json:"type"`
	Result interface{}  `json:"result"`
}

func (r *resp) MarshalJSON() ([]byte, error) {
	return json.Marshal(respJSON{
		Type:   r.Type,
		Result: r.Result,
	})
}

func (r *resp) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	status := r.Status
	bs, err := r.MarshalJSON()
	if err != nil {
		logger.Noticef("cannot marshal %#v to JSON: %v", *r, err)
		bs = nil
		status = 500
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bs)
}

// SyncResponse builds a "sync" response from the given result.
func SyncResponse(result interface{}) Response {
	return &resp{
		Status: 200,
		Type:   ResponseTypeSync,
		Result: result,
	}
}

type errorResult struct {
	Message string `json:"message"`
}

type errorResponder func(string, ...interface{}) Response

func makeErrorResponder(status int) errorResponder {
	return func(format string, v ...interface{}) Response {
		return &resp{
			Status: status,
			Type:   ResponseTypeError,
			Result: &errorResult{Message: fmt.Sprintf(format, v...)},
		}
	}
}

// standard error responses
var (
	BadRequest       = makeErrorResponder(400)
	NotFound         = makeErrorResponder(404)
	MethodNotAllowed = makeErrorResponder(405)
	InternalError    = makeErrorResponder(500)
)
