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

// Package daemon exposes the battery saver policy over a small REST API
// on a unix socket, so that the services applying the restrictions can
// query their decisions.
package daemon

import (
	"context"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"gopkg.in/tomb.v2"

	"github.com/snapcore/batterysaverd/logger"
	"github.com/snapcore/batterysaverd/policy"
)

const shutdownTimeout = 5 * time.Second

// A ResponseFunc handles one of the individual verbs for a method
type ResponseFunc func(*Command, *http.Request) Response

// A Command routes a request to an individual per-verb ResponseFunc
type Command struct {
	Path string

	GET    ResponseFunc
	PUT    ResponseFunc
	POST   ResponseFunc
	DELETE ResponseFunc

	d *Daemon
}

func (c *Command) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var rspf ResponseFunc
	rsp := MethodNotAllowed("method %q not allowed", r.Method)

	switch r.Method {
	case "GET":
		rspf = c.GET
	case "PUT":
		rspf = c.PUT
	case "POST":
		rspf = c.POST
	case "DELETE":
		rspf = c.DELETE
	}

	if rspf != nil {
		rsp = rspf(c, r)
	}
	rsp.ServeHTTP(w, r)
}

type closeOnceListener struct {
	net.Listener

	idempotClose sync.Once
	closeErr     error
}

func (l *closeOnceListener) Close() error {
	l.idempotClose.Do(func() {
		l.closeErr = l.Listener.Close()
	})
	return l.closeErr
}

// Daemon serves the battery saver policy REST API.
type Daemon struct {
	Version string

	policy     *policy.BatterySaverPolicy
	socketPath string

	listener net.Listener
	serve    *http.Server
	router   *mux.Router
	tomb     tomb.Tomb
}

// New creates a daemon serving the given policy on socketPath.
func New(p *policy.BatterySaverPolicy, socketPath string) *Daemon {
	return &Daemon{
		policy:     p,
		socketPath: socketPath,
	}
}

// Init sets up the listening socket and the routes.
func (d *Daemon) Init() error {
	// clean up after an unclean shutdown
	if err := os.Remove(d.socketPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	l, err := net.Listen("unix", d.socketPath)
	if err != nil {
		return err
	}
	d.listener = &closeOnceListener{Listener: l}
	d.addRoutes()
	d.serve = &http.Server{Handler: d.router}
	return nil
}

func (d *Daemon) addRoutes() {
	d.router = mux.NewRouter()
	for _, c := range api {
		c.d = d
		d.router.Handle(c.Path, c).Name(c.Path)
	}
	d.router.NotFoundHandler = NotFound("not found")
}

// Start serves requests until Stop is called.
func (d *Daemon) Start() {
	d.tomb.Go(d.runServer)
	d.tomb.Go(d.shutdownServerOnKill)
	logger.Debugf("listening on %s", d.socketPath)
}

func (d *Daemon) runServer() error {
	err := d.serve.Serve(d.listener)
	if err == http.ErrServerClosed {
		err = nil
	}
	if d.tomb.Err() == tomb.ErrStillAlive {
		return err
	}
	return nil
}

func (d *Daemon) shutdownServerOnKill() error {
	<-d.tomb.Dying()
	// closing the listener before Shutdown works around the race
	// between Serve and Shutdown on go < 1.11, see golang.org/issue/20239
	d.listener.Close()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return d.serve.Shutdown(ctx)
}

// Stop shuts the daemon down and waits for the server to finish.
func (d *Daemon) Stop() error {
	d.tomb.Kill(nil)
	return d.tomb.Wait()
}
