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
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	. "gopkg.in/check.v1"

	"github.com/snapcore/batterysaverd/dirs"
	"github.com/snapcore/batterysaverd/logger"
	"github.com/snapcore/batterysaverd/policy"
	"github.com/snapcore/batterysaverd/settings"
	"github.com/snapcore/batterysaverd/testutil"
)

// Hook up check.v1 into the "go test" runner
func Test(t *testing.T) { TestingT(t) }

type fakeStore map[string]string

func (s fakeStore) Get(key string) (string, error) {
	return s[key], nil
}

type apiSuite struct {
	d       *Daemon
	restore func()
}

var _ = Suite(&apiSuite{})

func (s *apiSuite) SetUpTest(c *C) {
	dirs.SetRootDir("/")
	_, s.restore = logger.MockLogger()

	p := policy.New("")
	err := p.SystemReady(fakeStore{
		settings.KeyBatterySaverConstants:   "vibration_disabled=false,gps_mode=1,adjust_brightness_factor=0.3",
		settings.KeyDeviceSpecificConstants: "cpufreq-i=0:1200000",
	})
	c.Assert(err, IsNil)

	s.d = New(p, filepath.Join(c.MkDir(), "s"))
	s.d.Version = "1.0"
	s.d.addRoutes()
}

func (s *apiSuite) TearDownTest(c *C) {
	s.restore()
}

func (s *apiSuite) req(c *C, method, url string) (status int, body map[string]interface{}) {
	req, err := http.NewRequest(method, url, nil)
	c.Assert(err, IsNil)
	rec := httptest.NewRecorder()
	s.d.router.ServeHTTP(rec, req)

	body = map[string]interface{}{}
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &body), IsNil)
	return rec.Code, body
}

func (s *apiSuite) TestSysInfo(c *C) {
	status, body := s.req(c, "GET", "/")
	c.Check(status, Equals, 200)
	c.Check(body["result"], DeepEquals, map[string]interface{}{"version": "1.0"})
}

func (s *apiSuite) TestGetPolicy(c *C) {
	status, body := s.req(c, "GET", "/v1/policy?service=gps&enabled=true")
	c.Check(status, Equals, 200)
	c.Check(body["result"], DeepEquals, map[string]interface{}{
		"global-enabled":    true,
		"enabled":           true,
		"gps-mode":          1.0,
		"brightness-factor": 0.0,
	})

	status, body = s.req(c, "GET", "/v1/policy?service=vibration&enabled=true")
	c.Check(status, Equals, 200)
	c.Check(body["result"].(map[string]interface{})["enabled"], Equals, false)

	// battery saver off device-wide
	status, body = s.req(c, "GET", "/v1/policy?service=vibration&enabled=false")
	c.Check(status, Equals, 200)
	c.Check(body["result"].(map[string]interface{})["enabled"], Equals, false)
	c.Check(body["result"].(map[string]interface{})["global-enabled"], Equals, false)

	// unknown services follow the global state
	status, body = s.req(c, "GET", "/v1/policy?service=time-machine&enabled=true")
	c.Check(status, Equals, 200)
	c.Check(body["result"].(map[string]interface{})["enabled"], Equals, true)
}

func (s *apiSuite) TestGetPolicyBadQuery(c *C) {
	status, body := s.req(c, "GET", "/v1/policy?enabled=true")
	c.Check(status, Equals, 400)
	c.Check(body["result"].(map[string]interface{})["message"], Equals, "service parameter is required")

	status, body = s.req(c, "GET", "/v1/policy?service=gps")
	c.Check(status, Equals, 400)
	c.Check(body["result"].(map[string]interface{})["message"], Equals, "enabled parameter is required and must be a boolean")
}

func (s *apiSuite) TestGetFlags(c *C) {
	status, body := s.req(c, "GET", "/v1/flags")
	c.Check(status, Equals, 200)
	result := body["result"].(map[string]interface{})
	c.Check(result["vibration-disabled"], Equals, false)
	c.Check(result["animation-disabled"], Equals, true)
	c.Check(result["adjust-brightness-factor"], Equals, 0.3)
	c.Check(result["gps-mode"], Equals, 1.0)
	c.Check(result["event-log-keys"], Equals, "ABasFKfblS1")
}

func (s *apiSuite) TestGetFiles(c *C) {
	status, body := s.req(c, "GET", "/v1/files?interactive=true")
	c.Check(status, Equals, 200)
	c.Check(body["result"], DeepEquals, map[string]interface{}{
		"/sys/devices/system/cpu/cpu0/cpufreq/scaling_max_freq": "1200000",
	})

	status, body = s.req(c, "GET", "/v1/files?interactive=false")
	c.Check(status, Equals, 200)
	c.Check(body["result"], DeepEquals, map[string]interface{}{})

	status, _ = s.req(c, "GET", "/v1/files")
	c.Check(status, Equals, 400)
}

func (s *apiSuite) TestGetDump(c *C) {
	status, body := s.req(c, "GET", "/v1/debug/dump")
	c.Check(status, Equals, 200)
	c.Check(body["result"].(string), testutil.Contains, "Battery saver policy")
	c.Check(body["result"].(string), testutil.Contains, "vibration_disabled=false")
}

func (s *apiSuite) TestMethodNotAllowed(c *C) {
	status, _ := s.req(c, "POST", "/v1/flags")
	c.Check(status, Equals, 405)
}

func (s *apiSuite) TestNotFound(c *C) {
	status, _ := s.req(c, "GET", "/v1/no-such-endpoint")
	c.Check(status, Equals, 404)
}

type daemonSuite struct {
	restore func()
}

var _ = Suite(&daemonSuite{})

func (s *daemonSuite) SetUpTest(c *C) {
	_, s.restore = logger.MockLogger()
}

func (s *daemonSuite) TearDownTest(c *C) {
	s.restore()
}

func (s *daemonSuite) TestServeOverSocket(c *C) {
	p := policy.New("")
	c.Assert(p.SystemReady(fakeStore{}), IsNil)

	socketPath := filepath.Join(c.MkDir(), "s")
	d := New(p, socketPath)
	d.Version = "1.0"
	c.Assert(d.Init(), IsNil)
	d.Start()
	defer func() {
		c.Check(d.Stop(), IsNil)
	}()

	client := &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				return (&net.Dialer{}).DialContext(ctx, "unix", socketPath)
			},
		},
	}
	rsp, err := client.Get("http://localhost/v1/policy?service=gps&enabled=true")
	c.Assert(err, IsNil)
	defer rsp.Body.Close()
	c.Check(rsp.StatusCode, Equals, 200)
	data, err := io.ReadAll(rsp.Body)
	c.Assert(err, IsNil)
	c.Check(string(data), testutil.Contains, `"enabled":true`)
}

func (s *daemonSuite) TestInitRemovesStaleSocket(c *C) {
	p := policy.New("")
	socketPath := filepath.Join(c.MkDir(), "s")

	d := New(p, socketPath)
	c.Assert(d.Init(), IsNil)
	d.Start()
	c.Assert(d.Stop(), IsNil)

	// socket file left behind from the previous run
	d = New(p, socketPath)
	c.Assert(d.Init(), IsNil)
	d.Start()
	c.Assert(d.Stop(), IsNil)
}
