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

package main

import (
	"os"
	"path/filepath"
	"testing"

	. "gopkg.in/check.v1"

	"github.com/snapcore/batterysaverd/dirs"
)

// Hook up check.v1 into the "go test" runner
func Test(t *testing.T) { TestingT(t) }

type mainSuite struct{}

var _ = Suite(&mainSuite{})

func (s *mainSuite) SetUpTest(c *C) {
	dirs.SetRootDir("/")
	opts = cmdOptions{}
}

func (s *mainSuite) TestLoadConfigMissingFile(c *C) {
	conf, err := loadConfig(filepath.Join(c.MkDir(), "no-such.conf"))
	c.Assert(err, IsNil)
	c.Check(conf.Socket, Equals, dirs.BatterySaverdSocket)
	c.Check(conf.UseDBus, Equals, false)
	c.Check(conf.DeviceSpecificDefault, Equals, "")
}

func (s *mainSuite) TestLoadConfig(c *C) {
	path := filepath.Join(c.MkDir(), "batterysaverd.conf")
	err := os.WriteFile(path, []byte(`[daemon]
socket=/run/test.socket
settings-file=/etc/test-settings.conf
use-dbus=true

[policy]
device-specific-constants=cpufreq-n=0:1100000
`), 0644)
	c.Assert(err, IsNil)

	conf, err := loadConfig(path)
	c.Assert(err, IsNil)
	c.Check(conf.Socket, Equals, "/run/test.socket")
	c.Check(conf.SettingsFile, Equals, "/etc/test-settings.conf")
	c.Check(conf.UseDBus, Equals, true)
	c.Check(conf.DeviceSpecificDefault, Equals, "cpufreq-n=0:1100000")
}

func (s *mainSuite) TestParseArgs(c *C) {
	err := parseArgs([]string{"--settings", "/tmp/settings.conf", "--socket", "/tmp/s"})
	c.Assert(err, IsNil)
	c.Check(opts.SettingsFile, Equals, "/tmp/settings.conf")
	c.Check(opts.Socket, Equals, "/tmp/s")
	c.Check(opts.UseDBus, Equals, false)
}

func (s *mainSuite) TestParseArgsBadOption(c *C) {
	err := parseArgs([]string{"--no-such-option"})
	c.Check(err, NotNil)
}
