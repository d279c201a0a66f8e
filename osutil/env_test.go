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

package osutil_test

import (
	"os"
	"testing"

	. "gopkg.in/check.v1"

	"github.com/snapcore/batterysaverd/osutil"
)

// Hook up check.v1 into the "go test" runner
func Test(t *testing.T) { TestingT(t) }

type envSuite struct{}

var _ = Suite(&envSuite{})

func (s *envSuite) TestGetenvBool(c *C) {
	key := "__XYZZY__"
	os.Unsetenv(key)

	c.Check(osutil.GetenvBool(key), Equals, false)
	c.Check(osutil.GetenvBool(key, true), Equals, true)

	for _, s := range []string{"1", "t", "TRUE"} {
		os.Setenv(key, s)
		c.Assert(os.Getenv(key), Equals, s)
		c.Check(osutil.GetenvBool(key), Equals, true, Commentf(s))
	}

	for _, s := range []string{"0", "f", "FALSE", "potato"} {
		os.Setenv(key, s)
		c.Assert(os.Getenv(key), Equals, s)
		c.Check(osutil.GetenvBool(key), Equals, false, Commentf(s))
	}

	os.Setenv(key, "potato")
	c.Check(osutil.GetenvBool(key, true), Equals, true)

	os.Unsetenv(key)
}
