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

package dirs

import (
	"fmt"
	"path/filepath"
)

// The various file paths used by batterysaverd, all rooted at
// GlobalRootDir so that tests can re-root them.
var (
	GlobalRootDir string

	SysCPUDir             string
	BatterySaverdSocket   string
	BatterySaverdConfFile string
)

func init() {
	// init the global directories at startup
	SetRootDir("/")
}

// CPUScalingMaxFreqFile returns the sysfs file that caps the maximum
// scaling frequency of the given CPU core.
func CPUScalingMaxFreqFile(core int) string {
	return filepath.Join(SysCPUDir, fmt.Sprintf("cpu%d", core), "cpufreq", "scaling_max_freq")
}

// SetRootDir allows settings a new global root directory, this is useful
// for e.g. chroot operations and running tests against a fake sysfs.
func SetRootDir(rootdir string) {
	if rootdir == "" {
		rootdir = "/"
	}
	GlobalRootDir = rootdir

	SysCPUDir = filepath.Join(rootdir, "/sys/devices/system/cpu")
	BatterySaverdSocket = filepath.Join(rootdir, "/run/batterysaverd.socket")
	BatterySaverdConfFile = filepath.Join(rootdir, "/etc/batterysaverd/batterysaverd.conf")
}
