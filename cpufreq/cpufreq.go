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

// Package cpufreq parses the per-core CPU frequency cap lists used in
// the device specific battery saver settings, e.g. "0:1200000/1:1600000",
// and renders them as sysfs file -> content mappings.
package cpufreq

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/snapcore/batterysaverd/dirs"
)

// Frequencies holds the maximum scaling frequency for a set of CPU cores.
type Frequencies struct {
	caps map[int]int64
}

// Parse parses a "/"-separated list of core:frequency pairs. The empty
// string parses to an empty set. A later entry for the same core
// overrides an earlier one.
func Parse(s string) (*Frequencies, error) {
	f := &Frequencies{caps: make(map[int]int64)}
	if s == "" {
		return f, nil
	}
	for _, item := range strings.Split(s, "/") {
		l := strings.Split(item, ":")
		if len(l) != 2 {
			return nil, fmt.Errorf("cannot parse cpu frequency entry %q: expected core:frequency", item)
		}
		core, err := strconv.Atoi(l[0])
		if err != nil || core < 0 {
			return nil, fmt.Errorf("cannot parse cpu frequency entry %q: invalid core number %q", item, l[0])
		}
		freq, err := strconv.ParseInt(l[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot parse cpu frequency entry %q: invalid frequency %q", item, l[1])
		}
		f.caps[core] = freq
	}
	return f, nil
}

// SysFileMap returns the scaling_max_freq sysfs file for each core,
// mapped to the frequency to write to it.
func (f *Frequencies) SysFileMap() map[string]string {
	m := make(map[string]string, len(f.caps))
	for core, freq := range f.caps {
		m[dirs.CPUScalingMaxFreqFile(core)] = strconv.FormatInt(freq, 10)
	}
	return m
}
