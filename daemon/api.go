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
	"bytes"
	"net/http"
	"strconv"

	"github.com/snapcore/batterysaverd/policy"
)

var api = []*Command{
	rootCmd,
	policyCmd,
	flagsCmd,
	filesCmd,
	dumpCmd,
}

var (
	rootCmd = &Command{
		Path: "/",
		GET:  sysInfo,
	}

	policyCmd = &Command{
		Path: "/v1/policy",
		GET:  getPolicy,
	}

	flagsCmd = &Command{
		Path: "/v1/flags",
		GET:  getFlags,
	}

	filesCmd = &Command{
		Path: "/v1/files",
		GET:  getFiles,
	}

	dumpCmd = &Command{
		Path: "/v1/debug/dump",
		GET:  getDump,
	}
)

func sysInfo(c *Command, r *http.Request) Response {
	return SyncResponse(map[string]interface{}{
		"version": c.d.Version,
	})
}

func getPolicy(c *Command, r *http.Request) Response {
	query := r.URL.Query()

	service := query.Get("service")
	if service == "" {
		return BadRequest("service parameter is required")
	}
	enabled, err := strconv.ParseBool(query.Get("enabled"))
	if err != nil {
		return BadRequest("enabled parameter is required and must be a boolean")
	}

	// unknown services intentionally fall through to the policy's
	// global-state default
	state := c.d.policy.PowerSaveState(policy.ServiceType(service), enabled)
	return SyncResponse(state)
}

type flagsInfo struct {
	VibrationDisabled        bool    `json:"vibration-disabled"`
	AnimationDisabled        bool    `json:"animation-disabled"`
	SoundTriggerDisabled     bool    `json:"soundtrigger-disabled"`
	FullBackupDeferred       bool    `json:"fullbackup-deferred"`
	KeyValueBackupDeferred   bool    `json:"keyvaluebackup-deferred"`
	FirewallDisabled         bool    `json:"firewall-disabled"`
	AdjustBrightnessDisabled bool    `json:"adjust-brightness-disabled"`
	AdjustBrightnessFactor   float64 `json:"adjust-brightness-factor"`
	DataSaverDisabled        bool    `json:"datasaver-disabled"`
	LaunchBoostDisabled      bool    `json:"launch-boost-disabled"`
	ForceAllAppsStandby      bool    `json:"force-all-apps-standby"`
	ForceBackgroundCheck     bool    `json:"force-background-check"`
	OptionalSensorsDisabled  bool    `json:"optional-sensors-disabled"`
	GPSMode                  int     `json:"gps-mode"`
	EventLogKeys             string  `json:"event-log-keys"`
}

func getFlags(c *Command, r *http.Request) Response {
	f := c.d.policy.Flags()
	return SyncResponse(&flagsInfo{
		VibrationDisabled:        f.VibrationDisabled,
		AnimationDisabled:        f.AnimationDisabled,
		SoundTriggerDisabled:     f.SoundTriggerDisabled,
		FullBackupDeferred:       f.FullBackupDeferred,
		KeyValueBackupDeferred:   f.KeyValueBackupDeferred,
		FirewallDisabled:         f.FirewallDisabled,
		AdjustBrightnessDisabled: f.AdjustBrightnessDisabled,
		AdjustBrightnessFactor:   f.AdjustBrightnessFactor,
		DataSaverDisabled:        f.DataSaverDisabled,
		LaunchBoostDisabled:      f.LaunchBoostDisabled,
		ForceAllAppsStandby:      f.ForceAllAppsStandby,
		ForceBackgroundCheck:     f.ForceBackgroundCheck,
		OptionalSensorsDisabled:  f.OptionalSensorsDisabled,
		GPSMode:                  f.GPSMode,
		EventLogKeys:             f.EventLogKeys(),
	})
}

func getFiles(c *Command, r *http.Request) Response {
	interactive, err := strconv.ParseBool(r.URL.Query().Get("interactive"))
	if err != nil {
		return BadRequest("interactive parameter is required and must be a boolean")
	}
	return SyncResponse(c.d.policy.FileValues(interactive))
}

func getDump(c *Command, r *http.Request) Response {
	var buf bytes.Buffer
	c.d.policy.Dump(&buf)
	return SyncResponse(buf.String())
}
