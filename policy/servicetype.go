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

package policy

// ServiceType identifies a service category affected by battery saver.
type ServiceType string

const (
	ServiceGPS                  ServiceType = "gps"
	ServiceAnimation            ServiceType = "animation"
	ServiceFullBackup           ServiceType = "full-backup"
	ServiceKeyValueBackup       ServiceType = "keyvalue-backup"
	ServiceNetworkFirewall      ServiceType = "network-firewall"
	ServiceScreenBrightness     ServiceType = "screen-brightness"
	ServiceDataSaver            ServiceType = "data-saver"
	ServiceSound                ServiceType = "sound"
	ServiceVibration            ServiceType = "vibration"
	ServiceForceAllAppsStandby  ServiceType = "force-all-apps-standby"
	ServiceForceBackgroundCheck ServiceType = "force-background-check"
	ServiceOptionalSensors      ServiceType = "optional-sensors"
)

// KnownServiceTypes lists all service types the policy knows about, in
// a stable order.
var KnownServiceTypes = []ServiceType{
	ServiceGPS,
	ServiceAnimation,
	ServiceFullBackup,
	ServiceKeyValueBackup,
	ServiceNetworkFirewall,
	ServiceScreenBrightness,
	ServiceDataSaver,
	ServiceSound,
	ServiceVibration,
	ServiceForceAllAppsStandby,
	ServiceForceBackgroundCheck,
	ServiceOptionalSensors,
}

// GPS behavior while battery saver is on, see the gps_mode setting.
const (
	// GPSModeNoChange leaves GPS unaffected by battery saver.
	GPSModeNoChange = 0
	// GPSModeDisabledWhenScreenOff disables GPS while battery saver
	// is on and the screen is off.
	GPSModeDisabledWhenScreenOff = 1
)

// PowerSaveState is the per-service battery saver decision.
type PowerSaveState struct {
	// GlobalEnabled reports whether battery saver is on device-wide.
	GlobalEnabled bool `json:"global-enabled"`
	// Enabled reports whether this service should apply its battery
	// saver restriction.
	Enabled bool `json:"enabled"`
	// GPSMode carries the gps_mode setting for ServiceGPS.
	GPSMode int `json:"gps-mode"`
	// BrightnessFactor carries the brightness scale, in [0,1], for
	// ServiceScreenBrightness.
	BrightnessFactor float64 `json:"brightness-factor"`
}
