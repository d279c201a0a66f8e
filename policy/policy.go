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

// Package policy decides, per service, whether battery saver
// restrictions apply and with what parameters.
//
// The decisions are driven by two comma separated key=value settings
// strings supplied by an external settings store, re-parsed into an
// immutable snapshot on every settings change notification.
package policy

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/snapcore/batterysaverd/cpufreq"
	"github.com/snapcore/batterysaverd/logger"
	"github.com/snapcore/batterysaverd/settings"
	"github.com/snapcore/batterysaverd/strutil"
)

const (
	keyVibrationDisabled        = "vibration_disabled"
	keyAnimationDisabled        = "animation_disabled"
	keySoundTriggerDisabled     = "soundtrigger_disabled"
	keyFullBackupDeferred       = "fullbackup_deferred"
	keyKeyValueBackupDeferred   = "keyvaluebackup_deferred"
	keyFirewallDisabled         = "firewall_disabled"
	keyAdjustBrightnessDisabled = "adjust_brightness_disabled"
	keyAdjustBrightnessFactor   = "adjust_brightness_factor"
	keyDataSaverDisabled        = "datasaver_disabled"
	keyLaunchBoostDisabled      = "launch_boost_disabled"
	keyForceAllAppsStandby      = "force_all_apps_standby"
	keyForceBackgroundCheck     = "force_background_check"
	keyOptionalSensorsDisabled  = "optional_sensors_disabled"
	keyGPSMode                  = "gps_mode"

	keyCPUFreqInteractive    = "cpufreq-i"
	keyCPUFreqNoninteractive = "cpufreq-n"
)

// Flags is the parsed snapshot of all battery saver settings. It is
// immutable once constructed; a settings change produces a whole new
// snapshot.
type Flags struct {
	VibrationDisabled        bool
	AnimationDisabled        bool
	SoundTriggerDisabled     bool
	FullBackupDeferred       bool
	KeyValueBackupDeferred   bool
	FirewallDisabled         bool
	AdjustBrightnessDisabled bool
	AdjustBrightnessFactor   float64
	DataSaverDisabled        bool
	LaunchBoostDisabled      bool
	ForceAllAppsStandby      bool
	ForceBackgroundCheck     bool
	OptionalSensorsDisabled  bool
	GPSMode                  int

	// FilesForInteractive and FilesForNoninteractive map sysfs files
	// to the content to write to them when battery saver kicks in
	// with the screen on resp. off. Callers must not modify them.
	FilesForInteractive    map[string]string
	FilesForNoninteractive map[string]string

	eventLogKeys string
}

// parseConstants parses the main and the device specific settings
// strings into a fresh snapshot. It never fails: unparsable input is
// logged and replaced with defaults. It performs no I/O, the default
// GPS mode is resolved by the caller.
func parseConstants(setting, deviceSetting string, defaultGPSMode int) *Flags {
	kv, err := strutil.ParseKeyValues(setting)
	if err != nil {
		logger.Noticef("cannot parse battery saver constants %q: %v", setting, err)
		kv = nil
	}

	f := &Flags{
		VibrationDisabled:        kv.GetBool(keyVibrationDisabled, true),
		AnimationDisabled:        kv.GetBool(keyAnimationDisabled, true),
		SoundTriggerDisabled:     kv.GetBool(keySoundTriggerDisabled, true),
		FullBackupDeferred:       kv.GetBool(keyFullBackupDeferred, true),
		KeyValueBackupDeferred:   kv.GetBool(keyKeyValueBackupDeferred, true),
		FirewallDisabled:         kv.GetBool(keyFirewallDisabled, false),
		AdjustBrightnessDisabled: kv.GetBool(keyAdjustBrightnessDisabled, false),
		AdjustBrightnessFactor:   kv.GetFloat(keyAdjustBrightnessFactor, 0.5),
		DataSaverDisabled:        kv.GetBool(keyDataSaverDisabled, true),
		LaunchBoostDisabled:      kv.GetBool(keyLaunchBoostDisabled, true),
		ForceAllAppsStandby:      kv.GetBool(keyForceAllAppsStandby, true),
		ForceBackgroundCheck:     kv.GetBool(keyForceBackgroundCheck, true),
		OptionalSensorsDisabled:  kv.GetBool(keyOptionalSensorsDisabled, true),
		GPSMode:                  kv.GetInt(keyGPSMode, defaultGPSMode),
	}

	dkv, err := strutil.ParseKeyValues(deviceSetting)
	if err != nil {
		logger.Noticef("cannot parse device specific battery saver constants %q: %v", deviceSetting, err)
		dkv = nil
	}
	f.FilesForInteractive = parseCPUFreqFiles(dkv, keyCPUFreqInteractive)
	f.FilesForNoninteractive = parseCPUFreqFiles(dkv, keyCPUFreqNoninteractive)

	f.eventLogKeys = composeEventLogKeys(f)

	return f
}

// parseCPUFreqFiles parses a CPU frequency cap list into a sysfs file
// mapping. A malformed list is logged and discarded as a whole, rather
// than applying a partial set of caps.
func parseCPUFreqFiles(kv strutil.KeyValues, key string) map[string]string {
	freqs, err := cpufreq.Parse(kv.GetString(key, ""))
	if err != nil {
		logger.Noticef("cannot parse %s: %v", key, err)
		return map[string]string{}
	}
	return freqs.SysFileMap()
}

// composeEventLogKeys derives the short event log summary, one letter
// per active restriction plus the gps mode digit. The order is fixed
// for log compatibility.
func composeEventLogKeys(f *Flags) string {
	var sb strings.Builder

	if f.ForceAllAppsStandby {
		sb.WriteString("A")
	}
	if f.ForceBackgroundCheck {
		sb.WriteString("B")
	}

	if f.VibrationDisabled {
		sb.WriteString("v")
	}
	if f.AnimationDisabled {
		sb.WriteString("a")
	}
	if f.SoundTriggerDisabled {
		sb.WriteString("s")
	}
	if f.FullBackupDeferred {
		sb.WriteString("F")
	}
	if f.KeyValueBackupDeferred {
		sb.WriteString("K")
	}
	if !f.FirewallDisabled {
		sb.WriteString("f")
	}
	if !f.DataSaverDisabled {
		sb.WriteString("d")
	}
	if !f.AdjustBrightnessDisabled {
		sb.WriteString("b")
	}

	if f.LaunchBoostDisabled {
		sb.WriteString("l")
	}
	if f.OptionalSensorsDisabled {
		sb.WriteString("S")
	}

	sb.WriteString(strconv.Itoa(f.GPSMode))

	return sb.String()
}

// EventLogKeys returns the short summary of the active restrictions.
func (f *Flags) EventLogKeys() string {
	return f.eventLogKeys
}

// PowerSaveState returns the battery saver decision for the given
// service, with globalEnabled stating whether battery saver is on
// device-wide.
func (f *Flags) PowerSaveState(service ServiceType, globalEnabled bool) PowerSaveState {
	state := PowerSaveState{GlobalEnabled: globalEnabled}
	if !globalEnabled {
		return state
	}
	switch service {
	case ServiceGPS:
		state.Enabled = true
		state.GPSMode = f.GPSMode
	case ServiceAnimation:
		state.Enabled = f.AnimationDisabled
	case ServiceFullBackup:
		state.Enabled = f.FullBackupDeferred
	case ServiceKeyValueBackup:
		state.Enabled = f.KeyValueBackupDeferred
	case ServiceNetworkFirewall:
		state.Enabled = !f.FirewallDisabled
	case ServiceScreenBrightness:
		state.Enabled = !f.AdjustBrightnessDisabled
		state.BrightnessFactor = f.AdjustBrightnessFactor
	case ServiceDataSaver:
		state.Enabled = !f.DataSaverDisabled
	case ServiceSound:
		state.Enabled = f.SoundTriggerDisabled
	case ServiceVibration:
		state.Enabled = f.VibrationDisabled
	case ServiceForceAllAppsStandby:
		state.Enabled = f.ForceAllAppsStandby
	case ServiceForceBackgroundCheck:
		state.Enabled = f.ForceBackgroundCheck
	case ServiceOptionalSensors:
		state.Enabled = f.OptionalSensorsDisabled
	default:
		// unknown services follow the global state
		state.Enabled = globalEnabled
	}
	return state
}

// A Listener is notified after every successful settings re-parse.
type Listener interface {
	BatterySaverPolicyChanged(p *BatterySaverPolicy)
}

// BatterySaverPolicy holds the current battery saver settings snapshot
// and answers per-service policy queries against it.
type BatterySaverPolicy struct {
	mu sync.Mutex

	store     settings.Store
	stopWatch func()

	flags                *Flags
	rawSettings          string
	rawDeviceSettings    string
	deviceSettingsSource string

	deviceSpecificDefault string

	listeners []Listener
}

// New returns a policy with all settings at their defaults.
// deviceSpecificDefault is used in place of the device specific
// settings when the store leaves them unset.
func New(deviceSpecificDefault string) *BatterySaverPolicy {
	return &BatterySaverPolicy{
		flags:                 parseConstants("", deviceSpecificDefault, GPSModeNoChange),
		deviceSettingsSource:  "(default)",
		rawDeviceSettings:     deviceSpecificDefault,
		deviceSpecificDefault: deviceSpecificDefault,
	}
}

// SystemReady attaches the policy to its settings store, registers for
// change notifications if the store supports them and performs the
// first parse.
func (p *BatterySaverPolicy) SystemReady(store settings.Store) error {
	p.mu.Lock()
	p.store = store
	p.mu.Unlock()

	if w, ok := store.(settings.Watcher); ok {
		stop, err := w.Watch(p.ConstantsChanged)
		if err != nil {
			return fmt.Errorf("cannot watch settings: %v", err)
		}
		p.mu.Lock()
		p.stopWatch = stop
		p.mu.Unlock()
	}

	p.ConstantsChanged()
	return nil
}

// Stop detaches the policy from settings change notifications.
func (p *BatterySaverPolicy) Stop() {
	p.mu.Lock()
	stop := p.stopWatch
	p.stopWatch = nil
	p.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// AddListener registers a listener called after every settings
// re-parse.
func (p *BatterySaverPolicy) AddListener(l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

// ConstantsChanged re-reads the settings strings from the store,
// replaces the snapshot and notifies the listeners. It returns once
// the new snapshot is visible to queries.
func (p *BatterySaverPolicy) ConstantsChanged() {
	p.mu.Lock()
	store := p.store
	deviceDefault := p.deviceSpecificDefault
	p.mu.Unlock()
	if store == nil {
		return
	}

	// all store reads happen before the lock is taken, the parser
	// itself never does I/O
	setting := getSetting(store, settings.KeyBatterySaverConstants)

	deviceSetting := getSetting(store, settings.KeyDeviceSpecificConstants)
	deviceSettingsSource := settings.KeyDeviceSpecificConstants
	if deviceSetting == "" || deviceSetting == "null" {
		deviceSetting = deviceDefault
		deviceSettingsSource = "(default)"
	}

	defaultGPSMode := GPSModeNoChange
	if v := getSetting(store, settings.KeyGPSMode); v != "" {
		if mode, err := strconv.Atoi(v); err == nil {
			defaultGPSMode = mode
		}
	}

	flags := parseConstants(setting, deviceSetting, defaultGPSMode)

	p.mu.Lock()
	p.rawSettings = setting
	p.rawDeviceSettings = deviceSetting
	p.deviceSettingsSource = deviceSettingsSource
	p.flags = flags
	listeners := make([]Listener, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	logger.Debugf("battery saver policy updated: %s", flags.EventLogKeys())

	// notify outside the lock so that listeners can query the policy
	for _, l := range listeners {
		l.BatterySaverPolicyChanged(p)
	}
}

func getSetting(store settings.Store, key string) string {
	v, err := store.Get(key)
	if err != nil {
		logger.Noticef("cannot read setting %s: %v", key, err)
		return ""
	}
	return v
}

// Flags returns the current settings snapshot.
func (p *BatterySaverPolicy) Flags() *Flags {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flags
}

// PowerSaveState returns the battery saver decision for the given
// service against the current snapshot.
func (p *BatterySaverPolicy) PowerSaveState(service ServiceType, globalEnabled bool) PowerSaveState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flags.PowerSaveState(service, globalEnabled)
}

// FileValues returns the sysfs files to write when battery saver is
// activated with the screen on resp. off. Callers must not modify the
// returned map.
func (p *BatterySaverPolicy) FileValues(interactive bool) map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if interactive {
		return p.flags.FilesForInteractive
	}
	return p.flags.FilesForNoninteractive
}

// IsLaunchBoostDisabled reports whether app launch boost should be
// disabled while battery saver is on.
func (p *BatterySaverPolicy) IsLaunchBoostDisabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flags.LaunchBoostDisabled
}

// EventLogString returns the short summary of the active restrictions
// for the event log.
func (p *BatterySaverPolicy) EventLogString() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flags.eventLogKeys
}

// Dump writes a human readable description of the current policy.
func (p *BatterySaverPolicy) Dump(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	f := p.flags

	fmt.Fprintf(w, "Battery saver policy\n")
	fmt.Fprintf(w, "  Settings: %s\n", settings.KeyBatterySaverConstants)
	fmt.Fprintf(w, "    value: %s\n", p.rawSettings)
	fmt.Fprintf(w, "  Settings: %s\n", p.deviceSettingsSource)
	fmt.Fprintf(w, "    value: %s\n", p.rawDeviceSettings)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  %s=%v\n", keyVibrationDisabled, f.VibrationDisabled)
	fmt.Fprintf(w, "  %s=%v\n", keyAnimationDisabled, f.AnimationDisabled)
	fmt.Fprintf(w, "  %s=%v\n", keySoundTriggerDisabled, f.SoundTriggerDisabled)
	fmt.Fprintf(w, "  %s=%v\n", keyFullBackupDeferred, f.FullBackupDeferred)
	fmt.Fprintf(w, "  %s=%v\n", keyKeyValueBackupDeferred, f.KeyValueBackupDeferred)
	fmt.Fprintf(w, "  %s=%v\n", keyFirewallDisabled, f.FirewallDisabled)
	fmt.Fprintf(w, "  %s=%v\n", keyDataSaverDisabled, f.DataSaverDisabled)
	fmt.Fprintf(w, "  %s=%v\n", keyLaunchBoostDisabled, f.LaunchBoostDisabled)
	fmt.Fprintf(w, "  %s=%v\n", keyAdjustBrightnessDisabled, f.AdjustBrightnessDisabled)
	fmt.Fprintf(w, "  %s=%v\n", keyAdjustBrightnessFactor, f.AdjustBrightnessFactor)
	fmt.Fprintf(w, "  %s=%v\n", keyGPSMode, f.GPSMode)
	fmt.Fprintf(w, "  %s=%v\n", keyForceAllAppsStandby, f.ForceAllAppsStandby)
	fmt.Fprintf(w, "  %s=%v\n", keyForceBackgroundCheck, f.ForceBackgroundCheck)
	fmt.Fprintf(w, "  %s=%v\n", keyOptionalSensorsDisabled, f.OptionalSensorsDisabled)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Interactive file values:\n")
	dumpFileMap(w, "    ", f.FilesForInteractive)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Noninteractive file values:\n")
	dumpFileMap(w, "    ", f.FilesForNoninteractive)
}

func dumpFileMap(w io.Writer, prefix string, m map[string]string) {
	paths := make([]string, 0, len(m))
	for path := range m {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Fprintf(w, "%s%s: '%s'\n", prefix, path, m[path])
	}
}
