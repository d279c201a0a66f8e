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

package settings

import (
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	settingsBusName       = "io.snapcraft.Settings"
	settingsObjectPath    = dbus.ObjectPath("/io/snapcraft/Settings")
	settingsInterface     = "io.snapcraft.Settings"
	settingsChangedSignal = settingsInterface + ".SettingsChanged"
)

// DBusStore reads settings from the system settings service on the
// system bus and watches its SettingsChanged signal.
type DBusStore struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewDBusStore returns a store backed by the settings service reachable
// over the given bus connection.
//
// Note that godbus shares bus connections internally, so the caller
// must not close conn while the store is in use.
func NewDBusStore(conn *dbus.Conn) *DBusStore {
	return &DBusStore{
		conn: conn,
		obj:  conn.Object(settingsBusName, settingsObjectPath),
	}
}

// Get implements Store. A settings service that is not running behaves
// as if all keys were unset.
func (s *DBusStore) Get(key string) (string, error) {
	var value string
	err := s.obj.Call(settingsInterface+".Get", 0, key).Store(&value)
	if derr, ok := err.(dbus.Error); ok {
		if derr.Name == "org.freedesktop.DBus.Error.ServiceUnknown" {
			return "", nil
		}
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Watch implements Watcher.
func (s *DBusStore) Watch(fn func()) (stop func(), err error) {
	opts := []dbus.MatchOption{
		dbus.WithMatchSender(settingsBusName),
		dbus.WithMatchInterface(settingsInterface),
		dbus.WithMatchMember("SettingsChanged"),
	}
	if err := s.conn.AddMatchSignal(opts...); err != nil {
		return nil, err
	}

	// buffered so that we cannot miss signals delivered while fn runs
	ch := make(chan *dbus.Signal, 16)
	s.conn.Signal(ch)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case sig, ok := <-ch:
				if !ok {
					return
				}
				if sig.Name == settingsChangedSignal {
					fn()
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.conn.RemoveMatchSignal(opts...)
			s.conn.RemoveSignal(ch)
			close(done)
		})
	}, nil
}
