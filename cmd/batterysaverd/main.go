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
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/godbus/dbus/v5"
	"github.com/jessevdk/go-flags"
	"github.com/mvo5/goconfigparser"

	"github.com/snapcore/batterysaverd/daemon"
	"github.com/snapcore/batterysaverd/dirs"
	"github.com/snapcore/batterysaverd/logger"
	"github.com/snapcore/batterysaverd/policy"
	"github.com/snapcore/batterysaverd/settings"
)

var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr

	version = "0.1"
)

type cmdOptions struct {
	ConfigFile   string `long:"config" description:"daemon configuration file"`
	SettingsFile string `long:"settings" description:"settings file to read the battery saver constants from"`
	UseDBus      bool   `long:"dbus" description:"read the battery saver constants from the system settings service"`
	Socket       string `long:"socket" description:"socket to serve the policy API on"`
	Version      bool   `long:"version" description:"print the version and exit"`
}

var opts cmdOptions

const (
	shortHelp = "Battery saver policy daemon"
	longHelp  = `
batterysaverd decides, per service, whether battery saver restrictions
apply and with what parameters, driven by the externally managed
battery saver settings.
`
)

func init() {
	if err := logger.SimpleSetup(); err != nil {
		fmt.Fprintf(Stderr, "WARNING: failed to activate logging: %v\n", err)
	}
}

// daemonConfig is the content of the batterysaverd.conf ini file.
type daemonConfig struct {
	Socket                string
	SettingsFile          string
	UseDBus               bool
	DeviceSpecificDefault string
}

// loadConfig reads the daemon configuration, applying defaults for a
// missing file or missing options.
func loadConfig(path string) (*daemonConfig, error) {
	conf := &daemonConfig{
		Socket:       dirs.BatterySaverdSocket,
		SettingsFile: dirs.BatterySaverdConfFile + ".settings",
	}

	cfg := goconfigparser.New()
	if err := cfg.ReadFile(path); err != nil {
		if os.IsNotExist(err) {
			return conf, nil
		}
		return nil, fmt.Errorf("cannot read configuration %s: %v", path, err)
	}

	if v, err := cfg.Get("daemon", "socket"); err == nil {
		conf.Socket = v
	}
	if v, err := cfg.Get("daemon", "settings-file"); err == nil {
		conf.SettingsFile = v
	}
	if v, err := cfg.Getbool("daemon", "use-dbus"); err == nil {
		conf.UseDBus = v
	}
	if v, err := cfg.Get("policy", "device-specific-constants"); err == nil {
		conf.DeviceSpecificDefault = v
	}

	return conf, nil
}

func parseArgs(args []string) error {
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.ShortDescription = shortHelp
	parser.LongDescription = longHelp

	_, err := parser.ParseArgs(args)
	return err
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if err := parseArgs(args); err != nil {
		return err
	}
	if opts.Version {
		fmt.Fprintf(Stdout, "batterysaverd %s\n", version)
		return nil
	}

	confFile := opts.ConfigFile
	if confFile == "" {
		confFile = dirs.BatterySaverdConfFile
	}
	conf, err := loadConfig(confFile)
	if err != nil {
		return err
	}
	// command line options win over the configuration file
	if opts.SettingsFile != "" {
		conf.SettingsFile = opts.SettingsFile
		conf.UseDBus = false
	}
	if opts.UseDBus {
		conf.UseDBus = true
	}
	if opts.Socket != "" {
		conf.Socket = opts.Socket
	}

	var store settings.Store
	if conf.UseDBus {
		conn, err := dbus.SystemBus()
		if err != nil {
			return fmt.Errorf("cannot connect to the system bus: %v", err)
		}
		store = settings.NewDBusStore(conn)
	} else {
		store = settings.NewFileStore(conf.SettingsFile)
	}

	p := policy.New(conf.DeviceSpecificDefault)
	if err := p.SystemReady(store); err != nil {
		return err
	}
	defer p.Stop()
	logger.Noticef("battery saver policy ready: %s", p.EventLogString())

	d := daemon.New(p, conf.Socket)
	d.Version = version
	if err := d.Init(); err != nil {
		return err
	}
	d.Start()

	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	logger.Noticef("exiting on %s", sig)

	return d.Stop()
}
