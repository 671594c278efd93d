//go:build linux

// Package sdnotify reports daemon state to systemd when running under a
// Type=notify unit. Every call is a no-op when NOTIFY_SOCKET is unset.
package sdnotify

import "github.com/coreos/go-systemd/v22/daemon"

func Ready()    { _, _ = daemon.SdNotify(false, daemon.SdNotifyReady) }
func Stopping() { _, _ = daemon.SdNotify(false, daemon.SdNotifyStopping) }

func Status(msg string) { _, _ = daemon.SdNotify(false, "STATUS="+msg) }
