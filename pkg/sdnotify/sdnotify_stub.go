//go:build !linux

package sdnotify

func Ready()          {}
func Stopping()       {}
func Status(_ string) {}
