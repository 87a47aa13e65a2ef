//go:build !customloads_debug

package ammo

var strictInvariants = false
