//go:build linux || darwin

package io

import (
	"os"

	"golang.org/x/sys/unix"
)

// Terminal holds the termios state saved by MakeRaw so the host can restore
// the terminal on exit.
type Terminal struct {
	fd    int
	saved unix.Termios
}

// MakeRaw switches the terminal behind f into raw mode: no echo, no line
// buffering, and non-blocking reads (VMIN=0, VTIME=0) so that Stdio's
// ReadChar honors the Console contract of never stalling.
func MakeRaw(f *os.File) (term *Terminal, err error) {
	fd := int(f.Fd())

	termios, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return
	}

	term = &Terminal{fd: fd, saved: *termios}

	termstate := *termios
	termstate.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR
	termstate.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	termstate.Cflag &^= unix.CSIZE | unix.PARENB
	termstate.Cflag |= unix.CS8
	termstate.Cc[unix.VMIN] = 0
	termstate.Cc[unix.VTIME] = 0

	err = unix.IoctlSetTermios(fd, ioctlWriteTermios, &termstate)
	if err != nil {
		term = nil
	}

	return
}

// Restore puts the terminal back into the state saved by MakeRaw.
func (term *Terminal) Restore() error {
	return unix.IoctlSetTermios(term.fd, ioctlWriteTermios, &term.saved)
}
