// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build linux

package term

import "golang.org/x/sys/unix"

func readSpecialChars(fd int) SpecialChars {
	tio, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return SpecialChars{}
	}
	return SpecialChars{
		Erase:       rune(tio.Cc[unix.VERASE]),
		WordErase:   rune(tio.Cc[unix.VWERASE]),
		Kill:        rune(tio.Cc[unix.VKILL]),
		LiteralNext: rune(tio.Cc[unix.VLNEXT]),
	}
}
