//go:build windows

package pageprovider

import (
	"golang.org/x/sys/windows"
)

func mmapAlloc(nBytes uintptr) (uintptr, error) {
	addr, err := windows.VirtualAlloc(0, nBytes, windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return 0, err
	}
	return addr, nil
}

func mmapFree(addr uintptr, _ uintptr) {
	_ = windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}
