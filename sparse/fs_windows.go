//go:build windows
// +build windows

package sparse

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// CTL_CODE(FILE_DEVICE_FILE_SYSTEM, 49, METHOD_BUFFERED, FILE_SPECIAL_ACCESS)
const fsctlSetSparse = 0x000900c4

var procGetCompressedFileSizeW = windows.NewLazySystemDLL("kernel32.dll").NewProc("GetCompressedFileSizeW")

func setSparse(f *os.File) error {
	var returned uint32
	return windows.DeviceIoControl(windows.Handle(f.Fd()), fsctlSetSparse, nil, 0, nil, 0, &returned, nil)
}

// allocated uses GetCompressedFileSizeW, which reports the on-disk size of
// sparse and compressed files.
func allocated(f *os.File) (int64, error) {
	name, err := windows.UTF16PtrFromString(f.Name())
	if err != nil {
		return 0, err
	}
	var high uint32
	r1, _, e1 := procGetCompressedFileSizeW.Call(uintptr(unsafe.Pointer(name)), uintptr(unsafe.Pointer(&high)))
	low := uint32(r1)
	if low == 0xffffffff && e1 != windows.ERROR_SUCCESS {
		return 0, e1
	}
	return int64(high)<<32 | int64(low), nil
}
