package audio

/*
#cgo LDFLAGS: -framework CoreAudio -framework CoreFoundation
#include <CoreAudio/CoreAudio.h>
#include <stdlib.h>
#include <string.h>

// set_default_device_named makes the CoreAudio device with the given name the
// system default for the requested scope. Returns noErr on success and
// kAudioHardwareBadDeviceError when no device matches the name.
static OSStatus set_default_device_named(const char *name, int is_input) {
    AudioObjectPropertyAddress list_addr = {
        kAudioHardwarePropertyDevices,
        kAudioObjectPropertyScopeGlobal,
        kAudioObjectPropertyElementMain,
    };

    UInt32 size = 0;
    OSStatus st = AudioObjectGetPropertyDataSize(kAudioObjectSystemObject, &list_addr, 0, NULL, &size);
    if (st != noErr) {
        return st;
    }

    AudioDeviceID devices[128];
    UInt32 count = size / sizeof(AudioDeviceID);
    if (count > 128) {
        count = 128;
    }
    size = count * sizeof(AudioDeviceID);

    st = AudioObjectGetPropertyData(kAudioObjectSystemObject, &list_addr, 0, NULL, &size, devices);
    if (st != noErr) {
        return st;
    }

    for (UInt32 i = 0; i < count; i++) {
        AudioObjectPropertyAddress name_addr = {
            kAudioDevicePropertyDeviceNameCFString,
            kAudioObjectPropertyScopeGlobal,
            kAudioObjectPropertyElementMain,
        };

        CFStringRef cf_name = NULL;
        UInt32 name_size = sizeof(cf_name);
        if (AudioObjectGetPropertyData(devices[i], &name_addr, 0, NULL, &name_size, &cf_name) != noErr || cf_name == NULL) {
            continue;
        }

        char buf[256];
        Boolean ok = CFStringGetCString(cf_name, buf, sizeof(buf), kCFStringEncodingUTF8);
        CFRelease(cf_name);
        if (!ok || strcmp(buf, name) != 0) {
            continue;
        }

        AudioObjectPropertyAddress default_addr = {
            is_input ? kAudioHardwarePropertyDefaultInputDevice
                     : kAudioHardwarePropertyDefaultOutputDevice,
            kAudioObjectPropertyScopeGlobal,
            kAudioObjectPropertyElementMain,
        };

        AudioDeviceID dev = devices[i];
        return AudioObjectSetPropertyData(kAudioObjectSystemObject, &default_addr, 0, NULL, sizeof(dev), &dev);
    }

    return kAudioHardwareBadDeviceError;
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// setSystemDefaultDevice makes the named device the system default for the
// direction. PortAudio device names match the CoreAudio names on macOS, so
// the lookup is by name rather than by index.
func setSystemDefaultDevice(name string, dir Direction) error {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	isInput := C.int(0)
	if dir == Input {
		isInput = 1
	}

	if status := C.set_default_device_named(cName, isInput); status != C.noErr {
		return fmt.Errorf("CoreAudio rejected default-device change (status %d)", int(status))
	}

	return nil
}
