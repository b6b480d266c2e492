package block

// Alignment is the mandatory payload alignment: every returned payload
// pointer sits on a 16-byte (double-word) boundary, matching common
// SSE/x64 alignment requirements.
const Alignment = 16

// PointerWidth is the size in bytes of one in-object pointer word;
// this module targets 64-bit address spaces.
const PointerWidth = 8

// PadBefore returns the number of padding bytes needed so that
// addr+PadBefore(addr) is a multiple of Alignment.
func PadBefore(addr uintptr) uintptr {
	return (Alignment - (addr % Alignment)) % Alignment
}
