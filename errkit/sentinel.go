// Package errkit provides predefined sentinel errors for common failure cases.
package errkit

// Block/Cursor protocol errors.
var (
	// ErrNoBufferSpace indicates a Cursor allocation exceeded the Block's data area.
	ErrNoBufferSpace = &KeepError{
		Kind:   KindProtocol,
		Detail: "no buffer space",
	}

	// ErrRequestReplyConflict indicates both request and reply appeared live at once.
	ErrRequestReplyConflict = &KeepError{
		Kind:   KindProtocol,
		Detail: "request/reply exclusivity violated",
	}

	// ErrPointerOutsideData indicates an untrusted pointer did not refer to its Block's data area.
	ErrPointerOutsideData = &KeepError{
		Kind:   KindValidation,
		Detail: "pointer outside Block data area",
	}

	// ErrPointerOverlapsPrivate indicates an untrusted range overlaps Keep-private memory.
	ErrPointerOverlapsPrivate = &KeepError{
		Kind:   KindValidation,
		Detail: "pointer overlaps Keep-private memory",
	}
)

// Dispatcher errors.
var (
	// ErrUnknownSyscall indicates the syscall number has no registered handler.
	ErrUnknownSyscall = &KeepError{
		Kind:   KindUnsupported,
		Detail: "unsupported syscall",
	}

	// ErrArgumentNarrowing indicates an argument could not be narrowed to its target width.
	ErrArgumentNarrowing = &KeepError{
		Kind:   KindCoercion,
		Detail: "argument narrowing failed",
	}

	// ErrReplyOutOfContract indicates a host reply violated what the shim requested.
	ErrReplyOutOfContract = &KeepError{
		Kind:   KindAttack,
		Detail: "reply outside request contract",
	}

	// ErrBadFileDescriptor indicates an fd argument was never registered by the shim.
	ErrBadFileDescriptor = &KeepError{
		Kind:   KindValidation,
		Detail: "file descriptor not registered",
	}
)

// Builder errors.
var (
	// ErrNoMemory indicates the layout algebra overflowed or ran out of address space.
	ErrNoMemory = &KeepError{
		Kind:   KindBuilder,
		Detail: "insufficient memory for layout",
	}

	// ErrNoSallyports indicates no LOAD segment was flagged SALLYPORT.
	ErrNoSallyports = &KeepError{
		Kind:   KindBuilder,
		Detail: "no sallyport blocks defined",
	}

	// ErrSlotExhausted indicates the Keep's execution-slot pool is empty.
	ErrSlotExhausted = &KeepError{
		Kind:   KindBuilder,
		Detail: "out of execution slots",
	}

	// ErrFirmwareUpdate indicates an SNP firmware page update failed after its retry.
	ErrFirmwareUpdate = &KeepError{
		Kind:   KindFirmware,
		Detail: "firmware page update failed",
	}
)

// Backend entry/exit errors.
var (
	// ErrUnhandledExit indicates an AEX or VMEXIT reason has no defined handling.
	ErrUnhandledExit = &KeepError{
		Kind:   KindTEE,
		Detail: "unhandled exit reason",
	}

	// ErrAttacked indicates the shim or host detected a protocol violation and terminated the Keep.
	ErrAttacked = &KeepError{
		Kind:   KindAttack,
		Detail: "keep terminated: attack detected",
	}
)

// Enarx-extended syscall errors.
var (
	// ErrBalloonUnsupportedSize indicates the requested page size didn't match the host page size.
	ErrBalloonUnsupportedSize = &KeepError{
		Kind:   KindCoercion,
		Detail: "unsupported balloon page size",
	}

	// ErrBalloonMisaligned indicates the guest physical address wasn't aligned to the balloon size.
	ErrBalloonMisaligned = &KeepError{
		Kind:   KindCoercion,
		Detail: "balloon address misaligned",
	}

	// ErrMemInfoOverflow indicates the region list did not fit the Block's data area.
	ErrMemInfoOverflow = &KeepError{
		Kind:   KindProtocol,
		Detail: "memory region list exceeds buffer",
	}
)
