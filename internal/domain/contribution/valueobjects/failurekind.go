package valueobjects

// FailureKind is the reason code carried by every non-successful attempt.
type FailureKind string

const (
	FailureKindValidation          FailureKind = "validation_error"
	FailureKindScriptLoadFailed    FailureKind = "script_load_failed"
	FailureKindOrderCreationFailed FailureKind = "order_creation_failed"
	FailureKindVerificationFailed  FailureKind = "verification_failed"
	FailureKindCancelled           FailureKind = "cancelled"
)

func (k FailureKind) IsValid() bool {
	switch k {
	case FailureKindValidation, FailureKindScriptLoadFailed, FailureKindOrderCreationFailed,
		FailureKindVerificationFailed, FailureKindCancelled:
		return true
	default:
		return false
	}
}

// IsRetrySafe reports whether the donor can start a fresh attempt without
// risking a second charge.
func (k FailureKind) IsRetrySafe() bool {
	switch k {
	case FailureKindValidation, FailureKindScriptLoadFailed, FailureKindOrderCreationFailed, FailureKindCancelled:
		return true
	default:
		return false
	}
}

// RequiresSupport reports whether money may have moved without confirmation.
func (k FailureKind) RequiresSupport() bool {
	return k == FailureKindVerificationFailed
}

func (k FailureKind) String() string {
	return string(k)
}
