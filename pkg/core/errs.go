package core

// RejectReason classifies why a wallet-registration line was refused.
type RejectReason string

const (
	RejectInvalidAddress   RejectReason = "invalid_address"
	RejectNicknameTooLong  RejectReason = "nickname_too_long"
	RejectCapacityExceeded RejectReason = "capacity_exceeded"
)
