package enums

import "fmt"

// ContractStatus tracks the contract lifecycle. Transitions are
// caller-controlled; the orchestrator only validates membership.
type ContractStatus string

const (
	ContractStatusActive     ContractStatus = "active"
	ContractStatusInactive   ContractStatus = "inactive"
	ContractStatusExpired    ContractStatus = "expired"
	ContractStatusPending    ContractStatus = "pending"
	ContractStatusTerminated ContractStatus = "terminated"
)

var validContractStatuses = []ContractStatus{
	ContractStatusActive,
	ContractStatusInactive,
	ContractStatusExpired,
	ContractStatusPending,
	ContractStatusTerminated,
}

// String implements fmt.Stringer.
func (c ContractStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ContractStatus.
func (c ContractStatus) IsValid() bool {
	for _, candidate := range validContractStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContractStatus converts raw input into a ContractStatus.
func ParseContractStatus(value string) (ContractStatus, error) {
	for _, candidate := range validContractStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contract status %q", value)
}
