package connector

import "fmt"

// UnsupportedChainError is returned when a chain id is absent from the
// configured chain list or a network switch fails.
type UnsupportedChainError struct {
	ChainID int64
	Err     error
}

func (e *UnsupportedChainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unsupported chain %d: %v", e.ChainID, e.Err)
	}
	return fmt.Sprintf("unsupported chain %d", e.ChainID)
}

func (e *UnsupportedChainError) Unwrap() error {
	return e.Err
}

// NotInitializedError is returned when an operation that needs the wallet
// instance runs before Setup.
type NotInitializedError struct {
	Op string
}

func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("torus instance not initialized: call Setup before %s", e.Op)
}
