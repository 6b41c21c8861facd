package dag

import (
	"fmt"
	"strings"
)

// EntryNotFoundError is returned when the entry module is not in the registry.
type EntryNotFoundError struct {
	Module string
}

func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("entry module %q is not among the compiled modules", e.Module)
}

// ReexportCycleError reports a cycle in the export-star reference graph.
// Chain starts and ends with the same module.
type ReexportCycleError struct {
	Chain []string
}

func (e *ReexportCycleError) Error() string {
	return fmt.Sprintf("circular export-star references cannot be flattened: %s", strings.Join(e.Chain, " -> "))
}
