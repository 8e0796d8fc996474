package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Семантические: readonly
	SemaInfo                        Code = 3000
	SemaMutabilityMismatch          Code = 3001
	SemaReadonlyAssignmentViolation Code = 3002
	SemaReturnMutabilityViolation   Code = 3003

	// Ввод-вывод
	IOInfo        Code = 4000
	IOLoadError   Code = 4001
	IODecodeError Code = 4002

	// Наблюдаемость
	ObsInfo    Code = 5000
	ObsTimings Code = 5001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                     "Unknown error",
		SemaInfo:                        "Semantic information",
		SemaMutabilityMismatch:          "Local re-assigned with a different mutability",
		SemaReadonlyAssignmentViolation: "Write through a readonly value",
		SemaReturnMutabilityViolation:   "Readonly value returned from a mutable-return scope",
		IOInfo:                          "I/O information",
		IOLoadError:                     "Failed to read input",
		IODecodeError:                   "Malformed tree document",
		ObsInfo:                         "Observability information",
		ObsTimings:                      "Phase timings",
	}
	codeByID = func() map[string]Code {
		m := make(map[string]Code, len(codeDescription))
		for c := range codeDescription {
			m[c.ID()] = c
		}
		return m
	}()
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// ParseCode maps an ID such as "SEM3001" back to its Code.
func ParseCode(id string) (Code, bool) {
	c, ok := codeByID[id]
	return c, ok
}
