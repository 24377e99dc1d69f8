package models

// CauseType is the flood cause picked from the report form.
type CauseType string

const (
	CauseStormDrainBlockage CauseType = "Storm Drain Blockage"
	CauseOverflow           CauseType = "Well/Reservoir Overflow"
	CausePipeBurst          CauseType = "Pipe Burst"
	CauseDebris             CauseType = "Debris"
	CauseOther              CauseType = "Other"
)

// Causes lists the form choices in display order.
var Causes = []CauseType{
	CauseStormDrainBlockage,
	CauseOverflow,
	CausePipeBurst,
	CauseDebris,
	CauseOther,
}

// IsKnown reports whether c is one of the fixed form choices.
func (c CauseType) IsKnown() bool {
	for _, known := range Causes {
		if c == known {
			return true
		}
	}
	return false
}

func (c CauseType) String() string {
	return string(c)
}

const (
	MinSeverity = 1
	MaxSeverity = 5
)
