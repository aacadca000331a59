package award

// Engine holds the matching rules. It is stateless apart from the program
// table and safe for concurrent use.
type Engine struct {
	programs ProgramTable
}

func NewEngine(programs ProgramTable) *Engine {
	return &Engine{programs: programs}
}

// FindEligibleOptions returns every record that is bookable in cabin for at
// most budgetMiles. Records from unknown programs and records whose cost is
// missing, non-numeric or not positive are dropped without error.
func (e *Engine) FindEligibleOptions(records []AvailabilityRecord, budgetMiles int64, cabin Cabin) []AdmissibleRecord {
	out := make([]AdmissibleRecord, 0, len(records))
	for _, r := range records {
		if opt, ok := e.admissible(r, budgetMiles, cabin); ok {
			out = append(out, opt)
		}
	}
	return out
}

func (e *Engine) admissible(r AvailabilityRecord, budgetMiles int64, cabin Cabin) (AdmissibleRecord, bool) {
	program, known := e.programs.Capability(r.Source)
	if !known {
		return AdmissibleRecord{}, false
	}

	avail := r.Cabin(cabin)
	if !avail.Available {
		return AdmissibleRecord{}, false
	}

	cost, ok := avail.MileageCost.Value()
	if !ok || cost <= 0 || cost > float64(budgetMiles) {
		return AdmissibleRecord{}, false
	}

	return AdmissibleRecord{
		Date:     r.Date,
		Cabin:    cabin,
		Cost:     cost,
		Source:   r.Source,
		Direct:   avail.Direct,
		RecordID: r.ID,
		Program:  program,
		Record:   r,
	}, true
}
