package catalog

// Satisfaction checks a requirement can name. The analyzer evaluates them
// against project data; an empty check means the requirement is satisfied by
// including its mandatory clause.
const (
	CheckClauseInclusion    = ""
	CheckWrittenContract    = "written_contract"
	CheckLicensePresent     = "license_present"
	CheckDepositLimit       = "deposit_limit"
	CheckInsuranceConfirmed = "insurance_confirmed"
	CheckTimelinePresent    = "timeline_present"
	CheckClientIdentified   = "client_identified"
)

var knownChecks = map[string]bool{
	CheckClauseInclusion:    true,
	CheckWrittenContract:    true,
	CheckLicensePresent:     true,
	CheckDepositLimit:       true,
	CheckInsuranceConfirmed: true,
	CheckTimelinePresent:    true,
	CheckClientIdentified:   true,
}

// KnownCheck reports whether name is a check the analyzer can evaluate.
func KnownCheck(name string) bool {
	return knownChecks[name]
}
