package events

const (
	StreamName   = "STAFFING_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectRunCreated(runID string) string   { return "staffing.run." + runID + ".created" }
func SubjectRunStarted(runID string) string   { return "staffing.run." + runID + ".started" }
func SubjectRunCompleted(runID string) string { return "staffing.run." + runID + ".completed" }
func SubjectRunFailed(runID string) string    { return "staffing.run." + runID + ".failed" }
func SubjectRunExported(runID string) string  { return "staffing.run." + runID + ".exported" }

func SubjectEmployeeUpserted(employeeID string) string {
	return "staffing.roster.employee." + employeeID + ".upserted"
}

func SubjectProjectUpserted(projectID string) string {
	return "staffing.roster.project." + projectID + ".upserted"
}
